package extractor

import (
	"fmt"

	"github.com/rohmanhakim/recipe-crawler/internal/metadata"
	"github.com/rohmanhakim/recipe-crawler/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseParseFailure ErrorCause = "schema block failed to parse as JSON"
	ErrCauseNoGraphMatch ErrorCause = "@graph present but is not an array"
)

// Error is an ExtractParse failure: the schema block was found but
// failed to parse, or its @graph value was not an array. Both are
// terminal ExtractionFailed per spec.md §7. An @graph array with no
// Recipe element is not an error: Extract returns (nil, nil) for it.
type Error struct {
	Message string
	Cause   ErrorCause
}

func (e *Error) Error() string {
	return fmt.Sprintf("extractor: %s", e.Cause)
}

func (e *Error) Severity() failure.Severity {
	return failure.SeverityFatal
}

func newError(cause ErrorCause, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// MapErrorToMetadataCause maps extractor-local error semantics to the
// canonical metadata.ErrorCause table. Observational only; must not be
// used to derive control-flow decisions.
func MapErrorToMetadataCause(err *Error) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseParseFailure, ErrCauseNoGraphMatch:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
