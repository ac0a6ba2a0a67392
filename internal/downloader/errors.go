package downloader

import (
	"fmt"

	"github.com/rohmanhakim/recipe-crawler/pkg/failure"
)

// Error is a DownloadFailed cause: any non-2xx response or any
// network/TLS transport error terminates the URL, per spec.md §4.4 —
// there is no retry classification at this layer, unlike the
// teacher's fetcher.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("downloader: %s", e.Message)
}

// Severity is always Fatal: spec.md §7 states no URL is retried
// automatically by the downloader itself.
func (e *Error) Severity() failure.Severity {
	return failure.SeverityFatal
}

func newError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}
