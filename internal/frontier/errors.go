package frontier

import "errors"

// ErrUnknownStatus is returned when a status hash field holds a value
// outside the six recognised status strings.
var ErrUnknownStatus = errors.New("frontier: unknown status value")

// ErrNotFound is returned by the per-field lookups when the URL has
// never been added to the frontier.
var ErrNotFound = errors.New("frontier: url not found")
