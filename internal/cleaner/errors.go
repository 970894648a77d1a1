package cleaner

import "errors"

// Sentinel kinds for per-record cleaning failures. All are recovered locally
// by dropping the record; none abort the run.
var (
	ErrMissingField    = errors.New("missing required field")
	ErrBadTimestamp    = errors.New("invalid timestamp")
	ErrBadNumeric      = errors.New("invalid numeric value")
	ErrImpossibleValue = errors.New("physically impossible value")
)
