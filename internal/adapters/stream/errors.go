package stream

import "errors"

// Sentinel kinds for stream errors.
var (
	ErrOpenInput = errors.New("open input failed")
	ErrReadInput = errors.New("read input failed")
)
