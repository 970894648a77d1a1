package sink

import "errors"

// Sentinel kinds for artifact errors. These are process-level failures and
// terminate the run, unlike per-record drops.
var (
	ErrCreateOutputDir = errors.New("create output directory failed")
	ErrWriteArtifact   = errors.New("write artifact failed")
)
