package cleaner

import (
	"context"

	"github.com/okian/plume/pkg/logger"
)

const percentMultiplier = 100.0

// Stats is the audit accumulator for one cleaning run. It is owned by the
// run, returned with the result, and logged at the end.
type Stats struct {
	Total       int64
	Valid       int64
	Dropped     int64
	Corrected   int64
	ParseErrors int64
	Duplicates  int64
}

// SuccessRate returns valid/total as a percentage.
func (s Stats) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Valid) / float64(s.Total) * percentMultiplier
}

// OutputRate returns (valid - duplicates)/total as a percentage: the share of
// seen records that made it into the final table.
func (s Stats) OutputRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Valid-s.Duplicates) / float64(s.Total) * percentMultiplier
}

// OutputRecords returns the number of rows in the final table.
func (s Stats) OutputRecords() int64 {
	return s.Valid - s.Duplicates
}

// LogSummary writes the processing summary to log.
func (s Stats) LogSummary(ctx context.Context, log logger.Logger) {
	log.Info(ctx, "processing summary",
		logger.Int64("total_records", s.Total),
		logger.Int64("valid_records", s.Valid),
		logger.Int64("dropped_records", s.Dropped),
		logger.Int64("corrected_records", s.Corrected),
		logger.Int64("duplicate_records", s.Duplicates),
		logger.Int64("parsing_errors", s.ParseErrors),
		logger.Float64("success_rate_pct", s.SuccessRate()),
		logger.Float64("output_rate_pct", s.OutputRate()),
		logger.Int64("output_records", s.OutputRecords()))
}
