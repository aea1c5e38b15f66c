package model

// BatchSummary aggregates the outcomes of a batch run.
type BatchSummary struct {
	// Pipeline is the pipeline variant the batch ran.
	Pipeline string `json:"pipeline"`

	// DryRun mirrors the mode of the batch.
	DryRun bool `json:"dry_run"`

	// Total is the number of documents in the batch.
	Total int `json:"total"`

	// Successful counts unchanged, dry-run and committed documents.
	Successful int `json:"successful"`

	// Failed counts failed documents.
	Failed int `json:"failed"`

	// Skipped counts documents that were deliberately not processed.
	Skipped int `json:"skipped"`

	// Committed counts documents that were actually rewritten.
	Committed int `json:"committed"`

	// Reports holds the per-document reports in input order.
	Reports []*PatchReport `json:"reports"`
}

// NewBatchSummary computes a summary from a slice of reports.
// Nil entries (documents that never started, e.g. after cancellation)
// are ignored.
func NewBatchSummary(pipeline string, dryRun bool, reports []*PatchReport) *BatchSummary {
	s := &BatchSummary{
		Pipeline: pipeline,
		DryRun:   dryRun,
		Reports:  make([]*PatchReport, 0, len(reports)),
	}

	for _, r := range reports {
		if r == nil {
			continue
		}
		s.Reports = append(s.Reports, r)
		s.Total++

		switch {
		case r.Outcome == OutcomeSkipped:
			s.Skipped++
		case r.Outcome.Succeeded():
			s.Successful++
			if r.Outcome == OutcomeCommitted {
				s.Committed++
			}
		default:
			s.Failed++
		}
	}

	return s
}

// Succeeded reports whether no document failed.
func (s *BatchSummary) Succeeded() bool {
	return s.Failed == 0
}
