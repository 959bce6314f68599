package aggregate

import "github.com/roach88/aquaflow/internal/model"

// CashLine is one reconciled submission.
type CashLine struct {
	model.CashSubmission
	// Flagged is set when |diff| exceeds cashMismatchTolerance.
	Flagged bool `json:"flagged"`
}

// CashReport is the cash reconciliation table.
type CashReport struct {
	Lines           []CashLine `json:"lines"`
	TotalSystemCash int64      `json:"totalSystemCash"`
	TotalDriverCash int64      `json:"totalDriverCash"`
	NetDifference   int64      `json:"netDifference"`
	FlaggedCount    int        `json:"flaggedCount"`
	PendingCount    int        `json:"pendingCount"`
}

// CashSummary recomputes diff = driverCash - systemCash per submission and
// flags differences beyond tolerance. Differences within tolerance are
// reported but not flagged.
func CashSummary(subs []model.CashSubmission, tolerance int64) CashReport {
	r := CashReport{Lines: make([]CashLine, 0, len(subs))}
	for _, s := range subs {
		s.Diff = s.DriverCash - s.SystemCash
		flagged := abs(s.Diff) > tolerance
		r.Lines = append(r.Lines, CashLine{CashSubmission: s, Flagged: flagged})

		r.TotalSystemCash += s.SystemCash
		r.TotalDriverCash += s.DriverCash
		if flagged {
			r.FlaggedCount++
		}
		if !s.Verified() {
			r.PendingCount++
		}
	}
	r.NetDifference = r.TotalDriverCash - r.TotalSystemCash
	return r
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
