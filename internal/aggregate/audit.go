package aggregate

import (
	"slices"

	"github.com/roach88/aquaflow/internal/model"
)

// AuditReport is the audit log header.
type AuditReport struct {
	Total   int `json:"total"`
	Today   int `json:"today"`
	Updates int `json:"updates"`
}

// AuditStats counts all entries, entries stamped today and UPDATE entries.
func AuditStats(log []model.AuditEntry, today model.Date) AuditReport {
	r := AuditReport{Total: len(log)}
	for _, e := range log {
		if e.Timestamp.Date().Equal(today) {
			r.Today++
		}
		if e.Action == model.ActionUpdate {
			r.Updates++
		}
	}
	return r
}

// AuditNewestFirst reverses the log so the latest entry comes first.
func AuditNewestFirst(log []model.AuditEntry) []model.AuditEntry {
	out := slices.Clone(log)
	slices.Reverse(out)
	return out
}
