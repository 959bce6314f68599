package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const (
	entityAuditLog = "Audit Log"
	entityUser     = "User"
	entityBottles  = "Bottle Tracking"
)

// ClearAuditLog empties the audit log. The log is left holding the single
// CLEAR entry that records the wipe.
func (m *Mutator) ClearAuditLog(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return notConfirmed(entityAuditLog, 0)
	}
	return m.apply(ctx, "clear_audit_log", func(doc *model.Document, _ model.Timestamp) (audit, error) {
		n := len(doc.AuditLog)
		doc.AuditLog = []model.AuditEntry{}
		return audit{
			action:  model.ActionClear,
			entity:  entityAuditLog,
			details: fmt.Sprintf("Log cleared (%d entries removed)", n),
		}, nil
	})
}

// RecordExport appends an EXPORT entry for a completed export.
func (m *Mutator) RecordExport(ctx context.Context, entity, details string) error {
	return m.apply(ctx, "record_export", func(*model.Document, model.Timestamp) (audit, error) {
		return audit{action: model.ActionExport, entity: entity, details: details}, nil
	})
}

// RecordLogin appends a LOGIN entry for user.
func (m *Mutator) RecordLogin(ctx context.Context, user string, role model.Role) error {
	return m.apply(ctx, "record_login", func(*model.Document, model.Timestamp) (audit, error) {
		return audit{
			action:   model.ActionLogin,
			entity:   entityUser,
			entityID: user,
			details:  fmt.Sprintf("%s logged in as %s", user, role),
		}, nil
	})
}

// RecordLogout appends a LOGOUT entry for user.
func (m *Mutator) RecordLogout(ctx context.Context, user string) error {
	return m.apply(ctx, "record_logout", func(*model.Document, model.Timestamp) (audit, error) {
		return audit{
			action:   model.ActionLogout,
			entity:   entityUser,
			entityID: user,
			details:  user + " logged out",
		}, nil
	})
}

// StartBottleAudit resets the missing-bottle count and stamps lastAudit.
func (m *Mutator) StartBottleAudit(ctx context.Context, confirmed bool) (model.BottleTracking, error) {
	if !confirmed {
		return model.BottleTracking{}, notConfirmed(entityBottles, 0)
	}

	var updated model.BottleTracking
	err := m.apply(ctx, "start_bottle_audit", func(doc *model.Document, now model.Timestamp) (audit, error) {
		bt := &doc.BottleTracking
		missing := bt.Missing
		bt.Missing = 0
		bt.LastAudit = now.Date()
		updated = *bt
		return audit{
			action:  model.ActionUpdate,
			entity:  entityBottles,
			details: fmt.Sprintf("Bottle audit started, %d missing bottles reset", missing),
		}, nil
	})
	return updated, err
}
