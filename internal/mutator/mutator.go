package mutator

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/store"
)

// DefaultActor is recorded as the audit user when none is configured.
const DefaultActor = "Admin"

// Mutator applies validated changes to the document held by a Store.
//
// Thread-safety: Mutator is safe for concurrent use; the Store serialises writes.
type Mutator struct {
	store    *store.Store
	clock    model.Clock
	logger   *slog.Logger
	actor    string
	phone    PhoneRule
	validate *validator.Validate
}

// Option configures a Mutator.
type Option func(*Mutator)

// WithClock sets the clock used for dates and audit timestamps.
func WithClock(c model.Clock) Option {
	return func(m *Mutator) { m.clock = c }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mutator) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithActor sets the name recorded as the audit user and reply author.
func WithActor(actor string) Option {
	return func(m *Mutator) {
		if actor != "" {
			m.actor = actor
		}
	}
}

// WithPhoneRule sets phone validation.
func WithPhoneRule(r PhoneRule) Option {
	return func(m *Mutator) { m.phone = r }
}

// New creates a Mutator over s.
func New(s *store.Store, opts ...Option) *Mutator {
	m := &Mutator{
		store:  s,
		clock:  model.SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		actor:  DefaultActor,
		phone:  DefaultPhoneRule,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.validate = newValidator(m.phone)
	return m
}

// Actor returns the configured audit user.
func (m *Mutator) Actor() string { return m.actor }

// Store returns the store the mutator writes to.
func (m *Mutator) Store() *store.Store { return m.store }

// Clock returns the mutator clock.
func (m *Mutator) Clock() model.Clock { return m.clock }

// audit describes the entry appended alongside a change.
type audit struct {
	action   model.AuditAction
	entity   string
	entityID string
	details  string
}

// apply runs change inside one document write and appends its audit entry.
// A rejected change is logged at Info and nothing is written.
func (m *Mutator) apply(ctx context.Context, op string, change func(doc *model.Document, now model.Timestamp) (audit, error)) error {
	now := model.NewTimestamp(m.clock.Now())

	var entry audit
	_, err := m.store.Mutate(ctx, func(doc *model.Document) error {
		var err error
		entry, err = change(doc, now)
		if err != nil {
			return err
		}
		appendAudit(doc, now, m.actor, entry)
		return nil
	})
	if err != nil {
		if me, ok := AsError(err); ok {
			m.logger.Info("operation rejected", "op", op, "code", me.Code, "error", err)
		}
		return err
	}

	m.logger.Debug("change applied",
		"op", op,
		"entity", entry.entity,
		"id", entry.entityID,
	)
	return nil
}

func appendAudit(doc *model.Document, now model.Timestamp, user string, a audit) {
	doc.AuditLog = append(doc.AuditLog, model.AuditEntry{
		ID:        model.NextID(doc.AuditLog),
		Timestamp: now,
		Action:    a.action,
		Entity:    a.entity,
		EntityID:  a.entityID,
		Details:   a.details,
		User:      user,
	})
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
