package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
	"github.com/roach88/aquaflow/internal/store"
)

var (
	// ErrNoSession is returned when nobody is logged in.
	ErrNoSession = errors.New("no active session")

	// ErrForbidden is returned when the session role may not open a view.
	ErrForbidden = errors.New("role not permitted")

	// ErrInvalidLogin is returned for an empty email or unknown role.
	ErrInvalidLogin = errors.New("invalid login")
)

// Session is the stored identity.
type Session struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	Role       model.Role      `json:"role"`
	LoggedInAt model.Timestamp `json:"loggedInAt"`
}

// IDGenerator produces session ids.
type IDGenerator interface {
	Generate() string
}

// UUIDv7 generates time-ordered UUIDs.
type UUIDv7 struct{}

// Generate returns a new UUIDv7, falling back to a random UUID if the
// clock sequence cannot be read.
func (UUIDv7) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Manager logs users in and out.
type Manager struct {
	store  *store.Store
	mut    *mutator.Mutator
	clock  model.Clock
	ids    IDGenerator
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithIDGenerator sets the session id source.
func WithIDGenerator(g IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New creates a Manager. Login and logout are audited through mut and
// stamped with its clock.
func New(mut *mutator.Mutator, opts ...Option) *Manager {
	m := &Manager{
		store:  mut.Store(),
		mut:    mut,
		clock:  mut.Clock(),
		ids:    UUIDv7{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Login stores a new session for email and role and returns it with the
// previous login time, which is zero on first login.
func (m *Manager) Login(ctx context.Context, email string, role model.Role) (Session, model.Timestamp, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return Session{}, model.Timestamp{}, fmt.Errorf("%w: email is required", ErrInvalidLogin)
	}
	if !slices.Contains(model.Roles, role) {
		return Session{}, model.Timestamp{}, fmt.Errorf("%w: unknown role %q", ErrInvalidLogin, role)
	}

	var previous model.Timestamp
	if _, err := m.store.GetJSON(ctx, store.KeyLastLogin, &previous); err != nil {
		return Session{}, model.Timestamp{}, fmt.Errorf("read last login: %w", err)
	}

	s := Session{
		ID:         m.ids.Generate(),
		Email:      email,
		Role:       role,
		LoggedInAt: model.NewTimestamp(m.clock.Now()),
	}
	// A failed login must leave no session, so the audit entry goes first.
	if err := m.mut.RecordLogin(ctx, email, role); err != nil {
		return Session{}, model.Timestamp{}, err
	}
	if err := m.store.PutJSON(ctx, store.KeySession, s); err != nil {
		return Session{}, model.Timestamp{}, fmt.Errorf("save session: %w", err)
	}
	if err := m.store.PutJSON(ctx, store.KeyLastLogin, s.LoggedInAt); err != nil {
		if derr := m.store.DeleteKey(ctx, store.KeySession); derr != nil {
			m.logger.Error("failed to remove session", "error", derr)
		}
		return Session{}, model.Timestamp{}, fmt.Errorf("save last login: %w", err)
	}

	m.logger.Info("logged in", "email", email, "role", role, "session", s.ID)
	return s, previous, nil
}

// Logout removes the session. It returns ErrNoSession if nobody is logged in.
func (m *Manager) Logout(ctx context.Context) (Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.DeleteKey(ctx, store.KeySession); err != nil {
		return Session{}, fmt.Errorf("delete session: %w", err)
	}
	if err := m.mut.RecordLogout(ctx, s.Email); err != nil {
		return Session{}, err
	}
	m.logger.Info("logged out", "email", s.Email, "session", s.ID)
	return s, nil
}

// Current returns the stored session or ErrNoSession.
func (m *Manager) Current(ctx context.Context) (Session, error) {
	var s Session
	ok, err := m.store.GetJSON(ctx, store.KeySession, &s)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// LastLogin returns the most recent login time, zero if none.
func (m *Manager) LastLogin(ctx context.Context) (model.Timestamp, error) {
	var ts model.Timestamp
	if _, err := m.store.GetJSON(ctx, store.KeyLastLogin, &ts); err != nil {
		return model.Timestamp{}, fmt.Errorf("read last login: %w", err)
	}
	return ts, nil
}

// Require returns the current session if its role is one of roles. Admins
// may also open the driver view.
func (m *Manager) Require(ctx context.Context, roles ...model.Role) (Session, error) {
	s, err := m.Current(ctx)
	if err != nil {
		return Session{}, err
	}
	if !Permits(s.Role, roles...) {
		return Session{}, fmt.Errorf("%w: %s cannot open the %s view", ErrForbidden, s.Role, viewName(roles))
	}
	return s, nil
}

// Permits reports whether role may open a view restricted to roles.
func Permits(role model.Role, roles ...model.Role) bool {
	if len(roles) == 0 || slices.Contains(roles, role) {
		return true
	}
	return role == model.RoleAdmin && slices.Contains(roles, model.RoleDriver)
}

func viewName(roles []model.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = strings.ToLower(string(r))
	}
	return strings.Join(names, "/")
}
