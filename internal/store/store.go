package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/seed"
)

// SeedFunc builds the document written when the store is empty.
type SeedFunc func() (*model.Document, error)

// Store owns the in-memory copy of the document and persists it through a Backend.
//
// Thread-safety: All methods are safe for concurrent use; writes are
// serialised by an internal mutex. Cross-process writers are detected
// through backend versions.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger
	seedFn  SeedFunc
	now     func() time.Time

	doc     *model.Document
	version int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed overrides the document written on first use.
func WithSeed(fn SeedFunc) Option {
	return func(s *Store) { s.seedFn = fn }
}

// WithClock sets the clock used to name recovery keys.
func WithClock(c model.Clock) Option {
	return func(s *Store) { s.now = c.Now }
}

// New creates a Store over backend. Nothing is read until the first call.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		seedFn:  func() (*model.Document, error) { return seed.Demo(seed.Options{}) },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load returns a copy of the current document, seeding it on first use.
// The returned document may be modified freely.
func (s *Store) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.doc.Clone()
}

// Version returns the backend version of the cached document, 0 if not loaded.
func (s *Store) Version() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Mutate applies fn to a copy of the document and persists the copy.
//
// If fn returns an error nothing is written and that error is returned.
// If the write fails the cached document is unchanged. On ErrConflict the
// cache is dropped so a retry observes the other writer's document.
func (s *Store) Mutate(ctx context.Context, fn func(*model.Document) error) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	next, err := s.doc.Clone()
	if err != nil {
		return nil, err
	}
	if err := fn(next); err != nil {
		return nil, err
	}
	next.SchemaVersion = model.SchemaVersion
	next.Normalize()

	if err := s.persist(ctx, next); err != nil {
		return nil, err
	}
	return next.Clone()
}

// Reset overwrites the stored document with doc regardless of its version.
func (s *Store) Reset(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := doc.Clone()
	if err != nil {
		return err
	}
	next.SchemaVersion = model.SchemaVersion

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	version, err := s.backend.Put(ctx, KeyDocument, data, AnyVersion)
	if err != nil {
		return fmt.Errorf("reset document: %w", err)
	}
	s.doc, s.version = next, version
	s.logger.Info("document reset", "version", version)
	return nil
}

func (s *Store) persist(ctx context.Context, next *model.Document) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	version, err := s.backend.Put(ctx, KeyDocument, data, s.version)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.doc, s.version = nil, 0
		}
		return fmt.Errorf("persist document: %w", err)
	}
	s.doc, s.version = next, version
	return nil
}

// ensureLoaded populates the cache. Caller holds s.mu.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.doc != nil {
		return nil
	}

	data, version, err := s.backend.Get(ctx, KeyDocument)
	if errors.Is(err, ErrNotFound) {
		return s.seedInto(ctx, 0)
	}
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	doc, fromVersion, err := decodeDocument(data)
	if errors.Is(err, ErrUnsupportedSchema) {
		return err
	}
	if err != nil {
		return s.recover(ctx, data, version, err)
	}

	s.doc, s.version = doc, version
	if fromVersion < model.SchemaVersion {
		s.logger.Info("upgrading document schema", "from", fromVersion, "to", model.SchemaVersion)
		return s.persist(ctx, doc)
	}
	return nil
}

func (s *Store) seedInto(ctx context.Context, expected int64) error {
	doc, err := s.seedFn()
	if err != nil {
		return fmt.Errorf("seed document: %w", err)
	}
	doc.SchemaVersion = model.SchemaVersion
	doc.Normalize()

	s.version = expected
	if err := s.persist(ctx, doc); err != nil {
		return err
	}
	s.logger.Warn("no document found, seeded demo dataset", "key", KeyDocument)
	return nil
}

func (s *Store) recover(ctx context.Context, data []byte, version int64, cause error) error {
	key := fmt.Sprintf("%s%d", recoveryPrefix, s.now().UnixNano())
	if _, err := s.backend.Put(ctx, key, data, 0); err != nil {
		return fmt.Errorf("preserve corrupted document: %w", err)
	}
	s.logger.Warn("corrupted document preserved", "recovery_key", key, "error", cause)
	return s.seedInto(ctx, version)
}

// decodeDocument parses a stored blob and upgrades it to the current schema.
// It returns the schema version the blob was written with.
func decodeDocument(data []byte) (*model.Document, int, error) {
	var probe struct {
		SchemaVersion int `json:"schemaVersion"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, 0, fmt.Errorf("decode document: %w", err)
	}
	if probe.SchemaVersion > model.SchemaVersion {
		return nil, probe.SchemaVersion, fmt.Errorf("%w: document is v%d, this build reads up to v%d",
			ErrUnsupportedSchema, probe.SchemaVersion, model.SchemaVersion)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	var doc model.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, probe.SchemaVersion, fmt.Errorf("decode document: %w", err)
	}

	if probe.SchemaVersion == 0 {
		upgradeV0(&doc)
	}
	doc.SchemaVersion = model.SchemaVersion
	doc.Normalize()
	return &doc, probe.SchemaVersion, nil
}

// upgradeV0 fills fields that unversioned documents left implicit.
func upgradeV0(doc *model.Document) {
	for i := range doc.Invoices {
		inv := &doc.Invoices[i]
		if inv.Status == model.InvoiceUnpaid && inv.PaymentMethod == "" {
			inv.PaymentMethod = "Pending"
		}
	}
	for i := range doc.CashSubmissions {
		c := &doc.CashSubmissions[i]
		c.Diff = c.DriverCash - c.SystemCash
		if c.Status == "" {
			c.Status = model.CashStatusForDiff(c.Diff)
		}
	}
	for i := range doc.Feedback {
		f := &doc.Feedback[i]
		if f.Status == "" {
			f.Status = model.FeedbackNew
		}
	}
}
