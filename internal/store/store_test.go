package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/seed"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newMemoryStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	b := NewMemoryBackend()
	s := New(b)
	t.Cleanup(func() { s.Close() })
	return s, b
}

func TestLoad_SeedsWhenAbsent(t *testing.T) {
	s, b := newMemoryStore(t)

	doc, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)
	assert.Equal(t, model.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, int64(1), s.Version())

	_, version, err := b.Get(context.Background(), KeyDocument)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestLoad_ReturnsIndependentCopy(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	doc.Customers[0].Name = "Scribbled"

	again, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Cafe One", again.Customers[0].Name)
}

func TestReplaceThenGet_RoundTrip(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	want := []model.InventoryItem{
		{ID: 1, Item: "19L Bottle", Stock: 8, MinStock: 10, Price: 200, Category: "Bottles"},
		{ID: 2, Item: "Cups", Stock: 40, MinStock: 30, Price: 150, Category: "Accessories"},
	}
	require.NoError(t, Replace(ctx, s, model.CollInventory, want))

	got, err := Get[model.InventoryItem](ctx, s, model.CollInventory)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGet_WrongTypeRejected(t *testing.T) {
	s, _ := newMemoryStore(t)
	_, err := Get[model.Order](context.Background(), s, model.CollCustomers)
	require.Error(t, err)
}

func TestGet_EmptyCollectionIsNotNil(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b, WithSeed(func() (*model.Document, error) { return seed.Empty(), nil }))

	got, err := Get[model.Feedback](context.Background(), s, model.CollFeedback)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMutate_FnErrorWritesNothing(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)
	before := s.Version()

	boom := errors.New("boom")
	_, err = s.Mutate(ctx, func(doc *model.Document) error {
		doc.Customers = nil
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, before, s.Version())

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)
}

func TestMutate_PersistFailureLeavesCacheUntouched(t *testing.T) {
	s, b := newMemoryStore(t)
	ctx := context.Background()
	_, err := s.Load(ctx)
	require.NoError(t, err)

	b.FailPuts = errors.New("quota exceeded")
	_, err = s.Mutate(ctx, func(doc *model.Document) error {
		doc.Customers[0].Balance = 0
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	b.FailPuts = nil
	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5000), doc.Customers[0].Balance)
}

func TestMutate_StaleWriterConflicts(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	a := New(b)
	stale := New(b)

	_, err := a.Load(ctx)
	require.NoError(t, err)
	_, err = stale.Load(ctx)
	require.NoError(t, err)

	_, err = a.Mutate(ctx, func(doc *model.Document) error {
		doc.Customers[0].Name = "From A"
		return nil
	})
	require.NoError(t, err)

	_, err = stale.Mutate(ctx, func(doc *model.Document) error {
		doc.Customers[0].Name = "From B"
		return nil
	})
	require.ErrorIs(t, err, ErrConflict)

	// The conflicting store re-reads and sees A's write.
	doc, err := stale.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "From A", doc.Customers[0].Name)
}

func TestLoad_RecoversCorruptedBlob(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	_, err := b.Put(ctx, KeyDocument, []byte(`{"customers": [`), 0)
	require.NoError(t, err)

	clock := fixedClock{t: time.Unix(0, 42)}
	s := New(b, WithClock(clock))

	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)

	keys := b.Keys(recoveryPrefix)
	require.Equal(t, []string{"aquaFlowData.recovery.42"}, keys)
	preserved, _, err := b.Get(ctx, keys[0])
	require.NoError(t, err)
	assert.Equal(t, `{"customers": [`, string(preserved))
}

func TestLoad_UnknownStatusIsTreatedAsCorrupt(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	_, err := b.Put(ctx, KeyDocument, []byte(`{"schemaVersion":1,"customers":[{"id":1,"status":"Dormant"}]}`), 0)
	require.NoError(t, err)

	s := New(b)
	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)
	assert.Len(t, b.Keys(recoveryPrefix), 1)
}

func TestLoad_UpgradesUnversionedDocument(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	legacy := `{
		"config": {"highBalanceThreshold": 5000},
		"customers": [{"id": 1, "name": "Cafe One", "status": "Active", "lastOrder": "2026-02-20"}],
		"invoices": [{"id": 1001, "status": "Unpaid", "paidDate": null}],
		"cashSubmissions": [{"id": 1, "systemCash": 5000, "driverCash": 4950}]
	}`
	_, err := b.Put(ctx, KeyDocument, []byte(legacy), 0)
	require.NoError(t, err)

	s := New(b)
	doc, err := s.Load(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.SchemaVersion, doc.SchemaVersion)
	assert.Equal(t, "Pending", doc.Invoices[0].PaymentMethod)
	assert.Equal(t, int64(-50), doc.CashSubmissions[0].Diff)
	assert.Equal(t, model.CashShort, doc.CashSubmissions[0].Status)
	assert.NotNil(t, doc.Orders)

	// Re-saved at the current schema version
	data, version, err := b.Get(ctx, KeyDocument)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
	assert.Contains(t, string(data), `"schemaVersion":1`)
}

func TestLoad_UpgradesEmptyStatuses(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	legacy := `{
		"feedback": [{"id": 1, "rating": 4, "message": "Great", "status": ""}],
		"cashSubmissions": [{"id": 1, "systemCash": 5000, "driverCash": 5100, "status": ""}]
	}`
	_, err := b.Put(ctx, KeyDocument, []byte(legacy), 0)
	require.NoError(t, err)

	s := New(b)
	doc, err := s.Load(ctx)
	require.NoError(t, err)

	require.Len(t, doc.Feedback, 1)
	assert.Equal(t, model.FeedbackNew, doc.Feedback[0].Status)
	assert.Equal(t, model.CashExcess, doc.CashSubmissions[0].Status)
	assert.Empty(t, b.Keys(recoveryPrefix))
}

func TestLoad_RefusesNewerSchema(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	_, err := b.Put(ctx, KeyDocument, []byte(`{"schemaVersion": 99}`), 0)
	require.NoError(t, err)

	s := New(b)
	_, err = s.Load(ctx)
	require.ErrorIs(t, err, ErrUnsupportedSchema)
	assert.Empty(t, b.Keys(recoveryPrefix))
}

func TestReset_OverwritesRegardlessOfVersion(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()
	_, err := s.Mutate(ctx, func(doc *model.Document) error {
		doc.Customers = doc.Customers[:1]
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx, seed.MustDemo()))
	doc, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Customers, 6)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := t.TempDir() + "/aquaflow.db"

	b1, err := OpenSQLite(path)
	require.NoError(t, err)
	s1 := New(b1)
	_, err = s1.Mutate(ctx, func(doc *model.Document) error {
		doc.Inventory[0].Stock = 999
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	b2, err := OpenSQLite(path)
	require.NoError(t, err)
	s2 := New(b2)
	defer s2.Close()

	items, err := Get[model.InventoryItem](ctx, s2, model.CollInventory)
	require.NoError(t, err)
	assert.Equal(t, int64(999), items[0].Stock)
}

func TestKeys_JSONHelpers(t *testing.T) {
	s, _ := newMemoryStore(t)
	ctx := context.Background()

	var v map[string]string
	ok, err := s.GetJSON(ctx, KeyLastLogin, &v)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.PutJSON(ctx, KeyLastLogin, map[string]string{"at": "2026-02-26"}))
	ok, err = s.GetJSON(ctx, KeyLastLogin, &v)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "2026-02-26", v["at"])

	require.NoError(t, s.DeleteKey(ctx, KeyLastLogin))
	ok, err = s.GetJSON(ctx, KeyLastLogin, &v)
	require.NoError(t, err)
	assert.False(t, ok)
}
