package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/model"
)

func TestDemo_Contents(t *testing.T) {
	doc, err := Demo(Options{})
	require.NoError(t, err)

	assert.Equal(t, model.SchemaVersion, doc.SchemaVersion)
	assert.Len(t, doc.Customers, 6)
	assert.Len(t, doc.Drivers, 2)
	assert.Len(t, doc.Inventory, 6)
	assert.Len(t, doc.Orders, 3)
	assert.Len(t, doc.Invoices, 6)
	assert.Len(t, doc.CashSubmissions, 5)
	assert.Len(t, doc.Feedback, 7)
	assert.Len(t, doc.AreaZones, 3)
	assert.Len(t, doc.AuditLog, 10)
	assert.Len(t, doc.HealthAlerts, 3)

	assert.Equal(t, int64(5000), doc.Config.HighBalanceThreshold)
	assert.Equal(t, int64(200), doc.Config.PricePerBottle)
	assert.Equal(t, model.OrderInTransit, doc.Orders[1].Status)
	assert.Nil(t, doc.Invoices[1].PaidDate)
	require.NotNil(t, doc.Invoices[0].PaidDate)
	assert.Equal(t, "2026-02-20", doc.Invoices[0].PaidDate.String())
	assert.False(t, doc.CashSubmissions[4].Verified())
	assert.Equal(t, "", doc.AuditLog[5].EntityID)
}

func TestDemo_ReturnsFreshCopies(t *testing.T) {
	a := MustDemo()
	b := MustDemo()
	a.Customers[0].Name = "Mutated"
	assert.Equal(t, "Cafe One", b.Customers[0].Name)
}

func TestDemo_ThresholdOverrides(t *testing.T) {
	doc, err := Demo(Options{Thresholds: map[string]int64{
		KeyHighBalance:   7000,
		KeyCashTolerance: 10,
	}})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), doc.Config.HighBalanceThreshold)
	assert.Equal(t, int64(10), doc.Config.CashMismatchTolerance)
	assert.Equal(t, int64(30), doc.Config.InactiveDaysThreshold)
}

func TestDemo_ThresholdErrors(t *testing.T) {
	_, err := Demo(Options{Thresholds: map[string]int64{"bogus": 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown threshold")

	_, err = Demo(Options{Thresholds: map[string]int64{KeyLowStock: -1}})
	require.Error(t, err)
}

func TestEmpty(t *testing.T) {
	doc := Empty()
	assert.Empty(t, doc.Customers)
	assert.NotNil(t, doc.Customers)
	assert.Equal(t, int64(50), doc.Config.CashMismatchTolerance)
}
