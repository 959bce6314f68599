package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/seed"
)

var demoToday = model.MustDate("2026-02-26")

func TestComputeKPI_Demo(t *testing.T) {
	k := ComputeKPI(seed.MustDemo())

	assert.Equal(t, 3, k.TotalOrders)
	assert.Equal(t, 6, k.TotalCustomers)
	assert.Equal(t, 1, k.PendingOrders)
	assert.Equal(t, int64(11500), k.TotalRevenue)
	assert.Equal(t, int64(20200), k.TotalBalance)
	assert.Equal(t, 2, k.LowStockCount)
	assert.Equal(t, "3833.33", k.AvgOrderValue.StringFixed(2))
	assert.Equal(t, "4.0", k.AvgRating.StringFixed(1))
}

func TestComputeKPI_EmptyDocument(t *testing.T) {
	k := ComputeKPI(seed.Empty())
	assert.Zero(t, k.TotalOrders)
	assert.True(t, k.AvgOrderValue.IsZero())
	assert.True(t, k.AvgRating.IsZero())
}

func TestComputeKPI_Idempotent(t *testing.T) {
	doc := seed.MustDemo()
	first := ComputeKPI(doc)
	second := ComputeKPI(doc)
	assert.Equal(t, first, second)

	again := seed.MustDemo()
	assert.Equal(t, again, doc, "KPI must not modify the document")
}

func TestComputeKPI_LowStockUsesFixedLimit(t *testing.T) {
	doc := &model.Document{Inventory: []model.InventoryItem{
		{ID: 1, Stock: 10, MinStock: 50},
		{ID: 2, Stock: 11, MinStock: 50},
		{ID: 3, Stock: 0, MinStock: 0},
	}}
	require.Equal(t, 2, ComputeKPI(doc).LowStockCount)
}
