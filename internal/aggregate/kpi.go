package aggregate

import (
	"github.com/shopspring/decimal"

	"github.com/roach88/aquaflow/internal/model"
)

// KPILowStockLimit is the fixed stock level at or below which the KPI row
// counts an item as low. Per-item alerts use minStock instead.
const KPILowStockLimit = 10

// KPI is the dashboard summary row.
type KPI struct {
	TotalOrders    int             `json:"totalOrders"`
	TotalCustomers int             `json:"totalCustomers"`
	PendingOrders  int             `json:"pendingOrders"`
	TotalRevenue   int64           `json:"totalRevenue"`
	TotalBalance   int64           `json:"totalBalance"`
	LowStockCount  int             `json:"lowStockCount"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
	AvgRating      decimal.Decimal `json:"avgRating"`
}

// ComputeKPI summarises orders, customers, inventory and feedback.
func ComputeKPI(doc *model.Document) KPI {
	k := KPI{
		TotalOrders:    len(doc.Orders),
		TotalCustomers: len(doc.Customers),
		AvgOrderValue:  decimal.Zero,
		AvgRating:      decimal.Zero,
	}
	for _, o := range doc.Orders {
		k.TotalRevenue += o.Amount
		if o.Status == model.OrderPending {
			k.PendingOrders++
		}
	}
	for _, c := range doc.Customers {
		k.TotalBalance += c.Balance
	}
	for _, it := range doc.Inventory {
		if it.Stock <= KPILowStockLimit {
			k.LowStockCount++
		}
	}
	if k.TotalOrders > 0 {
		k.AvgOrderValue = ratio(k.TotalRevenue, int64(k.TotalOrders), 2)
	}
	if n := len(doc.Feedback); n > 0 {
		var sum int64
		for _, f := range doc.Feedback {
			sum += f.Rating
		}
		k.AvgRating = ratio(sum, int64(n), 1)
	}
	return k
}

// ratio returns num/den rounded half away from zero to places.
func ratio(num, den int64, places int32) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(num).DivRound(decimal.NewFromInt(den), places)
}

// percent returns part/whole × 100 rounded to places.
func percent(part, whole int64, places int32) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(part * 100).DivRound(decimal.NewFromInt(whole), places)
}
