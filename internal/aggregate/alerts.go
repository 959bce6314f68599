package aggregate

import (
	"fmt"
	"slices"

	"github.com/roach88/aquaflow/internal/model"
)

// LowStock returns the items whose stock is at or below their minStock.
func LowStock(items []model.InventoryItem) []model.InventoryItem {
	return Filter(items, ItemStockIs(StockLow))
}

// Level is an inventory stock band.
type Level string

const (
	LevelLow     Level = "Low"
	LevelMedium  Level = "Medium"
	LevelInStock Level = "In Stock"
)

// StockLevel bands it: Low at or below minStock, Medium up to twice
// minStock, In Stock above that.
func StockLevel(it model.InventoryItem) Level {
	switch {
	case it.Stock <= it.MinStock:
		return LevelLow
	case it.Stock <= 2*it.MinStock:
		return LevelMedium
	default:
		return LevelInStock
	}
}

// Alert kinds.
const (
	AlertHighBalance = "High Balance"
	AlertInactive    = "Inactive"
)

// Alert flags a customer that needs attention.
type Alert struct {
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	Kind         string `json:"kind"`
	Label        string `json:"label"`
	Amount       int64  `json:"amount"`
	DaysInactive int    `json:"daysInactive,omitempty"`
}

// HealthAlerts flags customers whose balance exceeds highBalanceThreshold
// and customers whose last order is more than inactiveDaysThreshold days
// before today. A customer can raise both. Customers without a lastOrder
// are never flagged inactive.
func HealthAlerts(doc *model.Document, today model.Date) []Alert {
	cfg := doc.Config
	var out []Alert
	for _, c := range doc.Customers {
		if c.Balance > cfg.HighBalanceThreshold {
			out = append(out, Alert{
				CustomerID:   c.ID,
				CustomerName: c.Name,
				Kind:         AlertHighBalance,
				Label:        AlertHighBalance,
				Amount:       c.Balance,
			})
		}
		if c.LastOrder.IsZero() {
			continue
		}
		if days := c.LastOrder.DaysUntil(today); int64(days) > cfg.InactiveDaysThreshold {
			out = append(out, Alert{
				CustomerID:   c.ID,
				CustomerName: c.Name,
				Kind:         AlertInactive,
				Label:        fmt.Sprintf("Inactive %d days", days),
				DaysInactive: days,
			})
		}
	}
	return out
}

// HighBalanceIDs returns the ids of customers raising a High Balance alert.
func HighBalanceIDs(alerts []Alert) []int64 {
	var ids []int64
	for _, a := range alerts {
		if a.Kind == AlertHighBalance {
			ids = append(ids, a.CustomerID)
		}
	}
	return ids
}

// BottleStatus is the bottle tracker card plus its missing-bottle flag.
type BottleStatus struct {
	model.BottleTracking
	MissingAlert bool `json:"missingAlert"`
}

// Bottles reports the bottle ledger and whether missing bottles reach the
// configured alert threshold.
func Bottles(doc *model.Document) BottleStatus {
	return BottleStatus{
		BottleTracking: doc.BottleTracking,
		MissingAlert:   MissingBottleAlert(doc.BottleTracking, doc.Config),
	}
}

// MissingBottleAlert reports whether missing bottles reach the threshold.
// A zero threshold alerts on any missing bottle.
func MissingBottleAlert(bt model.BottleTracking, cfg model.Config) bool {
	if cfg.MissingBottleAlertThreshold <= 0 {
		return bt.Missing > 0
	}
	return bt.Missing >= cfg.MissingBottleAlertThreshold
}

// RecentRestocks returns up to n items ordered by lastRestocked, newest first.
func RecentRestocks(items []model.InventoryItem, n int) []model.InventoryItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.InventoryItem) int {
		return b.LastRestocked.Compare(a.LastRestocked)
	})
	return sorted[:clampN(n, len(sorted))]
}

func clampN(n, length int) int {
	return max(0, min(n, length))
}
