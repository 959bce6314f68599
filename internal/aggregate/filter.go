package aggregate

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/roach88/aquaflow/internal/model"
)

// Predicate selects records. A nil Predicate is inactive.
type Predicate[T any] func(T) bool

// Filter returns the items that satisfy every active predicate, in input
// order. With no active predicates items is returned unchanged.
func Filter[T any](items []T, preds ...Predicate[T]) []T {
	var active []Predicate[T]
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		return items
	}

	out := make([]T, 0, len(items))
next:
	for _, it := range items {
		for _, p := range active {
			if !p(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// matches reports whether any field contains query, ignoring case.
func matches(query string, fields ...string) bool {
	fold := cases.Fold()
	q := fold.String(query)
	for _, f := range fields {
		if strings.Contains(fold.String(f), q) {
			return true
		}
	}
	return false
}

func search[T any](query string, fields func(T) []string) Predicate[T] {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return func(v T) bool { return matches(query, fields(v)...) }
}

func equals[T any, V comparable](want V, get func(T) V) Predicate[T] {
	var zero V
	if want == zero {
		return nil
	}
	return func(v T) bool { return get(v) == want }
}

// CustomerStatusIs keeps customers with status s. Empty s is inactive.
func CustomerStatusIs(s model.CustomerStatus) Predicate[model.Customer] {
	return equals(s, func(c model.Customer) model.CustomerStatus { return c.Status })
}

// CustomerAreaIs keeps customers in area.
func CustomerAreaIs(area string) Predicate[model.Customer] {
	return equals(area, func(c model.Customer) string { return c.Area })
}

// CustomerSearch matches name or phone.
func CustomerSearch(q string) Predicate[model.Customer] {
	return search(q, func(c model.Customer) []string { return []string{c.Name, c.Phone} })
}

// StockFilter selects inventory by stock against minStock.
type StockFilter string

const (
	StockAll    StockFilter = ""
	StockLow    StockFilter = "low"
	StockNormal StockFilter = "normal"
)

// ParseStockFilter validates s. "all" and "" both mean no filter.
func ParseStockFilter(s string) (StockFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StockAll, nil
	case "low":
		return StockLow, nil
	case "normal":
		return StockNormal, nil
	default:
		return "", fmt.Errorf("unknown stock filter %q (want low, normal or all)", s)
	}
}

// ItemStockIs keeps items whose stock is low (<= minStock) or normal (> minStock).
func ItemStockIs(f StockFilter) Predicate[model.InventoryItem] {
	switch f {
	case StockLow:
		return func(it model.InventoryItem) bool { return it.Stock <= it.MinStock }
	case StockNormal:
		return func(it model.InventoryItem) bool { return it.Stock > it.MinStock }
	default:
		return nil
	}
}

// ItemCategoryIs keeps items in category.
func ItemCategoryIs(category string) Predicate[model.InventoryItem] {
	return equals(category, func(it model.InventoryItem) string { return it.Category })
}

// ItemSearch matches item name, category or id.
func ItemSearch(q string) Predicate[model.InventoryItem] {
	return search(q, func(it model.InventoryItem) []string {
		return []string{it.Item, it.Category, strconv.FormatInt(it.ID, 10)}
	})
}

// OrderStatusIs keeps orders with status s.
func OrderStatusIs(s model.OrderStatus) Predicate[model.Order] {
	return equals(s, func(o model.Order) model.OrderStatus { return o.Status })
}

// OrderSearch matches the ordering customer's name or the item. Names are
// resolved against doc.
func OrderSearch(q string, doc *model.Document) Predicate[model.Order] {
	return search(q, func(o model.Order) []string {
		return []string{CustomerName(doc, o.CustomerID), o.Item}
	})
}

// InvoiceStatusIs keeps invoices with status s.
func InvoiceStatusIs(s model.InvoiceStatus) Predicate[model.Invoice] {
	return equals(s, func(inv model.Invoice) model.InvoiceStatus { return inv.Status })
}

// InvoiceCustomerIs keeps invoices billed to customer id. Zero is inactive.
func InvoiceCustomerIs(id int64) Predicate[model.Invoice] {
	return equals(id, func(inv model.Invoice) int64 { return inv.CustomerID })
}

// InvoiceSearch matches invoice number or customer name.
func InvoiceSearch(q string) Predicate[model.Invoice] {
	return search(q, func(inv model.Invoice) []string { return []string{inv.InvoiceNo, inv.CustomerName} })
}

// FeedbackStatusIs keeps feedback with status s.
func FeedbackStatusIs(s model.FeedbackStatus) Predicate[model.Feedback] {
	return equals(s, func(f model.Feedback) model.FeedbackStatus { return f.Status })
}

// FeedbackRatingIs keeps feedback with the given star rating. 0 is inactive.
func FeedbackRatingIs(rating int64) Predicate[model.Feedback] {
	return equals(rating, func(f model.Feedback) int64 { return f.Rating })
}

// FeedbackSearch matches customer name or message.
func FeedbackSearch(q string) Predicate[model.Feedback] {
	return search(q, func(f model.Feedback) []string { return []string{f.CustomerName, f.Message} })
}

// AuditActionIs keeps entries with action a.
func AuditActionIs(a model.AuditAction) Predicate[model.AuditEntry] {
	return equals(a, func(e model.AuditEntry) model.AuditAction { return e.Action })
}

// AuditSearch matches entity, details or user.
func AuditSearch(q string) Predicate[model.AuditEntry] {
	return search(q, func(e model.AuditEntry) []string { return []string{e.Entity, e.Details, e.User} })
}

// UnknownCustomer is shown for orders whose customer no longer exists.
const UnknownCustomer = "Unknown"

// CustomerName resolves id against doc, or UnknownCustomer.
func CustomerName(doc *model.Document, id int64) string {
	if name, ok := doc.CustomerName(id); ok {
		return name
	}
	return UnknownCustomer
}
