package export

import (
	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/model"
)

// DefaultCategory is written for inventory items without a category.
const DefaultCategory = "General"

// Customers is the customer list projection.
func Customers() Projection[model.Customer] {
	return Projection[model.Customer]{
		Int("ID", func(c model.Customer) int64 { return c.ID }),
		Text("Name", func(c model.Customer) string { return c.Name }),
		Text("Phone", func(c model.Customer) string { return c.Phone }),
		Text("Email", func(c model.Customer) string { return c.Email }),
		Text("Area", func(c model.Customer) string { return c.Area }),
		Text("Status", func(c model.Customer) string { return string(c.Status) }),
		Int("Balance", func(c model.Customer) int64 { return c.Balance }),
		Text("Last Order", func(c model.Customer) string { return c.LastOrder.String() }),
		Int("Total Orders", func(c model.Customer) int64 { return c.TotalOrders }),
	}
}

// Orders is the order list projection. Customer names are resolved
// against doc and missing customers are written as "Unknown".
func Orders(doc *model.Document) Projection[model.Order] {
	return Projection[model.Order]{
		Int("ID", func(o model.Order) int64 { return o.ID }),
		Text("Customer", func(o model.Order) string { return aggregate.CustomerName(doc, o.CustomerID) }),
		Text("Item", func(o model.Order) string { return o.Item }),
		Int("Quantity", func(o model.Order) int64 { return o.Qty }),
		Int("Amount", func(o model.Order) int64 { return o.Amount }),
		Text("Status", func(o model.Order) string { return string(o.Status) }),
		Text("Date", func(o model.Order) string { return o.Date.String() }),
	}
}

// Inventory is the stock list projection.
func Inventory() Projection[model.InventoryItem] {
	return Projection[model.InventoryItem]{
		Int("ID", func(it model.InventoryItem) int64 { return it.ID }),
		Text("Item Name", func(it model.InventoryItem) string { return it.Item }),
		Text("Category", func(it model.InventoryItem) string {
			if it.Category == "" {
				return DefaultCategory
			}
			return it.Category
		}),
		Int("Stock", func(it model.InventoryItem) int64 { return it.Stock }),
		Int("Price", func(it model.InventoryItem) int64 { return it.Price }),
		Int("Min Stock", func(it model.InventoryItem) int64 { return it.MinStock }),
		Text("Last Restocked", func(it model.InventoryItem) string { return it.LastRestocked.String() }),
	}
}

// FeedbackRows is the feedback inbox projection.
func FeedbackRows() Projection[model.Feedback] {
	return Projection[model.Feedback]{
		Text("Date", func(f model.Feedback) string { return f.Date.String() }),
		Text("Customer", func(f model.Feedback) string { return f.CustomerName }),
		Text("Message", func(f model.Feedback) string { return f.Message }),
		Int("Rating", func(f model.Feedback) int64 { return f.Rating }),
		Text("Status", func(f model.Feedback) string { return string(f.Status) }),
	}
}

// Audit is the audit log projection.
func Audit() Projection[model.AuditEntry] {
	return Projection[model.AuditEntry]{
		Text("Timestamp", func(e model.AuditEntry) string { return e.Timestamp.String() }),
		Text("Action", func(e model.AuditEntry) string { return string(e.Action) }),
		Text("Entity", func(e model.AuditEntry) string { return e.Entity }),
		Text("ID", func(e model.AuditEntry) string { return e.EntityID }),
		Text("Details", func(e model.AuditEntry) string { return e.Details }),
		Text("User", func(e model.AuditEntry) string { return e.User }),
	}
}

// Invoices is the billing list projection.
func Invoices() Projection[model.Invoice] {
	return Projection[model.Invoice]{
		Text("Invoice No", func(inv model.Invoice) string { return inv.InvoiceNo }),
		Text("Customer", func(inv model.Invoice) string { return inv.CustomerName }),
		Int("Amount", func(inv model.Invoice) int64 { return inv.Amount }),
		Text("Status", func(inv model.Invoice) string { return string(inv.Status) }),
		Text("Date", func(inv model.Invoice) string { return inv.Date.String() }),
		Text("Due Date", func(inv model.Invoice) string { return inv.DueDate.String() }),
		Text("Payment Method", func(inv model.Invoice) string { return inv.PaymentMethod }),
		Text("Paid Date", func(inv model.Invoice) string {
			if inv.PaidDate == nil {
				return ""
			}
			return inv.PaidDate.String()
		}),
	}
}
