package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/aquaflow/internal/model"
)

// Entity names an exportable collection.
type Entity string

const (
	EntityCustomers Entity = "customers"
	EntityOrders    Entity = "orders"
	EntityInventory Entity = "inventory"
	EntityFeedback  Entity = "feedback"
	EntityAudit     Entity = "audit"
	EntityInvoices  Entity = "invoices"
)

// Entities lists every exportable collection.
var Entities = []Entity{EntityCustomers, EntityOrders, EntityInventory, EntityFeedback, EntityAudit, EntityInvoices}

// ParseEntity validates s as an Entity name.
func ParseEntity(s string) (Entity, error) {
	e := Entity(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Entities {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown export entity %q", s)
}

// Title is the entity name recorded in the audit log, e.g. "Customers".
func (e Entity) Title() string {
	switch e {
	case EntityAudit:
		return "Audit Log"
	case "":
		return ""
	default:
		return strings.ToUpper(string(e[:1])) + string(e[1:])
	}
}

// Format selects the file encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FileName returns "<entity>-YYYY-MM-DD.<ext>".
func FileName(e Entity, day model.Date, f Format) string {
	return fmt.Sprintf("%s-%s.%s", e, day, f)
}

// Write encodes the entity's collection from doc to w and returns the
// number of records written.
func Write(w io.Writer, doc *model.Document, e Entity, f Format) (int, error) {
	var n int
	var err error
	switch e {
	case EntityCustomers:
		n, err = len(doc.Customers), encode(w, f, e, doc.Customers, Customers())
	case EntityOrders:
		n, err = len(doc.Orders), encode(w, f, e, doc.Orders, Orders(doc))
	case EntityInventory:
		n, err = len(doc.Inventory), encode(w, f, e, doc.Inventory, Inventory())
	case EntityFeedback:
		n, err = len(doc.Feedback), encode(w, f, e, doc.Feedback, FeedbackRows())
	case EntityAudit:
		n, err = len(doc.AuditLog), encode(w, f, e, doc.AuditLog, Audit())
	case EntityInvoices:
		n, err = len(doc.Invoices), encode(w, f, e, doc.Invoices, Invoices())
	default:
		return 0, fmt.Errorf("unknown export entity %q", e)
	}
	if err != nil {
		return 0, err
	}
	return n, nil
}

func encode[T any](w io.Writer, f Format, e Entity, rows []T, p Projection[T]) error {
	switch f {
	case FormatCSV, "":
		return WriteCSV(w, rows, p)
	case FormatXLSX:
		return WriteXLSX(w, e.Title(), rows, p)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}
