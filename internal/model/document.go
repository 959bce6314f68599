package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Collection names a top-level sequence in the Document.
type Collection string

const (
	CollCustomers       Collection = "customers"
	CollDrivers         Collection = "drivers"
	CollInventory       Collection = "inventory"
	CollOrders          Collection = "orders"
	CollInvoices        Collection = "invoices"
	CollCashSubmissions Collection = "cashSubmissions"
	CollFeedback        Collection = "feedback"
	CollAreaZones       Collection = "areaZones"
	CollAuditLog        Collection = "auditLog"
	CollHealthAlerts    Collection = "healthAlerts"
)

// Collections lists every collection in document order.
var Collections = []Collection{
	CollCustomers, CollDrivers, CollInventory, CollOrders, CollInvoices,
	CollCashSubmissions, CollFeedback, CollAreaZones, CollAuditLog, CollHealthAlerts,
}

// ParseCollection validates s as a Collection name.
func ParseCollection(s string) (Collection, error) {
	if slices.Contains(Collections, Collection(s)) {
		return Collection(s), nil
	}
	return "", fmt.Errorf("unknown collection %q", s)
}

// Document is the single persisted object holding every collection.
type Document struct {
	SchemaVersion   int              `json:"schemaVersion"`
	Config          Config           `json:"config"`
	Customers       []Customer       `json:"customers"`
	Drivers         []Driver         `json:"drivers"`
	Inventory       []InventoryItem  `json:"inventory"`
	BottleTracking  BottleTracking   `json:"bottleTracking"`
	Orders          []Order          `json:"orders"`
	Invoices        []Invoice        `json:"invoices"`
	CashSubmissions []CashSubmission `json:"cashSubmissions"`
	Feedback        []Feedback       `json:"feedback"`
	AreaZones       []AreaZone       `json:"areaZones"`
	AuditLog        []AuditEntry     `json:"auditLog"`
	HealthAlerts    []HealthAlert    `json:"healthAlerts"`
}

// Slot returns a pointer to the slice backing name.
// The concrete type is *[]Customer, *[]Order and so on.
func (d *Document) Slot(name Collection) (any, error) {
	switch name {
	case CollCustomers:
		return &d.Customers, nil
	case CollDrivers:
		return &d.Drivers, nil
	case CollInventory:
		return &d.Inventory, nil
	case CollOrders:
		return &d.Orders, nil
	case CollInvoices:
		return &d.Invoices, nil
	case CollCashSubmissions:
		return &d.CashSubmissions, nil
	case CollFeedback:
		return &d.Feedback, nil
	case CollAreaZones:
		return &d.AreaZones, nil
	case CollAuditLog:
		return &d.AuditLog, nil
	case CollHealthAlerts:
		return &d.HealthAlerts, nil
	default:
		return nil, fmt.Errorf("unknown collection %q", name)
	}
}

// Len returns the number of records in name, or 0 for an unknown name.
func (d *Document) Len(name Collection) int {
	switch name {
	case CollCustomers:
		return len(d.Customers)
	case CollDrivers:
		return len(d.Drivers)
	case CollInventory:
		return len(d.Inventory)
	case CollOrders:
		return len(d.Orders)
	case CollInvoices:
		return len(d.Invoices)
	case CollCashSubmissions:
		return len(d.CashSubmissions)
	case CollFeedback:
		return len(d.Feedback)
	case CollAreaZones:
		return len(d.AreaZones)
	case CollAuditLog:
		return len(d.AuditLog)
	case CollHealthAlerts:
		return len(d.HealthAlerts)
	default:
		return 0
	}
}

// Normalize replaces nil collections with empty ones so every
// collection encodes as [] rather than null.
func (d *Document) Normalize() {
	if d.Customers == nil {
		d.Customers = []Customer{}
	}
	if d.Drivers == nil {
		d.Drivers = []Driver{}
	}
	if d.Inventory == nil {
		d.Inventory = []InventoryItem{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
	if d.Invoices == nil {
		d.Invoices = []Invoice{}
	}
	if d.CashSubmissions == nil {
		d.CashSubmissions = []CashSubmission{}
	}
	if d.Feedback == nil {
		d.Feedback = []Feedback{}
	}
	if d.AreaZones == nil {
		d.AreaZones = []AreaZone{}
	}
	if d.AuditLog == nil {
		d.AuditLog = []AuditEntry{}
	}
	if d.HealthAlerts == nil {
		d.HealthAlerts = []HealthAlert{}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() (*Document, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	var out Document
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}
	out.Normalize()
	return &out, nil
}

// CustomerName resolves a customer id to its name.
func (d *Document) CustomerName(id int64) (string, bool) {
	c, ok := FindByID(d.Customers, id)
	if !ok {
		return "", false
	}
	return c.Name, true
}
