package model

// Record is implemented by every entity stored in an id-keyed collection.
type Record interface {
	RecordID() int64
}

// Customer is an account that receives deliveries.
type Customer struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Phone       string         `json:"phone"`
	Balance     int64          `json:"balance"`
	Status      CustomerStatus `json:"status"`
	Area        string         `json:"area"`
	LastOrder   Date           `json:"lastOrder"`
	Email       string         `json:"email"`
	TotalOrders int64          `json:"totalOrders"`
}

func (c Customer) RecordID() int64 { return c.ID }

// Driver delivers orders within an area.
type Driver struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Area   string `json:"area"`
}

func (d Driver) RecordID() int64 { return d.ID }

// InventoryItem is a stocked product.
type InventoryItem struct {
	ID            int64  `json:"id"`
	Item          string `json:"item"`
	Stock         int64  `json:"stock"`
	Price         int64  `json:"price"`
	MinStock      int64  `json:"minStock"`
	Category      string `json:"category"`
	LastRestocked Date   `json:"lastRestocked"`
	Supplier      string `json:"supplier,omitempty"`
}

func (i InventoryItem) RecordID() int64 { return i.ID }

// Order is a delivery request for one item line.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customerId"`
	Item       string      `json:"item"`
	Qty        int64       `json:"qty"`
	Amount     int64       `json:"amount"`
	Status     OrderStatus `json:"status"`
	Date       Date        `json:"date"`
}

func (o Order) RecordID() int64 { return o.ID }

// InvoiceLine is one billed line of an invoice.
type InvoiceLine struct {
	Description string `json:"description"`
	Qty         int64  `json:"qty"`
	Price       int64  `json:"price"`
	Total       int64  `json:"total"`
}

// Invoice bills a customer. CustomerName is denormalized at creation.
type Invoice struct {
	ID            int64         `json:"id"`
	InvoiceNo     string        `json:"invoiceNo"`
	CustomerID    int64         `json:"customerId"`
	CustomerName  string        `json:"customerName"`
	Amount        int64         `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	Date          Date          `json:"date"`
	DueDate       Date          `json:"dueDate"`
	PaymentMethod string        `json:"paymentMethod"`
	PaidDate      *Date         `json:"paidDate"`
	Items         []InvoiceLine `json:"items"`
}

func (i Invoice) RecordID() int64 { return i.ID }

// CashSubmission is a driver's end-of-day cash report.
// Diff is DriverCash - SystemCash. VerifiedAt is nil until verified.
type CashSubmission struct {
	ID         int64      `json:"id"`
	DriverID   int64      `json:"driverId"`
	DriverName string     `json:"driverName"`
	SystemCash int64      `json:"systemCash"`
	DriverCash int64      `json:"driverCash"`
	Date       Date       `json:"date"`
	Diff       int64      `json:"diff"`
	Status     CashStatus `json:"status"`
	VerifiedBy string     `json:"verifiedBy"`
	VerifiedAt *Timestamp `json:"verifiedAt"`
}

func (c CashSubmission) RecordID() int64 { return c.ID }

// Verified reports whether an operator has signed off the submission.
func (c CashSubmission) Verified() bool { return c.VerifiedAt != nil }

// Feedback is a rated customer message.
type Feedback struct {
	ID           int64          `json:"id"`
	CustomerID   int64          `json:"customerId"`
	CustomerName string         `json:"customerName"`
	Rating       int64          `json:"rating"`
	Message      string         `json:"message"`
	Date         Date           `json:"date"`
	Status       FeedbackStatus `json:"status"`
	Reply        string         `json:"reply"`
	RepliedBy    string         `json:"repliedBy"`
	RepliedAt    *Timestamp     `json:"repliedAt"`
}

func (f Feedback) RecordID() int64 { return f.ID }

// AreaZone tracks demand per delivery area.
type AreaZone struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	ActiveCustomers  int64  `json:"activeCustomers"`
	AvgMonthlyOrders int64  `json:"avgMonthlyOrders"`
	AssignedDriverID int64  `json:"assignedDriverId"`
}

func (a AreaZone) RecordID() int64 { return a.ID }

// AuditEntry is one append-only log line. EntityID is free text and may be empty.
type AuditEntry struct {
	ID        int64       `json:"id"`
	Timestamp Timestamp   `json:"timestamp"`
	Action    AuditAction `json:"action"`
	Entity    string      `json:"entity"`
	EntityID  string      `json:"entityId"`
	Details   string      `json:"details"`
	User      string      `json:"user"`
}

func (a AuditEntry) RecordID() int64 { return a.ID }

// HealthAlert is a stored alert snapshot. Live alerts are derived by the aggregator.
type HealthAlert struct {
	ID           int64  `json:"id"`
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName"`
	AlertType    string `json:"alertType"`
	Amount       int64  `json:"amount"`
	Date         Date   `json:"date"`
}

func (h HealthAlert) RecordID() int64 { return h.ID }

// BottleTracking is the company-wide 19L bottle ledger.
type BottleTracking struct {
	TotalBottles   int64 `json:"totalBottles"`
	WarehouseStock int64 `json:"warehouseStock"`
	WithCustomers  int64 `json:"withCustomers"`
	InTransit      int64 `json:"inTransit"`
	Missing        int64 `json:"missing"`
	LastAudit      Date  `json:"lastAudit"`
}

// Config holds the business thresholds, set once at seed time.
type Config struct {
	HighBalanceThreshold        int64 `json:"highBalanceThreshold"`
	InactiveDaysThreshold       int64 `json:"inactiveDaysThreshold"`
	LowStockThreshold           int64 `json:"lowStockThreshold"`
	MissingBottleAlertThreshold int64 `json:"missingBottleAlertThreshold"`
	PricePerBottle              int64 `json:"pricePerBottle"`
	CashMismatchTolerance       int64 `json:"cashMismatchTolerance"`
}

// NextID returns 1 for an empty collection and max(id)+1 otherwise.
func NextID[T Record](records []T) int64 {
	var maxID int64
	for _, r := range records {
		if id := r.RecordID(); id > maxID {
			maxID = id
		}
	}
	return maxID + 1
}

// FindIndex returns the position of the first record with id, or -1.
func FindIndex[T Record](records []T, id int64) int {
	for i, r := range records {
		if r.RecordID() == id {
			return i
		}
	}
	return -1
}

// FindByID returns a copy of the first record with id.
func FindByID[T Record](records []T, id int64) (T, bool) {
	if i := FindIndex(records, id); i >= 0 {
		return records[i], true
	}
	var zero T
	return zero, false
}
