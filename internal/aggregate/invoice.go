package aggregate

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/roach88/aquaflow/internal/model"
)

// DeliveryCharge is the flat delivery fee added to every invoice total.
const DeliveryCharge = 100

// TaxRate is the sales tax applied to an invoice subtotal.
var TaxRate = decimal.RequireFromString("0.05")

// Breakdown is the financial summary printed on an invoice.
type Breakdown struct {
	Subtotal   int64 `json:"subtotal"`
	Tax        int64 `json:"tax"`
	Delivery   int64 `json:"delivery"`
	GrandTotal int64 `json:"grandTotal"`
}

// InvoiceBreakdown sums line totals and adds tax, rounded half away from
// zero, and the delivery charge.
func InvoiceBreakdown(lines []model.InvoiceLine) Breakdown {
	var sub int64
	for _, l := range lines {
		sub += l.Total
	}
	tax := decimal.NewFromInt(sub).Mul(TaxRate).Round(0).IntPart()
	return Breakdown{
		Subtotal:   sub,
		Tax:        tax,
		Delivery:   DeliveryCharge,
		GrandTotal: sub + tax + DeliveryCharge,
	}
}

// InvoiceTotals is the billing header row.
type InvoiceTotals struct {
	Count       int   `json:"count"`
	Paid        int   `json:"paid"`
	Unpaid      int   `json:"unpaid"`
	TotalAmount int64 `json:"totalAmount"`
	PaidAmount  int64 `json:"paidAmount"`
	Outstanding int64 `json:"outstandingAmount"`
}

// InvoiceSummary counts invoices by status and sums their amounts.
func InvoiceSummary(invoices []model.Invoice) InvoiceTotals {
	t := InvoiceTotals{Count: len(invoices)}
	for _, inv := range invoices {
		t.TotalAmount += inv.Amount
		switch inv.Status {
		case model.InvoicePaid:
			t.Paid++
			t.PaidAmount += inv.Amount
		case model.InvoiceUnpaid:
			t.Unpaid++
			t.Outstanding += inv.Amount
		}
	}
	return t
}

// InvoicesNewestFirst orders invoices by date, newest first. Ties keep
// their stored order.
func InvoicesNewestFirst(invoices []model.Invoice) []model.Invoice {
	sorted := slices.Clone(invoices)
	slices.SortStableFunc(sorted, func(a, b model.Invoice) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// RecentPayments returns up to n paid invoices ordered by paidDate, newest first.
func RecentPayments(invoices []model.Invoice, n int) []model.Invoice {
	paid := slices.Clone(Filter(invoices, InvoiceStatusIs(model.InvoicePaid)))
	slices.SortStableFunc(paid, func(a, b model.Invoice) int {
		return paidTime(b).Compare(paidTime(a))
	})
	return paid[:clampN(n, len(paid))]
}

func paidTime(inv model.Invoice) time.Time {
	if inv.PaidDate == nil {
		return time.Time{}
	}
	return inv.PaidDate.Time()
}
