package mutator

import (
	"context"
	"fmt"

	"github.com/roach88/aquaflow/internal/model"
)

const (
	entityInvoice = "Invoice"
	entityCash    = "Cash Match"

	// DefaultPaymentMethod is recorded when MarkInvoicePaid gets no method.
	DefaultPaymentMethod = "Cash/Manual"
)

// MarkInvoicePaid moves invoice id from Unpaid to Paid, stamping today as
// paidDate. Paying a Paid invoice is rejected and leaves it unchanged.
func (m *Mutator) MarkInvoicePaid(ctx context.Context, id int64, method string) (model.Invoice, error) {
	method = clean(method)
	if method == "" {
		method = DefaultPaymentMethod
	}

	var updated model.Invoice
	err := m.apply(ctx, "mark_invoice_paid", func(doc *model.Document, now model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.Invoices, id)
		if i < 0 {
			return audit{}, notFound(entityInvoice, id)
		}
		inv := &doc.Invoices[i]
		if inv.Status != model.InvoiceUnpaid {
			return audit{}, badTransition(entityInvoice, id, string(inv.Status), string(model.InvoicePaid))
		}
		paid := now.Date()
		inv.Status = model.InvoicePaid
		inv.PaidDate = &paid
		inv.PaymentMethod = method
		updated = *inv
		return audit{
			action:   model.ActionPayment,
			entity:   entityInvoice,
			entityID: idString(id),
			details:  fmt.Sprintf("Marked invoice %s as paid - PKR %d via %s", inv.InvoiceNo, inv.Amount, method),
		}, nil
	})
	return updated, err
}

// VerifyCash signs off cash submission id. Reconciliation figures are not changed.
func (m *Mutator) VerifyCash(ctx context.Context, id int64) (model.CashSubmission, error) {
	var updated model.CashSubmission
	err := m.apply(ctx, "verify_cash", func(doc *model.Document, now model.Timestamp) (audit, error) {
		i := model.FindIndex(doc.CashSubmissions, id)
		if i < 0 {
			return audit{}, notFound(entityCash, id)
		}
		c := &doc.CashSubmissions[i]
		if c.Verified() {
			return audit{}, badTransition(entityCash, id, "Verified", "Verified")
		}
		stamp := now
		c.VerifiedBy = m.actor
		c.VerifiedAt = &stamp
		updated = *c
		return audit{
			action:   model.ActionVerify,
			entity:   entityCash,
			entityID: idString(id),
			details:  fmt.Sprintf("Verified daily cash for %s - Difference: PKR %d", c.DriverName, c.DriverCash-c.SystemCash),
		}, nil
	})
	return updated, err
}
