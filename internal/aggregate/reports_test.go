package aggregate

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/seed"
)

func TestSalesHistogram_FirstSeenOrder(t *testing.T) {
	bars := SalesHistogram(seed.MustDemo().Orders)
	require.Len(t, bars, 2)

	assert.Equal(t, "19L Bottle", bars[0].Item)
	assert.Equal(t, 2, bars[0].Count)
	assert.Equal(t, "100", bars[0].Percent.String())

	assert.Equal(t, "Dispenser", bars[1].Item)
	assert.Equal(t, 1, bars[1].Count)
	assert.Equal(t, "50", bars[1].Percent.String())

	assert.Empty(t, SalesHistogram(nil))
}

func TestCashSummary_Tolerance(t *testing.T) {
	doc := seed.MustDemo()
	r := CashSummary(doc.CashSubmissions, doc.Config.CashMismatchTolerance)

	assert.Equal(t, int64(31700), r.TotalSystemCash)
	assert.Equal(t, int64(31700), r.TotalDriverCash)
	assert.Equal(t, int64(0), r.NetDifference)
	assert.Equal(t, 1, r.FlaggedCount)
	assert.Equal(t, 1, r.PendingCount)

	for _, l := range r.Lines {
		assert.Equal(t, l.ID == 5, l.Flagged, "submission %d", l.ID)
	}
}

func TestCashSummary_RecomputesDiff(t *testing.T) {
	r := CashSummary([]model.CashSubmission{{ID: 1, SystemCash: 1000, DriverCash: 900, Diff: 0}}, 50)
	assert.Equal(t, int64(-100), r.Lines[0].Diff)
	assert.True(t, r.Lines[0].Flagged)
}

func TestInvoiceBreakdown(t *testing.T) {
	doc := seed.MustDemo()
	inv, ok := model.FindByID(doc.Invoices, 1002)
	require.True(t, ok)

	b := InvoiceBreakdown(inv.Items)
	assert.Equal(t, Breakdown{Subtotal: 8900, Tax: 445, Delivery: 100, GrandTotal: 9445}, b)
}

func TestInvoiceBreakdown_TaxRoundsHalfAwayFromZero(t *testing.T) {
	tests := []struct {
		subtotal int64
		tax      int64
	}{
		{10, 1},
		{30, 2},
		{50, 3},
		{29, 1},
		{-10, -1},
		{0, 0},
	}
	for _, tt := range tests {
		b := InvoiceBreakdown([]model.InvoiceLine{{Total: tt.subtotal}})
		assert.Equal(t, tt.tax, b.Tax, "subtotal %d", tt.subtotal)
		assert.Equal(t, tt.subtotal+tt.tax+DeliveryCharge, b.GrandTotal)
	}
}

func TestInvoiceSummaryAndOrdering(t *testing.T) {
	doc := seed.MustDemo()

	s := InvoiceSummary(doc.Invoices)
	assert.Equal(t, InvoiceTotals{Count: 6, Paid: 3, Unpaid: 3, TotalAmount: 8228, PaidAmount: 3557, Outstanding: 4671}, s)

	newest := InvoicesNewestFirst(doc.Invoices)
	assert.Equal(t, int64(1006), newest[0].ID)
	assert.Equal(t, int64(1001), doc.Invoices[0].ID, "input order is kept")

	var paid []int64
	for _, inv := range RecentPayments(doc.Invoices, RecentLimit) {
		paid = append(paid, inv.ID)
	}
	assert.Equal(t, []int64{1005, 1003, 1001}, paid)
}

func TestFeedbackStats(t *testing.T) {
	r := FeedbackStats(seed.MustDemo().Feedback)

	assert.Equal(t, 7, r.Total)
	assert.Equal(t, "4.0", r.AvgRating.StringFixed(1))
	assert.Equal(t, 3, r.Unreplied)

	want := map[int64]string{5: "42.9", 4: "28.6", 3: "14.3", 2: "14.3", 1: "0.0"}
	require.Len(t, r.Distribution, 5)
	assert.Equal(t, int64(5), r.Distribution[0].Stars)
	for _, d := range r.Distribution {
		assert.Equal(t, want[d.Stars], d.Percent.StringFixed(1), "%d stars", d.Stars)
	}

	empty := FeedbackStats(nil)
	assert.True(t, empty.AvgRating.IsZero())
	assert.Len(t, empty.Distribution, 5)
}

func TestRecentRepliesAndOrdering(t *testing.T) {
	fb := seed.MustDemo().Feedback

	var ids []int64
	for _, f := range RecentReplies(fb, RecentLimit) {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, ids)
	assert.Equal(t, int64(1), FeedbackNewestFirst(fb)[0].ID)
}

func TestAuditStats(t *testing.T) {
	log := seed.MustDemo().AuditLog

	r := AuditStats(log, model.MustDate("2026-02-25"))
	assert.Equal(t, AuditReport{Total: 10, Today: 10, Updates: 2}, r)
	assert.Equal(t, 0, AuditStats(log, demoToday).Today)

	newest := AuditNewestFirst(log)
	assert.Equal(t, int64(10), newest[0].ID)
	assert.Equal(t, int64(1), log[0].ID)
}

func TestDriverStats_Demo(t *testing.T) {
	r := DriverStats(seed.MustDemo().Orders)

	assert.Equal(t, 3, r.Total)
	assert.Equal(t, 1, r.Completed)
	assert.Len(t, r.Active, 2)
	assert.Equal(t, int64(5), r.BottlesDelivered)
	assert.Equal(t, int64(11), r.BottlesPending)
	assert.Equal(t, int64(33), r.ProgressPercent)
	assert.Equal(t, ProgressKeepGoing, r.ProgressLabel)
	assert.Equal(t, int64(150), r.EarningsToday)
	assert.True(t, decimal.NewFromInt(825).Equal(r.EarningsWeek), r.EarningsWeek.String())
	assert.True(t, decimal.NewFromInt(3465).Equal(r.EarningsMonth), r.EarningsMonth.String())
}

func TestDriverStats_ProgressLabels(t *testing.T) {
	orders := func(completed, open int) []model.Order {
		var out []model.Order
		for range completed {
			out = append(out, model.Order{Status: model.OrderCompleted})
		}
		for range open {
			out = append(out, model.Order{Status: model.OrderPending})
		}
		return out
	}

	assert.Equal(t, ProgressOnTrack, DriverStats(orders(2, 1)).ProgressLabel)
	assert.Equal(t, int64(67), DriverStats(orders(2, 1)).ProgressPercent)
	assert.Equal(t, ProgressExcellent, DriverStats(orders(4, 1)).ProgressLabel)

	none := DriverStats(nil)
	assert.Equal(t, int64(0), none.ProgressPercent)
	assert.NotNil(t, none.Active)
}

func TestDriverStats_CancelledIsNotActive(t *testing.T) {
	r := DriverStats([]model.Order{{ID: 1, Status: model.OrderCancelled, Qty: 4}})
	assert.Empty(t, r.Active)
	assert.Zero(t, r.BottlesPending)
	assert.Zero(t, r.BottlesDelivered)
}
