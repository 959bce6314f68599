package aggregate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/aquaflow/internal/model"
)

// RecentLimit is the length of the recent restocks, payments and replies lists.
const RecentLimit = 3

// Dashboard holds every admin section.
type Dashboard struct {
	Date           string                `json:"date"`
	KPI            KPI                   `json:"kpi"`
	Alerts         []Alert               `json:"alerts"`
	LowStock       []model.InventoryItem `json:"lowStock"`
	Sales          []Bar                 `json:"sales"`
	Bottles        BottleStatus          `json:"bottles"`
	RecentRestocks []model.InventoryItem `json:"recentRestocks"`
	Invoices       InvoiceTotals         `json:"invoices"`
	RecentPayments []model.Invoice       `json:"recentPayments"`
	Cash           CashReport            `json:"cash"`
	Feedback       FeedbackReport        `json:"feedback"`
	RecentReplies  []model.Feedback      `json:"recentReplies"`
	Audit          AuditReport           `json:"audit"`
	Driver         DriverRun             `json:"driver"`
}

// BuildDashboard computes every section concurrently, one goroutine per
// section, and returns when all have finished. doc is only read. A
// cancelled ctx stops sections that have not started and returns its error.
func BuildDashboard(ctx context.Context, doc *model.Document, today model.Date) (*Dashboard, error) {
	d := &Dashboard{Date: today.String()}
	g, ctx := errgroup.WithContext(ctx)

	section := func(name string, fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("dashboard %s: %w", name, err)
			}
			fn()
			return nil
		})
	}

	section("kpi", func() { d.KPI = ComputeKPI(doc) })
	section("alerts", func() { d.Alerts = HealthAlerts(doc, today) })
	section("low stock", func() { d.LowStock = LowStock(doc.Inventory) })
	section("sales", func() { d.Sales = SalesHistogram(doc.Orders) })
	section("bottles", func() { d.Bottles = Bottles(doc) })
	section("restocks", func() { d.RecentRestocks = RecentRestocks(doc.Inventory, RecentLimit) })
	section("invoices", func() { d.Invoices = InvoiceSummary(doc.Invoices) })
	section("payments", func() { d.RecentPayments = RecentPayments(doc.Invoices, RecentLimit) })
	section("cash", func() { d.Cash = CashSummary(doc.CashSubmissions, doc.Config.CashMismatchTolerance) })
	section("feedback", func() { d.Feedback = FeedbackStats(doc.Feedback) })
	section("replies", func() { d.RecentReplies = RecentReplies(doc.Feedback, RecentLimit) })
	section("audit", func() { d.Audit = AuditStats(doc.AuditLog, today) })
	section("driver", func() { d.Driver = DriverStats(doc.Orders) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}
