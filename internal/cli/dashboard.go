package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/model"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every admin dashboard section",
		Long: `Compute the admin dashboard: KPIs, customer alerts, low stock, sales,
bottle tracking, billing, cash, feedback, audit and driver progress.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			d, err := aggregate.BuildDashboard(cmd.Context(), doc, a.today())
			if err != nil {
				return err
			}
			return a.out.Render(d, func(w io.Writer) error {
				return writeDashboard(w, d)
			})
		}, model.RoleAdmin)),
	}
}

// NewKPICommand creates the kpi command.
func NewKPICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "kpi",
		Short:         "Show the KPI summary row",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			k := aggregate.ComputeKPI(doc)
			return a.out.Render(k, func(w io.Writer) error {
				writeKPI(w, k)
				return nil
			})
		}, model.RoleAdmin)),
	}
}

// NewAlertsCommand creates the alerts command.
func NewAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "alerts",
		Short:         "Show customer health and low stock alerts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			res := struct {
				Customers []aggregate.Alert      `json:"customers"`
				LowStock  []model.InventoryItem  `json:"lowStock"`
				Bottles   aggregate.BottleStatus `json:"bottles"`
			}{
				Customers: aggregate.HealthAlerts(doc, a.today()),
				LowStock:  aggregate.LowStock(doc.Inventory),
				Bottles:   aggregate.Bottles(doc),
			}
			return a.out.Render(res, func(w io.Writer) error {
				writeAlerts(w, res.Customers)
				writeLowStock(w, res.LowStock)
				writeBottles(w, res.Bottles)
				return nil
			})
		}, model.RoleAdmin)),
	}
}

func writeDashboard(w io.Writer, d *aggregate.Dashboard) error {
	fmt.Fprintf(w, "AquaFlow dashboard for %s\n\n", d.Date)
	writeKPI(w, d.KPI)
	writeAlerts(w, d.Alerts)
	writeLowStock(w, d.LowStock)
	writeBottles(w, d.Bottles)

	fmt.Fprintln(w, "\nSales by item:")
	for _, b := range d.Sales {
		fmt.Fprintf(w, "  %-20s %3d  %s%%\n", b.Item, b.Count, b.Percent.StringFixed(1))
	}

	fmt.Fprintln(w, "\nBilling:")
	fmt.Fprintf(w, "  %d invoices, %d paid, %d unpaid\n", d.Invoices.Count, d.Invoices.Paid, d.Invoices.Unpaid)
	fmt.Fprintf(w, "  Total PKR %d, paid PKR %d, outstanding PKR %d\n",
		d.Invoices.TotalAmount, d.Invoices.PaidAmount, d.Invoices.Outstanding)
	for _, inv := range d.RecentPayments {
		fmt.Fprintf(w, "  paid %s %s PKR %d\n", inv.InvoiceNo, inv.CustomerName, inv.Amount)
	}

	fmt.Fprintln(w, "\nCash reconciliation:")
	fmt.Fprintf(w, "  System PKR %d, drivers PKR %d, net %+d, %d flagged, %d pending\n",
		d.Cash.TotalSystemCash, d.Cash.TotalDriverCash, d.Cash.NetDifference, d.Cash.FlaggedCount, d.Cash.PendingCount)

	fmt.Fprintln(w, "\nFeedback:")
	fmt.Fprintf(w, "  %d messages, average %s, %d unreplied\n", d.Feedback.Total, d.Feedback.AvgRating.StringFixed(1), d.Feedback.Unreplied)
	for _, s := range d.Feedback.Distribution {
		fmt.Fprintf(w, "  %d stars %3d  %s%%\n", s.Stars, s.Count, s.Percent.StringFixed(1))
	}

	fmt.Fprintln(w, "\nAudit:")
	fmt.Fprintf(w, "  %d entries, %d today, %d updates\n", d.Audit.Total, d.Audit.Today, d.Audit.Updates)

	fmt.Fprintln(w, "\nDriver run:")
	fmt.Fprintf(w, "  %d of %d delivered (%d%%, %s)\n", d.Driver.Completed, d.Driver.Total, d.Driver.ProgressPercent, d.Driver.ProgressLabel)
	fmt.Fprintf(w, "  Bottles delivered %d, pending %d\n", d.Driver.BottlesDelivered, d.Driver.BottlesPending)
	fmt.Fprintf(w, "  Earnings today PKR %d, week PKR %s, month PKR %s\n",
		d.Driver.EarningsToday, d.Driver.EarningsWeek.StringFixed(0), d.Driver.EarningsMonth.StringFixed(0))
	return nil
}

func writeKPI(w io.Writer, k aggregate.KPI) {
	fmt.Fprintln(w, "KPIs:")
	fmt.Fprintf(w, "  Orders %d (%d pending), customers %d\n", k.TotalOrders, k.PendingOrders, k.TotalCustomers)
	fmt.Fprintf(w, "  Revenue PKR %d, outstanding balances PKR %d\n", k.TotalRevenue, k.TotalBalance)
	fmt.Fprintf(w, "  Average order PKR %s, average rating %s\n", k.AvgOrderValue.StringFixed(2), k.AvgRating.StringFixed(1))
	fmt.Fprintf(w, "  Low stock items %d\n", k.LowStockCount)
}

func writeAlerts(w io.Writer, alerts []aggregate.Alert) {
	fmt.Fprintln(w, "\nCustomer alerts:")
	if len(alerts) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, al := range alerts {
		fmt.Fprintf(w, "  #%d %-16s %s\n", al.CustomerID, al.CustomerName, al.Label)
	}
}

func writeLowStock(w io.Writer, items []model.InventoryItem) {
	fmt.Fprintln(w, "\nLow stock:")
	if len(items) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	for _, it := range items {
		fmt.Fprintf(w, "  #%d %-20s %d (min %d)\n", it.ID, it.Item, it.Stock, it.MinStock)
	}
}

func writeBottles(w io.Writer, b aggregate.BottleStatus) {
	fmt.Fprintln(w, "\nBottles:")
	fmt.Fprintf(w, "  Total %d: warehouse %d, with customers %d, in transit %d, missing %d\n",
		b.TotalBottles, b.WarehouseStock, b.WithCustomers, b.InTransit, b.Missing)
	if b.MissingAlert {
		fmt.Fprintf(w, "  ALERT: %d bottles missing, last audit %s\n", b.Missing, b.LastAudit)
	}
}
