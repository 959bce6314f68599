package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
)

// NewOrdersCommand creates the orders command group.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"deliveries"},
		Short:   "Delivery orders and the driver run",
	}
	cmd.AddCommand(newOrdersListCommand(rootOpts))
	cmd.AddCommand(newOrdersRunCommand(rootOpts))
	cmd.AddCommand(newOrdersCompleteCommand(rootOpts))
	cmd.AddCommand(newOrdersRequestCommand(rootOpts))
	return cmd
}

func newOrdersListCommand(rootOpts *RootOptions) *cobra.Command {
	var status, search string
	var pf pageFlags

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List orders",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			var st model.OrderStatus
			if status != "" {
				s, err := model.ParseOrderStatus(status)
				if err != nil {
					return usageError("%v", err)
				}
				st = s
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			orders := aggregate.Filter(doc.Orders,
				aggregate.OrderStatusIs(st),
				aggregate.OrderSearch(search, doc),
			)
			return renderPage(a, orders, pf, export.Orders(doc))
		}, model.RoleAdmin, model.RoleDriver)),
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (Pending|In Transit|Completed|Cancelled)")
	cmd.Flags().StringVar(&search, "search", "", "match customer name or item")
	pf.register(cmd)
	return cmd
}

func newOrdersRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Show the driver run",
		Long: `Show active deliveries, run progress and earnings for the driver view.
Earnings for the week and month are projected from today.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			run := aggregate.DriverStats(doc.Orders)
			return a.out.Render(run, func(w io.Writer) error {
				fmt.Fprintf(w, "%d of %d delivered (%d%%, %s)\n", run.Completed, run.Total, run.ProgressPercent, run.ProgressLabel)
				fmt.Fprintf(w, "Bottles delivered %d, pending %d\n", run.BottlesDelivered, run.BottlesPending)
				fmt.Fprintf(w, "Earnings today PKR %d, week PKR %s, month PKR %s\n",
					run.EarningsToday, run.EarningsWeek.StringFixed(0), run.EarningsMonth.StringFixed(0))
				if len(run.Active) == 0 {
					fmt.Fprintln(w, "No active deliveries.")
					return nil
				}
				p := export.Orders(doc)
				rows := make([][]string, len(run.Active))
				for i, o := range run.Active {
					rows[i] = p.Row(o)
				}
				return table(w, p.Headers(), rows)
			})
		}, model.RoleDriver, model.RoleAdmin)),
	}
}

func newOrdersCompleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "complete <id>",
		Short:         "Mark a delivery as completed",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			o, err := a.mut.CompleteDelivery(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderDone(a, o, "Delivery #%d completed", o.ID)
		}, model.RoleDriver, model.RoleAdmin)),
	}
}

func newOrdersRequestCommand(rootOpts *RootOptions) *cobra.Command {
	var customerID, qty int64

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Request a bottle delivery",
		Long: `Create a Pending bottle order for a customer, priced at the configured
price per bottle. At most 10 bottles per request.

Examples:
  aquaflow orders request --customer 2 --qty 4`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			o, err := a.mut.RequestDelivery(cmd.Context(), customerID, qty)
			if err != nil {
				return err
			}
			return renderDone(a, o, "Order #%d requested: %d bottles, PKR %d", o.ID, o.Qty, o.Amount)
		}, model.RoleCustomer, model.RoleAdmin)),
	}

	cmd.Flags().Int64Var(&customerID, "customer", 0, "customer id")
	cmd.Flags().Int64Var(&qty, "qty", 1, "bottles to deliver")
	return cmd
}
