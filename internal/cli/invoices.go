package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
)

// NewInvoicesCommand creates the invoices command group.
func NewInvoicesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invoices",
		Aliases: []string{"billing"},
		Short:   "Invoices and payments",
	}
	cmd.AddCommand(newInvoicesListCommand(rootOpts))
	cmd.AddCommand(newInvoicesShowCommand(rootOpts))
	cmd.AddCommand(newInvoicesPayCommand(rootOpts))
	return cmd
}

func newInvoicesListCommand(rootOpts *RootOptions) *cobra.Command {
	var status, search string
	var customer int64
	var pf pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invoices, newest first",
		Long: `List invoices, newest first. Customers may list invoices read-only,
usually narrowed with --customer.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			var st model.InvoiceStatus
			if status != "" {
				s, err := model.ParseInvoiceStatus(status)
				if err != nil {
					return usageError("%v", err)
				}
				st = s
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			invoices := aggregate.Filter(aggregate.InvoicesNewestFirst(doc.Invoices),
				aggregate.InvoiceCustomerIs(customer),
				aggregate.InvoiceStatusIs(st),
				aggregate.InvoiceSearch(search),
			)
			return renderPage(a, invoices, pf, export.Invoices())
		}, model.RoleCustomer, model.RoleAdmin)),
	}

	cmd.Flags().Int64Var(&customer, "customer", 0, "only invoices billed to this customer id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (Paid|Unpaid)")
	cmd.Flags().StringVar(&search, "search", "", "match invoice number or customer name")
	pf.register(cmd)
	return cmd
}

// invoiceDetail is an invoice with its computed totals.
type invoiceDetail struct {
	model.Invoice
	Breakdown aggregate.Breakdown `json:"breakdown"`
}

func newInvoicesShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <id>",
		Short:         "Show an invoice with its line items",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			inv, ok := model.FindByID(doc.Invoices, id)
			if !ok {
				return &mutator.Error{Code: mutator.CodeNotFound, Message: fmt.Sprintf("invoice %d not found", id), Entity: "Invoice", ID: id}
			}
			d := invoiceDetail{Invoice: inv, Breakdown: aggregate.InvoiceBreakdown(inv.Items)}
			return a.out.Render(d, func(w io.Writer) error {
				return writeInvoice(w, d)
			})
		}, model.RoleCustomer, model.RoleAdmin)),
	}
}

func writeInvoice(w io.Writer, d invoiceDetail) error {
	fmt.Fprintf(w, "Invoice %s for %s\n", d.InvoiceNo, d.CustomerName)
	fmt.Fprintf(w, "Issued %s, due %s, %s\n", d.Date, d.DueDate, d.Status)
	if d.PaidDate != nil {
		fmt.Fprintf(w, "Paid %s by %s\n", *d.PaidDate, d.PaymentMethod)
	}
	rows := make([][]string, len(d.Items))
	for i, l := range d.Items {
		rows[i] = []string{l.Description, fmt.Sprint(l.Qty), fmt.Sprint(l.Price), fmt.Sprint(l.Total)}
	}
	if err := table(w, []string{"Description", "Qty", "Price", "Total"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(w, "Subtotal PKR %d\n", d.Breakdown.Subtotal)
	fmt.Fprintf(w, "Tax PKR %d\n", d.Breakdown.Tax)
	fmt.Fprintf(w, "Delivery PKR %d\n", d.Breakdown.Delivery)
	_, err := fmt.Fprintf(w, "Grand total PKR %d\n", d.Breakdown.GrandTotal)
	return err
}

func newInvoicesPayCommand(rootOpts *RootOptions) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "pay <id>",
		Short: "Mark an invoice as paid",
		Long: `Mark an Unpaid invoice as Paid today.

Examples:
  aquaflow invoices pay 2
  aquaflow invoices pay 2 --method "Bank Transfer"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			inv, err := a.mut.MarkInvoicePaid(cmd.Context(), id, method)
			if err != nil {
				return err
			}
			return renderDone(a, inv, "Invoice %s paid (%s)", inv.InvoiceNo, inv.PaymentMethod)
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&method, "method", "", "payment method (default Cash/Manual)")
	return cmd
}
