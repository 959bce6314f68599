package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
)

// NewCustomersCommand creates the customers command group.
func NewCustomersCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "customers",
		Aliases: []string{"customer"},
		Short:   "Manage customers",
	}
	cmd.AddCommand(newCustomersListCommand(rootOpts))
	cmd.AddCommand(newCustomersAddCommand(rootOpts))
	cmd.AddCommand(newCustomersEditCommand(rootOpts))
	cmd.AddCommand(newCustomersDeleteCommand(rootOpts))
	cmd.AddCommand(newCustomersVacationCommand(rootOpts))
	return cmd
}

func newCustomersListCommand(rootOpts *RootOptions) *cobra.Command {
	var status, area, search string
	var pf pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers",
		Long: `List customers, optionally filtered.

Examples:
  aquaflow customers list --status Active --area DHA
  aquaflow customers list --search ahmed --page 2`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			preds := []aggregate.Predicate[model.Customer]{
				aggregate.CustomerAreaIs(area),
				aggregate.CustomerSearch(search),
			}
			if status != "" {
				s, err := model.ParseCustomerStatus(status)
				if err != nil {
					return usageError("%v", err)
				}
				preds = append(preds, aggregate.CustomerStatusIs(s))
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			return renderPage(a, aggregate.Filter(doc.Customers, preds...), pf, export.Customers())
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (Active|Inactive|Vacation)")
	cmd.Flags().StringVar(&area, "area", "", "filter by area")
	cmd.Flags().StringVar(&search, "search", "", "match name or phone")
	pf.register(cmd)
	return cmd
}

func newCustomersAddCommand(rootOpts *RootOptions) *cobra.Command {
	var in mutator.NewCustomer

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a customer",
		Long: `Add an Active customer with a zero balance.

Examples:
  aquaflow customers add --name "Sara Khan" --phone 03001234567 --area Gulberg`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			c, err := a.mut.AddCustomer(cmd.Context(), in)
			if err != nil {
				return err
			}
			return renderDone(a, c, "Added customer #%d %s", c.ID, c.Name)
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Area, "area", "", "delivery area")
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	return cmd
}

func newCustomersEditCommand(rootOpts *RootOptions) *cobra.Command {
	var name, phone, area, email, status string
	var balance int64

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a customer",
		Long: `Change the given fields of a customer. Fields without a flag are kept.

Examples:
  aquaflow customers edit 3 --phone 03219876543
  aquaflow customers edit 3 --status Inactive --balance 0`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := mutator.CustomerPatch{
				Name:    changedString(cmd, "name", name),
				Phone:   changedString(cmd, "phone", phone),
				Area:    changedString(cmd, "area", area),
				Email:   changedString(cmd, "email", email),
				Balance: changedInt(cmd, "balance", balance),
			}
			if cmd.Flags().Changed("status") {
				s, err := model.ParseCustomerStatus(status)
				if err != nil {
					return usageError("%v", err)
				}
				patch.Status = &s
			}
			c, err := a.mut.EditCustomer(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return renderDone(a, c, "Updated customer #%d %s", c.ID, c.Name)
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&name, "name", "", "customer name")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&area, "area", "", "delivery area")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&status, "status", "", "status (Active|Inactive|Vacation)")
	cmd.Flags().Int64Var(&balance, "balance", 0, "outstanding balance in PKR")
	return cmd
}

func newCustomersDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a customer",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.mut.DeleteCustomer(cmd.Context(), id, yes)
			if err != nil {
				return err
			}
			return renderDone(a, c, "Deleted customer #%d %s", c.ID, c.Name)
		}, model.RoleAdmin)),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newCustomersVacationCommand(rootOpts *RootOptions) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "vacation <id>",
		Short: "Put a customer on vacation hold",
		Long: `Put a customer on vacation hold, or release the hold with --off.
Customers on hold cannot request deliveries.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.mut.SetVacation(cmd.Context(), id, !off)
			if err != nil {
				return err
			}
			return renderDone(a, c, "Customer #%d %s is %s", c.ID, c.Name, c.Status)
		}, model.RoleCustomer, model.RoleAdmin)),
	}

	cmd.Flags().BoolVar(&off, "off", false, "release the vacation hold")
	return cmd
}
