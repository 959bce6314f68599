package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
)

// NewInventoryCommand creates the inventory command group.
func NewInventoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"items"},
		Short:   "Manage stock items and bottles",
	}
	cmd.AddCommand(newInventoryListCommand(rootOpts))
	cmd.AddCommand(newInventoryAddCommand(rootOpts))
	cmd.AddCommand(newInventoryEditCommand(rootOpts))
	cmd.AddCommand(newInventoryDeleteCommand(rootOpts))
	cmd.AddCommand(newInventoryRestockCommand(rootOpts))
	cmd.AddCommand(newBottleAuditCommand(rootOpts))
	return cmd
}

func newInventoryListCommand(rootOpts *RootOptions) *cobra.Command {
	var stock, category, search string
	var pf pageFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inventory items",
		Long: `List inventory items. --stock low keeps items at or below their
minimum stock, --stock normal keeps the rest.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			sf, err := aggregate.ParseStockFilter(stock)
			if err != nil {
				return usageError("%v", err)
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			items := aggregate.Filter(doc.Inventory,
				aggregate.ItemStockIs(sf),
				aggregate.ItemCategoryIs(category),
				aggregate.ItemSearch(search),
			)
			return renderPage(a, items, pf, inventoryRows())
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&stock, "stock", "", "filter by stock level (low|normal|all)")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&search, "search", "", "match item, category or id")
	pf.register(cmd)
	return cmd
}

// inventoryRows is the export projection plus the stock level band.
func inventoryRows() export.Projection[model.InventoryItem] {
	return append(export.Inventory(), export.Text("Level", func(it model.InventoryItem) string {
		return string(aggregate.StockLevel(it))
	}))
}

func newInventoryAddCommand(rootOpts *RootOptions) *cobra.Command {
	var in mutator.NewItem
	var minStock int64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an inventory item",
		Long: `Add an inventory item restocked today.

Examples:
  aquaflow inventory add --name "Dispenser Tap" --category Accessories --stock 40 --price 350`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			in.MinStock = changedInt(cmd, "min-stock", minStock)
			it, err := a.mut.AddItem(cmd.Context(), in)
			if err != nil {
				return err
			}
			return renderDone(a, it, "Added item #%d %s", it.ID, it.Item)
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "item name")
	cmd.Flags().StringVar(&in.Category, "category", "", "category")
	cmd.Flags().Int64Var(&in.Stock, "stock", 0, "units in stock")
	cmd.Flags().Int64Var(&in.Price, "price", 0, "unit price in PKR")
	cmd.Flags().Int64Var(&minStock, "min-stock", 0, "low stock threshold (default 10)")
	cmd.Flags().StringVar(&in.Supplier, "supplier", "", "supplier name")
	return cmd
}

func newInventoryEditCommand(rootOpts *RootOptions) *cobra.Command {
	var name, category, supplier string
	var price, minStock int64

	cmd := &cobra.Command{
		Use:           "edit <id>",
		Short:         "Edit an inventory item",
		Long:          `Change the given fields of an item. Stock only changes through restock.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			it, err := a.mut.EditItem(cmd.Context(), id, mutator.ItemPatch{
				Name:     changedString(cmd, "name", name),
				Category: changedString(cmd, "category", category),
				Price:    changedInt(cmd, "price", price),
				MinStock: changedInt(cmd, "min-stock", minStock),
				Supplier: changedString(cmd, "supplier", supplier),
			})
			if err != nil {
				return err
			}
			return renderDone(a, it, "Updated item #%d %s", it.ID, it.Item)
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().Int64Var(&price, "price", 0, "unit price in PKR")
	cmd.Flags().Int64Var(&minStock, "min-stock", 0, "low stock threshold")
	cmd.Flags().StringVar(&supplier, "supplier", "", "supplier name")
	return cmd
}

func newInventoryDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete an inventory item",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			it, err := a.mut.DeleteItem(cmd.Context(), id, yes)
			if err != nil {
				return err
			}
			return renderDone(a, it, "Deleted item #%d %s", it.ID, it.Item)
		}, model.RoleAdmin)),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newInventoryRestockCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restock <id> <qty>",
		Short: "Add stock to an item",
		Long: `Add qty units to an item and set its restock date to today.

Examples:
  aquaflow inventory restock 6 25`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			qty, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return usageError("invalid quantity %q", args[1])
			}
			it, err := a.mut.Restock(cmd.Context(), id, qty)
			if err != nil {
				return err
			}
			return renderDone(a, it, "Restocked #%d %s: %d in stock", it.ID, it.Item, it.Stock)
		}, model.RoleAdmin)),
	}
}

func newBottleAuditCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "audit-bottles",
		Short: "Start a bottle audit",
		Long: `Record a bottle audit: the last audit date moves to today and the
missing count is reset.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			bt, err := a.mut.StartBottleAudit(cmd.Context(), yes)
			if err != nil {
				return err
			}
			return a.out.Render(bt, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Bottle audit recorded %s: %d total, %d missing\n", bt.LastAudit, bt.TotalBottles, bt.Missing)
				return err
			})
		}, model.RoleAdmin)),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the audit")
	return cmd
}
