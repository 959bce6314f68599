package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
)

// NewAuditCommand creates the audit log command group.
func NewAuditCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Browse and clear the audit log",
	}
	cmd.AddCommand(newAuditListCommand(rootOpts))
	cmd.AddCommand(newAuditClearCommand(rootOpts))
	return cmd
}

func newAuditListCommand(rootOpts *RootOptions) *cobra.Command {
	var action, search string
	var pf pageFlags

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List audit entries, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			var act model.AuditAction
			if action != "" {
				v, err := model.ParseAuditAction(action)
				if err != nil {
					return usageError("%v", err)
				}
				act = v
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			entries := aggregate.Filter(aggregate.AuditNewestFirst(doc.AuditLog),
				aggregate.AuditActionIs(act),
				aggregate.AuditSearch(search),
			)
			return renderPage(a, entries, pf, export.Audit())
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&action, "action", "", "filter by action, e.g. CREATE or PAYMENT")
	cmd.Flags().StringVar(&search, "search", "", "match entity, details or user")
	pf.register(cmd)
	return cmd
}

func newAuditClearCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the audit log",
		Long: `Remove every audit entry. The clear itself is recorded as the first
entry of the new log.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.mut.ClearAuditLog(cmd.Context(), yes); err != nil {
				return err
			}
			return a.out.Render(map[string]bool{"cleared": true}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Audit log cleared.")
				return err
			})
		}, model.RoleAdmin)),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the log")
	return cmd
}
