package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/model"
)

// NewCashCommand creates the cash reconciliation command group.
func NewCashCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cash",
		Short: "Driver cash reconciliation",
	}
	cmd.AddCommand(newCashSummaryCommand(rootOpts))
	cmd.AddCommand(newCashVerifyCommand(rootOpts))
	return cmd
}

func newCashSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Reconcile driver cash against the system",
		Long: `Compare collected driver cash with system cash per submission.
Differences beyond the configured tolerance are flagged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			rep := aggregate.CashSummary(doc.CashSubmissions, doc.Config.CashMismatchTolerance)
			return a.out.Render(rep, func(w io.Writer) error {
				return writeCash(w, rep)
			})
		}, model.RoleAdmin)),
	}
}

func writeCash(w io.Writer, rep aggregate.CashReport) error {
	if len(rep.Lines) == 0 {
		_, err := fmt.Fprintln(w, "No cash submissions.")
		return err
	}
	rows := make([][]string, len(rep.Lines))
	for i, l := range rep.Lines {
		flag := ""
		if l.Flagged {
			flag = "!"
		}
		rows[i] = []string{
			strconv.FormatInt(l.ID, 10),
			l.DriverName,
			l.Date.String(),
			strconv.FormatInt(l.SystemCash, 10),
			strconv.FormatInt(l.DriverCash, 10),
			fmt.Sprintf("%+d", l.Diff),
			string(l.Status),
			flag,
		}
	}
	if err := table(w, []string{"ID", "Driver", "Date", "System", "Driver Cash", "Diff", "Status", ""}, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "System PKR %d, drivers PKR %d, net %+d, %d flagged, %d pending\n",
		rep.TotalSystemCash, rep.TotalDriverCash, rep.NetDifference, rep.FlaggedCount, rep.PendingCount)
	return err
}

func newCashVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "verify <id>",
		Short:         "Verify a pending cash submission",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cs, err := a.mut.VerifyCash(cmd.Context(), id)
			if err != nil {
				return err
			}
			return renderDone(a, cs, "Cash submission #%d from %s verified", cs.ID, cs.DriverName)
		}, model.RoleAdmin)),
	}
}
