package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
)

// NewFeedbackCommand creates the feedback command group.
func NewFeedbackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Customer feedback and replies",
	}
	cmd.AddCommand(newFeedbackListCommand(rootOpts))
	cmd.AddCommand(newFeedbackStatsCommand(rootOpts))
	cmd.AddCommand(newFeedbackReplyCommand(rootOpts))
	cmd.AddCommand(newFeedbackSubmitCommand(rootOpts))
	return cmd
}

func newFeedbackListCommand(rootOpts *RootOptions) *cobra.Command {
	var status, search string
	var rating int64
	var pf pageFlags

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List feedback, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			var st model.FeedbackStatus
			if status != "" {
				s, err := model.ParseFeedbackStatus(status)
				if err != nil {
					return usageError("%v", err)
				}
				st = s
			}
			if rating < 0 || rating > 5 {
				return usageError("rating must be between 1 and 5")
			}
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			fb := aggregate.Filter(aggregate.FeedbackNewestFirst(doc.Feedback),
				aggregate.FeedbackStatusIs(st),
				aggregate.FeedbackRatingIs(rating),
				aggregate.FeedbackSearch(search),
			)
			return renderPage(a, fb, pf, export.FeedbackRows())
		}, model.RoleAdmin)),
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (New|Replied)")
	cmd.Flags().Int64Var(&rating, "rating", 0, "filter by star rating (1-5)")
	cmd.Flags().StringVar(&search, "search", "", "match customer name or message")
	pf.register(cmd)
	return cmd
}

func newFeedbackStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show rating distribution and recent replies",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			doc, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			res := struct {
				aggregate.FeedbackReport
				RecentReplies []model.Feedback `json:"recentReplies"`
			}{
				FeedbackReport: aggregate.FeedbackStats(doc.Feedback),
				RecentReplies:  aggregate.RecentReplies(doc.Feedback, 5),
			}
			return a.out.Render(res, func(w io.Writer) error {
				fmt.Fprintf(w, "%d messages, average %s, %d unreplied\n", res.Total, res.AvgRating.StringFixed(1), res.Unreplied)
				for _, s := range res.Distribution {
					fmt.Fprintf(w, "  %d %-5s %3d  %s%%\n", s.Stars, strings.Repeat("*", int(s.Stars)), s.Count, s.Percent.StringFixed(1))
				}
				for _, f := range res.RecentReplies {
					fmt.Fprintf(w, "Reply to %s by %s: %s\n", f.CustomerName, f.RepliedBy, f.Reply)
				}
				return nil
			})
		}, model.RoleAdmin)),
	}
}

func newFeedbackReplyCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reply <id> <text>",
		Short: "Reply to a feedback message",
		Long: `Reply to a New feedback message. Each message takes one reply.

Examples:
  aquaflow feedback reply 4 "Sorry for the delay, your next delivery is free."`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			f, err := a.mut.ReplyFeedback(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return renderDone(a, f, "Replied to feedback #%d from %s", f.ID, f.CustomerName)
		}, model.RoleAdmin)),
	}
}

func newFeedbackSubmitCommand(rootOpts *RootOptions) *cobra.Command {
	var in mutator.NewFeedback

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit customer feedback",
		Long: `Submit a rated feedback message for a customer.

Examples:
  aquaflow feedback submit --customer 2 --rating 5 --message "Always on time"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, requireRole(func(cmd *cobra.Command, a *app, _ []string) error {
			f, err := a.mut.SubmitFeedback(cmd.Context(), in)
			if err != nil {
				return err
			}
			return renderDone(a, f, "Feedback #%d recorded (%d stars)", f.ID, f.Rating)
		}, model.RoleCustomer, model.RoleAdmin)),
	}

	cmd.Flags().Int64Var(&in.CustomerID, "customer", 0, "customer id")
	cmd.Flags().Int64Var(&in.Rating, "rating", 0, "star rating (1-5)")
	cmd.Flags().StringVar(&in.Message, "message", "", "feedback text")
	return cmd
}
