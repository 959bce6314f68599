package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
	"github.com/roach88/aquaflow/internal/seed"
)

// seedResult counts the records written by seed.
type seedResult struct {
	Collections map[model.Collection]int `json:"collections"`
	Config      model.Config             `json:"config"`
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	var yes, empty bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset the store to the demo dataset",
		Long: `Overwrite the stored document with the demo dataset.

Configured thresholds (thresholds.* in the config file or AQUAFLOW_THRESHOLDS_*)
are applied to the seeded config. With --empty the collections are left empty.
The current session is kept.

Examples:
  aquaflow seed --yes
  aquaflow seed --yes --empty`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			if !yes {
				return &mutator.Error{Code: mutator.CodeNotConfirmed, Message: "seed overwrites every record; pass --yes", Entity: "Document"}
			}

			doc, err := seed.Demo(seed.Options{Thresholds: a.cfg.Thresholds})
			if err != nil {
				return usageError("%v", err)
			}
			if empty {
				cfg := doc.Config
				doc = seed.Empty()
				doc.Config = cfg
			}
			if err := a.store.Reset(cmd.Context(), doc); err != nil {
				return err
			}

			res := seedResult{Collections: map[model.Collection]int{}, Config: doc.Config}
			for _, c := range model.Collections {
				res.Collections[c] = doc.Len(c)
			}
			return a.out.Render(res, func(w io.Writer) error {
				fmt.Fprintln(w, "Store reset to the demo dataset.")
				for _, c := range model.Collections {
					fmt.Fprintf(w, "  %-16s %d\n", c, res.Collections[c])
				}
				return nil
			})
		}),
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm overwriting the stored document")
	cmd.Flags().BoolVar(&empty, "empty", false, "seed empty collections")

	return cmd
}
