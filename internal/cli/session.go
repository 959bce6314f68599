package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/session"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Email string
	Role  string
}

// loginResult is the payload of a successful login.
type loginResult struct {
	Session       session.Session `json:"session"`
	PreviousLogin string          `json:"previousLogin,omitempty"`
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session",
		Long: `Start a session for an email and role.

There is no credential check: any email is accepted. The role decides which
commands are available.

Examples:
  aquaflow login --email admin@aquaflow.pk
  aquaflow login --email driver@aquaflow.pk --role Driver`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			role, err := model.ParseRole(opts.Role)
			if err != nil {
				return fmt.Errorf("%w: %w", session.ErrInvalidLogin, err)
			}
			s, prev, err := a.session.Login(cmd.Context(), opts.Email, role)
			if err != nil {
				return err
			}
			res := loginResult{Session: s, PreviousLogin: prev.String()}
			return a.out.Render(res, func(w io.Writer) error {
				fmt.Fprintf(w, "Logged in as %s (%s)\n", s.Email, s.Role)
				if !prev.IsZero() {
					fmt.Fprintf(w, "Last login: %s\n", prev)
				}
				return nil
			})
		}),
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "email to log in with (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(model.RoleAdmin), "role (Admin|Driver|Customer)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "logout",
		Short:         "End the current session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			s, err := a.session.Logout(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Render(s, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged out %s\n", s.Email)
				return err
			})
		}),
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "whoami",
		Short:         "Show the current session",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: withApp(rootOpts, func(cmd *cobra.Command, a *app, _ []string) error {
			s, err := a.session.Current(cmd.Context())
			if err != nil {
				return err
			}
			return a.out.Render(s, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s (%s) since %s\n", s.Email, s.Role, s.LoggedInAt)
				return err
			})
		}),
	}
}
