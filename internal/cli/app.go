package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/aquaflow/internal/aggregate"
	"github.com/roach88/aquaflow/internal/config"
	"github.com/roach88/aquaflow/internal/export"
	"github.com/roach88/aquaflow/internal/model"
	"github.com/roach88/aquaflow/internal/mutator"
	"github.com/roach88/aquaflow/internal/seed"
	"github.com/roach88/aquaflow/internal/session"
	"github.com/roach88/aquaflow/internal/store"
)

// app is the wiring shared by every command that touches the store.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	clock   model.Clock
	store   *store.Store
	mut     *mutator.Mutator
	session *session.Manager
	out     *OutputFormatter
}

func newFormatter(cmd *cobra.Command, opts *RootOptions) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// newLogger builds the stderr text logger, at Debug with --verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

// openApp loads configuration, applies flag overrides and opens the store.
// Failures are reported before returning.
func openApp(cmd *cobra.Command, opts *RootOptions) (*app, error) {
	out := newFormatter(cmd, opts)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	slog.SetDefault(logger)

	load := opts.loadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(config.Options{ConfigFile: opts.ConfigFile})
	if err != nil {
		return nil, out.Fail(fmt.Errorf("%w: %w", errUsage, err))
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
		if opts.Backend == "" {
			cfg.Backend = config.BackendSQLite
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, out.Fail(fmt.Errorf("%w: %w", errUsage, err))
	}

	open := opts.OpenBackend
	if open == nil {
		open = openBackend
	}
	slog.Debug("opening store", "backend", cfg.Backend, "path", cfg.DBPath)
	backend, err := open(cmd, cfg)
	if err != nil {
		return nil, out.Fail(fmt.Errorf("open %s backend: %w", cfg.Backend, err))
	}

	clock := opts.Clock
	if clock == nil {
		clock = model.SystemClock{}
	}
	thresholds := cfg.Thresholds
	st := store.New(backend,
		store.WithLogger(logger),
		store.WithClock(clock),
		store.WithSeed(func() (*model.Document, error) {
			return seed.Demo(seed.Options{Thresholds: thresholds})
		}),
	)
	mut := mutator.New(st,
		mutator.WithClock(clock),
		mutator.WithLogger(logger),
		mutator.WithActor(cfg.Actor),
		mutator.WithPhoneRule(mutator.PhoneRule{Region: cfg.Phone.Region, Strict: cfg.Phone.Strict}),
	)
	sessOpts := []session.Option{session.WithLogger(logger)}
	if opts.IDs != nil {
		sessOpts = append(sessOpts, session.WithIDGenerator(opts.IDs))
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		clock:   clock,
		store:   st,
		mut:     mut,
		session: session.New(mut, sessOpts...),
		out:     out,
	}, nil
}

func openBackend(cmd *cobra.Command, cfg *config.Config) (store.Backend, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		b, err := store.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendRedis:
		b, err := store.OpenRedis(cmd.Context(), store.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	case config.BackendMemory:
		return store.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing store", "error", err)
	}
}

// today is the calendar day used by alerts and exports.
func (a *app) today() model.Date {
	return model.NewDate(a.clock.Now())
}

// command is the body of a store-backed command.
type command func(cmd *cobra.Command, a *app, args []string) error

// withApp opens the app around fn and reports fn's error.
func withApp(opts *RootOptions, fn command) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, opts)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := fn(cmd, a, args); err != nil {
			if IsReported(err) {
				return err
			}
			return a.out.Fail(err)
		}
		return nil
	}
}

// requireRole wraps fn so it only runs for sessions holding one of roles.
func requireRole(fn command, roles ...model.Role) command {
	return func(cmd *cobra.Command, a *app, args []string) error {
		if _, err := a.session.Require(cmd.Context(), roles...); err != nil {
			return err
		}
		return fn(cmd, a, args)
	}
}

// pageFlags selects one page of a list.
type pageFlags struct {
	Page int
	Size int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.Page, "page", 1, "page number")
	cmd.Flags().IntVar(&p.Size, "page-size", 0, "records per page (default from config)")
}

// renderPage paginates items and prints them through the export projection.
func renderPage[T any](a *app, items []T, pf pageFlags, p export.Projection[T]) error {
	size := pf.Size
	if size <= 0 {
		size = a.cfg.PageSize
	}
	pg := aggregate.Paginate(items, size, pf.Page)

	return a.out.Render(pg, func(w io.Writer) error {
		if pg.TotalItems == 0 {
			fmt.Fprintln(w, "No records found.")
			return nil
		}
		rows := make([][]string, len(pg.Items))
		for i, it := range pg.Items {
			rows[i] = p.Row(it)
		}
		if err := table(w, p.Headers(), rows); err != nil {
			return err
		}
		fmt.Fprintf(w, "Showing %d-%d of %d (page %d of %d)", pg.Start+1, pg.End, pg.TotalItems, pg.Page, pg.TotalPages)
		if window := aggregate.PageWindow(pg.Page, pg.TotalPages, aggregate.DefaultPageWindow); len(window) > 0 {
			fmt.Fprintf(w, " pages:")
			for _, n := range window {
				fmt.Fprintf(w, " %d", n)
			}
		}
		fmt.Fprintln(w)
		return nil
	})
}

// parseID parses a positional record id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, usageError("invalid id %q", s)
	}
	return id, nil
}

// renderDone prints v as JSON, or a one-line confirmation in text mode.
func renderDone(a *app, v any, format string, args ...any) error {
	return a.out.Render(v, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, format+"\n", args...)
		return err
	})
}

// changedString returns a pointer to the flag value when the flag was set.
func changedString(cmd *cobra.Command, name, v string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

// changedInt returns a pointer to the flag value when the flag was set.
func changedInt(cmd *cobra.Command, name string, v int64) *int64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}
