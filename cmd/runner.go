package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/kedoo/internal/auth"
	"github.com/desertthunder/kedoo/internal/blob"
	"github.com/desertthunder/kedoo/internal/formatter"
	"github.com/desertthunder/kedoo/internal/lifecycle"
	"github.com/desertthunder/kedoo/internal/repositories"
	"github.com/desertthunder/kedoo/internal/server"
	"github.com/desertthunder/kedoo/internal/shared"
	"github.com/desertthunder/kedoo/internal/store"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The store and the services built on it are opened on first use by [Runner.connect].
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	palette *formatter.Palette
	now     lifecycle.Clock

	store       store.Store
	auth        *auth.Service
	releases    *lifecycle.ReleaseEngine
	tickets     *lifecycle.TicketEngine
	dashboard   *lifecycle.Dashboard
	preferences *repositories.PreferenceRepository
	resolver    blob.Resolver
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Logger  *log.Logger
	Output  io.Writer
	Palette *formatter.Palette
	Store   store.Store     // Store overrides the configured store, mainly for tests
	Clock   lifecycle.Clock // Clock defaults to [time.Now]
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Palette == nil {
		opts.Palette = formatter.NewPalette(false)
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		palette: opts.Palette,
		now:     opts.Clock,
		store:   opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, releaseCommand, ticketCommand, moderateCommand, dashboardCommand, themeCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the configuration named by --config unless one was supplied, and applies the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		config, err := shared.LoadOrDefault(cmd.String("config"))
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	shared.ApplyLogLevel(r.logger, r.config.Log.Level)
	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// connect opens the store, builds the services and restores the persisted session. Later calls are no-ops.
func (r *Runner) connect(ctx context.Context) error {
	if r.auth != nil {
		return nil
	}
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}

	if r.store == nil {
		s, err := store.Open(ctx, r.config.Store, r.logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		r.store = s
	}

	clock := r.now
	if clock == nil {
		clock = time.Now
	}

	releaseRepo := repositories.NewReleaseRepository(r.store)
	ticketRepo := repositories.NewTicketRepository(r.store)

	authSvc := auth.NewService(repositories.NewAccountRepository(r.store), repositories.NewSessionRepository(r.store), r.logger)
	if err := authSvc.Restore(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	r.auth = authSvc
	r.releases = lifecycle.NewReleaseEngine(releaseRepo, authSvc, clock, shared.WithLogger(r.logger, "engine", "release"))
	r.tickets = lifecycle.NewTicketEngine(ticketRepo, authSvc, clock, shared.WithLogger(r.logger, "engine", "ticket"))
	r.dashboard = lifecycle.NewDashboard(releaseRepo, ticketRepo, authSvc)
	r.preferences = repositories.NewPreferenceRepository(r.store)
	r.resolver = blob.NewFileResolver(r.config.Blobs.MaxCoverBytes)
	return nil
}

// deps exposes the connected services to the HTTP API.
func (r *Runner) deps() server.Deps {
	return server.Deps{
		Auth:        r.auth,
		Releases:    r.releases,
		Tickets:     r.tickets,
		Dashboard:   r.dashboard,
		Preferences: r.preferences,
		Resolver:    blob.ReferenceResolver{},
		Logger:      r.logger,
	}
}

// Close releases the store. Safe to call more than once.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	err := r.store.Close()
	r.store = nil
	r.auth = nil
	return err
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.palette.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// requireArg returns the first positional argument or an [shared.ErrMissingArgument] naming it.
func requireArg(cmd *cli.Command, name string) (string, error) {
	arg := cmd.Args().First()
	if arg == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return arg, nil
}
