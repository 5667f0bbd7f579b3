package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/rendezvous/internal/config"
	"github.com/javiermolinar/rendezvous/internal/db"
	"github.com/javiermolinar/rendezvous/internal/logging"
	"github.com/javiermolinar/rendezvous/internal/meeting"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo    meeting.Repository
	svc     *meeting.Service
	config  *config.Config
	root    *cobra.Command
	debug   bool // Enable debug logging
	noColor bool
	// ownsRepo is set when the repository was opened lazily and must be closed.
	ownsRepo bool
}

// NewApp creates a new CLI application. A nil repo is opened from the
// configured database path on first use.
func NewApp(repo meeting.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg}

	a.root = &cobra.Command{
		Use:   "rendezvous",
		Short: "Find a time that works for everyone",
		Long: `Rendezvous collects everyone's availability for a meeting and shows
where it overlaps.

Create a meeting, mark when you are free with "select" or the interactive
"pick" grid, then run "overlap" to see the best times.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.meetingCmd())
	a.root.AddCommand(a.selectCmd())
	a.root.AddCommand(a.overlapCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.pickCmd())

	return a
}

// setup attaches the logger to the command context and applies output flags.
func (a *App) setup(cmd *cobra.Command) error {
	if a.noColor {
		DisableColor()
	}

	level := a.config.Log.Level
	if a.debug {
		level = "debug"
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.ContextWithLogger(ctx, logger))
	return nil
}

// ensureRepo opens the configured database if no repository was injected.
func (a *App) ensureRepo() error {
	if a.repo == nil {
		path := a.config.Storage.DBPath
		if dir := filepath.Dir(path); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating database directory: %w", err)
			}
		}
		repo, err := db.New(path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		a.repo = repo
		a.ownsRepo = true
	}
	if a.svc == nil {
		a.svc = meeting.NewService(a.repo, nil)
	}
	return nil
}

// resolveMeeting opens storage and looks up a meeting by id or id prefix.
func (a *App) resolveMeeting(ctx context.Context, ref string) (*meeting.Meeting, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	return a.svc.Resolve(ctx, ref)
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rendezvous %s (commit: %s)\n", Version, Commit)
		},
	}
}

// SetArgs overrides the command line, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output and errors to w.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the repository if the App opened it.
func (a *App) Close() error {
	if a.ownsRepo && a.repo != nil {
		return a.repo.Close()
	}
	return nil
}
