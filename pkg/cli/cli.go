package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"tdl/pkg/config"
	"tdl/pkg/query"
	"tdl/pkg/repository"
	"tdl/pkg/service"
	"tdl/pkg/ui"
	"tdl/pkg/utils"
)

// Args holds the persistent flags shared by every command.
type Args struct {
	ConfigPath string
	Database   string
	Driver     string
	Verbose    bool
}

// app is the wiring built once per invocation.
type app struct {
	args   Args
	cfg    config.Config
	styles config.Styles
	repo   *repository.Repository
	svc    *service.Service
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree. Without a subcommand it opens the TUI.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "tdl",
		Short:         "A terminal to-do list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			m := ui.NewModel(cmd.Context(), a.svc, a.cfg, a.styles)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.args.ConfigPath, "config", "", "Path to configuration file")
	flags.StringVar(&a.args.Database, "database", "", "Database path or DSN (overrides config)")
	flags.StringVar(&a.args.Driver, "driver", "", "Database driver: sqlite3, postgres or memory (overrides config)")
	flags.BoolVar(&a.args.Verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		a.addCmd(),
		a.listCmd(),
		a.editCmd(),
		a.toggleCmd(),
		a.rmCmd(),
		a.completeCmd(),
		a.purgeCmd(),
		a.statsCmd(),
		a.exportCmd(),
		a.importCmd(),
		a.categoryCmd(),
		a.keysCmd(),
	)
	return cmd
}

// open loads configuration and connects the store.
func (a *app) open(ctx context.Context) error {
	cfg, styles, err := config.Load(a.args.ConfigPath)
	if err != nil {
		return err
	}
	if a.args.Database != "" {
		cfg.Database = a.args.Database
	}
	if a.args.Driver != "" {
		cfg.Driver = a.args.Driver
	}
	a.cfg, a.styles = cfg, styles

	logger, err := utils.InitLogger(a.args.Verbose, cfg.LogFile)
	if err != nil {
		return err
	}

	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		logger.Warn("invalid locale, using root collation", "locale", cfg.Locale, "error", err)
		tag = language.Und
	}

	repo, err := repository.Open(ctx, cfg.Driver, cfg.Database)
	if err != nil {
		return err
	}
	a.repo = repo
	a.svc = service.New(repo, service.WithEngine(query.NewEngine(tag)), service.WithLogger(logger))

	if cfg.SeedCategories {
		if _, err := a.svc.SeedDefaultCategories(ctx); err != nil {
			return err
		}
	}

	slog.Debug("started", "driver", cfg.Driver, "database", cfg.Database, "locale", tag.String())
	return nil
}

func (a *app) close() error {
	defer utils.CloseLogger()
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
