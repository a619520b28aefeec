// Package main is the entry point for tsforecast. Without a subcommand it
// runs the dashboard; the subcommands perform the same actions for scripts.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/tsforecast-tui/internal/app"
	"github.com/j-veylop/tsforecast-tui/internal/config"
	"github.com/j-veylop/tsforecast-tui/internal/logger"
	"github.com/j-veylop/tsforecast-tui/internal/services"
	"github.com/j-veylop/tsforecast-tui/internal/ui/tabs/data"
	"github.com/j-veylop/tsforecast-tui/internal/ui/tabs/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/ui/tabs/info"
	"github.com/j-veylop/tsforecast-tui/internal/version"
)

const keyboardHelp = `Keyboard Shortcuts:
  1-3             Switch between tabs (Data, Forecast, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Move the table cursor or scroll
  a               Add a month (Data)
  e, Enter        Edit the selected value (Data)
  x               Delete the last added entry (Data)
  +/-, h          Change the forecast horizon (Forecast)
  c               Copy the database path (Info)
  r               Reload from the database
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATABASE_PATH         SQLite database path
  FORECAST_HORIZON      Default forecast horizon in months (default: 12)
  WATCH_DATABASE        Reload when the database changes (default: true)
  WATCH_DEBOUNCE        Quiet period before reloading (default: 150ms)
  FORECAST_ALERT_ABOVE  Desktop alert when the forecast rises above this value
  LOG_FILE              Log file path (default: next to the database)
  LOG_LEVEL             debug, info, warn or error (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/tsforecast/.env
  - ~/.tsforecast/.env`

func main() {
	c := &cli{}
	if err := c.execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

// cli holds what every command needs once flags are parsed.
type cli struct {
	dbPath  string
	cfg     *config.Config
	logFile io.Closer
}

// execute runs the command line. The log file opened by setup is closed
// afterwards even when the command fails, which cobra's post-run hooks skip.
func (c *cli) execute(args []string, stdout, stderr io.Writer) error {
	defer c.teardown()

	root := c.newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.Execute()
}

func (c *cli) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   version.Name,
		Short: "Monthly time series dashboard with ARIMA(1,1,1) forecasts",
		Long: `tsforecast keeps one value per month in a SQLite database and
forecasts the following months with an ARIMA(1,1,1) model.

Run without a command to open the dashboard.

` + keyboardHelp,
		Version:           version.Info(),
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		RunE: func(*cobra.Command, []string) error {
			return c.runTUI()
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&c.dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")

	root.AddCommand(
		c.newAddCmd(),
		c.newUpdateCmd(),
		c.newDeleteLastCmd(),
		c.newListCmd(),
		c.newForecastCmd(),
		newVersionCmd(),
	)

	return root
}

// setup loads configuration and sends logs to the log file.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.SetDatabasePath(c.dbPath); err != nil {
		return fmt.Errorf("failed to use database path: %w", err)
	}
	c.cfg = cfg

	closer, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	c.logFile = closer
	logger.Debug("starting", "command", cmd.Name(), "database", cfg.DatabasePath)
	return nil
}

// teardown closes the log file and sends later log lines to stderr.
func (c *cli) teardown() {
	if c.logFile == nil {
		return
	}
	_ = c.logFile.Close()
	c.logFile = nil
	logger.SetOutput(os.Stderr, c.cfg.LogLevel)
}

// runTUI opens the services and runs the dashboard until the user quits.
func (c *cli) runTUI() error {
	svcManager, err := services.NewManager(c.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	cmds := model.GetCommands()
	model.SetTabs([]app.Tab{
		data.New(state, cmds),
		forecast.New(state, cmds),
		info.New(state, cmds, c.cfg, svcManager.Watching()),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-sigChan:
			p.Send(tea.Quit())
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
