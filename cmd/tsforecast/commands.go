package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/j-veylop/tsforecast-tui/internal/db"
	"github.com/j-veylop/tsforecast-tui/internal/forecast"
	"github.com/j-veylop/tsforecast-tui/internal/models"
	"github.com/j-veylop/tsforecast-tui/internal/services"
	"github.com/j-veylop/tsforecast-tui/internal/ui/components"
	"github.com/j-veylop/tsforecast-tui/internal/ui/styles"
	"github.com/j-veylop/tsforecast-tui/internal/version"
)

const commandTimeout = 30 * time.Second

var (
	successStyle = styles.SuccessTextStyle
	dimStyle     = lipgloss.NewStyle().Foreground(styles.TextMuted)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// withManager opens the store without the file watcher and runs fn.
func (c *cli) withManager(cmd *cobra.Command, fn func(context.Context, *services.Manager) error) error {
	cfg := *c.cfg
	cfg.WatchDatabase = false

	mgr, err := services.NewManager(&cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() { _ = mgr.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	return fn(ctx, mgr)
}

func (c *cli) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add DATE VALUE",
		Short: "Add the value for a month (DATE is YYYY-MM)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValueArg(args[1])
			if err != nil {
				return err
			}
			return c.withManager(cmd, func(ctx context.Context, mgr *services.Manager) error {
				obs, err := mgr.AddObservation(ctx, args[0], value)
				if err != nil {
					return describeStoreError(args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
					fmt.Sprintf("✓ Added %s = %s", obs.Date, components.FormatValue(obs.Value))))
				return nil
			})
		},
	}
}

func (c *cli) newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update DATE VALUE",
		Short: "Change the value of an existing month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := parseValueArg(args[1])
			if err != nil {
				return err
			}
			return c.withManager(cmd, func(ctx context.Context, mgr *services.Manager) error {
				if err := mgr.UpdateObservation(ctx, args[0], value); err != nil {
					return describeStoreError(args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
					fmt.Sprintf("✓ Updated %s = %s", strings.TrimSpace(args[0]), components.FormatValue(value))))
				return nil
			})
		},
	}
}

func (c *cli) newDeleteLastCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-last",
		Short: "Delete the most recently added entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(cmd, func(ctx context.Context, mgr *services.Manager) error {
				obs, err := mgr.DeleteLastObservation(ctx)
				if err != nil {
					return err
				}
				if obs == nil {
					fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("Nothing to delete"))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(
					fmt.Sprintf("✓ Deleted %s = %s", obs.Date, components.FormatValue(obs.Value))))
				return nil
			})
		},
	}
}

func (c *cli) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every observation in date order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withManager(cmd, func(ctx context.Context, mgr *services.Manager) error {
				obs, err := mgr.Observations(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(obs) == 0 {
					fmt.Fprintln(out, dimStyle.Render("No observations yet. Add one with 'tsforecast add YYYY-MM VALUE'"))
					return nil
				}
				rows := make([][]string, len(obs))
				for i, o := range obs {
					rows[i] = []string{o.Date.String(), components.FormatValue(o.Value)}
				}
				fmt.Fprintln(out, renderTable([]string{"Date", "Value"}, rows))
				return nil
			})
		},
	}
}

func (c *cli) newForecastCmd() *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast the months after the last observation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("steps") {
				steps = c.cfg.DefaultHorizon
			}
			return c.withManager(cmd, func(ctx context.Context, mgr *services.Manager) error {
				result, err := mgr.Forecast(ctx, steps)
				if err != nil {
					return describeForecastError(err)
				}
				out := cmd.OutOrStdout()
				if !result.HasData() {
					fmt.Fprintln(out, dimStyle.Render("No observations yet. Add data before forecasting."))
					return nil
				}
				rows := make([][]string, len(result.Points))
				for i, p := range result.Points {
					rows[i] = []string{p.Date.String(), components.FormatValue(p.Value)}
				}
				fmt.Fprintln(out, renderTable([]string{"Month", "Forecast"}, rows))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 12, "number of months to forecast (default from FORECAST_HORIZON)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

func parseValueArg(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("value %q is not a number", s)
	}
	if err := models.ValidateValue(v); err != nil {
		return 0, fmt.Errorf("value %q must be finite", s)
	}
	return v, nil
}

// describeStoreError turns store failures into messages for the terminal.
func describeStoreError(date string, err error) error {
	switch {
	case errors.Is(err, models.ErrInvalidDate):
		return fmt.Errorf("date %q must be YYYY-MM, for example 2024-03", date)
	case errors.Is(err, db.ErrDuplicateDate):
		return fmt.Errorf("%s already exists; use 'tsforecast update' to change it", date)
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("no observation for %s", date)
	default:
		return err
	}
}

func describeForecastError(err error) error {
	var insufficient *forecast.InsufficientDataError
	switch {
	case errors.As(err, &insufficient):
		return fmt.Errorf("not enough data to forecast: %s", insufficient.Reason)
	case errors.Is(err, forecast.ErrInvalidHorizon):
		return errors.New("--steps must be at least 1")
	default:
		return err
	}
}

// renderTable lays rows out under headers. Values in the second column are
// right aligned.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := cellStyle
			if row == table.HeaderRow {
				style = headerStyle
			}
			if col == 1 {
				style = style.Align(lipgloss.Right)
			}
			return style
		}).
		String()
}
