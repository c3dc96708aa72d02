package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/obsidianstack/launchdash/pkg/launch"
	"github.com/obsidianstack/launchdash/server/internal/api"
	"github.com/obsidianstack/launchdash/server/internal/config"
	"github.com/obsidianstack/launchdash/server/internal/dataset"
	"github.com/obsidianstack/launchdash/server/internal/store"
)

var (
	queryConfigPath string
	querySite       string
	queryMin        float64
	queryMax        float64
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Print the view for one site and payload range",
	Long: `Loads the dataset and prints what the dashboard would show for the given
selection. Without --min/--max the dataset's observed payload bounds are used.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryConfigPath, "config", "", "path to config file (defaults apply when empty)")
	queryCmd.Flags().StringVar(&querySite, "site", "ALL", "launch site, or ALL")
	queryCmd.Flags().Float64Var(&queryMin, "min", 0, "lower payload bound in kg")
	queryCmd.Flags().Float64Var(&queryMax, "max", 0, "upper payload bound in kg")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the view as JSON")
}

func runQuery(cmd *cobra.Command, _ []string) error {
	cfg := config.Defaults()
	if queryConfigPath != "" {
		loaded, err := config.Load(queryConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger := newLogger(cmd.ErrOrStderr(), slog.LevelWarn)
	ds, _, err := dataset.Load(cmd.Context(), cfg.Dataset, logger)
	if err != nil {
		return err
	}

	var lo, hi *float64
	if cmd.Flags().Changed("min") {
		lo = &queryMin
	}
	if cmd.Flags().Changed("max") {
		hi = &queryMax
	}
	crit, err := api.ResolveCriteria(ds, querySite, lo, hi)
	if err != nil {
		return err
	}

	resp := api.NewViewer(ds, store.New(0), nil, cfg.UI).Respond(crit)
	out := cmd.OutOrStdout()
	if queryJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	fmt.Fprint(out, formatView(resp))
	return nil
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// formatView renders a view as a short terminal report.
func formatView(v api.ViewResponse) string {
	var sb strings.Builder
	p := v.Criteria.Payload

	sb.WriteString(headerStyle.Render(v.Summary.Title))
	sb.WriteString("\n")
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %g to %g kg, %d launches", p.Min, p.Max, v.Matched)))
	sb.WriteString("\n")
	sb.WriteString(successStyle.Render(fmt.Sprintf("  success %5d %s", v.Summary.Success, bar(v.Summary.Success, v.Matched))))
	sb.WriteString("\n")
	sb.WriteString(failureStyle.Render(fmt.Sprintf("  failure %5d %s", v.Summary.Failure, bar(v.Summary.Failure, v.Matched))))
	sb.WriteString("\n\n")

	sb.WriteString(headerStyle.Render(v.Series.Title))
	sb.WriteString("\n")
	if len(v.Series.Groups) == 0 {
		sb.WriteString(mutedStyle.Render("  no launches"))
		sb.WriteString("\n")
	}
	for _, g := range v.Series.Groups {
		ok := 0
		for _, pt := range g.Points {
			if pt.Outcome == launch.Success {
				ok++
			}
		}
		sb.WriteString(fmt.Sprintf("  %-10s %4d launches %4d success\n", g.Category, len(g.Points), ok))
	}

	if len(v.Notes) > 0 {
		sb.WriteString("\n")
		for _, n := range v.Notes {
			style := mutedStyle
			if n.Level == "warning" {
				style = warningStyle
			}
			sb.WriteString(style.Render("  * " + n.Title + ": " + n.Detail))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// bar draws a proportional bar at most 30 cells wide.
func bar(n, total int) string {
	if total == 0 || n <= 0 {
		return ""
	}
	return strings.Repeat("#", max(1, n*30/total))
}
