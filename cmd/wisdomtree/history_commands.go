package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"wisdomtree/internal/ipc"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded focus sessions",
	}

	var limit int
	var statusFilter string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryList(statusFilter, limit)
				if err != nil {
					return err
				}
				if len(resp.Sessions) == 0 {
					if statusFilter != "" {
						fmt.Fprintf(cmd.OutOrStdout(), "No %s sessions recorded\n", statusFilter)
						return nil
					}
					fmt.Fprintln(cmd.OutOrStdout(), "No sessions recorded")
					return nil
				}
				rows := make([][]string, 0, len(resp.Sessions))
				for _, session := range resp.Sessions {
					rows = append(rows, []string{
						session.Preset,
						session.Status,
						yesNo(session.WorkCompleted),
						formatSessionTime(session.StartedAt),
						sessionLength(session),
					})
				}
				table := renderTable(
					[]column{
						{title: "Preset"},
						{title: "Status"},
						{title: "Work Done"},
						{title: "Started"},
						{title: "Length", numeric: true},
					},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of sessions to show")
	listCmd.Flags().StringVar(&statusFilter, "status", "", "Only show sessions in this state (running, completed, abandoned, interrupted)")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate focus statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				stats, err := client.HistoryStats()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				rows := [][]string{
					{"Sessions", strconv.Itoa(stats.Total)},
					{"Completed", strconv.Itoa(stats.Completed)},
					{"Abandoned", strconv.Itoa(stats.Abandoned)},
					{"Interrupted", strconv.Itoa(stats.Interrupted)},
					{"Focus time", (time.Duration(stats.FocusSeconds) * time.Second).String()},
					{"Tree age", strconv.FormatInt(stats.TreeAge, 10)},
					{"Tree stage", strconv.Itoa(stats.TreeStage)},
				}
				if stats.FirstSession != "" {
					rows = append(rows, []string{"First session", formatSessionTime(stats.FirstSession)})
				}
				if stats.LatestSession != "" {
					rows = append(rows, []string{"Latest session", formatSessionTime(stats.LatestSession)})
				}
				fmt.Fprintln(out, renderTable(
					[]column{{title: "Metric"}, {title: "Value", numeric: true}},
					rows,
				))

				if len(stats.Days) > 0 {
					dayRows := make([][]string, 0, len(stats.Days))
					for _, day := range stats.Days {
						dayRows = append(dayRows, []string{
							day.Date,
							strconv.Itoa(day.Sessions),
							(time.Duration(day.FocusSeconds) * time.Second).String(),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]column{
							{title: "Day"},
							{title: "Sessions", numeric: true},
							{title: "Focus", numeric: true},
						},
						dayRows,
					))
				}
				return nil
			})
		},
	}

	var yes bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.HistoryClear()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d sessions\n", resp.Removed)
				return nil
			})
		},
	}
	clearCmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")

	historyCmd.AddCommand(listCmd, statsCmd, clearCmd, newHealthCommand(ctx))
	return historyCmd
}

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the session database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				health, err := client.DatabaseHealth()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				fmt.Fprintln(stdout, renderStatusLine("Database", boolKind(health.DatabaseExists), health.DBPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Readable", boolKind(health.DatabaseReadable), "", colorize))
				fmt.Fprintln(stdout, renderStatusLine("Schema", boolKind(health.TableExists && len(health.MissingColumns) == 0), schemaDetail(health), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Integrity", boolKind(health.IntegrityCheck), "", colorize))
				fmt.Fprintln(stdout, renderStatusLine("Sessions", statusInfo, strconv.Itoa(health.TotalSessions), colorize))
				if health.Error != "" {
					fmt.Fprintln(stdout, renderStatusLine("Error", statusError, health.Error, colorize))
				}
				return nil
			})
		},
	}
}

func boolKind(ok bool) statusKind {
	if ok {
		return statusOK
	}
	return statusError
}

func schemaDetail(health *ipc.DatabaseHealthResponse) string {
	if len(health.MissingColumns) > 0 {
		return fmt.Sprintf("missing columns: %v", health.MissingColumns)
	}
	if !health.TableExists {
		return "sessions table missing"
	}
	return ""
}

// formatSessionTime shows a relative time for recent sessions and an
// absolute date for older ones.
func formatSessionTime(value string) string {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	if time.Since(parsed) < 7*24*time.Hour {
		return humanize.Time(parsed)
	}
	return parsed.Local().Format("2006-01-02 15:04")
}

func sessionLength(session ipc.SessionRecord) string {
	if session.EndedAt == "" {
		return "running"
	}
	started, err1 := time.Parse(time.RFC3339, session.StartedAt)
	ended, err2 := time.Parse(time.RFC3339, session.EndedAt)
	if err1 != nil || err2 != nil {
		return ""
	}
	return ended.Sub(started).Round(time.Second).String()
}
