package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wisdomtree/internal/daemonctl"
	"wisdomtree/internal/ipc"
	"wisdomtree/internal/tree"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon, timer, and tree status",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			cfg := ctx.configValue()

			reachable, _, _ := daemonctl.ProcessInfo(ctx.socketPath())
			if !reachable {
				for _, line := range renderSectionHeader("Wisdomtree", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusWarn, "Not running (run `wisdomtree start`)", colorize))
				if cfg != nil {
					fmt.Fprintln(stdout, renderStatusLine("Database", statusInfo, cfg.DatabasePath(), colorize))
					notifDetail := "Not configured"
					notifKind := statusWarn
					if strings.TrimSpace(cfg.Notifications.NtfyTopic) != "" {
						notifDetail = "Configured"
						notifKind = statusOK
					}
					fmt.Fprintln(stdout, renderStatusLine("Notifications", notifKind, notifDetail, colorize))
				}
				return nil
			}

			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				for _, line := range renderSectionHeader("Wisdomtree", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Daemon", statusOK, fmt.Sprintf("Running (pid %d)", status.PID), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Timer", timerKind(status.Timer), timerDetail(status.Timer), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Playback", playbackKind(status), playbackDetail(status), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Volume", statusInfo, volumeDetail(status.Player), colorize))

				fmt.Fprintln(stdout)
				for _, line := range renderSectionHeader("Tree", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Age", statusInfo, fmt.Sprintf("%d", status.TreeAge), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Stage", statusInfo, stageDetail(status.TreeStage, status.TreeAge), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Season", statusInfo, status.Season, colorize))

				if status.Quote != "" {
					fmt.Fprintln(stdout)
					fmt.Fprintf(stdout, "  %q\n", status.Quote)
				}
				return nil
			})
		},
	}
}

func timerKind(t ipc.TimerState) statusKind {
	switch t.Phase {
	case "work", "break":
		if t.Paused {
			return statusWarn
		}
		return statusOK
	case "break_over":
		return statusWarn
	}
	return statusInfo
}

func timerDetail(t ipc.TimerState) string {
	switch t.Phase {
	case "work", "break":
		remaining := time.Duration(t.RemainingSeconds) * time.Second
		detail := fmt.Sprintf("%s phase, %s remaining (%s)", t.Phase, remaining, t.Preset)
		if t.Paused {
			detail += ", paused"
		}
		return detail
	case "break_over":
		return fmt.Sprintf("Break over (%s finished, run `wisdomtree timer restart`)", t.Preset)
	}
	return "Idle"
}

func playbackKind(status *ipc.StatusResponse) statusKind {
	if status.Radio.Playing || status.Player.Playing {
		return statusOK
	}
	return statusInfo
}

func playbackDetail(status *ipc.StatusResponse) string {
	switch {
	case status.Radio.Playing:
		return fmt.Sprintf("Radio: %s", status.Radio.Station)
	case status.Player.Playing && status.Player.Paused:
		return fmt.Sprintf("Paused: %s", status.Player.Track)
	case status.Player.Playing:
		return fmt.Sprintf("Playing: %s", status.Player.Track)
	}
	return "Stopped"
}

func volumeDetail(p ipc.PlayerState) string {
	if p.Muted {
		return fmt.Sprintf("%d (muted)", p.Volume)
	}
	return fmt.Sprintf("%d", p.Volume)
}

func stageDetail(stageNum int, age int64) string {
	next := tree.New(age).NextStageAge()
	if next == 0 {
		return fmt.Sprintf("%d of %d (fully grown)", stageNum, tree.StageCount)
	}
	return fmt.Sprintf("%d of %d (next at age %d)", stageNum, tree.StageCount, next)
}
