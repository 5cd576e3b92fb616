package main

import (
	"github.com/spf13/cobra"

	"wisdomtree/internal/daemonctl"
	"wisdomtree/internal/tui"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Open the full-screen interface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterface(cmd, ctx)
		},
	}
}

// runInterface makes sure the daemon is up, then hands the terminal to
// the full-screen scene.
func runInterface(cmd *cobra.Command, ctx *commandContext) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}

	exe, err := daemonExecutable()
	if err != nil {
		return err
	}
	if _, err := daemonctl.EnsureStarted(ctx.socketPath(), exe, daemonLaunchOptions(ctx),
		daemonctl.ShutdownTimeout(cfg), daemonctl.PollInterval(cfg)); err != nil {
		return err
	}

	client, err := ctx.dialClient()
	if err != nil {
		return err
	}
	defer client.Close()

	pairs := make([][2]int, 0, len(cfg.Timer.Presets))
	for _, preset := range cfg.Timer.Presets {
		pairs = append(pairs, [2]int{preset.WorkMinutes, preset.BreakMinutes})
	}
	return tui.Run(client, pairs)
}
