package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"wisdomtree/internal/ipc"
)

func newPlayerCommand(ctx *commandContext) *cobra.Command {
	playerCmd := &cobra.Command{
		Use:   "player",
		Short: "Control local music playback",
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Start playing the music directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlayerPlay()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", resp.Player.Track)
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle",
		Short: "Pause or resume playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlayerToggle()
				if err != nil {
					return err
				}
				if resp.Player.Paused {
					fmt.Fprintln(cmd.OutOrStdout(), "Playback paused")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Playback resumed")
				}
				return nil
			})
		},
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Skip to the next track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlayerNext()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", resp.Player.Track)
				return nil
			})
		},
	}

	prevCmd := &cobra.Command{
		Use:   "prev",
		Short: "Return to the previous track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PlayerPrev()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Playing %s\n", resp.Player.Track)
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PlayerStop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Playback stopped")
				return nil
			})
		},
	}

	loopCmd := &cobra.Command{
		Use:   "loop",
		Short: "Toggle playlist looping",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ToggleLoop()
				if err != nil {
					return err
				}
				if resp.Loop {
					fmt.Fprintln(cmd.OutOrStdout(), "Looping on")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Looping off")
				}
				return nil
			})
		},
	}

	effectsCmd := &cobra.Command{
		Use:   "effects",
		Short: "Toggle effect tones",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ToggleEffects()
				if err != nil {
					return err
				}
				if resp.Enabled {
					fmt.Fprintln(cmd.OutOrStdout(), "Effects on")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Effects off")
				}
				return nil
			})
		},
	}

	effectVolumeCmd := &cobra.Command{
		Use:   "effect-volume +delta|-delta",
		Short: "Shift the effect tone volume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := parseEffectVolumeArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.AdjustEffectVolume(delta)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Effect volume %d%%\n", resp.Volume)
				return nil
			})
		},
	}

	playerCmd.AddCommand(playCmd, toggleCmd, nextCmd, prevCmd, stopCmd, loopCmd, effectsCmd, effectVolumeCmd)
	return playerCmd
}

func parseEffectVolumeArg(arg string) (int, error) {
	arg = strings.TrimSpace(arg)
	if !strings.HasPrefix(arg, "+") && !strings.HasPrefix(arg, "-") {
		return 0, fmt.Errorf("invalid effect volume %q: expected a signed delta like +10 or -5", arg)
	}
	delta, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid effect volume %q: expected a signed delta like +10 or -5", arg)
	}
	if delta == 0 {
		return 0, fmt.Errorf("effect volume delta must be non-zero")
	}
	return delta, nil
}

// newVolumeCommand accepts an absolute value (0-100) or a signed delta
// like +10 or -5.
func newVolumeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "volume [level|+delta|-delta]",
		Short: "Show or change the music volume",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if len(args) == 0 {
					status, err := client.Status()
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Volume %s\n", volumeDetail(status.Player))
					return nil
				}

				req, err := parseVolumeArg(args[0])
				if err != nil {
					return err
				}
				resp, err := client.SetVolume(req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Volume %s\n", volumeDetail(ipc.PlayerState{Volume: resp.Volume, Muted: resp.Muted}))
				return nil
			})
		},
	}
}

func parseVolumeArg(arg string) (ipc.VolumeRequest, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ipc.VolumeRequest{}, fmt.Errorf("volume value is required")
	}
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	value, err := strconv.Atoi(arg)
	if err != nil {
		return ipc.VolumeRequest{}, fmt.Errorf("invalid volume %q: expected a number or signed delta", arg)
	}
	if relative {
		if value == 0 {
			return ipc.VolumeRequest{}, fmt.Errorf("volume delta must be non-zero")
		}
		return ipc.VolumeRequest{Delta: value}, nil
	}
	if value < 0 || value > 100 {
		return ipc.VolumeRequest{}, fmt.Errorf("volume must be between 0 and 100")
	}
	return ipc.VolumeRequest{Volume: value}, nil
}

func newMuteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "mute",
		Short: "Toggle mute",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ToggleMute()
				if err != nil {
					return err
				}
				if resp.Muted {
					fmt.Fprintln(cmd.OutOrStdout(), "Muted")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Unmuted")
				}
				return nil
			})
		},
	}
}
