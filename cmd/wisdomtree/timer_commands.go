package main

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"wisdomtree/internal/ipc"
)

func newTimerCommand(ctx *commandContext) *cobra.Command {
	timerCmd := &cobra.Command{
		Use:   "timer",
		Short: "Control the pomodoro timer",
	}

	var presetIndex int
	var workMinutes int
	var breakMinutes int
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start a focus session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimerStart(ipc.TimerStartRequest{
					PresetIndex:  presetIndex,
					WorkMinutes:  workMinutes,
					BreakMinutes: breakMinutes,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Timer started: %s, %s remaining\n",
					resp.Timer.Preset, formatSeconds(resp.Timer.RemainingSeconds))
				return nil
			})
		},
	}
	startCmd.Flags().IntVarP(&presetIndex, "preset", "p", -1, "Preset index from the configured table")
	startCmd.Flags().IntVarP(&workMinutes, "work", "w", 0, "Work minutes for a custom session")
	startCmd.Flags().IntVarP(&breakMinutes, "break", "b", 0, "Break minutes for a custom session")

	pauseCmd := &cobra.Command{
		Use:   "pause",
		Short: "Pause the running countdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimerPause()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Timer paused with %s remaining\n",
					formatSeconds(resp.Timer.RemainingSeconds))
				return nil
			})
		},
	}

	resumeCmd := &cobra.Command{
		Use:   "resume",
		Short: "Resume a paused countdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimerResume()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Timer resumed, %s remaining\n",
					formatSeconds(resp.Timer.RemainingSeconds))
				return nil
			})
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Start a fresh session with the last finished preset",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TimerRestart()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Timer restarted: %s, %s remaining\n",
					resp.Timer.Preset, formatSeconds(resp.Timer.RemainingSeconds))
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Abandon the running session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.TimerStop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Timer stopped")
				return nil
			})
		},
	}

	timerCmd.AddCommand(startCmd, pauseCmd, resumeCmd, restartCmd, stopCmd, newTimerWatchCommand(ctx))
	return timerCmd
}

// newTimerWatchCommand follows the countdown in the terminal with a
// progress bar until the phase ends or the timer goes idle.
func newTimerWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Follow the countdown until the current phase ends",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}
				timerState := status.Timer
				if timerState.Phase != "work" && timerState.Phase != "break" {
					fmt.Fprintln(cmd.OutOrStdout(), "No session running")
					return nil
				}

				total := timerState.RemainingSeconds
				bar := progressbar.NewOptions64(total,
					progressbar.OptionSetDescription(fmt.Sprintf("%s (%s)", timerState.Phase, timerState.Preset)),
					progressbar.OptionSetWriter(cmd.OutOrStdout()),
					progressbar.OptionShowElapsedTimeOnFinish(),
					progressbar.OptionSetPredictTime(false),
					progressbar.OptionClearOnFinish(),
				)

				phase := timerState.Phase
				for {
					time.Sleep(time.Second)
					status, err := client.Status()
					if err != nil {
						return err
					}
					current := status.Timer
					if current.Phase != phase {
						_ = bar.Finish()
						switch current.Phase {
						case "idle":
							fmt.Fprintln(cmd.OutOrStdout(), "Session stopped")
						case "break_over":
							fmt.Fprintln(cmd.OutOrStdout(), "Session finished")
						default:
							fmt.Fprintf(cmd.OutOrStdout(), "Phase changed to %s\n", current.Phase)
						}
						return nil
					}
					if current.Paused {
						continue
					}
					done := total - current.RemainingSeconds
					if done < 0 {
						done = 0
					}
					_ = bar.Set64(done)
				}
			})
		},
	}
}

func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}
