package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wisdomtree/internal/ipc"
)

func newRadioCommand(ctx *commandContext) *cobra.Command {
	radioCmd := &cobra.Command{
		Use:   "radio",
		Short: "Control internet radio playback",
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [station]",
		Short: "Connect to a configured station by number",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := 0
			if len(args) == 1 {
				parsed, err := strconv.Atoi(args[0])
				if err != nil || parsed < 1 {
					return fmt.Errorf("invalid station number %q", args[0])
				}
				index = parsed - 1
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RadioTune(ipc.RadioTuneRequest{StationIndex: index})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tuned to %s\n", resp.Radio.Station)
				return nil
			})
		},
	}

	nextCmd := &cobra.Command{
		Use:   "next",
		Short: "Tune to the next station",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RadioTune(ipc.RadioTuneRequest{Next: true})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tuned to %s\n", resp.Radio.Station)
				return nil
			})
		},
	}

	prevCmd := &cobra.Command{
		Use:   "prev",
		Short: "Tune to the previous station",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RadioTune(ipc.RadioTuneRequest{Prev: true})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tuned to %s\n", resp.Radio.Station)
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Disconnect the radio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.RadioStop(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Radio stopped")
				return nil
			})
		},
	}

	stationsCmd := &cobra.Command{
		Use:   "stations",
		Short: "List configured stations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.StationList()
				if err != nil {
					return err
				}
				if len(resp.Stations) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No stations configured")
					return nil
				}
				rows := make([][]string, 0, len(resp.Stations))
				for i, station := range resp.Stations {
					rows = append(rows, []string{strconv.Itoa(i + 1), station.Name, station.URL})
				}
				table := renderTable(
					[]column{{title: "#", numeric: true}, {title: "Name"}, {title: "URL"}},
					rows,
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	radioCmd.AddCommand(tuneCmd, nextCmd, prevCmd, stopCmd, stationsCmd)
	return radioCmd
}
