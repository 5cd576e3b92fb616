package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"wisdomtree/internal/ipc"
)

func newQuoteCommand(ctx *commandContext) *cobra.Command {
	var rotate bool
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Show the current wisdom quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Quote(rotate)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				quoteColor := color.New(color.FgHiWhite, color.Italic)
				quoteColor.SetWriter(out)
				fmt.Fprintf(out, "%q\n", resp.Quote)
				quoteColor.UnsetWriter(out)
				if rotate {
					fmt.Fprintln(out, "The tree grew a little.")
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&rotate, "rotate", "r", false, "Rotate to a new quote (grows the tree)")
	return cmd
}
