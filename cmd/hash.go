package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arwindpianist/showcase/internal/hashid"
)

var hashCmd = &cobra.Command{
	Use:   "hash NAME...",
	Short: "Print the project identifier for each repository name",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", hashid.Hash(name), name)
		}
	},
}
