package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootFlags struct {
	verbose bool
	json    bool
}

var rootCmd = &cobra.Command{
	Use:           "showcase",
	Short:         "Portfolio backend serving detected projects and paid repository access",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !rootFlags.json {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if rootFlags.verbose {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Send()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&rootFlags.json, "json", false, "Log as JSON instead of console output")
	rootCmd.AddCommand(serveCmd, hashCmd)
}
