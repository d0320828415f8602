package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"Connect-4-AI/internals/engine"
	"Connect-4-AI/internals/logger"
)

var (
	logLevel    string
	depth       int
	threatDepth int
	cacheBits   int
)

var rootCmd = &cobra.Command{
	Use:   "c4ctl",
	Short: "Query, play against and benchmark the connect four engine",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(logLevel, true)
	},
}

func engineOptions() engine.Options {
	return engine.Options{Depth: depth, ThreatDepth: threatDepth, CacheBits: cacheBits}
}

func init() {
	def := engine.DefaultOptions()
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().IntVar(&depth, "depth", def.Depth, "search depth for every root column")
	rootCmd.PersistentFlags().IntVar(&threatDepth, "threat-depth", def.ThreatDepth, "minimum remaining depth for threat shortcuts")
	rootCmd.PersistentFlags().IntVar(&cacheBits, "cache-bits", def.CacheBits, "position cache holds 2^bits entries")

	rootCmd.AddCommand(moveCmd, playCmd, benchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("c4ctl failed")
		os.Exit(1)
	}
}
