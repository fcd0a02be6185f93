package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-forge/internal/config"
	"github.com/jwebster45206/story-forge/internal/logger"
)

var (
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Content pipeline tools for generated adventure games",
	Long: `forge sanitizes raw generated documents, assembles the five
documents of a session into one game, and checks the result for
playability defects.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		log = logger.Setup(cfg)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(sanitizeCmd)
	rootCmd.AddCommand(assembleCmd)
	rootCmd.AddCommand(checkCmd)
}
