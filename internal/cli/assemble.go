package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-forge/pkg/assemble"
)

var (
	assembleOutput string
	assembleStrict bool
)

var assembleCmd = &cobra.Command{
	Use:   "assemble <session-dir>",
	Short: "Merge a session's five documents into one game",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := assemble.Lenient
		if assembleStrict || cfg.StrictAssembly {
			mode = assemble.Strict
		}

		assembler := assemble.New(log)
		g, err := assembler.LoadDir(args[0], mode)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal game: %w", err)
		}

		if assembleOutput == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(assembleOutput, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", assembleOutput, err)
		}
		fmt.Printf("Assembled game %q (%d scenes) written to %s\n", g.Title, len(g.Scenes), assembleOutput)
		return nil
	},
}

func init() {
	assembleCmd.Flags().StringVarP(&assembleOutput, "output", "o", "", "write assembled game JSON to this file instead of stdout")
	assembleCmd.Flags().BoolVar(&assembleStrict, "strict", false, "fail on missing or unparsable documents")
}
