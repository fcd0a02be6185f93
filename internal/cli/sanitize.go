package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-forge/pkg/document"
	"github.com/jwebster45206/story-forge/pkg/sanitize"
)

var sanitizeOutput string

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize <kind> <file>",
	Short: "Sanitize and correct one raw generated document",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := document.ParseKind(args[0])
		if err != nil {
			return err
		}

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[1], err)
		}

		corrector := sanitize.NewCorrectorWithPasses(cfg.MaxCorrectionPasses)
		pipeline := sanitize.NewPipelineWithCorrector(corrector, log)
		text := pipeline.SanitizeForDisk(string(raw), kind)

		if sanitizeOutput == "" {
			fmt.Println(text)
			return nil
		}
		if err := os.WriteFile(sanitizeOutput, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", sanitizeOutput, err)
		}
		fmt.Printf("Sanitized %s document written to %s\n", kind, sanitizeOutput)
		return nil
	},
}

func init() {
	sanitizeCmd.Flags().StringVarP(&sanitizeOutput, "output", "o", "", "write sanitized text to this file instead of stdout")
}
