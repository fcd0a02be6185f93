package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/story-forge/pkg/assemble"
	"github.com/jwebster45206/story-forge/pkg/game"
)

var checkStrict bool

var checkCmd = &cobra.Command{
	Use:   "check <session-dir>",
	Short: "Assemble a session and report playability defects",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		assembler := assemble.New(log)
		g, err := assembler.LoadDir(args[0], assemble.Lenient)
		if err != nil {
			return err
		}

		result := game.NewValidator().Validate(g, checkStrict)
		fmt.Println(result.Summary())

		if !result.IsValid() {
			return fmt.Errorf("game %q is not playable", g.Title)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "treat warnings as blocking issues")
}
