package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var fixCmd = &cobra.Command{
	Use:   "fix [text...]",
	Short: "Repair text typed on the wrong keyboard layout",
	Long: `Convert text to the other keyboard layout when the result is plausible
and the original is not. Text comes from the arguments or stdin.

Examples:
  keyfix fix akuo                 # שלום
  keyfix fix --explain "יקךךם"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		e, err := newEngine(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}
		res := e.Fix(text)

		explain, _ := cmd.Flags().GetBool("explain")
		if !explain {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	fixCmd.Flags().Bool("explain", false, "print the fixer decision as JSON")
	rootCmd.AddCommand(fixCmd)
}
