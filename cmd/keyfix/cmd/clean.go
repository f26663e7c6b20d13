package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [text...]",
	Short: "Normalize whitespace and repeated punctuation",
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		e, err := newEngine(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), e.Clean(text))
		return err
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
