package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"keyfix/internal/corrector"
)

const (
	formatJSON = "json"
	formatText = "text"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Detect the language and rank suggested operations",
	Long: `Report the primary and secondary language of a text, the scorer signals
and the ranked list of operations whose score passes its threshold.

Examples:
  keyfix analyze akuo
  keyfix analyze --format text "hello world!!!"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if format != formatJSON && format != formatText {
			return fmt.Errorf("invalid format %q (must be json or text)", format)
		}
		text, err := inputText(cmd, args)
		if err != nil {
			return err
		}
		e, err := newEngine(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}
		a := e.Analyze(text)
		if format == formatText {
			return writeAnalysis(cmd.OutOrStdout(), a)
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	},
}

func writeAnalysis(w io.Writer, a corrector.Analysis) error {
	v := a.Verdict
	if _, err := fmt.Fprintf(w, "language: %s (secondary: %s, confidence %.2f)\n", v.Primary, v.Secondary, v.Confidence); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "best: %s\n", a.Best); err != nil {
		return err
	}
	for _, s := range a.Suggestions {
		if _, err := fmt.Fprintf(w, "  %-12s %.3f  %s\n", s.Operation, s.Score, s.Justification); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	analyzeCmd.Flags().StringP("format", "f", formatJSON, "output format (json, text)")
	rootCmd.AddCommand(analyzeCmd)
}
