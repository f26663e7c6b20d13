package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"keyfix/internal/corrector"
)

const maxLineBytes = 1 << 20

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Apply one operation to every line of the input",
	Long: `Read one text per line and apply an operation to each on a pool of
workers. Output keeps input order. Operations handled by external services
(enhancement, grammar, translation) are reported per line.

Examples:
  keyfix batch --input typed.txt
  cat notes.txt | keyfix batch --op cleanup --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		opName, _ := cmd.Flags().GetString("op")
		workers, _ := cmd.Flags().GetInt("workers")
		format, _ := cmd.Flags().GetString("format")
		if format != formatJSON && format != formatText {
			return fmt.Errorf("invalid format %q (must be json or text)", format)
		}
		op, err := corrector.ParseOperation(opName)
		if err != nil {
			return err
		}

		lines, err := readLines(cmd.InOrStdin(), input)
		if err != nil {
			return err
		}
		e, err := newEngine(cmd.Context(), GetConfig())
		if err != nil {
			return err
		}
		results, err := e.ProcessBatch(cmd.Context(), lines, op, workers)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if format == formatJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}
		for _, r := range results {
			if r.Err != nil {
				slog.Warn("batch item failed", "index", r.Index, "error", r.Err)
			}
			if _, err := fmt.Fprintln(out, r.Output); err != nil {
				return err
			}
		}
		return nil
	},
}

// readLines reads path, or stdin when path is "-".
func readLines(stdin io.Reader, path string) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}

func init() {
	batchCmd.Flags().StringP("input", "i", "-", "input file, one text per line (- for stdin)")
	batchCmd.Flags().String("op", corrector.OpLayoutFix.String(), "operation to apply")
	batchCmd.Flags().IntP("workers", "w", 0, "worker count (0 uses the configured default)")
	batchCmd.Flags().StringP("format", "f", formatText, "output format (text, json)")
	rootCmd.AddCommand(batchCmd)
}
