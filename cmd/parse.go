package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"opsboard/feature/departures/parser"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	parseAssist bool
	parseImport bool
)

// parseCmd turns a pasted departure report into departures.
var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a departure report into departures",
	Long: `Parses a departure report (tab separated or free text) and prints the
departures found as JSON. The file may be UTF-8, UTF-16 or Windows-1252.
Reads standard input when the argument is "-" or missing.

Examples:
  # Preview
  parse relatorio.txt

  # Ask the language model first, fall back to the parser
  parse relatorio.txt --assist

  # Save every departure found
  parse relatorio.txt --import`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().BoolVar(&parseAssist, "assist", false, "Try the language model before the parser")
	parseCmd.Flags().BoolVar(&parseImport, "import", false, "Save the parsed departures")
	RootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	text := parser.Decode(raw)

	if !parseAssist && !parseImport {
		return printJSON(cmd, parser.Parse(text))
	}

	ctx := context.Background()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if !parseImport {
		items, source := a.departures.Parse(ctx, text, parseAssist)
		return printJSON(cmd, map[string]any{"source": source, "items": items})
	}

	report := a.departures.Import(ctx, text, parseAssist)
	a.logger.Info("Import finished",
		zap.String("source", report.Source),
		zap.Int("saved", report.Saved),
		zap.Int("failed", report.Failed))
	return printJSON(cmd, report)
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return b, nil
}
