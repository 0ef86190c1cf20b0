package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reflex-lang/reflex/internal/cli/config"
	"github.com/reflex-lang/reflex/runtime/jsontext"
)

var (
	fmtWrite   bool
	fmtCheck   bool
	fmtCompact bool
)

// NewFmtCommand creates the fmt command
func NewFmtCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt [files...]",
		Short: "Reformat object stream files",
		Long: `Reformat object stream files using the canonical layout.

By default, prints the reformatted stream to stdout. Use --write to
rewrite files in place, or --check to verify formatting without writing.

Examples:
  reflex fmt graph.rfx              # Print reformatted stream
  reflex fmt --write graph.rfx      # Rewrite the file in place
  reflex fmt --check graph.rfx      # Exit with error if not formatted
  reflex fmt --compact graph.rfx    # Strip all layout`,
		Args: cobra.MinimumNArgs(1),
		RunE: runFmt,
	}

	cmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write formatted output to files")
	cmd.Flags().BoolVarP(&fmtCheck, "check", "c", false, "Check if files are formatted (exit 1 if not)")
	cmd.Flags().BoolVar(&fmtCompact, "compact", false, "Emit compact output without layout")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	formatted := !(fmtCompact || cfg.Format.Compact)

	successColor := color.New(color.FgGreen)
	errorColor := color.New(color.FgRed, color.Bold)

	needsFormat := 0
	errorCount := 0
	for _, file := range args {
		original, err := os.ReadFile(file)
		if err != nil {
			errorColor.Fprintf(cmd.ErrOrStderr(), "Error reading %s: %v\n", file, err)
			errorCount++
			continue
		}

		node, err := jsontext.ScanString(string(original))
		if err != nil {
			errorColor.Fprintf(cmd.ErrOrStderr(), "Error parsing %s: %v\n", file, err)
			errorCount++
			continue
		}
		out, err := node.RenderString(formatted)
		if err != nil {
			errorColor.Fprintf(cmd.ErrOrStderr(), "Error rendering %s: %v\n", file, err)
			errorCount++
			continue
		}
		out += "\n"

		switch {
		case fmtCheck:
			if out != string(original) {
				errorColor.Fprintf(cmd.ErrOrStderr(), "✗ %s needs formatting\n", file)
				needsFormat++
			}
		case fmtWrite:
			if out == string(original) {
				successColor.Fprintf(cmd.OutOrStdout(), "✓ %s (no changes)\n", file)
				continue
			}
			if err := os.WriteFile(file, []byte(out), 0644); err != nil {
				errorColor.Fprintf(cmd.ErrOrStderr(), "Error writing %s: %v\n", file, err)
				errorCount++
				continue
			}
			successColor.Fprintf(cmd.OutOrStdout(), "✓ %s formatted\n", file)
		default:
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
	}

	if needsFormat > 0 {
		return fmt.Errorf("%d files need formatting", needsFormat)
	}
	if errorCount > 0 {
		return fmt.Errorf("%d files had errors", errorCount)
	}
	return nil
}
