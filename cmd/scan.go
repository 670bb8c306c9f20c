package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"dcmconvert/internal/dcm"
	"dcmconvert/internal/pipeline"
	"dcmconvert/internal/tui"
)

var scanNoRecurse bool

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Classify DICOM files without converting anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pipeline.Options{
			InputDir:  args[0],
			Recursive: !scanNoRecurse,
		}

		reports, err := pipeline.Scan(context.Background(), dcm.NewDecoder(), opts)
		if err != nil {
			return err
		}

		if len(reports) == 0 {
			fmt.Fprintln(os.Stdout, scanDimStyle.Render("no .dcm files found"))
			return nil
		}

		for _, report := range reports {
			fmt.Fprintf(os.Stdout, "%s  %s %s\n",
				scanFileStyle.Render(report.Path),
				scanClassStyle.Render(report.Class),
				scanDimStyle.Render(fmt.Sprintf("[%s | %s]", report.Modality, report.SOPClass)),
			)
			if report.Reason != "" {
				fmt.Fprintf(os.Stdout, "  %s %s\n",
					scanBulletStyle.Render("-"),
					scanReasonStyle(report).Render(report.Reason),
				)
			}
		}

		return nil
	},
}

func scanReasonStyle(report pipeline.FileReport) lipgloss.Style {
	if report.Outcome == pipeline.OutcomeFailed {
		return scanErrorStyle
	}
	return scanValueStyle
}

var (
	scanFileStyle   = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanClassStyle  = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanValueStyle  = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle    = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanErrorStyle  = lipgloss.NewStyle().Foreground(tui.ColorError)
)

func init() {
	scanCmd.Flags().BoolVar(&scanNoRecurse, "no-recurse", false, "do not descend into subdirectories")

	rootCmd.AddCommand(scanCmd)
}
