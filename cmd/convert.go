package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"dcmconvert/internal/config"
	"dcmconvert/internal/dcm"
	"dcmconvert/internal/pipeline"
	"dcmconvert/internal/tui"
)

var (
	convertOutputDir   string
	convertConfigPath  string
	convertJPEGQuality int
	convertWorkers     int
	convertNoRecurse   bool
	convertDetails     bool
	convertVerbose     bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [flags] [input-dir]",
	Short: "Convert a directory of DICOM files to JPEGs and PDFs",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(convertConfigPath)
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("jpeg-quality") {
			cfg.Output.JPEGQuality = convertJPEGQuality
		}
		if cmd.Flags().Changed("workers") {
			cfg.Run.Workers = convertWorkers
		}
		if convertNoRecurse {
			cfg.Scan.Recursive = false
		}
		if convertOutputDir != "" {
			cfg.Output.Directory = convertOutputDir
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		stdin := bufio.NewReader(cmd.InOrStdin())
		stdout := cmd.OutOrStdout()
		inputDir := ""
		if len(args) == 1 {
			inputDir = args[0]
		} else {
			inputDir, err = prompt(stdin, stdout, "Enter input directory (with DICOM files): ")
			if err != nil {
				return err
			}
		}
		if cfg.Output.Directory == "" {
			cfg.Output.Directory, err = prompt(stdin, stdout, "Enter output directory (for JPG files): ")
			if err != nil {
				return err
			}
		}

		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		if convertVerbose {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}

		opts := pipeline.Options{
			InputDir:     inputDir,
			OutputDir:    cfg.Output.Directory,
			Recursive:    cfg.Scan.Recursive,
			CreateOutput: cfg.Output.CreateMissing,
			JPEGQuality:  cfg.Output.JPEGQuality,
			Workers:      cfg.Run.Workers,
			Logger:       logger,
		}

		updates := make(chan pipeline.ProgressUpdate, 64)
		model := tui.NewModel(updates)
		program := tea.NewProgram(model)

		uiDone := make(chan struct{})
		go func() {
			_, _ = program.Run()
			close(uiDone)
		}()

		tally, reports, err := pipeline.Run(context.Background(), dcm.NewDecoder(), opts, updates)
		close(updates)
		<-uiDone
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), tally.Render())

		if convertDetails && len(reports) > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), renderReportTable(reports))
		}

		return nil
	},
}

func prompt(r *bufio.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read %q: %w", strings.TrimSpace(label), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("no directory given")
	}
	return line, nil
}

func renderReportTable(reports []pipeline.FileReport) string {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []string{r.Path, r.Outcome.String(), r.Modality, r.SOPClass, r.Reason})
	}
	return renderTable(
		[]string{"File", "Outcome", "Modality", "SOP Class", "Reason"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutputDir, "output", "o", "", "destination folder for converted files")
	convertCmd.Flags().StringVar(&convertConfigPath, "config", "", "path to a TOML config file")
	convertCmd.Flags().IntVar(&convertJPEGQuality, "jpeg-quality", 95, "JPEG encode quality (1-100)")
	convertCmd.Flags().IntVar(&convertWorkers, "workers", 0, "conversion workers (0 = one per CPU)")
	convertCmd.Flags().BoolVar(&convertNoRecurse, "no-recurse", false, "do not descend into subdirectories")
	convertCmd.Flags().BoolVar(&convertDetails, "details", false, "print a table of skipped and failed files")
	convertCmd.Flags().BoolVarP(&convertVerbose, "verbose", "v", false, "log per-file diagnostics to stderr")

	rootCmd.AddCommand(convertCmd)
}
