package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"dcmconvert/internal/dcm"
)

// Decoder is the DICOM collaborator the pipeline converts through.
type Decoder interface {
	Inspect(path string) (dcm.Instance, error)
	RenderJPEG(path string, w io.Writer, quality int) error
	ExtractDocument(path string) ([]byte, error)
}

// Outcome is the terminal state of one input file. Every enumerated file
// ends in exactly one outcome.
type Outcome int

const (
	OutcomeWroteJPG Outcome = iota
	OutcomeExtractedPDF
	OutcomeReferencedJPG
	OutcomeSkipped
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWroteJPG:
		return "wrote-jpg"
	case OutcomeExtractedPDF:
		return "extracted-pdf"
	case OutcomeReferencedJPG:
		return "pr-referenced-jpg"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures one pipeline run.
type Options struct {
	InputDir     string
	OutputDir    string
	Recursive    bool
	CreateOutput bool
	JPEGQuality  int
	Workers      int
	Logger       *slog.Logger
}

// Job is one input file with its pre-assigned output base path. OutBase is
// claimed by the producer before dispatch, so output names stay deterministic
// regardless of worker completion order.
type Job struct {
	Path    string
	RelPath string
	Display string
	OutBase string
}

// Result pairs a job with its terminal outcome.
type Result struct {
	Job     Job
	Outcome Outcome
	Err     error
	Report  FileReport
}

// FileReport is the per-file detail kept for skipped and failed files, and
// for dry-run scans.
type FileReport struct {
	Path     string
	Outcome  Outcome
	Class    string
	Modality string
	SOPClass string
	Reason   string
}

// Tally counts terminal outcomes for one run. It is owned by the collector
// goroutine; nothing outside the run ever mutates it.
type Tally struct {
	WroteJPGs      int
	ExtractedPDFs  int
	ReferencedJPGs int
	Skipped        int
	Failed         int
}

// Add folds one outcome into the tally.
func (t *Tally) Add(o Outcome) {
	switch o {
	case OutcomeWroteJPG:
		t.WroteJPGs++
	case OutcomeExtractedPDF:
		t.ExtractedPDFs++
	case OutcomeReferencedJPG:
		t.ReferencedJPGs++
	case OutcomeSkipped:
		t.Skipped++
	case OutcomeFailed:
		t.Failed++
	}
}

// Total returns the number of files accounted for.
func (t Tally) Total() int {
	return t.WroteJPGs + t.ExtractedPDFs + t.ReferencedJPGs + t.Skipped + t.Failed
}

// Render produces the fixed summary block. Zero counts are always printed so
// the report shape never changes between runs.
func (t Tally) Render() string {
	var b strings.Builder
	b.WriteString("Summary:\n")
	fmt.Fprintf(&b, "  %-21s%d\n", "Wrote JPGs:", t.WroteJPGs)
	fmt.Fprintf(&b, "  %-21s%d\n", "Extracted PDFs:", t.ExtractedPDFs)
	fmt.Fprintf(&b, "  %-21s%d\n", "PR-referenced JPGs:", t.ReferencedJPGs)
	fmt.Fprintf(&b, "  %-21s%d\n", "Skipped:", t.Skipped)
	fmt.Fprintf(&b, "  %-21s%d", "Failed:", t.Failed)
	return b.String()
}

// ProgressUpdate is a delta message for the progress UI.
type ProgressUpdate struct {
	TotalDelta         int
	WroteJPGDelta      int
	ExtractedPDFDelta  int
	ReferencedJPGDelta int
	SkippedDelta       int
	FailedDelta        int
}
