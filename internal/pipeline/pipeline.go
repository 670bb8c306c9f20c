// Package pipeline implements the DICOM conversion pipeline: enumerate
// candidate files under an input directory, classify each one, convert it
// into the output directory, and tally the per-file outcomes.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"dcmconvert/internal/dcm"
	"dcmconvert/pkg/dcmutil"
)

const defaultJPEGQuality = 95

type candidate struct {
	path string
	rel  string
}

// Run executes the full pipeline. Configuration problems (missing input
// directory, unusable output directory) are returned as errors before any
// file is processed; per-file decode, encode, and write errors are folded
// into the Tally as Failed and never abort the run.
func Run(ctx context.Context, dec Decoder, opts Options, updates chan<- ProgressUpdate) (Tally, []FileReport, error) {
	tally := Tally{}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.JPEGQuality <= 0 {
		opts.JPEGQuality = defaultJPEGQuality
	}

	candidates, err := prepare(opts)
	if err != nil {
		return tally, nil, err
	}

	// Index image instances up front so presentation states can resolve
	// their references regardless of processing order.
	index := buildIndex(dec, candidates)
	logger.Debug("indexed image instances", "count", len(index))

	registry := newNameRegistry()
	jobs := make(chan Job)
	results := make(chan Result)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			worker(ctx, dec, jobs, results, index, opts, logger)
		}()
	}

	var reports []FileReport
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for res := range results {
			tally.Add(res.Outcome)
			if updates != nil {
				updates <- outcomeUpdate(res.Outcome)
			}
			if res.Outcome == OutcomeSkipped || res.Outcome == OutcomeFailed {
				reports = append(reports, res.Report)
			}
		}
	}()

	producerErr := make(chan error, 1)
	go func() {
		defer close(jobs)

		for _, c := range candidates {
			job := Job{
				Path:    c.path,
				RelPath: c.rel,
				Display: c.rel,
				OutBase: registry.Claim(outBase(opts.OutputDir, c.rel)),
			}
			if updates != nil {
				updates <- ProgressUpdate{TotalDelta: 1}
			}
			if ctx == nil {
				jobs <- job
				continue
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				producerErr <- ctx.Err()
				return
			}
		}
		producerErr <- nil
	}()

	wg.Wait()
	close(results)
	<-collectorDone

	if err := <-producerErr; err != nil {
		return tally, reports, err
	}

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })
	return tally, reports, nil
}

// Scan classifies every candidate file without converting anything. It
// shares the enumeration and classification path with Run but performs no
// writes, so the output directory checks are skipped.
func Scan(ctx context.Context, dec Decoder, opts Options) ([]FileReport, error) {
	candidates, err := enumerate(opts.InputDir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	reports := make([]FileReport, 0, len(candidates))
	for _, c := range candidates {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return reports, err
			}
		}
		reports = append(reports, classifyOnly(dec, c))
	}
	return reports, nil
}

func classifyOnly(dec Decoder, c candidate) FileReport {
	report := FileReport{Path: c.rel, Modality: "Unknown", SOPClass: "Unknown SOP Class"}

	kind, err := dcmutil.SniffFile(c.path)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Class = "unreadable"
		report.Reason = err.Error()
		return report
	}
	if kind != dcmutil.KindDICOM {
		report.Outcome = OutcomeSkipped
		report.Class = "not-dicom"
		report.Reason = fmt.Sprintf("content is %s, not DICOM", kind)
		return report
	}

	inst, err := dec.Inspect(c.path)
	if err != nil {
		report.Outcome = OutcomeFailed
		report.Class = "malformed"
		report.Reason = err.Error()
		return report
	}

	report.Class = inst.Class.String()
	report.Modality = inst.Modality
	report.SOPClass = inst.SOPClassName()
	switch inst.Class {
	case dcm.ClassImage:
		report.Outcome = OutcomeWroteJPG
	case dcm.ClassEncapsulatedPDF:
		report.Outcome = OutcomeExtractedPDF
	case dcm.ClassPresentationState:
		report.Outcome = OutcomeReferencedJPG
	default:
		report.Outcome = OutcomeSkipped
		report.Reason = "no pixel data"
	}
	return report
}

// prepare validates the input directory, readies the output directory, and
// enumerates candidates. Any error here is a configuration error.
func prepare(opts Options) ([]candidate, error) {
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory %s: not a directory", opts.InputDir)
	}

	if opts.CreateOutput {
		if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("output directory: %w", err)
		}
	} else if _, err := os.Stat(opts.OutputDir); err != nil {
		return nil, fmt.Errorf("output directory: %w", err)
	}

	// Probe writability now so a dead output directory fails the run
	// instead of failing every file one by one.
	probe, err := os.CreateTemp(opts.OutputDir, ".dcmconvert-*")
	if err != nil {
		return nil, fmt.Errorf("output directory not writable: %w", err)
	}
	probeName := probe.Name()
	_ = probe.Close()
	_ = os.Remove(probeName)

	return enumerate(opts.InputDir, opts.Recursive)
}

// enumerate lists candidate files in lexical walk order. Candidates are
// regular files with a case-insensitive .dcm extension.
func enumerate(inputDir string, recursive bool) ([]candidate, error) {
	fsys := os.DirFS(inputDir)
	var out []candidate
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if !recursive && path != "." {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".dcm") {
			return nil
		}
		out = append(out, candidate{path: filepath.Join(inputDir, path), rel: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	return out, nil
}

// buildIndex maps SOPInstanceUID to path for every candidate that carries
// pixel data. Unreadable files are ignored here; they get their outcome in
// the conversion pass.
func buildIndex(dec Decoder, candidates []candidate) map[string]string {
	index := make(map[string]string)
	for _, c := range candidates {
		kind, err := dcmutil.SniffFile(c.path)
		if err != nil || kind != dcmutil.KindDICOM {
			continue
		}
		inst, err := dec.Inspect(c.path)
		if err != nil {
			continue
		}
		if inst.Class == dcm.ClassImage && inst.SOPInstanceUID != "" {
			index[inst.SOPInstanceUID] = c.path
		}
	}
	return index
}

func worker(ctx context.Context, dec Decoder, jobs <-chan Job, results chan<- Result, index map[string]string, opts Options, logger *slog.Logger) {
	for job := range jobs {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return
			}
		}

		res := processJob(dec, job, index, opts)
		if res.Err != nil {
			logger.Debug("file failed", "path", job.Display, "error", res.Err)
		}
		results <- res
	}
}

// processJob runs one file to its terminal outcome. Every error below this
// point stays scoped to the file.
func processJob(dec Decoder, job Job, index map[string]string, opts Options) Result {
	res := Result{Job: job}
	res.Report = FileReport{Path: job.Display, Modality: "Unknown", SOPClass: "Unknown SOP Class"}

	kind, err := dcmutil.SniffFile(job.Path)
	if err != nil {
		return fail(res, "unreadable", err)
	}
	if kind != dcmutil.KindDICOM {
		return skip(res, "not-dicom", fmt.Sprintf("content is %s, not DICOM", kind))
	}

	inst, err := dec.Inspect(job.Path)
	if err != nil {
		return fail(res, "malformed", err)
	}
	res.Report.Class = inst.Class.String()
	res.Report.Modality = inst.Modality
	res.Report.SOPClass = inst.SOPClassName()

	switch inst.Class {
	case dcm.ClassImage:
		if err := writeJPEG(dec, job.Path, job.OutBase+".jpg", opts.JPEGQuality); err != nil {
			return fail(res, inst.Class.String(), err)
		}
		res.Outcome = OutcomeWroteJPG

	case dcm.ClassEncapsulatedPDF:
		data, err := dec.ExtractDocument(job.Path)
		if err != nil {
			return fail(res, inst.Class.String(), err)
		}
		err = writeAtomic(job.OutBase+".pdf", func(w io.Writer) error {
			_, werr := w.Write(data)
			return werr
		})
		if err != nil {
			return fail(res, inst.Class.String(), err)
		}
		res.Outcome = OutcomeExtractedPDF

	case dcm.ClassPresentationState:
		src, ok := resolveReference(inst, index)
		if !ok {
			return skip(res, inst.Class.String(), "referenced image not found in input set")
		}
		if err := writeJPEG(dec, src, job.OutBase+".jpg", opts.JPEGQuality); err != nil {
			return fail(res, inst.Class.String(), err)
		}
		res.Outcome = OutcomeReferencedJPG

	default:
		return skip(res, inst.Class.String(), "no pixel data")
	}

	return res
}

func fail(res Result, class string, err error) Result {
	res.Outcome = OutcomeFailed
	res.Err = err
	res.Report.Outcome = OutcomeFailed
	res.Report.Class = class
	res.Report.Reason = err.Error()
	return res
}

func skip(res Result, class, reason string) Result {
	res.Outcome = OutcomeSkipped
	res.Report.Outcome = OutcomeSkipped
	res.Report.Class = class
	res.Report.Reason = reason
	return res
}

// resolveReference picks the first referenced instance present in the index.
func resolveReference(inst dcm.Instance, index map[string]string) (string, bool) {
	for _, uid := range inst.ReferencedUIDs {
		if src, ok := index[uid]; ok {
			return src, true
		}
	}
	return "", false
}

func writeJPEG(dec Decoder, srcPath, destPath string, quality int) error {
	return writeAtomic(destPath, func(w io.Writer) error {
		return dec.RenderJPEG(srcPath, w, quality)
	})
}

// writeAtomic writes through a temp file and renames into place, so a
// mid-conversion failure never leaves a partial output behind.
func writeAtomic(destPath string, write func(io.Writer) error) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(destDir, "dcmconvert-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	// CreateTemp files are 0600; converted outputs should be readable.
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return replaceFile(tmp.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func outcomeUpdate(o Outcome) ProgressUpdate {
	switch o {
	case OutcomeWroteJPG:
		return ProgressUpdate{WroteJPGDelta: 1}
	case OutcomeExtractedPDF:
		return ProgressUpdate{ExtractedPDFDelta: 1}
	case OutcomeReferencedJPG:
		return ProgressUpdate{ReferencedJPGDelta: 1}
	case OutcomeSkipped:
		return ProgressUpdate{SkippedDelta: 1}
	default:
		return ProgressUpdate{FailedDelta: 1}
	}
}
