// Package pipeline runs a conversion end to end: load the input table,
// resolve its category and value columns, sanitize the rows and write the
// formatted CSV. Interactive front ends drive it through InputSource.
package pipeline

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nconklindev/vizprep/internal/config"
	"github.com/nconklindev/vizprep/internal/converter"
	"github.com/nconklindev/vizprep/internal/errors"
	"github.com/nconklindev/vizprep/internal/types"
)

// ErrCancelled may be returned by an InputSource when the user backs out.
var ErrCancelled = stderrors.New("cancelled")

// InputSource supplies the user's choices to Run.
type InputSource interface {
	// SelectInputFile returns the chosen input path. An empty path or
	// ErrCancelled means the user cancelled.
	SelectInputFile() (string, error)
	// OutputName asks for the output file name. A blank answer selects
	// defaultName.
	OutputName(defaultName string) (string, error)
}

// Reporter is implemented by sources that show what was detected in the
// input before the output name is asked for. Report also runs when the
// input held no valid rows, ahead of the error.
type Reporter interface {
	Report(prepared *Prepared)
}

// Prepared is a loaded and sanitized input, ready to be written.
type Prepared struct {
	InputFile   string
	Resolved    types.ResolvedColumns
	Data        *types.CategoryValueMap
	RowsRead    int
	RowsSkipped int
	Warnings    []string
}

type Pipeline struct {
	logger *slog.Logger
	output config.OutputConfig
	runID  string
}

func New(logger *slog.Logger, output config.OutputConfig) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return &Pipeline{
		logger: logger.With(slog.String("run_id", runID)),
		output: output,
		runID:  runID,
	}
}

func (p *Pipeline) RunID() string {
	return p.runID
}

// Prepare loads inputFile, resolves its columns and sanitizes its rows. It
// fails when nothing usable is left; that NoValidData error comes with the
// partial result so the resolved columns and warnings can still be shown.
func (p *Pipeline) Prepare(inputFile string) (*Prepared, error) {
	logger := p.logger.With(slog.String("input_file", inputFile))

	table, err := converter.ReadTable(inputFile)
	if err != nil {
		logger.Error("Failed to read input", slog.String("code", errors.GetCode(err)), slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Loaded input",
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", len(table.Rows)))

	resolved, err := converter.ResolveColumns(table)
	if err != nil {
		logger.Error("Failed to resolve columns",
			slog.Any("columns", table.Columns),
			slog.String("error", err.Error()))
		return nil, err
	}

	warnings := resolved.Warnings()
	for _, w := range warnings {
		logger.Warn(w)
	}
	logger.Info("Identified columns",
		slog.String("category", resolved.Category),
		slog.String("value", resolved.Value))

	data, skipped := converter.SanitizeRows(table, resolved)
	if skipped > 0 {
		msg := skippedRowsWarning(skipped)
		warnings = append(warnings, msg)
		logger.Warn(msg, slog.Int("skipped", skipped))
	}

	prepared := &Prepared{
		InputFile:   inputFile,
		Resolved:    resolved,
		Data:        data,
		RowsRead:    len(table.Rows),
		RowsSkipped: skipped,
		Warnings:    warnings,
	}

	if data.Len() == 0 {
		logger.Error("No valid data", slog.Int("rows", len(table.Rows)))
		return prepared, errors.NoValidData()
	}

	return prepared, nil
}

// Write stores prepared data in outputFile.
func (p *Pipeline) Write(prepared *Prepared, outputFile string) (*types.ConversionResult, error) {
	logger := p.logger.With(slog.String("output_file", outputFile))

	if prepared.Data.Len() == 0 {
		logger.Warn("Input data is empty. Creating an empty CSV with header.")
	}

	if err := p.EnsureOutputDir(); err != nil {
		logger.Error("Failed to create output directory", slog.String("error", err.Error()))
		return nil, err
	}

	written, invalid, err := converter.WriteCSV(outputFile, prepared.Data)
	if err != nil {
		logger.Error("Failed to write output", slog.String("error", err.Error()))
		return nil, err
	}
	if invalid > 0 {
		logger.Warn("Invalid entries skipped during final formatting", slog.Int("invalid", invalid))
	}

	summary := converter.Summarize(prepared.Data)
	logger.Info("Created formatted CSV file",
		slog.Int("entries", written),
		slog.Float64("total", summary.Total))

	return &types.ConversionResult{
		InputFile:      prepared.InputFile,
		OutputFile:     outputFile,
		Resolved:       prepared.Resolved,
		RowsRead:       prepared.RowsRead,
		RowsSkipped:    prepared.RowsSkipped,
		EntriesWritten: written,
		EntriesInvalid: invalid,
		Summary:        summary,
		Warnings:       prepared.Warnings,
	}, nil
}

// Run asks src for an input file, prepares it, asks for the output name and
// writes the result. The first failing stage ends the run.
func (p *Pipeline) Run(src InputSource) (*types.ConversionResult, error) {
	inputFile, err := src.SelectInputFile()
	if stderrors.Is(err, ErrCancelled) || (err == nil && strings.TrimSpace(inputFile) == "") {
		p.logger.Info("File selection cancelled")
		return nil, errors.FileSelectionCancelled()
	}
	if err != nil {
		return nil, errors.Wrap(err, "file selection failed")
	}

	prepared, err := p.Prepare(inputFile)
	if r, ok := src.(Reporter); ok && prepared != nil {
		r.Report(prepared)
	}
	if err != nil {
		return nil, err
	}

	defaultName := p.DefaultOutputName(inputFile)
	answer, err := src.OutputName(defaultName)
	if err != nil {
		return nil, errors.Wrapf(err, "reading output name for %s failed", filepath.Base(inputFile))
	}

	return p.Write(prepared, p.OutputPath(inputFile, NormalizeOutputName(answer, defaultName)))
}

// DefaultOutputName is "<input base name><suffix>.csv".
func (p *Pipeline) DefaultOutputName(inputFile string) string {
	return DefaultOutputName(inputFile, p.output.Suffix)
}

// OutputPath places a relative output name in the configured output
// directory, or next to the input file when none is configured.
func (p *Pipeline) OutputPath(inputFile, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	dir := p.output.Dir
	if dir == "" {
		dir = filepath.Dir(inputFile)
	}
	return filepath.Join(dir, name)
}

// EnsureOutputDir creates the configured output directory if needed.
func (p *Pipeline) EnsureOutputDir() error {
	if p.output.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(p.output.Dir, 0755); err != nil {
		return errors.OutputWrite(p.output.Dir, err)
	}
	return nil
}

func DefaultOutputName(inputFile, suffix string) string {
	base := filepath.Base(inputFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return name + suffix + ".csv"
}

// NormalizeOutputName trims the user's answer, substitutes defaultName when
// it is blank and appends ".csv" when the name does not already end in it.
func NormalizeOutputName(answer, defaultName string) string {
	name := strings.TrimSpace(answer)
	if name == "" {
		name = defaultName
	}
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name
}

func skippedRowsWarning(skipped int) string {
	return fmt.Sprintf("Skipped %d rows due to missing or invalid data.", skipped)
}
