package processor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/woozymasta/rewrite-export/internal/config"

	"github.com/rs/zerolog/log"
)

const (
	inputExt  = ".json"
	outputExt = ".csv"
)

var ErrInvalidExtension = errors.New("expected a .json input file")

// Result describes a finished conversion.
type Result struct {
	Output  string
	Columns []string
	Records int
}

// OutputPath returns input with its .json extension replaced by .csv.
// Leading dots of the file name are not an extension, so ".json" is rejected.
func OutputPath(input string) (string, error) {
	ext := filepath.Ext(strings.TrimLeft(filepath.Base(input), "."))
	if ext != inputExt {
		return "", fmt.Errorf("%w, got extension %q", ErrInvalidExtension, ext)
	}

	return strings.TrimSuffix(input, ext) + outputExt, nil
}

// ProcessFile converts the newline delimited JSON file at input into a CSV
// file next to it. The whole input is loaded and the whole output is
// rendered in memory before anything is written.
func ProcessFile(cfg config.Config, input string) (Result, error) {
	output, err := OutputPath(input)
	if err != nil {
		return Result{}, err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return Result{}, fmt.Errorf("read input: %w", err)
	}

	records, err := ReadRecords(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("parse %s: %w", input, err)
	}

	log.Info().
		Str("input", input).
		Int("records", len(records)).
		Msg("Records loaded")

	flattener := NewFlattener(cfg)

	rows := make([]Row, 0, len(records))
	for row, err := range flattener.Rows(records) {
		if err != nil {
			return Result{}, err
		}
		rows = append(rows, row)
	}
	columns := Columns(rows, cfg.GeometryColumn)

	if !slices.Contains(columns, cfg.GeometryColumn) {
		log.Debug().
			Str("geometry", cfg.GeometryColumn).
			Msg("Geometry column not present in any record")
	}

	var buf bytes.Buffer
	if len(records) == 0 {
		log.Warn().Str("input", input).Msg("Input has no records, writing empty output")
	} else if _, err := WriteCSV(&buf, columns, flattener.Rows(records)); err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}

	log.Info().
		Str("output", output).
		Int("records", len(records)).
		Int("columns", len(columns)).
		Msg("CSV written")

	return Result{Output: output, Columns: columns, Records: len(records)}, nil
}
