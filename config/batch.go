package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadBatch reads a batch sheet of jobs from a CSV or XLSX file. The first
// row is a header naming the job fields; each following row becomes one job,
// starting from the defaults so omitted columns keep their standard values.
//
// Rows without both an input and an output file are skipped, as are rows
// with unparseable values; each skip produces a warning rather than failing
// the whole batch. Unrecognized header columns are warned about once and
// ignored.
func LoadBatch(path string, settings *Settings) ([]*Job, []string, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err = readXLSXRows(path)
	case ".csv":
		rows, err = readCSVRows(path)
	default:
		return nil, nil, fmt.Errorf("unsupported batch file type: %s", path)
	}
	if err != nil {
		return nil, nil, err
	}

	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("batch file is empty: %s", path)
	}

	header := rows[0]
	var warnings []string
	for i, column := range header {
		name := strings.TrimSpace(column)
		if name == "" {
			continue
		}
		if !knownColumn(name) {
			warnings = append(warnings, fmt.Sprintf("unknown column %q (index %d) ignored", name, i))
		}
	}

	var jobs []*Job
	for n, row := range rows[1:] {
		job := DefaultJob(settings)
		rowErr := applyRow(job, header, row)
		if rowErr != nil {
			warnings = append(warnings, fmt.Sprintf("row %d skipped: %v", n+2, rowErr))
			continue
		}
		if job.InputFile == "" || job.OutputFile == "" {
			warnings = append(warnings, fmt.Sprintf("row %d skipped: missing input or output file", n+2))
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, warnings, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are handled per-field
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("batch file has no sheets: %s", path)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// applyRow copies row values into the job by header column name. Cells past
// the header width and empty cells are ignored.
func applyRow(job *Job, header, row []string) error {
	for i, cell := range row {
		if i >= len(header) {
			break
		}
		value := strings.TrimSpace(cell)
		if value == "" {
			continue
		}
		column := strings.TrimSpace(header[i])
		if err := setJobField(job, column, value); err != nil {
			return err
		}
	}
	return nil
}

func setJobField(job *Job, column, value string) error {
	switch column {
	case "input_file":
		job.InputFile = value
	case "output_file":
		job.OutputFile = value
	case "stamp":
		b, err := parseBoolCell(value)
		if err != nil {
			return fmt.Errorf("stamp: %w", err)
		}
		job.Stamp = b
	case "slate_time":
		return setFloatField(&job.SlateTime, column, value)
	case "leadin_time":
		return setFloatField(&job.LeadinTime, column, value)
	case "working_time":
		return setFloatField(&job.WorkingTime, column, value)
	case "freeze_time":
		return setFloatField(&job.FreezeTime, column, value)
	case "jump_time":
		return setFloatField(&job.JumpTime, column, value)
	case "slate_frame":
		return setIntField(&job.SlateFrame, column, value)
	case "exit_frame":
		return setIntField(&job.ExitFrame, column, value)
	case "overlay_prof":
		job.OverlayProf = value
	case "encoder_prof":
		job.EncoderProf = value
	case "annotation":
		job.Annotation = value
	}
	// unknown columns were already warned about from the header
	return nil
}

func setFloatField(dst *float64, column, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q", column, value)
	}
	*dst = v
	return nil
}

func setIntField(dst *int, column, value string) error {
	// spreadsheet tools are fond of writing integers as "100.0"
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("%s: invalid number %q", column, value)
	}
	*dst = int(v)
	return nil
}

func parseBoolCell(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "y":
		return true, nil
	case "0", "false", "no", "n", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", value)
}

func knownColumn(name string) bool {
	switch name {
	case "input_file", "output_file", "stamp",
		"slate_time", "leadin_time", "working_time", "freeze_time", "jump_time",
		"slate_frame", "exit_frame",
		"overlay_prof", "encoder_prof", "annotation":
		return true
	}
	return false
}
