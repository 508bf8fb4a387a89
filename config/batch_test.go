package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadBatchCSV(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"input_file,output_file,slate_time,leadin_time,working_time,freeze_time,slate_frame,exit_frame,annotation",
		"a.mp4,a_out.mp4,3,2,10,3,12,100,round 1",
		"b.mp4,b_out.mp4,0,1.5,0,2,0,250,",
	}, "\n") + "\n")

	jobs, warnings, err := LoadBatch(path, DefaultSettings())
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(jobs) != 2 {
		t.Fatalf("job count = %d, want 2", len(jobs))
	}

	first := jobs[0]
	if first.InputFile != "a.mp4" || first.OutputFile != "a_out.mp4" {
		t.Errorf("paths = %q, %q", first.InputFile, first.OutputFile)
	}
	if first.SlateTime != 3 || first.LeadinTime != 2 || first.WorkingTime != 10 {
		t.Errorf("timings = %+v", first)
	}
	if first.SlateFrame != 12 || first.ExitFrame != 100 {
		t.Errorf("markers = %d, %d", first.SlateFrame, first.ExitFrame)
	}
	if first.Annotation != "round 1" {
		t.Errorf("Annotation = %q", first.Annotation)
	}
	// omitted columns keep the defaults
	if first.JumpTime != 60 {
		t.Errorf("JumpTime = %v, want default 60", first.JumpTime)
	}
	if first.EncoderProf != "default" {
		t.Errorf("EncoderProf = %q, want default", first.EncoderProf)
	}

	second := jobs[1]
	if second.LeadinTime != 1.5 || second.ExitFrame != 250 {
		t.Errorf("second job = %+v", second)
	}
}

func TestLoadBatchSkipsIncompleteRows(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"input_file,output_file,exit_frame",
		"a.mp4,a_out.mp4,100",
		"b.mp4,,200",
		",c_out.mp4,300",
		"d.mp4,d_out.mp4,not-a-number",
	}, "\n") + "\n")

	jobs, warnings, err := LoadBatch(path, DefaultSettings())
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("job count = %d, want 1", len(jobs))
	}
	if jobs[0].InputFile != "a.mp4" {
		t.Errorf("surviving job = %q", jobs[0].InputFile)
	}
	if len(warnings) != 3 {
		t.Errorf("warnings = %v, want 3", warnings)
	}
	for _, w := range warnings {
		if !strings.Contains(w, "skipped") {
			t.Errorf("warning %q should say skipped", w)
		}
	}
}

func TestLoadBatchWarnsUnknownColumns(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"input_file,output_file,exit_frame,judge_name",
		"a.mp4,a_out.mp4,100,pat",
	}, "\n") + "\n")

	jobs, warnings, err := LoadBatch(path, DefaultSettings())
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("job count = %d, want 1", len(jobs))
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], `unknown column "judge_name"`) {
		t.Errorf("warnings = %v", warnings)
	}
}

func TestLoadBatchStampColumn(t *testing.T) {
	path := writeCSV(t, strings.Join([]string{
		"input_file,output_file,stamp",
		"a.mp4,a_stamped.mp4,true",
		"b.mp4,b_stamped.mp4,1",
		"c.mp4,c_out.mp4,no",
	}, "\n") + "\n")

	jobs, _, err := LoadBatch(path, DefaultSettings())
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("job count = %d, want 3", len(jobs))
	}
	if !jobs[0].Stamp || !jobs[1].Stamp || jobs[2].Stamp {
		t.Errorf("stamp flags = %v, %v, %v", jobs[0].Stamp, jobs[1].Stamp, jobs[2].Stamp)
	}
}

func TestLoadBatchXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"input_file", "output_file", "slate_time", "slate_frame", "exit_frame", "encoder_prof"},
		{"a.mp4", "a_out.mp4", 3, 12, 100, "quick"},
		{"b.mp4", "b_out.mp4", nil, nil, 250, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	jobs, warnings, err := LoadBatch(path, DefaultSettings())
	if err != nil {
		t.Fatalf("LoadBatch() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}
	if len(jobs) != 2 {
		t.Fatalf("job count = %d, want 2", len(jobs))
	}

	if jobs[0].SlateTime != 3 || jobs[0].SlateFrame != 12 || jobs[0].EncoderProf != "quick" {
		t.Errorf("first job = %+v", jobs[0])
	}
	if jobs[1].ExitFrame != 250 || jobs[1].SlateTime != 0 || jobs[1].EncoderProf != "default" {
		t.Errorf("second job = %+v", jobs[1])
	}
}

func TestLoadBatchUnsupportedExtension(t *testing.T) {
	if _, _, err := LoadBatch("jobs.txt", DefaultSettings()); err == nil {
		t.Error("want error for unsupported extension")
	}
}

func TestLoadBatchEmptyFile(t *testing.T) {
	path := writeCSV(t, "")
	if _, _, err := LoadBatch(path, DefaultSettings()); err == nil {
		t.Error("want error for empty batch file")
	}
}
