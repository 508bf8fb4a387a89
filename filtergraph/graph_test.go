package filtergraph

import (
	"strings"
	"testing"
)

func TestCompileLinearChain(t *testing.T) {
	chain := Input(0).
		Filter("trim", KV("start_frame", "40"), KV("end_frame", "550")).
		Filter("setpts", Arg{Value: "N/FRAME_RATE/TB"}).
		Filter("scale", KV("width", "-4"), KV("height", "1080"))

	compiled, err := Compile(chain)
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}

	want := "[0:v]trim=start_frame=40:end_frame=550[s0];" +
		"[s0]setpts=N/FRAME_RATE/TB[s1];" +
		"[s1]scale=width=-4:height=1080[s2]"
	if compiled.FilterComplex != want {
		t.Errorf("FilterComplex =\n%s\nwant\n%s", compiled.FilterComplex, want)
	}
	if compiled.OutputLabel != "[s2]" {
		t.Errorf("OutputLabel = %s; want [s2]", compiled.OutputLabel)
	}
	if compiled.InputCount != 1 {
		t.Errorf("InputCount = %d; want 1", compiled.InputCount)
	}
}

func TestCompileConcatTwoSegments(t *testing.T) {
	slate := Input(0).Filter("trim", KV("start_frame", "12"), KV("end_frame", "13"))
	main := Input(1).Filter("trim", KV("start_frame", "40"), KV("end_frame", "550"))

	joined := Concat(slate, main).Filter("scale", KV("width", "1920"), KV("height", "1080"))

	compiled, err := Compile(joined)
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}

	if compiled.InputCount != 2 {
		t.Errorf("InputCount = %d; want 2", compiled.InputCount)
	}

	// Both upstream segments must be rendered before the concat referencing them.
	concatPos := strings.Index(compiled.FilterComplex, "concat=n=2:v=1:a=0")
	if concatPos < 0 {
		t.Fatalf("concat stage missing from %s", compiled.FilterComplex)
	}
	for _, trim := range []string{"[0:v]trim=", "[1:v]trim="} {
		pos := strings.Index(compiled.FilterComplex, trim)
		if pos < 0 || pos > concatPos {
			t.Errorf("segment %q not rendered before concat in %s", trim, compiled.FilterComplex)
		}
	}

	// Concat consumes both segment labels in slate-then-main order.
	if !strings.Contains(compiled.FilterComplex, "[s0][s1]concat=") {
		t.Errorf("concat inputs not in declaration order: %s", compiled.FilterComplex)
	}
}

func TestCompilePositionalArg(t *testing.T) {
	compiled, err := Compile(Input(0).Filter("setpts", Arg{Value: "PTS-STARTPTS"}))
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}
	if compiled.FilterComplex != "[0:v]setpts=PTS-STARTPTS[s0]" {
		t.Errorf("FilterComplex = %s", compiled.FilterComplex)
	}
}

func TestCompileNoArgFilter(t *testing.T) {
	compiled, err := Compile(Input(0).Filter("yadif"))
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}
	if compiled.FilterComplex != "[0:v]yadif[s0]" {
		t.Errorf("FilterComplex = %s", compiled.FilterComplex)
	}
}

func TestCompileEscapesTextValues(t *testing.T) {
	stage := Input(0).Filter("drawtext", KV("text", "in: %{frame_num} @ %{pts}"))

	compiled, err := Compile(stage)
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}

	if !strings.Contains(compiled.FilterComplex, `text=in\: %{frame_num} @ %{pts}`) {
		t.Errorf("colon not escaped in drawtext value: %s", compiled.FilterComplex)
	}
}

func TestEscapeValue(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"Plain", "1080", "1080"},
		{"Colon", "a:b", `a\:b`},
		{"Comma", "a,b", `a\,b`},
		{"Semicolon", "a;b", `a\;b`},
		{"Quote", "it's", `it\'s`},
		{"Backslash", `a\b`, `a\\b`},
		{"Brackets", "[v]", `\[v\]`},
		{"Expression", "%{eif:(trunc(t-2)):d:2}", `%{eif\:(trunc(t-2))\:d\:2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeValue(tt.in); got != tt.expected {
				t.Errorf("escapeValue(%q) = %q; want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestCompileNilGraph(t *testing.T) {
	if _, err := Compile(nil); err == nil {
		t.Error("Compile(nil) returned nil error")
	}
}

func TestCompileSourceOnly(t *testing.T) {
	if _, err := Compile(Input(0)); err == nil {
		t.Error("Compile() of a bare source returned nil error")
	}
}

func TestCompileSharedUpstreamRenderedOnce(t *testing.T) {
	base := Input(0).Filter("crop", KV("x", "0"), KV("y", "0"), KV("width", "in_w"), KV("height", "in_h"))
	joined := Concat(base, base)

	compiled, err := Compile(joined)
	if err != nil {
		t.Fatalf("Compile() returned error: %v", err)
	}
	if n := strings.Count(compiled.FilterComplex, "crop="); n != 1 {
		t.Errorf("shared stage rendered %d times; want 1", n)
	}
}
