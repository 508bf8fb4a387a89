// Package filtergraph models an ffmpeg filter pipeline as a DAG of stages and
// compiles it into a -filter_complex program.
//
// Stages are immutable once created: each Filter call produces a new node
// referencing its upstream stage, so graphs are built forward and are acyclic
// by construction. A stage has exactly one upstream edge except concat, which
// joins several segments and makes the pipeline a DAG rather than a chain.
//
// The package never executes anything; it only produces the filter program
// text and the label of the final stream for -map.
package filtergraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyGraph indicates Compile was called without a final stage.
var ErrEmptyGraph = errors.New("filter graph has no stages")

// Arg is a single named filter argument. An empty Key renders the value
// positionally (e.g. setpts=N/FRAME_RATE/TB).
type Arg struct {
	Key   string
	Value string
}

// KV is shorthand for a key=value filter argument.
func KV(key, value string) Arg {
	return Arg{Key: key, Value: value}
}

// Stage is one node in the filter graph: either a source stream or a filter
// applied to one or more upstream stages.
type Stage struct {
	filter string
	args   []Arg
	inputs []*Stage

	source bool
	stream int
}

// Input returns a source stage for the video track of the numbered input
// file ([N:v]).
func Input(streamIndex int) *Stage {
	return &Stage{source: true, stream: streamIndex}
}

// Filter returns a new stage applying the named filter to s.
func (s *Stage) Filter(name string, args ...Arg) *Stage {
	return &Stage{
		filter: name,
		args:   args,
		inputs: []*Stage{s},
	}
}

// Concat joins segments into one stream, video only, in the order given.
func Concat(segments ...*Stage) *Stage {
	return &Stage{
		filter: "concat",
		args: []Arg{
			KV("n", fmt.Sprintf("%d", len(segments))),
			KV("v", "1"),
			KV("a", "0"),
		},
		inputs: segments,
	}
}

// Compiled is the rendered filter program for one ffmpeg invocation.
type Compiled struct {
	FilterComplex string
	OutputLabel   string // final stream label for -map, including brackets
	InputCount    int    // number of distinct input files referenced
}

// Compile walks the graph upstream from the final stage, orders every stage
// after all of its inputs, assigns [sN] labels in that order and renders the
// -filter_complex string.
func Compile(final *Stage) (*Compiled, error) {
	if final == nil {
		return nil, ErrEmptyGraph
	}

	ordered, err := topoSort(final)
	if err != nil {
		return nil, err
	}

	labels := make(map[*Stage]string)
	maxStream := -1
	var chains []string
	n := 0

	for _, stage := range ordered {
		if stage.source {
			labels[stage] = fmt.Sprintf("[%d:v]", stage.stream)
			if stage.stream > maxStream {
				maxStream = stage.stream
			}
			continue
		}

		label := fmt.Sprintf("[s%d]", n)
		n++
		labels[stage] = label

		var sb strings.Builder
		for _, in := range stage.inputs {
			sb.WriteString(labels[in])
		}
		sb.WriteString(stage.filter)
		if len(stage.args) > 0 {
			sb.WriteString("=")
			sb.WriteString(renderArgs(stage.args))
		}
		sb.WriteString(label)
		chains = append(chains, sb.String())
	}

	if len(chains) == 0 {
		return nil, fmt.Errorf("%w: only source streams present", ErrEmptyGraph)
	}

	return &Compiled{
		FilterComplex: strings.Join(chains, ";"),
		OutputLabel:   labels[final],
		InputCount:    maxStream + 1,
	}, nil
}

// topoSort returns every stage reachable from final, each after all of its
// inputs. Shared upstream stages are emitted once.
func topoSort(final *Stage) ([]*Stage, error) {
	var ordered []*Stage
	visited := make(map[*Stage]bool)

	var visit func(s *Stage) error
	visit = func(s *Stage) error {
		if visited[s] {
			return nil
		}
		visited[s] = true

		if !s.source && len(s.inputs) == 0 {
			return fmt.Errorf("filter stage %q has no inputs", s.filter)
		}
		for _, in := range s.inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		ordered = append(ordered, s)
		return nil
	}

	if err := visit(final); err != nil {
		return nil, err
	}
	return ordered, nil
}

func renderArgs(args []Arg) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		if a.Key == "" {
			parts = append(parts, escapeValue(a.Value))
		} else {
			parts = append(parts, a.Key+"="+escapeValue(a.Value))
		}
	}
	return strings.Join(parts, ":")
}

// escapeValue protects filter-graph metacharacters inside an argument value.
// The graph parser treats ':' as an argument separator, ',' and ';' as chain
// separators and '[' ']' as labels, so values carrying free text or escape
// expressions (drawtext) must have them backslash-escaped.
func escapeValue(v string) string {
	var sb strings.Builder
	for _, r := range v {
		switch r {
		case '\\', '\'', ':', ',', ';', '[', ']':
			sb.WriteRune('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
