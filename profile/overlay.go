// Package profile resolves named parameter bundles for the stamper's filter
// stages: drawtext text-box styles (overlay profiles) and output codec /
// scale / frame-rate targets (encoder profiles).
//
// Both resolvers are pure functions of a profile identifier and the probed
// video metadata. Identifiers form a closed set; an unrecognized name is not
// an error, it resolves to the default bundle.
package profile

import (
	"math"
	"strconv"
	"strings"

	"jumpstamper/ffprobe"
	"jumpstamper/filtergraph"
)

// Text sizing policy: the common boxes scale from video height with one
// divisor, the annotation box uses a smaller second tier, and every size is
// rounded to a multiple of 8 so reflows between profiles stay visually stable.
const (
	fontDivisorCommon     = 12
	fontDivisorAnnotation = 16
	fontSizeStep          = 8
)

// DefaultFontFile is used when no font is configured.
const DefaultFontFile = "/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf"

// elapsed-seconds display for the timestamp box, driven by drawtext runtime
// expression evaluation: whole seconds and hundredths since the lead-in.
const elapsedTimeTemplate = "%{eif:(trunc(t-LEADIN)):d:2}.%{eif:abs((1M*(t-LEADIN)-1M*trunc(t-LEADIN))/10000):d:2}"

// OverlayID identifies an overlay profile.
type OverlayID string

// OverlayDefault is the only overlay bundle currently defined.
const OverlayDefault OverlayID = "default"

// ParseOverlayID maps a free-form profile name to a known identifier.
// Unrecognized names fall back to the default profile.
func ParseOverlayID(name string) OverlayID {
	switch OverlayID(name) {
	case OverlayDefault:
		return OverlayDefault
	default:
		return OverlayDefault
	}
}

// TextBox is one drawtext parameter bundle. Values are immutable; derive a
// variant with the With* methods instead of mutating a shared instance.
type TextBox struct {
	FontFile   string
	Rate       float64
	FontColor  string
	FontSize   int
	Box        bool
	BoxColor   string
	BoxBorderW int
	X          string
	Y          string

	Text string

	// StartNumber applies only when UseStartNumber is set (frame counter).
	StartNumber    int
	UseStartNumber bool
}

// WithText returns a copy of the box carrying the given text.
func (tb TextBox) WithText(text string) TextBox {
	tb.Text = text
	return tb
}

// FilterArgs renders the box as drawtext filter arguments in a fixed order.
func (tb TextBox) FilterArgs() []filtergraph.Arg {
	args := []filtergraph.Arg{
		filtergraph.KV("fontfile", tb.FontFile),
		filtergraph.KV("rate", formatFloat(tb.Rate)),
		filtergraph.KV("fontcolor", tb.FontColor),
		filtergraph.KV("fontsize", strconv.Itoa(tb.FontSize)),
	}
	if tb.Box {
		args = append(args,
			filtergraph.KV("box", "1"),
			filtergraph.KV("boxcolor", tb.BoxColor),
			filtergraph.KV("boxborderw", strconv.Itoa(tb.BoxBorderW)),
		)
	}
	args = append(args,
		filtergraph.KV("x", tb.X),
		filtergraph.KV("y", tb.Y),
		filtergraph.KV("text", tb.Text),
	)
	if tb.UseStartNumber {
		args = append(args, filtergraph.KV("start_number", strconv.Itoa(tb.StartNumber)))
	}
	return args
}

// OverlayProfile bundles the common text-box style with its three
// specializations.
type OverlayProfile struct {
	Common       TextBox
	FrameCounter TextBox
	Timestamp    TextBox
	Annotation   TextBox
}

// ResolveOverlay builds the overlay bundle for a profile identifier and the
// probed video metadata. An empty fontFile selects DefaultFontFile.
func ResolveOverlay(id OverlayID, info *ffprobe.VideoInfo, fontFile string) OverlayProfile {
	_ = id // a single bundle today; the identifier keeps the call sites stable

	if fontFile == "" {
		fontFile = DefaultFontFile
	}

	common := TextBox{
		FontFile:   fontFile,
		Rate:       info.FrameRate,
		FontColor:  "yellow",
		FontSize:   roundToStep(float64(info.Height)/fontDivisorCommon, fontSizeStep),
		Box:        true,
		BoxColor:   "black@0.5",
		BoxBorderW: 3,
		X:          "0",
		Y:          "0",
	}

	frameCounter := common
	frameCounter.X = strconv.Itoa(int(math.Round(float64(info.Width) * 0.2)))
	frameCounter.Y = strconv.Itoa(int(math.Round(float64(info.Height) * 0.9)))
	frameCounter.Text = "in: %{frame_num} @ %{pts}"
	frameCounter.UseStartNumber = true

	// timestamp sits in the top-left corner; its text is filled in per job
	// with ElapsedTimeText.
	timestamp := common

	annotation := common
	annotation.FontSize = roundToStep(float64(info.Height)/fontDivisorAnnotation, fontSizeStep)
	annotation.Y = strconv.Itoa(info.Height - annotation.FontSize - annotation.BoxBorderW*2)

	return OverlayProfile{
		Common:       common,
		FrameCounter: frameCounter,
		Timestamp:    timestamp,
		Annotation:   annotation,
	}
}

// ElapsedTimeText returns the drawtext expression showing seconds and
// hundredths elapsed since the lead-in started. When there is no working
// time there is nothing to score, so the text is empty and the overlay is
// simply not drawn; that is a valid result, not an error.
func ElapsedTimeText(leadinSecs, workingSecs float64) string {
	if workingSecs == 0 {
		return ""
	}
	return strings.ReplaceAll(elapsedTimeTemplate, "LEADIN", formatFloat(leadinSecs))
}

// roundToStep rounds x to the nearest multiple of step, ties away from zero.
func roundToStep(x float64, step int) int {
	return step * int(math.Round(x/float64(step)))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
