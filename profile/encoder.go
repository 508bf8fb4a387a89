package profile

import (
	"strconv"

	"jumpstamper/ffprobe"
)

// EncoderID identifies an encoder profile.
type EncoderID string

// The closed set of encoder bundles.
const (
	EncoderDefault EncoderID = "default" // x264, quality-first, source size and rate
	Encoder1080p30 EncoderID = "1080_30" // 1080 lines at 30 fps
	EncoderQuick   EncoderID = "quick"   // small and fast, for iterating on markers
	EncoderHEVC    EncoderID = "hevc"    // x265, better compression at the same quality
	EncoderNVENC   EncoderID = "nvenc"   // NVIDIA hardware H.264
	EncoderVAAPI   EncoderID = "vaapi"   // Intel/AMD hardware H.264
	EncoderNull    EncoderID = "null"    // discard output, full-pipeline dry runs
)

// ParseEncoderID maps a free-form profile name to a known identifier.
// Unrecognized names fall back to the default profile; a typo in a batch
// sheet should produce a default encode, not a failed batch.
func ParseEncoderID(name string) EncoderID {
	switch id := EncoderID(name); id {
	case EncoderDefault, Encoder1080p30, EncoderQuick, EncoderHEVC, EncoderNVENC, EncoderVAAPI, EncoderNull:
		return id
	default:
		return EncoderDefault
	}
}

// OutputOption is one ffmpeg output flag. An empty Value renders as a bare
// flag (-an, -y, -hide_banner).
type OutputOption struct {
	Flag  string
	Value string
}

// EncoderProfile is the resolved output bundle plus the scale and frame-rate
// targets applied at the end of the filter graph.
type EncoderProfile struct {
	Output      []OutputOption
	ScaleWidth  string // scale filter expression; "-4" keeps aspect ratio
	ScaleHeight string
	FPS         float64
}

// OutputArgs renders the bundle as command-line arguments.
func (p EncoderProfile) OutputArgs() []string {
	args := make([]string, 0, len(p.Output)*2)
	for _, opt := range p.Output {
		args = append(args, "-"+opt.Flag)
		if opt.Value != "" {
			args = append(args, opt.Value)
		}
	}
	return args
}

// ResolveEncoder builds the encoder bundle for a profile identifier and the
// probed video metadata. The default bundle keeps the source dimensions and
// frame rate; the variants override scale, rate or the codec options; the
// null bundle replaces the output options entirely with the discard muxer.
func ResolveEncoder(id EncoderID, info *ffprobe.VideoInfo) EncoderProfile {
	p := EncoderProfile{
		Output:      x264Output(25, "slow"),
		ScaleWidth:  strconv.Itoa(info.Width),
		ScaleHeight: strconv.Itoa(info.Height),
		FPS:         info.FrameRate,
	}

	switch id {
	case Encoder1080p30:
		p.ScaleWidth = "-4"
		p.ScaleHeight = "1080"
		p.FPS = 30

	case EncoderQuick:
		p.ScaleWidth = "-4"
		p.ScaleHeight = "480"
		p.Output = x264Output(32, "veryfast")

	case EncoderHEVC:
		p.Output = []OutputOption{
			{Flag: "c:v", Value: "libx265"},
			{Flag: "crf", Value: "28"},
			{Flag: "preset", Value: "slow"},
			{Flag: "tag:v", Value: "hvc1"},
			{Flag: "an"},
			{Flag: "y"},
			{Flag: "hide_banner"},
			{Flag: "f", Value: "mp4"},
		}

	case EncoderNVENC:
		p.Output = []OutputOption{
			{Flag: "c:v", Value: "h264_nvenc"},
			{Flag: "cq", Value: "25"},
			{Flag: "preset", Value: "p5"},
			{Flag: "an"},
			{Flag: "y"},
			{Flag: "hide_banner"},
			{Flag: "f", Value: "mp4"},
		}

	case EncoderVAAPI:
		p.Output = []OutputOption{
			{Flag: "c:v", Value: "h264_vaapi"},
			{Flag: "qp", Value: "25"},
			{Flag: "vaapi_device", Value: "/dev/dri/renderD128"},
			{Flag: "an"},
			{Flag: "y"},
			{Flag: "hide_banner"},
			{Flag: "f", Value: "mp4"},
		}

	case EncoderNull:
		p.Output = []OutputOption{
			{Flag: "an"},
			{Flag: "y"},
			{Flag: "hide_banner"},
			{Flag: "f", Value: "null"},
		}
	}

	return p
}

func x264Output(crf int, preset string) []OutputOption {
	return []OutputOption{
		{Flag: "c:v", Value: "libx264"},
		{Flag: "crf", Value: strconv.Itoa(crf)},
		{Flag: "preset", Value: preset},
		{Flag: "an"},
		{Flag: "y"},
		{Flag: "hide_banner"},
		{Flag: "f", Value: "mp4"},
	}
}
