package ffmpeg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"vidna/internal/frame"
)

// ErrNoVideoStream reports an input without a decodable video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	PixFmt       string `json:"pix_fmt"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Probe executes ffprobe against path and decodes the JSON response.
func Probe(ctx context.Context, binary, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{}, fmt.Errorf("ffprobe: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Result{}, fmt.Errorf("ffprobe: %w", err)
	}
	return ParseProbe(output)
}

// ParseProbe decodes ffprobe JSON output.
func ParseProbe(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// VideoStream returns the first video stream.
func (r Result) VideoStream() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

// Info returns the frame geometry and rate of the first video stream.
func (r Result) Info() (frame.Info, error) {
	stream, ok := r.VideoStream()
	if !ok {
		return frame.Info{}, ErrNoVideoStream
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return frame.Info{}, fmt.Errorf("%w: invalid size %dx%d", ErrNoVideoStream, stream.Width, stream.Height)
	}
	fps := parseRate(stream.RFrameRate)
	if fps <= 0 {
		fps = parseRate(stream.AvgFrameRate)
	}
	return frame.Info{FPS: fps, Width: stream.Width, Height: stream.Height}, nil
}

// FrameCount returns the number of video frames ffprobe reported, estimating
// from duration and rate when the container omits it. Zero means unknown.
func (r Result) FrameCount() int {
	stream, ok := r.VideoStream()
	if !ok {
		return 0
	}
	if n, err := strconv.Atoi(strings.TrimSpace(stream.NbFrames)); err == nil && n > 0 {
		return n
	}
	duration := parseFloat(stream.Duration)
	if duration <= 0 {
		duration = parseFloat(r.Format.Duration)
	}
	fps := parseRate(stream.RFrameRate)
	if duration <= 0 || fps <= 0 {
		return 0
	}
	return int(math.Round(duration * fps))
}

// parseRate accepts "num/den" or a plain number.
func parseRate(value string) float64 {
	value = strings.TrimSpace(value)
	num, den, found := strings.Cut(value, "/")
	if !found {
		return parseFloat(value)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(parsed) {
		return 0
	}
	return parsed
}
