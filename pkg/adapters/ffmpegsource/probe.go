package ffmpegsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"

	"github.com/user/framegrab/pkg/ports"
)

type probeOutput struct {
	Streams []probeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

type probeStream struct {
	CodecName    string `json:"codec_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`
	NbFrames     string `json:"nb_frames"`
	Duration     string `json:"duration"`
}

// Probe reads the stream parameters of the first video stream in path.
func Probe(ctx context.Context, ffprobePath, path string) (ports.VideoInfo, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=codec_name,width,height,avg_frame_rate,r_frame_rate,nb_frames,duration:format=duration",
		"-of", "json",
		path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("ffprobe failed: %w\nstderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	return parseProbe(stdout.Bytes(), path)
}

func parseProbe(data []byte, path string) (ports.VideoInfo, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return ports.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(out.Streams) == 0 {
		return ports.VideoInfo{}, fmt.Errorf("no video stream")
	}
	s := out.Streams[0]

	rate, err := parseRational(s.AvgFrameRate)
	if err != nil || rate <= 0 {
		rate, err = parseRational(s.RFrameRate)
		if err != nil {
			return ports.VideoInfo{}, fmt.Errorf("frame rate: %w", err)
		}
	}
	if rate <= 0 {
		return ports.VideoInfo{}, fmt.Errorf("frame rate %v is not positive", rate)
	}

	total, err := strconv.Atoi(s.NbFrames)
	if err != nil || total <= 0 {
		duration := parseFloat(s.Duration)
		if duration <= 0 {
			duration = parseFloat(out.Format.Duration)
		}
		total = int(math.Round(duration * rate))
	}
	if total <= 0 {
		return ports.VideoInfo{}, fmt.Errorf("video has no frames")
	}

	return ports.VideoInfo{
		Path:        path,
		FrameRate:   rate,
		TotalFrames: total,
		Width:       s.Width,
		Height:      s.Height,
		Codec:       s.CodecName,
	}, nil
}

// parseRational parses ffprobe rates such as "30000/1001" or "25".
func parseRational(s string) (float64, error) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rational %q", s)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rational %q", s)
	}
	if d == 0 {
		return 0, nil
	}
	return n / d, nil
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
