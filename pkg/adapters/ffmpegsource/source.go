// Package ffmpegsource opens videos through the ffprobe and ffmpeg binaries.
package ffmpegsource

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/ports"
)

// Options configures binary discovery.
type Options struct {
	FFmpegPath  string
	FFprobePath string
	Logger      ports.Logger
}

// Opener implements ports.VideoOpener.
type Opener struct {
	opts Options
}

// NewOpener creates an Opener.
func NewOpener(opts Options) *Opener {
	if opts.Logger == nil {
		opts.Logger = logger.NewNoop()
	}
	return &Opener{opts: opts}
}

// Open probes path and returns a source that decodes frames on demand.
func (o *Opener) Open(ctx context.Context, path string) (ports.VideoSource, error) {
	ffprobe, err := FindFFprobe(o.opts.FFprobePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}
	ffmpeg, err := FindFFmpeg(o.opts.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}

	info, err := Probe(ctx, ffprobe, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrOpen, path, err)
	}

	return &Source{
		info:    info,
		decoder: NewFrameDecoder(ffmpeg, path, info.FrameRate, o.opts.Logger),
	}, nil
}

// Source implements ports.VideoSource.
type Source struct {
	info    ports.VideoInfo
	decoder *FrameDecoder

	mu     sync.Mutex
	closed bool
}

// NewSource builds a source from already known stream parameters.
func NewSource(info ports.VideoInfo, decoder *FrameDecoder) *Source {
	return &Source{info: info, decoder: decoder}
}

func (s *Source) Info() ports.VideoInfo {
	return s.info
}

func (s *Source) DecodeFrameAt(ctx context.Context, index int) (ports.Frame, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ports.Frame{}, fmt.Errorf("%w: source closed", ports.ErrDecode)
	}
	if index < 0 || index >= s.info.TotalFrames {
		return ports.Frame{}, fmt.Errorf("%w: index %d out of range [0, %d)", ports.ErrDecode, index, s.info.TotalFrames)
	}

	img, err := s.decoder.Decode(ctx, index)
	if err != nil {
		return ports.Frame{}, fmt.Errorf("%w: frame %d: %w", ports.ErrDecode, index, err)
	}
	return ports.Frame{
		Index:   index,
		Seconds: float64(index) / s.info.FrameRate,
		Image:   img,
	}, nil
}

// Close is idempotent. No process outlives a single decode.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// FrameDecoder extracts single frames by running ffmpeg once per frame.
type FrameDecoder struct {
	ffmpegPath string
	path       string
	frameRate  float64
	logger     ports.Logger
}

// NewFrameDecoder creates a decoder for the video at path.
func NewFrameDecoder(ffmpegPath, path string, frameRate float64, log ports.Logger) *FrameDecoder {
	if log == nil {
		log = logger.NewNoop()
	}
	return &FrameDecoder{
		ffmpegPath: ffmpegPath,
		path:       path,
		frameRate:  frameRate,
		logger:     log.WithComponent("ffmpeg"),
	}
}

// SeekTime returns the -ss argument for frame index.
// It points half a frame early so float rounding never skips the frame.
func SeekTime(index int, frameRate float64) string {
	t := math.Max(0, (float64(index)-0.5)/frameRate)
	return strconv.FormatFloat(t, 'f', 6, 64)
}

// Decode returns frame index at the video's native resolution.
func (d *FrameDecoder) Decode(ctx context.Context, index int) (image.Image, error) {
	args := []string{
		"-v", "error",
		"-ss", SeekTime(index, d.frameRate),
		"-i", d.path,
		"-frames:v", "1",
		"-an",
		"-f", "image2pipe",
		"-c:v", "png",
		"pipe:1",
	}
	d.logger.Debug("Running %s %v", d.ffmpegPath, args)

	started := time.Now()
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.ffmpegPath, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("ffmpeg decode failed: %w\nstderr: %s", err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame")
	}

	img, err := png.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	d.logger.Debug("Decoded frame %d in %s", index, time.Since(started).Round(time.Millisecond))
	return img, nil
}

var _ ports.VideoOpener = (*Opener)(nil)
var _ ports.VideoSource = (*Source)(nil)
