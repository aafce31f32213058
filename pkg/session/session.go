// Package session holds the open video and the published preview state.
//
// Each transition returns the complete published triple (preview image,
// time text, scrubber value) or an error; on error nothing is published.
package session

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"sync"

	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/timecode"
)

// State is the session state.
type State int

const (
	// StateNoVideo means no video handle is open.
	StateNoVideo State = iota
	// StateVideoLoaded means a video handle is open.
	StateVideoLoaded
)

func (s State) String() string {
	if s == StateVideoLoaded {
		return "VideoLoaded"
	}
	return "NoVideo"
}

// Fit controls how frames are fitted into the preview area.
type Fit string

const (
	// FitStretch resizes to the preview size ignoring aspect ratio.
	FitStretch Fit = "stretch"
	// FitLetterbox keeps the aspect ratio and pads with the background colour.
	FitLetterbox Fit = "letterbox"
)

// Options configures the preview.
type Options struct {
	PreviewWidth  int
	PreviewHeight int
	Fit           Fit
	Background    color.Color
	Unit          string

	// Overlay draws the time text onto the preview.
	Overlay  bool
	FontPath string
}

// DefaultOptions returns a 640x360 stretched preview with seconds in 秒.
func DefaultOptions() Options {
	return Options{
		PreviewWidth:  640,
		PreviewHeight: 360,
		Fit:           FitStretch,
		Background:    color.Black,
		Unit:          timecode.DefaultUnit,
	}
}

// Update is the published triple of one transition.
type Update struct {
	Preview     image.Image
	TimeText    string
	Scrubber    float64 // Seconds, in [0, ScrubberMax]
	ScrubberMax float64
	FrameIndex  int
}

// Session owns at most one open video.
type Session struct {
	opener   ports.VideoOpener
	renderer ports.Renderer
	pipeline *export.Pipeline
	logger   ports.Logger
	opts     Options

	mu       sync.Mutex
	source   ports.VideoSource
	info     ports.VideoInfo
	position float64
	timeText string
	current  Update
}

// New creates a Session in StateNoVideo.
func New(opener ports.VideoOpener, renderer ports.Renderer, pipeline *export.Pipeline, logger ports.Logger, opts Options) *Session {
	def := DefaultOptions()
	if opts.PreviewWidth <= 0 || opts.PreviewHeight <= 0 {
		opts.PreviewWidth, opts.PreviewHeight = def.PreviewWidth, def.PreviewHeight
	}
	if opts.Fit == "" {
		opts.Fit = def.Fit
	}
	if opts.Background == nil {
		opts.Background = def.Background
	}
	if opts.Unit == "" {
		opts.Unit = def.Unit
	}
	return &Session{
		opener:   opener,
		renderer: renderer,
		pipeline: pipeline,
		logger:   logger.WithComponent("session"),
		opts:     opts,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() State {
	if s.source == nil {
		return StateNoVideo
	}
	return StateVideoLoaded
}

// Info returns the stream parameters of the open video.
func (s *Session) Info() (ports.VideoInfo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info, s.source != nil
}

// Position returns the published position in seconds.
func (s *Session) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

// TimeText returns the text field contents, including unpublished edits.
func (s *Session) TimeText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeText
}

// Current returns the last published triple.
func (s *Session) Current() Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Unit returns the time unit suffix.
func (s *Session) Unit() string {
	return s.opts.Unit
}

// Open replaces the current video with path and renders its first frame.
// The previous handle is closed before the new one is opened. If the first
// frame cannot be decoded the video stays loaded and the error is returned.
func (s *Session) Open(ctx context.Context, path string) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	src, err := s.opener.Open(ctx, path)
	if err != nil {
		return Update{}, err
	}
	info := src.Info()
	if err := timecode.CheckStream(info.FrameRate, info.TotalFrames); err != nil {
		_ = src.Close()
		return Update{}, fmt.Errorf("%w: %s: %w", ports.ErrOpen, path, err)
	}

	s.source = src
	s.info = info
	s.logger.Info("Opened %s: %d frames at %.3f fps, %dx%d",
		filepath.Base(path), info.TotalFrames, info.FrameRate, info.Width, info.Height)

	return s.setPositionLocked(ctx, 0)
}

// Close releases the open video. It is safe to call in any state.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *Session) closeLocked() error {
	if s.source == nil {
		return nil
	}
	err := s.source.Close()
	s.logger.Debug("Closed %s", s.info.Path)
	s.source = nil
	s.info = ports.VideoInfo{}
	s.position = 0
	s.timeText = ""
	s.current = Update{}
	return err
}

// SetPosition moves to seconds, clamped to the video duration, and publishes
// the frame at that position.
func (s *Session) SetPosition(ctx context.Context, seconds float64) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setPositionLocked(ctx, seconds)
}

func (s *Session) setPositionLocked(ctx context.Context, seconds float64) (Update, error) {
	if s.source == nil {
		return Update{}, ports.ErrNoVideo
	}

	duration := s.info.Duration()
	seconds = timecode.ClampSeconds(seconds, duration)
	index, err := timecode.ToFrameIndex(seconds, s.info.FrameRate, s.info.TotalFrames)
	if err != nil {
		return Update{}, fmt.Errorf("%w: %w", ports.ErrDecode, err)
	}

	frame, err := s.source.DecodeFrameAt(ctx, index)
	if err != nil {
		s.logger.Debug("Frame %d could not be shown: %v", index, err)
		return Update{}, err
	}

	text := timecode.FormatTimeText(seconds, s.opts.Unit)
	u := Update{
		Preview:     s.renderPreview(frame.Image, text),
		TimeText:    text,
		Scrubber:    seconds,
		ScrubberMax: duration,
		FrameIndex:  index,
	}

	s.position = seconds
	s.timeText = text
	s.current = u
	s.logger.Debug("Moved to frame %d (%s)", index, text)
	return u, nil
}

// EditTimeText stores typed text without seeking.
func (s *Session) EditTimeText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeText = text
}

// SeekToTimeText parses the text field and moves there.
// A parse failure leaves the published triple unchanged.
func (s *Session) SeekToTimeText(ctx context.Context) (Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return Update{}, ports.ErrNoVideo
	}
	seconds, err := timecode.ParseTimeText(s.timeText, s.opts.Unit)
	if err != nil {
		s.logger.Debug("Time text rejected: %v", err)
		return Update{}, err
	}
	return s.setPositionLocked(ctx, seconds)
}

// Export decodes the frame named by the text field and exports it.
// It never changes the published state.
func (s *Session) Export(ctx context.Context, target export.Target) (export.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return export.Result{}, ports.ErrNoVideo
	}
	seconds, err := timecode.ParseTimeText(s.timeText, s.opts.Unit)
	if err != nil {
		return export.Result{}, err
	}
	seconds = timecode.ClampSeconds(seconds, s.info.Duration())
	index, err := timecode.ToFrameIndex(seconds, s.info.FrameRate, s.info.TotalFrames)
	if err != nil {
		return export.Result{}, fmt.Errorf("%w: %w", ports.ErrDecode, err)
	}

	frame, err := s.source.DecodeFrameAt(ctx, index)
	if err != nil {
		return export.Result{}, err
	}
	return s.pipeline.Export(frame, target)
}

// PreviewAt renders the preview for seconds without publishing it.
func (s *Session) PreviewAt(ctx context.Context, seconds float64) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == nil {
		return nil, ports.ErrNoVideo
	}
	seconds = timecode.ClampSeconds(seconds, s.info.Duration())
	index, err := timecode.ToFrameIndex(seconds, s.info.FrameRate, s.info.TotalFrames)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrDecode, err)
	}
	frame, err := s.source.DecodeFrameAt(ctx, index)
	if err != nil {
		return nil, err
	}
	return s.renderPreview(frame.Image, timecode.FormatTimeText(seconds, s.opts.Unit)), nil
}

func (s *Session) renderPreview(img image.Image, text string) image.Image {
	w, h := s.opts.PreviewWidth, s.opts.PreviewHeight
	if s.opts.Fit != FitLetterbox && !s.opts.Overlay {
		return s.renderer.ResizeImage(img, w, h)
	}

	canvas := s.renderer.CreateCanvas(w, h, s.opts.Background)
	if s.opts.Fit == FitLetterbox {
		x, y, dw, dh := letterbox(img.Bounds(), w, h)
		canvas.DrawImageScaled(img, x, y, dw, dh)
	} else {
		canvas.DrawImageScaled(img, 0, 0, w, h)
	}
	if s.opts.Overlay {
		canvas.DrawText(text, w-12, h-16, ports.TextStyle{
			FontSize: 18,
			FontPath: s.opts.FontPath,
			Color:    color.White,
			Align:    ports.AlignRight,
		})
	}
	return canvas.ToImage()
}

// letterbox returns the largest rectangle with the aspect ratio of src that
// fits in w x h, centred.
func letterbox(src image.Rectangle, w, h int) (x, y, dw, dh int) {
	sw, sh := src.Dx(), src.Dy()
	if sw <= 0 || sh <= 0 {
		return 0, 0, w, h
	}
	if sw*h > sh*w {
		dw = w
		dh = sh * w / sw
	} else {
		dh = h
		dw = sw * h / sh
	}
	return (w - dw) / 2, (h - dh) / 2, dw, dh
}
