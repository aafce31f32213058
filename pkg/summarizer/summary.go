// Package summarizer describes an opened video as a one-line label or a
// Markdown report.
package summarizer

import (
	"path/filepath"
	"time"

	"github.com/ideamans/go-l10n"

	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/timecode"
)

// Summary contains what is known about one video.
type Summary struct {
	GeneratedAt time.Time

	Video   VideoDetails
	Backend string
	Unit    string // Time unit suffix used for durations
}

// VideoDetails contains the stream parameters and file facts.
type VideoDetails struct {
	Name        string
	Path        string
	FileSize    int64
	Codec       string
	FrameRate   float64
	TotalFrames int
	Width       int
	Height      int
	Duration    float64 // Seconds
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
		Unit:        timecode.DefaultUnit,
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithVideo sets the stream parameters.
func (b *Builder) WithVideo(info ports.VideoInfo) *Builder {
	b.summary.Video = VideoDetails{
		Name:        filepath.Base(info.Path),
		Path:        info.Path,
		FileSize:    b.summary.Video.FileSize,
		Codec:       info.Codec,
		FrameRate:   info.FrameRate,
		TotalFrames: info.TotalFrames,
		Width:       info.Width,
		Height:      info.Height,
		Duration:    info.Duration(),
	}
	return b
}

// WithFileSize sets the size of the video file in bytes.
func (b *Builder) WithFileSize(size int64) *Builder {
	b.summary.Video.FileSize = size
	return b
}

// WithBackend records which video backend read the file.
func (b *Builder) WithBackend(name string) *Builder {
	b.summary.Backend = name
	return b
}

// WithUnit sets the time unit suffix.
func (b *Builder) WithUnit(unit string) *Builder {
	if unit != "" {
		b.summary.Unit = unit
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// Label returns the one-line description shown above the preview.
func Label(s *Summary) string {
	return l10n.F("Video: %s | Duration: %s | Resolution: %dx%d",
		s.Video.Name, timecode.FormatTimeText(s.Video.Duration, s.Unit), s.Video.Width, s.Video.Height)
}
