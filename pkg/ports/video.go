package ports

import (
	"context"
	"image"
)

// VideoInfo describes the video stream of an opened file.
type VideoInfo struct {
	Path        string
	FrameRate   float64 // Frames per second
	TotalFrames int
	Width       int
	Height      int
	Codec       string // Codec name as reported by the backend (e.g. "h264")
}

// Duration returns the nominal playback length in seconds.
// It is 0 when the frame rate is unknown.
func (i VideoInfo) Duration() float64 {
	if i.FrameRate <= 0 {
		return 0
	}
	return float64(i.TotalFrames) / i.FrameRate
}

// Frame is a single decoded video frame at its original resolution.
type Frame struct {
	Index   int     // Zero-based frame index
	Seconds float64 // Nominal time of the frame
	Image   image.Image
}

// VideoSource wraps decoder state for one open video file.
type VideoSource interface {
	// Info returns the stream metadata captured at open time.
	Info() VideoInfo

	// DecodeFrameAt seeks to the frame with the given index and decodes it.
	// Seeking is subject to the container's keyframe granularity.
	DecodeFrameAt(ctx context.Context, index int) (Frame, error)

	// Close releases decoder resources. It is safe to call more than once.
	Close() error
}

// VideoOpener opens video files.
type VideoOpener interface {
	// Open opens the file and returns a ready VideoSource.
	Open(ctx context.Context, path string) (VideoSource, error)
}
