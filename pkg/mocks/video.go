package mocks

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// VideoSource is a mock implementation of ports.VideoSource.
// By default every frame is a solid image whose red channel encodes the
// frame index modulo 256.
type VideoSource struct {
	mu sync.Mutex

	VideoInfo         ports.VideoInfo
	DecodeFrameAtFunc func(ctx context.Context, index int) (ports.Frame, error)
	CloseFunc         func() error

	// Recorded calls for verification
	DecodeCalls []int
	CloseCalls  int
}

// NewVideoSource creates a mock source with the given stream parameters.
func NewVideoSource(path string, frameRate float64, totalFrames, width, height int) *VideoSource {
	return &VideoSource{
		VideoInfo: ports.VideoInfo{
			Path:        path,
			FrameRate:   frameRate,
			TotalFrames: totalFrames,
			Width:       width,
			Height:      height,
			Codec:       "mock",
		},
	}
}

func (m *VideoSource) Info() ports.VideoInfo {
	return m.VideoInfo
}

func (m *VideoSource) DecodeFrameAt(ctx context.Context, index int) (ports.Frame, error) {
	m.mu.Lock()
	m.DecodeCalls = append(m.DecodeCalls, index)
	m.mu.Unlock()

	if m.DecodeFrameAtFunc != nil {
		return m.DecodeFrameAtFunc(ctx, index)
	}
	if index < 0 || index >= m.VideoInfo.TotalFrames {
		return ports.Frame{}, fmt.Errorf("%w: index %d out of range", ports.ErrDecode, index)
	}
	return ports.Frame{
		Index:   index,
		Seconds: float64(index) / m.VideoInfo.FrameRate,
		Image:   FrameImage(m.VideoInfo.Width, m.VideoInfo.Height, index),
	}, nil
}

func (m *VideoSource) Close() error {
	m.mu.Lock()
	m.CloseCalls++
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Closed reports whether Close has been called.
func (m *VideoSource) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CloseCalls > 0
}

// FrameImage returns the solid image the mock decodes for index.
func FrameImage(width, height, index int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := color.RGBA{R: uint8(index % 256), G: 40, B: 80, A: 255}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// VideoOpener is a mock implementation of ports.VideoOpener.
type VideoOpener struct {
	mu sync.Mutex

	// Sources maps paths to the source returned for them.
	Sources  map[string]*VideoSource
	OpenFunc func(ctx context.Context, path string) (ports.VideoSource, error)

	Opened []string
}

// NewVideoOpener creates an opener serving the given sources by path.
func NewVideoOpener(sources ...*VideoSource) *VideoOpener {
	m := &VideoOpener{Sources: make(map[string]*VideoSource)}
	for _, s := range sources {
		m.Sources[s.VideoInfo.Path] = s
	}
	return m
}

func (m *VideoOpener) Open(ctx context.Context, path string) (ports.VideoSource, error) {
	m.mu.Lock()
	m.Opened = append(m.Opened, path)
	m.mu.Unlock()

	if m.OpenFunc != nil {
		return m.OpenFunc(ctx, path)
	}
	if s, ok := m.Sources[path]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%w: %s: no such file", ports.ErrOpen, path)
}

var _ ports.VideoSource = (*VideoSource)(nil)
var _ ports.VideoOpener = (*VideoOpener)(nil)
