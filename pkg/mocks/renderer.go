package mocks

import (
	"image"
	"image/color"

	"github.com/user/framegrab/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	// Recorded calls for verification
	EncodeCalls []EncodeCall
	ResizeCalls int
}

// EncodeCall records a call to EncodeImage.
type EncodeCall struct {
	Format  ports.ImageFormat
	Quality int
	Bounds  image.Rectangle
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return &Canvas{width: width, height: height}
}

// EncodeImage returns a small fake payload. BMP payloads carry a 14-byte
// file header followed by "DIB" so header stripping can be verified.
func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.EncodeCalls = append(m.EncodeCalls, EncodeCall{Format: format, Quality: quality, Bounds: img.Bounds()})
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	switch format {
	case ports.FormatBMP:
		return append([]byte("BM012345678901"), "DIB"...), nil
	default:
		return []byte("encoded-" + format.String()), nil
	}
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	m.ResizeCalls++
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

var _ ports.Renderer = (*Renderer)(nil)

// NewCanvas creates a mock canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{width: width, height: height}
}

// Canvas is a mock implementation of ports.Canvas.
type Canvas struct {
	width  int
	height int

	// Recorded calls for verification
	ScaledDraws []image.Rectangle
	Texts       []string
}

func (m *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	m.ScaledDraws = append(m.ScaledDraws, image.Rect(x, y, x+width, y+height))
}

func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Texts = append(m.Texts, text)
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
