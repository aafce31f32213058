package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/framegrab/pkg/ports"
)

// Kind distinguishes export destinations.
type Kind int

const (
	// KindFile writes an image file.
	KindFile Kind = iota
	// KindClipboard places a DIB on the system clipboard.
	KindClipboard
)

// Target is the destination of one export request.
type Target struct {
	Kind   Kind
	Path   string            // File targets only
	Format ports.ImageFormat // File targets only: FormatPNG or FormatJPEG
}

// FileTarget returns a file destination.
func FileTarget(path string, format ports.ImageFormat) Target {
	return Target{Kind: KindFile, Path: path, Format: format}
}

// ClipboardTarget returns the clipboard destination.
func ClipboardTarget() Target {
	return Target{Kind: KindClipboard, Format: ports.FormatBMP}
}

// String describes the target for logs and messages.
func (t Target) String() string {
	if t.Kind == KindClipboard {
		return "clipboard"
	}
	return fmt.Sprintf("%s (%s)", t.Path, t.Format)
}

// FormatFromPath picks the image format from a file extension.
// Unknown extensions fall back to PNG.
func FormatFromPath(path string) ports.ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ports.FormatJPEG
	default:
		return ports.FormatPNG
	}
}

func (t Target) validate() error {
	switch t.Kind {
	case KindFile:
		if t.Path == "" {
			return fmt.Errorf("file target has no path")
		}
		if t.Format != ports.FormatPNG && t.Format != ports.FormatJPEG {
			return fmt.Errorf("unsupported file format %s", t.Format)
		}
	case KindClipboard:
	default:
		return fmt.Errorf("unknown target kind %d", t.Kind)
	}
	return nil
}
