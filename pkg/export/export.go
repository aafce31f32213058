// Package export writes decoded frames to image files or to the clipboard.
//
// The destination is either left untouched or fully updated. File exports
// are staged in a temporary file next to the destination and renamed into
// place; clipboard exports build the whole payload before the clipboard is
// acquired.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/user/framegrab/pkg/ports"
)

// bmpFileHeaderSize is the size of BITMAPFILEHEADER, which CF_DIB omits.
const bmpFileHeaderSize = 14

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// Options configures the pipeline.
type Options struct {
	JPEGQuality int // 1-100
}

// Result describes a completed export.
type Result struct {
	Target Target
	Bytes  int // Encoded size
}

// Size returns the encoded size in human-readable form.
func (r Result) Size() string {
	return humanize.Bytes(uint64(r.Bytes))
}

// Pipeline exports frames.
type Pipeline struct {
	fs        ports.FileSystem
	renderer  ports.Renderer
	clipboard ports.Clipboard
	logger    ports.Logger
	opts      Options

	// clipMu serialises clipboard access within this process.
	clipMu sync.Mutex
}

// New creates a Pipeline. clipboard may be nil when clipboard export is not needed.
func New(fs ports.FileSystem, renderer ports.Renderer, clipboard ports.Clipboard, logger ports.Logger, opts Options) *Pipeline {
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = DefaultJPEGQuality
	}
	return &Pipeline{
		fs:        fs,
		renderer:  renderer,
		clipboard: clipboard,
		logger:    logger.WithComponent("export"),
		opts:      opts,
	}
}

// Export writes the frame to target at its original resolution.
// Every failure wraps ports.ErrExport.
func (p *Pipeline) Export(frame ports.Frame, target Target) (Result, error) {
	img := frame.Image
	if img == nil {
		return Result{}, fmt.Errorf("%w: no frame", ports.ErrExport)
	}
	if err := target.validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ports.ErrExport, err)
	}

	var (
		n   int
		err error
	)
	switch target.Kind {
	case KindClipboard:
		n, err = p.toClipboard(img)
	default:
		n, err = p.toFile(img, target)
	}
	if err != nil {
		p.logger.Debug("Export to %s failed: %v", target, err)
		return Result{}, fmt.Errorf("%w: %s: %w", ports.ErrExport, target, err)
	}

	res := Result{Target: target, Bytes: n}
	p.logger.Debug("Exported frame %d (%s) to %s", frame.Index, res.Size(), target)
	return res, nil
}

func (p *Pipeline) toFile(img image.Image, target Target) (n int, err error) {
	dir, base := filepath.Split(target.Path)
	if dir == "" {
		dir = "."
	}

	tmp, err := p.fs.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	published := false
	defer func() {
		if published {
			return
		}
		_ = tmp.Close()
		if rmErr := p.fs.Remove(tmpName); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("remove temp file: %w", rmErr))
		}
	}()

	data, err := p.renderer.EncodeImage(img, target.Format, p.opts.JPEGQuality)
	if err != nil {
		return 0, err
	}
	if _, err := tmp.Write(data); err != nil {
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if err := p.fs.Rename(tmpName, target.Path); err != nil {
		return 0, fmt.Errorf("publish: %w", err)
	}
	published = true

	if err := p.fs.SyncDir(dir); err != nil {
		p.logger.Debug("Directory sync skipped: %v", err)
	}
	return len(data), nil
}

// DIBPayload encodes img as a bitmap and strips the file header.
func (p *Pipeline) DIBPayload(img image.Image) ([]byte, error) {
	data, err := p.renderer.EncodeImage(img, ports.FormatBMP, 0)
	if err != nil {
		return nil, err
	}
	return stripFileHeader(data)
}

func stripFileHeader(bmp []byte) ([]byte, error) {
	if len(bmp) <= bmpFileHeaderSize || !bytes.HasPrefix(bmp, []byte("BM")) {
		return nil, fmt.Errorf("encoder did not produce a bitmap file")
	}
	return bmp[bmpFileHeaderSize:], nil
}

func (p *Pipeline) toClipboard(img image.Image) (n int, err error) {
	if p.clipboard == nil {
		return 0, ports.ErrPlatformNotSupported
	}

	payload, err := p.DIBPayload(img)
	if err != nil {
		return 0, err
	}

	p.clipMu.Lock()
	defer p.clipMu.Unlock()

	if err := p.clipboard.Open(); err != nil {
		return 0, fmt.Errorf("open clipboard: %w", err)
	}
	defer func() {
		if cerr := p.clipboard.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close clipboard: %w", cerr)
		}
	}()

	if err := p.clipboard.Empty(); err != nil {
		return 0, fmt.Errorf("empty clipboard: %w", err)
	}
	if err := p.clipboard.SetDIB(payload); err != nil {
		return 0, fmt.Errorf("set clipboard data: %w", err)
	}
	return len(payload), nil
}
