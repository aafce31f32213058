// Package mpegsource decodes MPEG-1 program streams (.mpg) in pure Go.
package mpegsource

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"sync"
	"time"

	"github.com/gen2brain/mpeg"
	"golang.org/x/image/draw"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/ports"
)

// Opener implements ports.VideoOpener.
type Opener struct {
	logger ports.Logger
}

// NewOpener creates an Opener. log may be nil.
func NewOpener(log ports.Logger) *Opener {
	if log == nil {
		log = logger.NewNoop()
	}
	return &Opener{logger: log.WithComponent("mpeg")}
}

// Open parses the stream headers of path.
func (o *Opener) Open(ctx context.Context, path string) (ports.VideoSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}

	mpg, err := mpeg.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrOpen, path, err)
	}
	mpg.SetAudioEnabled(false)

	rate := mpg.Framerate()
	total := int(math.Round(mpg.Duration().Seconds() * rate))
	if rate <= 0 || total <= 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: no video frames", ports.ErrOpen, path)
	}

	s := &Source{
		file: f,
		mpg:  mpg,
		info: ports.VideoInfo{
			Path:        path,
			FrameRate:   rate,
			TotalFrames: total,
			Width:       mpg.Width(),
			Height:      mpg.Height(),
			Codec:       "mpeg1video",
		},
		logger: o.logger,
	}
	o.logger.Debug("Opened %s: %d frames at %.3f fps, %dx%d", path, total, rate, s.info.Width, s.info.Height)
	return s, nil
}

// Source implements ports.VideoSource.
// The decoder is stateful, so all access is serialised.
type Source struct {
	mu     sync.Mutex
	file   *os.File
	mpg    *mpeg.MPEG
	info   ports.VideoInfo
	logger ports.Logger
}

func (s *Source) Info() ports.VideoInfo {
	return s.info
}

func (s *Source) DecodeFrameAt(ctx context.Context, index int) (ports.Frame, error) {
	if index < 0 || index >= s.info.TotalFrames {
		return ports.Frame{}, fmt.Errorf("%w: index %d out of range [0, %d)", ports.ErrDecode, index, s.info.TotalFrames)
	}
	if err := ctx.Err(); err != nil {
		return ports.Frame{}, fmt.Errorf("%w: %w", ports.ErrDecode, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mpg == nil {
		return ports.Frame{}, fmt.Errorf("%w: source closed", ports.ErrDecode)
	}

	started := time.Now()
	seconds := float64(index) / s.info.FrameRate
	frame := s.mpg.SeekFrame(time.Duration(seconds*float64(time.Second)), true)
	if frame == nil {
		return ports.Frame{}, fmt.Errorf("%w: frame %d: seek failed", ports.ErrDecode, index)
	}

	// The frame buffer is reused by the decoder.
	src := frame.YCbCr()
	img := image.NewRGBA(src.Bounds())
	draw.Draw(img, img.Bounds(), src, src.Bounds().Min, draw.Src)

	s.logger.Debug("Decoded frame %d in %s", index, time.Since(started).Round(time.Millisecond))
	return ports.Frame{Index: index, Seconds: seconds, Image: img}, nil
}

// Close is idempotent.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mpg == nil {
		return nil
	}
	s.mpg = nil
	return s.file.Close()
}

var _ ports.VideoOpener = (*Opener)(nil)
var _ ports.VideoSource = (*Source)(nil)
