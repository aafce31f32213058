// Package smartsource picks a video backend by sniffing the container.
package smartsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/framegrab/pkg/adapters/ffmpegsource"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/mp4source"
	"github.com/user/framegrab/pkg/adapters/mpegsource"
	"github.com/user/framegrab/pkg/ports"
)

// Backend names a video source implementation.
type Backend string

const (
	// BackendAuto sniffs the container to choose a backend.
	BackendAuto Backend = "auto"
	// BackendFFmpeg uses ffprobe and ffmpeg subprocesses.
	BackendFFmpeg Backend = "ffmpeg"
	// BackendMP4 reads ISO-BMFF metadata in-process and decodes with ffmpeg.
	BackendMP4 Backend = "mp4"
	// BackendMPEG decodes MPEG-1 in pure Go.
	BackendMPEG Backend = "mpeg"
)

// ErrUnknownBackend is returned for backend names that are not supported.
var ErrUnknownBackend = errors.New("smartsource: unknown backend")

// ParseBackend parses a backend name. The empty string means BackendAuto.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case "":
		return BackendAuto, nil
	case BackendAuto, BackendFFmpeg, BackendMP4, BackendMPEG:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// Options configures backend selection.
type Options struct {
	Backend     Backend
	FFmpegPath  string
	FFprobePath string
	Logger      ports.Logger
}

// Opener implements ports.VideoOpener.
type Opener struct {
	backend Backend
	logger  ports.Logger
	openers map[Backend]ports.VideoOpener
}

// NewOpener creates an Opener with all backends configured from opts.
func NewOpener(opts Options) *Opener {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	if opts.Backend == "" {
		opts.Backend = BackendAuto
	}
	return &Opener{
		backend: opts.Backend,
		logger:  log.WithComponent("source"),
		openers: map[Backend]ports.VideoOpener{
			BackendFFmpeg: ffmpegsource.NewOpener(ffmpegsource.Options{
				FFmpegPath:  opts.FFmpegPath,
				FFprobePath: opts.FFprobePath,
				Logger:      log,
			}),
			BackendMP4: mp4source.NewOpener(mp4source.Options{
				FFmpegPath: opts.FFmpegPath,
				Logger:     log,
			}),
			BackendMPEG: mpegsource.NewOpener(log),
		},
	}
}

// Resolve returns the backend Open would use for path.
func (o *Opener) Resolve(path string) (Backend, error) {
	if o.backend != BackendAuto {
		return o.backend, nil
	}
	return DetectFile(path)
}

// Open opens path with the configured or detected backend.
// A detected MP4 that cannot be parsed is retried with ffmpeg.
func (o *Opener) Open(ctx context.Context, path string) (ports.VideoSource, error) {
	backend, err := o.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}

	opener, ok := o.openers[backend]
	if !ok {
		return nil, fmt.Errorf("%w: %w: %q", ports.ErrOpen, ErrUnknownBackend, backend)
	}

	o.logger.Debug("Using %s backend for %s", backend, path)
	src, err := opener.Open(ctx, path)
	if err != nil && o.backend == BackendAuto && backend == BackendMP4 && !errors.Is(err, ffmpegsource.ErrFFmpegNotFound) {
		o.logger.Warn("%s backend failed for %s, falling back to ffmpeg: %v", backend, path, err)
		return o.openers[BackendFFmpeg].Open(ctx, path)
	}
	return src, err
}

// sniffLen is the number of leading bytes Detect looks at.
const sniffLen = 12

var (
	mpegPackStart     = []byte{0x00, 0x00, 0x01, 0xBA}
	mpegSequenceStart = []byte{0x00, 0x00, 0x01, 0xB3}
)

// Detect chooses a backend from the first bytes of a file.
func Detect(head []byte) Backend {
	switch {
	case len(head) >= 8 && string(head[4:8]) == "ftyp":
		return BackendMP4
	case bytes.HasPrefix(head, mpegPackStart), bytes.HasPrefix(head, mpegSequenceStart):
		return BackendMPEG
	default:
		return BackendFFmpeg
	}
}

// DetectFile reads the head of path and calls Detect.
func DetectFile(path string) (Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	return Detect(head[:n]), nil
}

var _ ports.VideoOpener = (*Opener)(nil)
