// Package mp4source reads ISO-BMFF (.mp4, .mov) stream parameters with mp4ff
// and decodes frames through ffmpeg.
package mp4source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"

	"github.com/user/framegrab/pkg/adapters/ffmpegsource"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/ports"
)

var (
	// ErrNoVideoTrack is returned when the file has no "vide" track.
	ErrNoVideoTrack = errors.New("mp4source: no video track found")
	// ErrNoSamples is returned when the video track is empty or has no timing.
	ErrNoSamples = errors.New("mp4source: video track has no samples")
)

// Options configures the opener.
type Options struct {
	FFmpegPath string
	Logger     ports.Logger
}

// Opener implements ports.VideoOpener for MP4 files.
type Opener struct {
	opts   Options
	logger ports.Logger
}

// NewOpener creates an Opener.
func NewOpener(opts Options) *Opener {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoop()
	}
	return &Opener{opts: opts, logger: log}
}

// Open reads the movie header of path and returns a source decoding through ffmpeg.
func (o *Opener) Open(ctx context.Context, path string) (ports.VideoSource, error) {
	info, err := ReadInfo(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ports.ErrOpen, path, err)
	}
	o.logger.WithComponent("mp4").Debug("Opened %s: %d frames at %.3f fps, %dx%d",
		path, info.TotalFrames, info.FrameRate, info.Width, info.Height)

	ffmpeg, err := ffmpegsource.FindFFmpeg(o.opts.FFmpegPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrOpen, err)
	}
	decoder := ffmpegsource.NewFrameDecoder(ffmpeg, path, info.FrameRate, o.logger)
	return ffmpegsource.NewSource(info, decoder), nil
}

// ReadInfo parses the stream parameters of the first video track in path.
func ReadInfo(path string) (ports.VideoInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return ports.VideoInfo{}, err
	}
	defer f.Close()

	info, err := ReadInfoFromReader(f)
	if err != nil {
		return ports.VideoInfo{}, err
	}
	info.Path = path
	return info, nil
}

// ReadInfoFromReader parses the stream parameters from an io.ReadSeeker.
// Media data is skipped, so memory use does not grow with the file size.
func ReadInfoFromReader(reader io.ReadSeeker) (ports.VideoInfo, error) {
	mp4File, err := mp4.DecodeFile(reader, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return ports.VideoInfo{}, fmt.Errorf("decode mp4: %w", err)
	}

	moov := mp4File.Moov
	if mp4File.IsFragmented() && mp4File.Init != nil && mp4File.Init.Moov != nil {
		moov = mp4File.Init.Moov
	}
	if moov == nil {
		return ports.VideoInfo{}, fmt.Errorf("no moov box found")
	}

	trak := videoTrack(moov)
	if trak == nil {
		return ports.VideoInfo{}, ErrNoVideoTrack
	}

	var timescale uint32 = 1000
	if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
		timescale = trak.Mdia.Mdhd.Timescale
	}

	var (
		count    uint64
		duration uint64
	)
	if mp4File.IsFragmented() {
		count, duration, err = fragmentedTiming(mp4File, moov, trak.Tkhd.TrackID)
	} else {
		count, duration, err = progressiveTiming(trak)
	}
	if err != nil {
		return ports.VideoInfo{}, err
	}
	if count == 0 || duration == 0 {
		return ports.VideoInfo{}, ErrNoSamples
	}

	info := ports.VideoInfo{
		FrameRate:   float64(count) / (float64(duration) / float64(timescale)),
		TotalFrames: int(count),
	}
	if entry := sampleEntry(trak); entry != nil {
		info.Width = int(entry.Width)
		info.Height = int(entry.Height)
		info.Codec = entry.Type()
	}
	return info, nil
}

func videoTrack(moov *mp4.MoovBox) *mp4.TrakBox {
	for _, trak := range moov.Traks {
		if trak.Mdia != nil && trak.Mdia.Hdlr != nil && trak.Mdia.Hdlr.HandlerType == "vide" {
			return trak
		}
	}
	return nil
}

func sampleEntry(trak *mp4.TrakBox) *mp4.VisualSampleEntryBox {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
		return nil
	}
	for _, child := range trak.Mdia.Minf.Stbl.Stsd.Children {
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok {
			return entry
		}
	}
	return nil
}

// progressiveTiming returns the sample count and media duration from the sample table.
func progressiveTiming(trak *mp4.TrakBox) (count, duration uint64, err error) {
	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return 0, 0, fmt.Errorf("no sample table found")
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz == nil {
		return 0, 0, fmt.Errorf("no stsz box found")
	}
	count = uint64(stbl.Stsz.SampleNumber)
	if count == 0 {
		return 0, 0, nil
	}

	if stbl.Stts != nil {
		for i, n := range stbl.Stts.SampleCount {
			if i < len(stbl.Stts.SampleTimeDelta) {
				duration += uint64(n) * uint64(stbl.Stts.SampleTimeDelta[i])
			}
		}
	}
	if duration == 0 && trak.Mdia.Mdhd != nil {
		duration = trak.Mdia.Mdhd.Duration
	}
	return count, duration, nil
}

// fragmentedTiming sums samples and durations over all track runs of trackID.
// Sample durations missing from a trun come from tfhd, then trex.
func fragmentedTiming(mp4File *mp4.File, moov *mp4.MoovBox, trackID uint32) (count, duration uint64, err error) {
	var trex *mp4.TrexBox
	if moov.Mvex != nil {
		for _, t := range moov.Mvex.Trexs {
			if t.TrackID == trackID {
				trex = t
				break
			}
		}
	}

	for _, seg := range mp4File.Segments {
		for _, frag := range seg.Fragments {
			if frag.Moof == nil {
				continue
			}
			for _, traf := range frag.Moof.Trafs {
				if traf.Tfhd.TrackID != trackID {
					continue
				}
				var defaultDur uint32
				switch {
				case traf.Tfhd.HasDefaultSampleDuration():
					defaultDur = traf.Tfhd.DefaultSampleDuration
				case trex != nil:
					defaultDur = trex.DefaultSampleDuration
				}
				for _, trun := range traf.Truns {
					count += uint64(trun.SampleCount())
					duration += trun.Duration(defaultDur)
				}
			}
		}
	}
	return count, duration, nil
}

var _ ports.VideoOpener = (*Opener)(nil)
