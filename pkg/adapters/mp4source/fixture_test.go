package mp4source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Eyevinn/mp4ff/av1"
	"github.com/Eyevinn/mp4ff/mp4"
)

func av01Entry(width, height uint16) *mp4.VisualSampleEntryBox {
	av1C := &mp4.Av1CBox{
		CodecConfRec: av1.CodecConfRec{
			Version:            1,
			SeqLevelIdx0:       8,
			ChromaSubsamplingX: 1,
			ChromaSubsamplingY: 1,
		},
	}
	return mp4.CreateVisualSampleEntryBox("av01", width, height, av1C)
}

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeFragmentedMP4 writes a fragmented MP4 with frames samples of
// placeholder AV1 data. Only the container is valid.
func writeFragmentedMP4(t *testing.T, frames int, fps uint32, width, height uint16) string {
	t.Helper()
	return writeFile(t, buildFragmentedMP4(t, frames, fps, width, height, false))
}

// buildFragmentedMP4 encodes the fragmented file. With tfhdDefaults the
// common sample duration is moved from the trun into the tfhd.
func buildFragmentedMP4(t *testing.T, frames int, fps uint32, width, height uint16, tfhdDefaults bool) []byte {
	t.Helper()

	timescale := fps * 1000
	init := mp4.CreateEmptyInit()
	init.AddEmptyTrack(timescale, "video", "en")
	trak := init.Moov.Trak
	trak.Mdia.Minf.Stbl.Stsd.AddChild(av01Entry(width, height))
	trak.Tkhd.Width = mp4.Fixed32(uint32(width) << 16)
	trak.Tkhd.Height = mp4.Fixed32(uint32(height) << 16)

	frag, err := mp4.CreateFragment(1, 1)
	if err != nil {
		t.Fatalf("create fragment: %v", err)
	}
	dur := timescale / fps
	for i := 0; i < frames; i++ {
		flags := mp4.NonSyncSampleFlags
		if i == 0 {
			flags = mp4.SyncSampleFlags
		}
		data := []byte{0x12, 0x00, byte(i)}
		frag.AddFullSample(mp4.FullSample{
			Sample: mp4.Sample{
				Flags: flags,
				Size:  uint32(len(data)),
				Dur:   dur,
			},
			DecodeTime: uint64(i) * uint64(dur),
			Data:       data,
		})
	}
	if tfhdDefaults {
		if err := frag.Moof.Traf.OptimizeTfhdTrun(); err != nil {
			t.Fatalf("optimize tfhd: %v", err)
		}
	}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := init.Moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	if err := frag.Encode(&buf); err != nil {
		t.Fatalf("encode fragment: %v", err)
	}
	return buf.Bytes()
}

// writeProgressiveMP4 writes a non-fragmented MP4 whose sample table
// describes frames samples followed by an mdat of payloadSize bytes.
func writeProgressiveMP4(t *testing.T, frames int, fps uint32, width, height uint16, payloadSize int) string {
	t.Helper()

	timescale := fps * 100
	moov := mp4.NewMoovBox()
	moov.AddChild(mp4.CreateMvhd())
	trak := mp4.CreateEmptyTrak(1, timescale, "video", "und")
	moov.AddChild(trak)

	stbl := trak.Mdia.Minf.Stbl
	stbl.Stsd.AddChild(av01Entry(width, height))
	trak.Tkhd.Width = mp4.Fixed32(uint32(width) << 16)
	trak.Tkhd.Height = mp4.Fixed32(uint32(height) << 16)

	sampleSize := uint32(payloadSize / frames)
	stbl.Stsz.SampleNumber = uint32(frames)
	stbl.Stsz.SampleSize = make([]uint32, frames)
	for i := range stbl.Stsz.SampleSize {
		stbl.Stsz.SampleSize[i] = sampleSize
	}
	// Two stts runs so the duration is summed over entries.
	half := uint32(frames / 2)
	stbl.Stts.SampleCount = []uint32{half, uint32(frames) - half}
	stbl.Stts.SampleTimeDelta = []uint32{timescale / fps, timescale / fps}

	var buf bytes.Buffer
	ftyp := mp4.NewFtyp("isom", 0x200, []string{"isom", "iso2", "av01", "mp41"})
	if err := ftyp.Encode(&buf); err != nil {
		t.Fatalf("encode ftyp: %v", err)
	}
	if err := moov.Encode(&buf); err != nil {
		t.Fatalf("encode moov: %v", err)
	}
	mdat := &mp4.MdatBox{}
	mdat.SetData(make([]byte, payloadSize))
	if err := mdat.Encode(&buf); err != nil {
		t.Fatalf("encode mdat: %v", err)
	}
	return writeFile(t, buf.Bytes())
}
