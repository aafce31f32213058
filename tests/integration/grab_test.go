// Package integration contains integration tests for the framegrab stack.
// Tests that need ffmpeg skip when it is not installed.
package integration

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/user/framegrab/pkg/adapters/ffmpegsource"
	"github.com/user/framegrab/pkg/adapters/ggrenderer"
	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/adapters/smartsource"
	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/session"
	"github.com/user/framegrab/pkg/summarizer"
)

// makeVideo renders a test pattern clip of the given length.
func makeVideo(t *testing.T, name string, seconds, rate int) string {
	t.Helper()
	ffmpeg, err := ffmpegsource.FindFFmpeg("")
	if err != nil || !ffmpegsource.Available() {
		t.Skip("ffmpeg not available")
	}
	out := filepath.Join(t.TempDir(), name)
	cmd := exec.Command(ffmpeg, "-v", "error", "-y",
		"-f", "lavfi", "-i", fmt.Sprintf("testsrc=size=320x240:rate=%d:duration=%d", rate, seconds),
		"-pix_fmt", "yuv420p", out)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot generate test video: %v\n%s", err, b)
	}
	return out
}

func newSession(t *testing.T, backend smartsource.Backend) *session.Session {
	t.Helper()
	log := logger.NewNoop()
	renderer := ggrenderer.New()
	pipeline := export.New(osfilesystem.New(), renderer, mocks.NewClipboard(nil), log, export.Options{})
	opener := smartsource.NewOpener(smartsource.Options{Backend: backend, Logger: log})
	s := session.New(opener, renderer, pipeline, log, session.DefaultOptions())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGrabFrameToPNG(t *testing.T) {
	for _, backend := range []smartsource.Backend{smartsource.BackendAuto, smartsource.BackendFFmpeg, smartsource.BackendMP4} {
		t.Run(string(backend), func(t *testing.T) {
			video := makeVideo(t, "clip.mp4", 4, 25)
			s := newSession(t, backend)
			ctx := context.Background()

			u, err := s.Open(ctx, video)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if u.TimeText != "0.000秒" || u.ScrubberMax != 4 {
				t.Errorf("initial update: text=%q max=%v", u.TimeText, u.ScrubberMax)
			}
			bounds := u.Preview.Bounds()
			if bounds.Dx() != 640 || bounds.Dy() != 360 {
				t.Errorf("preview size = %v", bounds)
			}

			s.EditTimeText("2.5")
			out := filepath.Join(t.TempDir(), "nested", "frame.png")
			res, err := s.Export(ctx, export.FileTarget(out, export.FormatFromPath(out)))
			if err != nil {
				t.Fatalf("Export: %v", err)
			}

			data, err := os.ReadFile(out)
			if err != nil {
				t.Fatalf("read export: %v", err)
			}
			if len(data) != res.Bytes {
				t.Errorf("Result.Bytes = %d, file has %d", res.Bytes, len(data))
			}
			img, err := png.Decode(bytes.NewReader(data))
			if err != nil {
				t.Fatalf("decode export: %v", err)
			}
			if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
				t.Errorf("exported frame is %v, want native 320x240", img.Bounds())
			}

			// The export is independent of the preview.
			if s.Current().FrameIndex != 0 {
				t.Errorf("export moved the preview to frame %d", s.Current().FrameIndex)
			}
		})
	}
}

func TestSeekPastEnd(t *testing.T) {
	video := makeVideo(t, "clip.mp4", 2, 10)
	s := newSession(t, smartsource.BackendAuto)
	ctx := context.Background()

	if _, err := s.Open(ctx, video); err != nil {
		t.Fatalf("Open: %v", err)
	}
	u, err := s.SetPosition(ctx, 30)
	if err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	if u.FrameIndex != 19 || u.TimeText != "2.000秒" {
		t.Errorf("got frame %d text %q, want 19 and 2.000秒", u.FrameIndex, u.TimeText)
	}
}

func TestNoLeftoverTempFiles(t *testing.T) {
	video := makeVideo(t, "clip.mp4", 1, 10)
	s := newSession(t, smartsource.BackendAuto)
	ctx := context.Background()

	if _, err := s.Open(ctx, video); err != nil {
		t.Fatalf("Open: %v", err)
	}
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.jpg"} {
		out := filepath.Join(dir, name)
		if _, err := s.Export(ctx, export.FileTarget(out, export.FormatFromPath(out))); err != nil {
			t.Fatalf("Export %s: %v", name, err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the two exports, found %v", names)
	}
}

func TestSummaryForRealVideo(t *testing.T) {
	video := makeVideo(t, "clip.mp4", 2, 10)
	opener := smartsource.NewOpener(smartsource.Options{Logger: logger.NewNoop()})

	src, err := opener.Open(context.Background(), video)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	backend, err := opener.Resolve(video)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	summary := summarizer.NewBuilder().WithVideo(src.Info()).WithBackend(string(backend)).Build()
	if summary.Video.Width != 320 || summary.Video.Height != 240 {
		t.Errorf("summary size = %dx%d", summary.Video.Width, summary.Video.Height)
	}
	if summary.Backend != "mp4" {
		t.Errorf("Backend = %q, want mp4", summary.Backend)
	}
}
