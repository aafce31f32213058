package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/mocks"
	"github.com/user/framegrab/pkg/session"
)

func newTestShell(t *testing.T) (*shell, *bytes.Buffer, *mocks.FileSystem) {
	t.Helper()
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	pipeline := export.New(fs, renderer, mocks.NewClipboard(nil), logger.NewNoop(), export.Options{})
	opener := mocks.NewVideoOpener(mocks.NewVideoSource("clip.mp4", 30, 300, 1280, 720))
	sess := session.New(opener, renderer, pipeline, logger.NewNoop(), session.DefaultOptions())

	out := &bytes.Buffer{}
	return newShell(session.NewController(sess), out), out, fs
}

func TestShell_OpenSeekSave(t *testing.T) {
	sh, out, fs := newTestShell(t)
	ctx := context.Background()

	if !sh.handle(ctx, "open clip.mp4") {
		t.Fatal("open should not exit")
	}
	if !strings.Contains(out.String(), "1280x720") {
		t.Errorf("expected video label, got %q", out.String())
	}

	out.Reset()
	sh.handle(ctx, "seek 5")
	if !strings.Contains(out.String(), "5.000秒") {
		t.Errorf("expected time field update, got %q", out.String())
	}
	if got := sh.ctrl.Session().Current().FrameIndex; got != 150 {
		t.Errorf("FrameIndex = %d, want 150", got)
	}

	sh.handle(ctx, "time 2")
	sh.handle(ctx, "save /out/frame.png")
	if _, ok := fs.GetFile("/out/frame.png"); !ok {
		t.Error("expected /out/frame.png to be written")
	}
	// Saving never moves the preview.
	if got := sh.ctrl.Session().Current().FrameIndex; got != 150 {
		t.Errorf("FrameIndex after save = %d, want 150", got)
	}
}

func TestShell_TimeAndEnter(t *testing.T) {
	sh, _, _ := newTestShell(t)
	ctx := context.Background()

	sh.handle(ctx, "open clip.mp4")
	sh.handle(ctx, "time 15")
	sh.handle(ctx, "enter")

	cur := sh.ctrl.Session().Current()
	if cur.FrameIndex != 299 {
		t.Errorf("FrameIndex = %d, want 299", cur.FrameIndex)
	}
	if cur.TimeText != "10.000秒" {
		t.Errorf("TimeText = %q, want 10.000秒", cur.TimeText)
	}
}

func TestShell_SaveWithFormat(t *testing.T) {
	sh, out, fs := newTestShell(t)
	ctx := context.Background()

	sh.handle(ctx, "open clip.mp4")
	sh.handle(ctx, "save /out/frame.bin jpeg")
	data, ok := fs.GetFile("/out/frame.bin")
	if !ok {
		t.Fatal("expected /out/frame.bin to be written")
	}
	if string(data) != "encoded-jpeg" {
		t.Errorf("content = %q, want encoded-jpeg", data)
	}

	out.Reset()
	sh.handle(ctx, "save /out/frame.bmp bmp")
	if _, ok := fs.GetFile("/out/frame.bmp"); ok {
		t.Error("bmp is not a file export format")
	}
	if !strings.Contains(out.String(), "bmp") {
		t.Errorf("expected rejection message, got %q", out.String())
	}
}

func TestShell_Exit(t *testing.T) {
	sh, _, _ := newTestShell(t)

	for _, line := range []string{"exit", "quit"} {
		if sh.handle(context.Background(), line) {
			t.Errorf("%q should exit", line)
		}
	}
	if !sh.handle(context.Background(), "bogus") {
		t.Error("unknown command should not exit")
	}
}

func TestSplitSaveArgs(t *testing.T) {
	tests := []struct {
		arg, path, format string
	}{
		{"out.png", "out.png", ""},
		{"out.bin jpeg", "out.bin", "jpeg"},
		{"My Frames/shot 1.png", "My Frames/shot 1.png", ""},
		{"My Frames/shot 1.out JPG", "My Frames/shot 1.out", "jpg"},
		{"  spaced name.png  png ", "spaced name.png", "png"},
		{"a b.png bmp", "a b.png", "bmp"},
		{"", "", ""},
	}
	for _, tt := range tests {
		path, format := splitSaveArgs(tt.arg)
		if path != tt.path || format != tt.format {
			t.Errorf("splitSaveArgs(%q) = (%q, %q), want (%q, %q)", tt.arg, path, format, tt.path, tt.format)
		}
	}
}

func TestShell_SavePathWithSpaces(t *testing.T) {
	sh, _, fs := newTestShell(t)
	ctx := context.Background()

	sh.handle(ctx, "open clip.mp4")
	sh.handle(ctx, "save /out/My Frames/frame 1.png")
	if _, ok := fs.GetFile("/out/My Frames/frame 1.png"); !ok {
		t.Errorf("expected the full path to be written, got %v", keys(fs.GetAllFiles()))
	}

	sh.handle(ctx, "save /out/My Frames/frame 2.out jpeg")
	data, ok := fs.GetFile("/out/My Frames/frame 2.out")
	if !ok || string(data) != "encoded-jpeg" {
		t.Errorf("expected jpeg at the spaced path, got %q (found %v)", data, ok)
	}
}

func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
