package export

import (
	"testing"

	"github.com/user/framegrab/pkg/ports"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want ports.ImageFormat
	}{
		{"a.png", ports.FormatPNG},
		{"a.PNG", ports.FormatPNG},
		{"a.jpg", ports.FormatJPEG},
		{"dir/a.JPEG", ports.FormatJPEG},
		{"a.gif", ports.FormatPNG},
		{"noext", ports.FormatPNG},
	}
	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}

func TestTargetString(t *testing.T) {
	if got := ClipboardTarget().String(); got != "clipboard" {
		t.Errorf("got %q", got)
	}
	if got := FileTarget("a.png", ports.FormatPNG).String(); got != "a.png (png)" {
		t.Errorf("got %q", got)
	}
}
