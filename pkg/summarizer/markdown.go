package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"

	"github.com/user/framegrab/pkg/timecode"
)

// MarkdownFormatter renders a Summary as a Markdown report.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	v := s.Video

	fmt.Fprintf(&b, "# %s\n\n", l10n.T("Video Summary"))
	fmt.Fprintf(&b, "%s\n\n", Label(s))

	fmt.Fprintf(&b, "| %s | %s |\n|---|---|\n", l10n.T("Item"), l10n.T("Value"))
	row := func(k, val string) {
		fmt.Fprintf(&b, "| %s | %s |\n", l10n.T(k), val)
	}
	row("File", "`"+v.Path+"`")
	if v.FileSize > 0 {
		row("File size", humanize.Bytes(uint64(v.FileSize)))
	}
	if v.Codec != "" {
		row("Codec", v.Codec)
	}
	row("Resolution", fmt.Sprintf("%dx%d", v.Width, v.Height))
	row("Frame rate", fmt.Sprintf("%.3f fps", v.FrameRate))
	row("Frames", humanize.Comma(int64(v.TotalFrames)))
	row("Duration", timecode.FormatTimeText(v.Duration, s.Unit))
	if s.Backend != "" {
		row("Backend", s.Backend)
	}

	fmt.Fprintf(&b, "\n%s: %s\n", l10n.T("Generated"), s.GeneratedAt.Format(time.RFC3339))
	return b.String()
}

var _ Formatter = (*MarkdownFormatter)(nil)
