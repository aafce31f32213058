package session

import (
	"context"
	"errors"
	"image"
	"path/filepath"

	"github.com/ideamans/go-l10n"

	"github.com/user/framegrab/pkg/export"
	"github.com/user/framegrab/pkg/ports"
)

// Event is a user action delivered to the Controller.
type Event interface {
	isEvent()
}

// OpenRequested asks to open a video file.
type OpenRequested struct{ Path string }

// PositionChanged reports a scrubber move, in seconds.
type PositionChanged struct{ Seconds float64 }

// TimeTextEdited reports typing in the time field.
type TimeTextEdited struct{ Text string }

// TimeTextCommitted asks to seek to the typed time.
type TimeTextCommitted struct{}

// ExportRequested asks to save the frame named by the time field to Path.
// Format is chosen from the extension when Format is nil.
type ExportRequested struct {
	Path   string
	Format *ports.ImageFormat
}

// CopyRequested asks to copy the frame named by the time field to the clipboard.
type CopyRequested struct{}

func (OpenRequested) isEvent()     {}
func (PositionChanged) isEvent()   {}
func (TimeTextEdited) isEvent()    {}
func (TimeTextCommitted) isEvent() {}
func (ExportRequested) isEvent()   {}
func (CopyRequested) isEvent()     {}

// NotificationKind identifies what a notification updates.
type NotificationKind int

const (
	PreviewUpdated NotificationKind = iota
	TimeFieldUpdated
	ScrubberUpdated
	VideoLoaded
	OperationSucceeded
	OperationFailed
)

func (k NotificationKind) String() string {
	switch k {
	case PreviewUpdated:
		return "previewUpdated"
	case TimeFieldUpdated:
		return "timeFieldUpdated"
	case ScrubberUpdated:
		return "scrubberUpdated"
	case VideoLoaded:
		return "videoLoaded"
	case OperationSucceeded:
		return "operationSucceeded"
	case OperationFailed:
		return "operationFailed"
	default:
		return "unknown"
	}
}

// Notification is an output of the Controller for the display surface.
type Notification struct {
	Kind NotificationKind

	Preview     image.Image     // PreviewUpdated
	Text        string          // TimeFieldUpdated
	Scrubber    float64         // ScrubberUpdated
	ScrubberMax float64         // ScrubberUpdated
	Info        ports.VideoInfo // VideoLoaded

	// Title and Message are localized for display.
	Title   string
	Message string
	Err     error // OperationFailed
}

// Controller turns events into session transitions. Errors are converted
// into OperationFailed notifications and never returned.
type Controller struct {
	session *Session
}

// NewController creates a Controller driving s.
func NewController(s *Session) *Controller {
	return &Controller{session: s}
}

// Session returns the controlled session.
func (c *Controller) Session() *Session {
	return c.session
}

// Dispatch handles one event to completion.
func (c *Controller) Dispatch(ctx context.Context, ev Event) []Notification {
	switch ev := ev.(type) {
	case OpenRequested:
		u, err := c.session.Open(ctx, ev.Path)
		if err != nil {
			if c.session.State() == StateVideoLoaded {
				info, _ := c.session.Info()
				return []Notification{loaded(info), failed(err)}
			}
			return []Notification{failed(err)}
		}
		info, _ := c.session.Info()
		return append([]Notification{loaded(info)}, published(u)...)

	case PositionChanged:
		u, err := c.session.SetPosition(ctx, ev.Seconds)
		if err != nil {
			return []Notification{failed(err)}
		}
		return published(u)

	case TimeTextEdited:
		c.session.EditTimeText(ev.Text)
		return nil

	case TimeTextCommitted:
		u, err := c.session.SeekToTimeText(ctx)
		if err != nil {
			return []Notification{failed(err)}
		}
		return published(u)

	case ExportRequested:
		format := export.FormatFromPath(ev.Path)
		if ev.Format != nil {
			format = *ev.Format
		}
		res, err := c.session.Export(ctx, export.FileTarget(ev.Path, format))
		if err != nil {
			return []Notification{failed(err)}
		}
		return []Notification{succeeded(l10n.F("Image saved to %s (%s)", filepath.Base(ev.Path), res.Size()))}

	case CopyRequested:
		if _, err := c.session.Export(ctx, export.ClipboardTarget()); err != nil {
			return []Notification{failed(err)}
		}
		return []Notification{succeeded(l10n.T("Image copied to the clipboard"))}

	default:
		return nil
	}
}

func loaded(info ports.VideoInfo) Notification {
	return Notification{Kind: VideoLoaded, Info: info}
}

func published(u Update) []Notification {
	return []Notification{
		{Kind: PreviewUpdated, Preview: u.Preview},
		{Kind: TimeFieldUpdated, Text: u.TimeText},
		{Kind: ScrubberUpdated, Scrubber: u.Scrubber, ScrubberMax: u.ScrubberMax},
	}
}

func succeeded(msg string) Notification {
	return Notification{Kind: OperationSucceeded, Title: l10n.T("Done"), Message: msg}
}

func failed(err error) Notification {
	return Notification{Kind: OperationFailed, Title: l10n.T("Error"), Message: ErrorMessage(err), Err: err}
}

// ErrorMessage returns the localized user-facing message for err.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ports.ErrParse):
		return l10n.T("Enter a valid number of seconds")
	case errors.Is(err, ports.ErrNoVideo):
		return l10n.T("Open a video first")
	case errors.Is(err, ports.ErrOpen):
		return l10n.F("Failed to open the video: %v", err)
	case errors.Is(err, ports.ErrDecode):
		return l10n.F("Failed to read the frame: %v", err)
	case errors.Is(err, ports.ErrPlatformNotSupported):
		return l10n.T("Copying to the clipboard is only supported on Windows")
	case errors.Is(err, ports.ErrExport):
		return l10n.F("Failed to save the image: %v", err)
	default:
		return err.Error()
	}
}
