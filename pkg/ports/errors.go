package ports

import "errors"

// Error kinds shared across adapters. Adapters wrap them together with the
// underlying cause so callers can classify failures with errors.Is.
var (
	// ErrOpen is returned when a video cannot be opened (missing file,
	// unreadable container, no decodable video stream).
	ErrOpen = errors.New("open video")

	// ErrDecode is returned when seeking or reading a frame fails,
	// including out-of-range frame indices.
	ErrDecode = errors.New("decode frame")

	// ErrParse is returned for malformed typed time values.
	ErrParse = errors.New("parse time")

	// ErrExport is returned when encoding, publishing or clipboard
	// acquisition fails.
	ErrExport = errors.New("export frame")

	// ErrNoVideo is returned by operations that require a loaded video.
	ErrNoVideo = errors.New("no video loaded")

	// ErrPlatformNotSupported is returned by adapters that only exist on
	// some platforms.
	ErrPlatformNotSupported = errors.New("platform not supported")
)
