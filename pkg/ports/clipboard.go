package ports

// Clipboard abstracts the system clipboard.
//
// The clipboard is a system-wide exclusive resource: callers must pair every
// successful Open with Close, and mutate it only while it is open.
type Clipboard interface {
	// Open acquires the clipboard. It fails when another process holds it.
	Open() error

	// Empty clears the current clipboard contents.
	Empty() error

	// SetDIB places a device-independent bitmap payload (a bitmap file
	// without its 14-byte file header) on the clipboard.
	SetDIB(payload []byte) error

	// Close releases the clipboard.
	Close() error
}
