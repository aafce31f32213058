package mocks

import (
	"sync"

	"github.com/user/framegrab/pkg/ports"
)

// Clipboard is a mock implementation of ports.Clipboard.
type Clipboard struct {
	mu sync.Mutex

	OpenFunc   func() error
	EmptyFunc  func() error
	SetDIBFunc func(payload []byte) error
	CloseFunc  func() error

	// State after the calls so far
	IsOpen  bool
	Content []byte

	// Calls records method names in call order.
	Calls []string
}

// NewClipboard creates a clipboard mock holding content.
func NewClipboard(content []byte) *Clipboard {
	return &Clipboard{Content: content}
}

func (m *Clipboard) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, name)
}

func (m *Clipboard) Open() error {
	m.record("Open")
	if m.OpenFunc != nil {
		if err := m.OpenFunc(); err != nil {
			return err
		}
	}
	m.IsOpen = true
	return nil
}

func (m *Clipboard) Empty() error {
	m.record("Empty")
	if m.EmptyFunc != nil {
		if err := m.EmptyFunc(); err != nil {
			return err
		}
	}
	m.Content = nil
	return nil
}

func (m *Clipboard) SetDIB(payload []byte) error {
	m.record("SetDIB")
	if m.SetDIBFunc != nil {
		if err := m.SetDIBFunc(payload); err != nil {
			return err
		}
	}
	m.Content = append([]byte(nil), payload...)
	return nil
}

func (m *Clipboard) Close() error {
	m.record("Close")
	m.IsOpen = false
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.Clipboard = (*Clipboard)(nil)
