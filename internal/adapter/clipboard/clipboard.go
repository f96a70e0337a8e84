package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// Store текстовый буфер обмена.
type Store interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// System системный буфер обмена через atotto/clipboard.
type System struct{}

func NewSystem() *System { return &System{} }

// Available false, если в системе нет утилиты буфера обмена (xclip/xsel/wl-clipboard на Linux).
func (System) Available() bool { return !clipboard.Unsupported }

func (System) ReadText() (string, error) {
	s, err := clipboard.ReadAll()
	if err != nil {
		return "", fmt.Errorf("clipboard: read: %w", err)
	}
	return s, nil
}

func (System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("clipboard: write: %w", err)
	}
	return nil
}

// Memory буфер в памяти для тестов и систем без буфера обмена.
type Memory struct {
	text string
}

func (m *Memory) ReadText() (string, error) { return m.text, nil }

func (m *Memory) WriteText(text string) error {
	m.text = text
	return nil
}
