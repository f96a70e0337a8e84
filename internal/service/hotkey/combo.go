package hotkey

import (
	"fmt"
	"strings"
)

// Модификаторы в терминах RegisterHotKey.
const (
	ModAlt      uint32 = 0x0001
	ModControl  uint32 = 0x0002
	ModShift    uint32 = 0x0004
	ModWin      uint32 = 0x0008
	ModNoRepeat uint32 = 0x4000
)

var namedKeys = map[string]uint32{
	"enter":     0x0D,
	"return":    0x0D,
	"space":     0x20,
	"esc":       0x1B,
	"escape":    0x1B,
	"tab":       0x09,
	"backspace": 0x08,
	"insert":    0x2D,
	"delete":    0x2E,
	"home":      0x24,
	"end":       0x23,
	"pageup":    0x21,
	"pagedown":  0x22,
	"left":      0x25,
	"up":        0x26,
	"right":     0x27,
	"down":      0x28,
}

// Combo комбинация модификаторов и виртуальной клавиши.
type Combo struct {
	Mods uint32
	VK   uint32
	key  string
}

// ParseCombo разбирает строки вида "Ctrl+Alt+A", "ctrl+shift+F1", "alt+space".
func ParseCombo(spec string) (Combo, error) {
	var c Combo
	parts := strings.Split(spec, "+")
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "":
			return Combo{}, fmt.Errorf("hotkey: пустой элемент в %q", spec)
		case "ctrl", "control":
			c.Mods |= ModControl
			continue
		case "alt":
			c.Mods |= ModAlt
			continue
		case "shift":
			c.Mods |= ModShift
			continue
		case "win", "super", "meta", "cmd":
			c.Mods |= ModWin
			continue
		}
		if c.key != "" {
			return Combo{}, fmt.Errorf("hotkey: в %q больше одной клавиши", spec)
		}
		vk, err := parseKey(p)
		if err != nil {
			return Combo{}, fmt.Errorf("hotkey: %q: %w", spec, err)
		}
		c.VK = vk
		c.key = p
	}
	if c.key == "" {
		return Combo{}, fmt.Errorf("hotkey: в %q нет клавиши", spec)
	}
	return c, nil
}

func parseKey(k string) (uint32, error) {
	if len(k) == 1 {
		ch := k[0]
		switch {
		case ch >= 'a' && ch <= 'z':
			return uint32(ch - 'a' + 'A'), nil
		case ch >= '0' && ch <= '9':
			return uint32(ch), nil
		}
	}
	if vk, ok := namedKeys[k]; ok {
		return vk, nil
	}
	var n int
	if _, err := fmt.Sscanf(k, "f%d", &n); err == nil && n >= 1 && n <= 24 && k == fmt.Sprintf("f%d", n) {
		return 0x70 + uint32(n-1), nil
	}
	return 0, fmt.Errorf("неизвестная клавиша %q", k)
}

// String каноническая запись, напр. Ctrl+Alt+A.
func (c Combo) String() string {
	var parts []string
	if c.Mods&ModControl != 0 {
		parts = append(parts, "Ctrl")
	}
	if c.Mods&ModAlt != 0 {
		parts = append(parts, "Alt")
	}
	if c.Mods&ModShift != 0 {
		parts = append(parts, "Shift")
	}
	if c.Mods&ModWin != 0 {
		parts = append(parts, "Win")
	}
	key := c.key
	if len(key) == 1 {
		key = strings.ToUpper(key)
	} else if key != "" {
		key = strings.ToUpper(key[:1]) + key[1:]
	}
	return strings.Join(append(parts, key), "+")
}
