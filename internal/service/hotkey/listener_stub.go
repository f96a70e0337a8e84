//go:build !windows

package hotkey

import "errors"

func newPlatformListener() (listener, error) {
	return nil, errors.New("hotkey: global hotkeys unavailable on this platform")
}
