//go:build windows

package hotkey

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"github.com/lxn/win"
)

// Обёртки для функций, которых может не быть в lxn/win
var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
	procRegisterClassEx  = user32.NewProc("RegisterClassExW")
)

const hotkeyID = 1

var (
	className = syscall.StringToUTF16Ptr("FloatTranslatorHotkeyWindow")

	// обработчики активного запуска; слушатель в процессе один
	current handlerSlot

	// Колбэк создаётся один раз: класс окна переживает запуск слушателя
	wndProc = sync.OnceValue(func() uintptr {
		return syscall.NewCallback(func(h win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
			switch msg {
			case win.WM_HOTKEY:
				if wParam == hotkeyID {
					current.fire()
				}
				return 0
			case win.WM_CLOSE:
				current.close()
				win.DestroyWindow(h)
				return 0
			case win.WM_DESTROY:
				win.PostQuitMessage(0)
				return 0
			}
			return win.DefWindowProc(h, msg, wParam, lParam)
		})
	})
)

type winListener struct{}

func newPlatformListener() (listener, error) { return &winListener{}, nil }

func (w *winListener) run(ctx context.Context, combo Combo, fire func(), registered func()) error {
	// RegisterHotKey и цикл сообщений должны жить в одном закреплённом потоке ОС
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var hwnd win.HWND
	unregistered := false
	unregister := func() {
		if unregistered {
			return
		}
		unregistered = true
		_ = unregisterHotKey(hwnd, hotkeyID)
	}
	current.set(handlers{fire: fire, onClose: unregister})
	defer current.clear()

	var wc win.WNDCLASSEX
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	wc.LpfnWndProc = wndProc()
	wc.HInstance = win.GetModuleHandle(nil)
	wc.LpszClassName = className
	if err := classRegistration(registerClass(&wc)); err != nil {
		return err
	}

	// Скрытое окно только для приёма WM_HOTKEY
	hwnd = win.CreateWindowEx(
		0,
		className,
		syscall.StringToUTF16Ptr("FloatTranslatorHotkey"),
		0,
		0, 0, 0, 0,
		0,
		0,
		wc.HInstance,
		nil,
	)
	if hwnd == 0 {
		return errors.New("hotkey: failed to create hidden window")
	}

	if err := registerHotKey(hwnd, hotkeyID, combo.Mods|ModNoRepeat, combo.VK); err != nil {
		unregistered = true
		win.DestroyWindow(hwnd)
		return fmt.Errorf("hotkey: %s: %w", combo, err)
	}
	registered()

	// Отмена контекста закрывает окно из другого потока, цикл ниже получает WM_QUIT
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			win.PostMessage(hwnd, win.WM_CLOSE, 0, 0)
		case <-stop:
		}
	}()

	msg := new(win.MSG)
	for {
		r := win.GetMessage(msg, 0, 0, 0)
		if r == 0 || r == -1 { // WM_QUIT или ошибка
			break
		}
		win.TranslateMessage(msg)
		win.DispatchMessage(msg)
	}

	// Если цикл завершился не через WM_CLOSE
	unregister()
	return nil
}

func registerHotKey(hwnd win.HWND, id int32, modifiers uint32, vk uint32) error {
	if err := procRegisterHotKey.Find(); err != nil {
		return err
	}
	r, _, callErr := procRegisterHotKey.Call(uintptr(hwnd), uintptr(id), uintptr(modifiers), uintptr(vk))
	if r == 0 {
		return fmt.Errorf("RegisterHotKey: %w", callErr)
	}
	return nil
}

// registerClass возвращает ATOM и код GetLastError сразу после вызова.
func registerClass(wc *win.WNDCLASSEX) (uint16, uint32) {
	if err := procRegisterClassEx.Find(); err != nil {
		return 0, 0
	}
	r, _, callErr := procRegisterClassEx.Call(uintptr(unsafe.Pointer(wc)))
	var code uint32
	if errno, ok := callErr.(syscall.Errno); ok {
		code = uint32(errno)
	}
	return uint16(r), code
}

func unregisterHotKey(hwnd win.HWND, id int32) bool {
	if procUnregisterHotKey.Find() != nil {
		return false
	}
	r, _, _ := procUnregisterHotKey.Call(uintptr(hwnd), uintptr(id))
	return r != 0
}
