//go:build windows

package events

import (
	"runtime"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

// winEventHook listens for out-of-context WinEvents covering window
// destroy/show/hide and foreground changes. The hook callback fires on the
// thread that pumps messages, so Run owns a PeekMessage loop.
type winEventHook struct {
	emit func(WindowEvent)

	hHook windows.Handle
	cb    uintptr
}

func newWinEventHook(emit func(WindowEvent)) *winEventHook {
	w := &winEventHook{emit: emit}
	w.cb = windows.NewCallback(w.callback)
	return w
}

// Run installs the hook and pumps its messages until stopCh closes. Install
// and pump must share a thread: the callback is delivered through the
// installing thread's message queue. The install result goes out on ready.
func (w *winEventHook) Run(stopCh <-chan struct{}, ready chan<- error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	h, err := setWinEventHook(
		EVENT_SYSTEM_FOREGROUND,
		EVENT_OBJECT_HIDE,
		0,
		w.cb,
		0,
		0,
		WINEVENT_OUTOFCONTEXT|WINEVENT_SKIPOWNPROCESS,
	)
	ready <- err
	if err != nil {
		return
	}
	w.hHook = h

	var msg MSG
	for {
		select {
		case <-stopCh:
			if w.hHook != 0 {
				_ = unhookWinEvent(w.hHook)
			}
			return
		default:
			ret := peekMessage(&msg, 0, 0, 0, PM_REMOVE)
			if ret {
				translateMessage(&msg)
				dispatchMessage(&msg)
			} else {
				time.Sleep(10 * time.Millisecond)
			}
		}
	}
}

func (w *winEventHook) callback(hWinEventHook windows.Handle, event uint32, hwnd uintptr, idObject int32, idChild int32, dwEventThread uint32, dwmsEventTime uint32) uintptr {
	_ = hWinEventHook
	_ = idChild
	_ = dwEventThread

	if idObject != OBJID_WINDOW {
		return 0
	}

	ts := time.Now().UTC().UnixMilli()
	switch event {
	case EVENT_SYSTEM_FOREGROUND:
		w.emit(WindowEvent{Type: EventForegroundChanged, Timestamp: ts, HWND: hwnd})
	case EVENT_OBJECT_DESTROY:
		w.emit(WindowEvent{Type: EventWindowDestroyed, Timestamp: ts, HWND: hwnd})
	case EVENT_OBJECT_SHOW:
		w.emit(WindowEvent{Type: EventWindowShown, Timestamp: ts, HWND: hwnd})
	case EVENT_OBJECT_HIDE:
		w.emit(WindowEvent{Type: EventWindowHidden, Timestamp: ts, HWND: hwnd})
	}
	return 0
}

const (
	EVENT_SYSTEM_FOREGROUND = 0x0003
	EVENT_OBJECT_DESTROY    = 0x8001
	EVENT_OBJECT_SHOW       = 0x8002
	EVENT_OBJECT_HIDE       = 0x8003
	OBJID_WINDOW            = 0
	WINEVENT_OUTOFCONTEXT   = 0x0000
	WINEVENT_SKIPOWNPROCESS = 0x0002
	PM_REMOVE               = 0x0001
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procSetWinEventHook  = user32.NewProc("SetWinEventHook")
	procUnhookWinEvent   = user32.NewProc("UnhookWinEvent")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
)

func setWinEventHook(eventMin, eventMax uint32, hmodWinEventHook windows.Handle, pfnWinEventProc uintptr, idProcess, idThread uint32, dwFlags uint32) (windows.Handle, error) {
	r1, _, e1 := procSetWinEventHook.Call(
		uintptr(eventMin),
		uintptr(eventMax),
		uintptr(hmodWinEventHook),
		pfnWinEventProc,
		uintptr(idProcess),
		uintptr(idThread),
		uintptr(dwFlags),
	)
	if r1 == 0 {
		return 0, e1
	}
	return windows.Handle(r1), nil
}

func unhookWinEvent(h windows.Handle) error {
	r1, _, e1 := procUnhookWinEvent.Call(uintptr(h))
	if r1 == 0 {
		return e1
	}
	return nil
}

func peekMessage(msg *MSG, hwnd uintptr, msgFilterMin, msgFilterMax uint32, removeMsg uint32) bool {
	r1, _, _ := procPeekMessageW.Call(
		uintptr(unsafe.Pointer(msg)),
		hwnd,
		uintptr(msgFilterMin),
		uintptr(msgFilterMax),
		uintptr(removeMsg),
	)
	return r1 != 0
}

func translateMessage(msg *MSG) {
	_, _, _ = procTranslateMessage.Call(uintptr(unsafe.Pointer(msg)))
}

func dispatchMessage(msg *MSG) {
	_, _, _ = procDispatchMessageW.Call(uintptr(unsafe.Pointer(msg)))
}
