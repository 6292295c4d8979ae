//go:build windows

package winapi

import (
	"fmt"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	u32 = windows.NewLazySystemDLL("user32.dll")
	k32 = windows.NewLazySystemDLL("kernel32.dll")

	procEnumWindows              = u32.NewProc("EnumWindows")
	procEnumChildWindows         = u32.NewProc("EnumChildWindows")
	procIsWindow                 = u32.NewProc("IsWindow")
	procIsWindowVisible          = u32.NewProc("IsWindowVisible")
	procGetWindowLongW           = u32.NewProc("GetWindowLongW")
	procSetWindowLongW           = u32.NewProc("SetWindowLongW")
	procGetWindowRect            = u32.NewProc("GetWindowRect")
	procGetClientRect            = u32.NewProc("GetClientRect")
	procScreenToClient           = u32.NewProc("ScreenToClient")
	procClientToScreen           = u32.NewProc("ClientToScreen")
	procSetParent                = u32.NewProc("SetParent")
	procSetWindowPos             = u32.NewProc("SetWindowPos")
	procShowWindow               = u32.NewProc("ShowWindow")
	procSetForegroundWindow      = u32.NewProc("SetForegroundWindow")
	procGetForegroundWindow      = u32.NewProc("GetForegroundWindow")
	procPostMessageW             = u32.NewProc("PostMessageW")
	procGetWindowTextW           = u32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW     = u32.NewProc("GetWindowTextLengthW")
	procGetClassNameW            = u32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId = u32.NewProc("GetWindowThreadProcessId")
	procAttachThreadInput        = u32.NewProc("AttachThreadInput")
	procSetFocus                 = u32.NewProc("SetFocus")
	procSetActiveWindow          = u32.NewProc("SetActiveWindow")
	procGetCursorPos             = u32.NewProc("GetCursorPos")
	procGetAsyncKeyState         = u32.NewProc("GetAsyncKeyState")

	procGetCurrentProcessId = k32.NewProc("GetCurrentProcessId")
	procGetCurrentThreadId  = k32.NewProc("GetCurrentThreadId")
)

const (
	wmClose    = 0x0010
	vkLButton  = 0x01
	keyDownBit = 0x8000
)

// Facade is the concrete user32-backed implementation used in production.
// The embedding engine consumes it through the embed.WinAPI interface so
// tests can substitute an in-memory double.
type Facade struct{}

func New() *Facade { return &Facade{} }

// enumMu serializes window enumerations. The EnumWindows callbacks are
// created once at init because windows.NewCallback never releases its slot.
var (
	enumMu        sync.Mutex
	enumCollected []HWND
	enumTopCB     uintptr
	childMatch    func(class string) bool
	childFound    HWND
	enumChildCB   uintptr
)

func init() {
	enumTopCB = windows.NewCallback(func(hwnd uintptr, lParam uintptr) uintptr {
		if r, _, _ := procIsWindowVisible.Call(hwnd); r == 0 {
			return 1
		}
		enumCollected = append(enumCollected, HWND(hwnd))
		return 1
	})
	enumChildCB = windows.NewCallback(func(hwnd uintptr, lParam uintptr) uintptr {
		if childMatch != nil && childMatch(className(HWND(hwnd))) {
			childFound = HWND(hwnd)
			return 0
		}
		return 1
	})
}

// EnumTopLevel snapshots the visible top-level windows in Z order, topmost
// first.
func (*Facade) EnumTopLevel() []HWND {
	enumMu.Lock()
	defer enumMu.Unlock()
	enumCollected = nil
	_, _, _ = procEnumWindows.Call(enumTopCB, 0)
	out := make([]HWND, len(enumCollected))
	copy(out, enumCollected)
	return out
}

// FindDescendant walks the child tree depth-first and returns the first
// descendant whose class name satisfies match, or 0.
func (*Facade) FindDescendant(h HWND, match func(class string) bool) HWND {
	enumMu.Lock()
	defer enumMu.Unlock()
	childMatch = match
	childFound = 0
	_, _, _ = procEnumChildWindows.Call(uintptr(h), enumChildCB, 0)
	childMatch = nil
	return childFound
}

func (*Facade) IsWindow(h HWND) bool {
	r1, _, _ := procIsWindow.Call(uintptr(h))
	return r1 != 0
}

func (*Facade) Style(h HWND) (uint32, error) {
	return getWindowLong(h, GWL_STYLE)
}

func (*Facade) SetStyle(h HWND, style uint32) error {
	return setWindowLong(h, GWL_STYLE, style)
}

func (*Facade) ExStyle(h HWND) (uint32, error) {
	return getWindowLong(h, GWL_EXSTYLE)
}

func (*Facade) SetExStyle(h HWND, style uint32) error {
	return setWindowLong(h, GWL_EXSTYLE, style)
}

func getWindowLong(h HWND, index int) (uint32, error) {
	r1, _, e1 := procGetWindowLongW.Call(uintptr(h), uintptr(index))
	if r1 == 0 && e1 != windows.ERROR_SUCCESS {
		return 0, fmt.Errorf("GetWindowLongW: %w", e1)
	}
	return uint32(r1), nil
}

func setWindowLong(h HWND, index int, value uint32) error {
	r1, _, e1 := procSetWindowLongW.Call(uintptr(h), uintptr(index), uintptr(value))
	if r1 == 0 && e1 != windows.ERROR_SUCCESS {
		return fmt.Errorf("SetWindowLongW: %w", e1)
	}
	return nil
}

func (*Facade) WindowRect(h HWND) (Rect, error) {
	var r Rect
	r1, _, e1 := procGetWindowRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return Rect{}, fmt.Errorf("GetWindowRect: %w", e1)
	}
	return r, nil
}

func (*Facade) ClientRect(h HWND) (Rect, error) {
	var r Rect
	r1, _, e1 := procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	if r1 == 0 {
		return Rect{}, fmt.Errorf("GetClientRect: %w", e1)
	}
	return r, nil
}

func (*Facade) ScreenToClient(h HWND, pt Point) (Point, error) {
	r1, _, e1 := procScreenToClient.Call(uintptr(h), uintptr(unsafe.Pointer(&pt)))
	if r1 == 0 {
		return Point{}, fmt.Errorf("ScreenToClient: %w", e1)
	}
	return pt, nil
}

func (*Facade) ClientToScreen(h HWND, pt Point) (Point, error) {
	r1, _, e1 := procClientToScreen.Call(uintptr(h), uintptr(unsafe.Pointer(&pt)))
	if r1 == 0 {
		return Point{}, fmt.Errorf("ClientToScreen: %w", e1)
	}
	return pt, nil
}

// SetParent reparents h under parent. parent == 0 makes h top-level again.
// A zero return with a clean last-error just means the previous parent was
// NULL, not a failure.
func (*Facade) SetParent(h, parent HWND) error {
	r1, _, e1 := procSetParent.Call(uintptr(h), uintptr(parent))
	if r1 == 0 && e1 != windows.ERROR_SUCCESS {
		return fmt.Errorf("SetParent: %w", e1)
	}
	return nil
}

func (*Facade) SetWindowPos(h, after HWND, x, y, w, height int32, flags uint32) error {
	r1, _, e1 := procSetWindowPos.Call(
		uintptr(h),
		uintptr(after),
		uintptr(x),
		uintptr(y),
		uintptr(w),
		uintptr(height),
		uintptr(flags),
	)
	if r1 == 0 {
		return fmt.Errorf("SetWindowPos: %w", e1)
	}
	return nil
}

func (*Facade) ShowWindow(h HWND, cmd int) bool {
	r1, _, _ := procShowWindow.Call(uintptr(h), uintptr(cmd))
	return r1 != 0
}

func (*Facade) SetForeground(h HWND) bool {
	r1, _, _ := procSetForegroundWindow.Call(uintptr(h))
	return r1 != 0
}

func (*Facade) ForegroundWindow() HWND {
	r1, _, _ := procGetForegroundWindow.Call()
	return HWND(r1)
}

// PostClose asks the window to close without waiting for the owning thread
// to process the message.
func (*Facade) PostClose(h HWND) error {
	r1, _, e1 := procPostMessageW.Call(uintptr(h), wmClose, 0, 0)
	if r1 == 0 {
		return fmt.Errorf("PostMessageW(WM_CLOSE): %w", e1)
	}
	return nil
}

func (*Facade) WindowTitle(h HWND) string {
	r1, _, _ := procGetWindowTextLengthW.Call(uintptr(h))
	n := int(r1)
	if n <= 0 {
		return ""
	}
	buf := make([]uint16, n+1)
	r2, _, _ := procGetWindowTextW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r2 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r2])
}

func (*Facade) WindowClass(h HWND) string {
	return className(h)
}

func className(h HWND) string {
	buf := make([]uint16, 256)
	r1, _, _ := procGetClassNameW.Call(uintptr(h), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if r1 == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:r1])
}

func (*Facade) WindowPID(h HWND) uint32 {
	var pid uint32
	_, _, _ = procGetWindowThreadProcessId.Call(uintptr(h), uintptr(unsafe.Pointer(&pid)))
	return pid
}

func (*Facade) WindowThreadID(h HWND) uint32 {
	r1, _, _ := procGetWindowThreadProcessId.Call(uintptr(h), 0)
	return uint32(r1)
}

func (*Facade) AttachThreadInput(src, dst uint32, attach bool) bool {
	var v uintptr
	if attach {
		v = 1
	}
	r1, _, _ := procAttachThreadInput.Call(uintptr(src), uintptr(dst), v)
	return r1 != 0
}

func (*Facade) SetFocus(h HWND) {
	_, _, _ = procSetFocus.Call(uintptr(h))
}

func (*Facade) SetActiveWindow(h HWND) {
	_, _, _ = procSetActiveWindow.Call(uintptr(h))
}

func (*Facade) CursorPos() (Point, bool) {
	var pt Point
	r1, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	return pt, r1 != 0
}

func (*Facade) LeftMouseDown() bool {
	r1, _, _ := procGetAsyncKeyState.Call(vkLButton)
	return uint16(r1)&keyDownBit != 0
}

func (*Facade) CurrentProcessID() uint32 {
	r1, _, _ := procGetCurrentProcessId.Call()
	return uint32(r1)
}

func (*Facade) CurrentThreadID() uint32 {
	r1, _, _ := procGetCurrentThreadId.Call()
	return uint32(r1)
}

// MainWindow returns the first visible top-level window of this process
// whose title contains marker, or 0. Used to resolve the host frame once the
// UI shell has created its window.
func (f *Facade) MainWindow(marker string) HWND {
	self := f.CurrentProcessID()
	for _, h := range f.EnumTopLevel() {
		if f.WindowPID(h) != self {
			continue
		}
		if marker == "" || strings.Contains(f.WindowTitle(h), marker) {
			return h
		}
	}
	return 0
}
