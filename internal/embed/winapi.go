// Package embed reparents foreign top-level windows into the host frame,
// keeps their geometry in sync with the UI's content rectangle, routes
// keyboard focus into them, and restores them on release.
//
// The package is written against the WinAPI interface below so the engine's
// behaviour is testable without a window manager; winapi.Facade is the
// production implementation.
package embed

import "WindowHub/internal/winapi"

// WinAPI is the slice of the native window facade the engine consumes.
// Every call is synchronous and must not wait on a foreign UI thread.
type WinAPI interface {
	// EnumTopLevel snapshots visible top-level windows, Z order topmost first.
	EnumTopLevel() []winapi.HWND
	IsWindow(h winapi.HWND) bool

	Style(h winapi.HWND) (uint32, error)
	SetStyle(h winapi.HWND, style uint32) error
	ExStyle(h winapi.HWND) (uint32, error)
	SetExStyle(h winapi.HWND, style uint32) error

	WindowRect(h winapi.HWND) (winapi.Rect, error)
	ClientRect(h winapi.HWND) (winapi.Rect, error)
	ScreenToClient(h winapi.HWND, pt winapi.Point) (winapi.Point, error)
	ClientToScreen(h winapi.HWND, pt winapi.Point) (winapi.Point, error)

	// SetParent with parent == 0 makes h top-level again.
	SetParent(h, parent winapi.HWND) error
	SetWindowPos(h, after winapi.HWND, x, y, w, height int32, flags uint32) error
	ShowWindow(h winapi.HWND, cmd int) bool
	SetForeground(h winapi.HWND) bool
	ForegroundWindow() winapi.HWND

	// PostClose is asynchronous; it never blocks on the target.
	PostClose(h winapi.HWND) error

	WindowTitle(h winapi.HWND) string
	WindowClass(h winapi.HWND) string
	WindowPID(h winapi.HWND) uint32
	WindowThreadID(h winapi.HWND) uint32

	AttachThreadInput(src, dst uint32, attach bool) bool
	SetFocus(h winapi.HWND)
	SetActiveWindow(h winapi.HWND)

	CursorPos() (winapi.Point, bool)
	LeftMouseDown() bool

	// FindDescendant returns the first child (depth-first) whose class name
	// satisfies match, or 0.
	FindDescendant(h winapi.HWND, match func(class string) bool) winapi.HWND

	CurrentProcessID() uint32
	CurrentThreadID() uint32
}
