// Package winapi is the native window facade: a thin synchronous layer over
// the user32/kernel32 primitives the embedding engine needs. Nothing outside
// this package touches the OS window manager directly.
package winapi

// HWND identifies a top-level or child window. It is not an owning
// reference; the OS controls the window's lifetime.
type HWND uintptr

// Rect is a window rectangle, screen- or client-space depending on the call
// that produced it.
type Rect struct {
	Left   int32 `json:"left"`
	Top    int32 `json:"top"`
	Right  int32 `json:"right"`
	Bottom int32 `json:"bottom"`
}

func (r Rect) Width() int32  { return r.Right - r.Left }
func (r Rect) Height() int32 { return r.Bottom - r.Top }

type Point struct {
	X int32
	Y int32
}

// Window style bits (GWL_STYLE).
const (
	WS_OVERLAPPED       uint32 = 0x00000000
	WS_POPUP            uint32 = 0x80000000
	WS_CHILD            uint32 = 0x40000000
	WS_VISIBLE          uint32 = 0x10000000
	WS_CLIPCHILDREN     uint32 = 0x02000000
	WS_CAPTION          uint32 = 0x00C00000
	WS_BORDER           uint32 = 0x00800000
	WS_DLGFRAME         uint32 = 0x00400000
	WS_SYSMENU          uint32 = 0x00080000
	WS_THICKFRAME       uint32 = 0x00040000
	WS_MINIMIZEBOX      uint32 = 0x00020000
	WS_MAXIMIZEBOX      uint32 = 0x00010000
	WS_OVERLAPPEDWINDOW        = WS_OVERLAPPED | WS_CAPTION | WS_SYSMENU | WS_THICKFRAME | WS_MINIMIZEBOX | WS_MAXIMIZEBOX
)

// Style bundles used by embed and release. These are the contract between
// the engine and the facade; the engine never composes raw bits itself.
const (
	// EmbedStripStyles are the decoration and popup bits removed from a
	// window before it is reparented into the host frame.
	EmbedStripStyles = WS_CAPTION | WS_THICKFRAME | WS_MINIMIZEBOX | WS_MAXIMIZEBOX | WS_SYSMENU | WS_POPUP | WS_BORDER | WS_DLGFRAME

	// EmbedAddStyles are the bits every embedded child carries.
	EmbedAddStyles = WS_CHILD | WS_VISIBLE

	// ReleaseFallbackStyle is applied on release when no saved state exists.
	ReleaseFallbackStyle = WS_OVERLAPPEDWINDOW | WS_VISIBLE
)

// SetWindowPos flags.
const (
	SWP_NOSIZE       uint32 = 0x0001
	SWP_NOMOVE       uint32 = 0x0002
	SWP_NOZORDER     uint32 = 0x0004
	SWP_NOACTIVATE   uint32 = 0x0010
	SWP_FRAMECHANGED uint32 = 0x0020
	SWP_SHOWWINDOW   uint32 = 0x0040
)

// SetWindowPos insert-after targets.
const (
	HWND_TOP HWND = 0
)

// ShowWindow commands.
const (
	SW_HIDE    = 0
	SW_SHOW    = 5
	SW_RESTORE = 9
)

// GetWindowLong indices.
const (
	GWL_STYLE   = -16
	GWL_EXSTYLE = -20
)
