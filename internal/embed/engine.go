package embed

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"WindowHub/internal/winapi"
)

// Engine defaults, overridable through Options.
const (
	// DefaultRenderSurfaceClass is the interior widget browser-engine apps
	// route keyboard input to; focusing the top-level alone leaves them deaf.
	DefaultRenderSurfaceClass = "Chrome_RenderWidgetHostHWND"

	// DefaultDetachDelay is how long an input-queue attachment outlives an
	// activation, so queued focus messages drain before the link is cut.
	DefaultDetachDelay = 100 * time.Millisecond

	// Enumeration drops windows at or below this size; tool palettes and
	// hidden helpers are not worth a tab.
	DefaultMinWindowWidth  = 100
	DefaultMinWindowHeight = 100
)

// DefaultFallbackRect is where release parks a window whose original
// geometry was lost.
var DefaultFallbackRect = winapi.Rect{Left: 100, Top: 100, Right: 900, Bottom: 700}

// FilterDenyClasses hides shell and framework windows from enumeration.
// Advisory only: embedding is gated by the Classifier, which is stricter.
// Matched exactly, unlike the Classifier's substring denylist.
var FilterDenyClasses = []string{
	"Progman",
	"Shell_TrayWnd",
	"Shell_SecondaryTrayWnd",
	"Windows.UI.Core.CoreWindow",
	"ApplicationFrameWindow",
	"WorkerW",
	"TaskManagerWindow",
}

// WindowInfo describes an enumerated foreign window for UI presentation.
type WindowInfo struct {
	HWND   winapi.HWND
	Title  string
	Class  string
	Width  int32
	Height int32
}

// Options configures an Engine. API and HostFrame are required; everything
// else defaults sensibly.
type Options struct {
	API        WinAPI
	Registry   *Registry
	Classifier *Classifier
	// HostFrame resolves the host's own top-level window. Returning 0 means
	// the UI shell has not created it yet.
	HostFrame func() winapi.HWND
	Log       *zap.Logger

	// ProductName excludes the host's own windows from enumeration by
	// title containment.
	ProductName string

	RenderSurfaceClass string
	FilterDenyClasses  []string
	MinWindowWidth     int32
	MinWindowHeight    int32
	DetachDelay        time.Duration
	FallbackRect       winapi.Rect
}

// Engine is the per-window embed/release state machine. All operations are
// synchronous on the caller's thread except the delayed input-queue detach,
// which runs on its own short-lived goroutine.
type Engine struct {
	api  WinAPI
	reg  *Registry
	cl   *Classifier
	host func() winapi.HWND
	log  *zap.Logger

	productName   string
	renderSurface string
	filterDeny    []string
	minW, minH    int32
	detachDelay   time.Duration
	fallbackRect  winapi.Rect
}

func NewEngine(opts Options) *Engine {
	e := &Engine{
		api:           opts.API,
		reg:           opts.Registry,
		cl:            opts.Classifier,
		host:          opts.HostFrame,
		log:           opts.Log,
		productName:   opts.ProductName,
		renderSurface: opts.RenderSurfaceClass,
		filterDeny:    opts.FilterDenyClasses,
		minW:          opts.MinWindowWidth,
		minH:          opts.MinWindowHeight,
		detachDelay:   opts.DetachDelay,
		fallbackRect:  opts.FallbackRect,
	}
	if e.reg == nil {
		e.reg = NewRegistry()
	}
	if e.cl == nil {
		e.cl = NewClassifier(opts.API, nil)
	}
	if e.host == nil {
		e.host = func() winapi.HWND { return 0 }
	}
	if e.log == nil {
		e.log = zap.NewNop()
	}
	if e.renderSurface == "" {
		e.renderSurface = DefaultRenderSurfaceClass
	}
	if e.filterDeny == nil {
		e.filterDeny = FilterDenyClasses
	}
	if e.minW == 0 {
		e.minW = DefaultMinWindowWidth
	}
	if e.minH == 0 {
		e.minH = DefaultMinWindowHeight
	}
	if e.detachDelay == 0 {
		e.detachDelay = DefaultDetachDelay
	}
	if e.fallbackRect == (winapi.Rect{}) {
		e.fallbackRect = DefaultFallbackRect
	}
	return e
}

// Registry exposes the embed registry for collaborators that need to know
// which handles are currently embedded.
func (e *Engine) Registry() *Registry { return e.reg }

// Enumerate lists foreign windows worth offering as embed candidates:
// visible, not ours, carrying a real title, not a shell/framework class and
// larger than a tool palette.
func (e *Engine) Enumerate() []WindowInfo {
	self := e.api.CurrentProcessID()
	var out []WindowInfo
	for _, h := range e.api.EnumTopLevel() {
		if e.api.WindowPID(h) == self {
			continue
		}
		title := e.api.WindowTitle(h)
		if title == "" || (e.productName != "" && strings.Contains(title, e.productName)) {
			continue
		}
		class := e.api.WindowClass(h)
		if containsExact(e.filterDeny, class) {
			continue
		}
		rect, err := e.api.WindowRect(h)
		if err != nil {
			continue
		}
		if rect.Width() <= e.minW || rect.Height() <= e.minH {
			continue
		}
		out = append(out, WindowInfo{
			HWND:   h,
			Title:  title,
			Class:  class,
			Width:  rect.Width(),
			Height: rect.Height(),
		})
	}
	return out
}

// CanEmbed reports whether h may be embedded, without touching it.
func (e *Engine) CanEmbed(h winapi.HWND) error {
	return e.cl.Check(h)
}

// IsEmbedded reports whether the engine currently considers h embedded.
func (e *Engine) IsEmbedded(h winapi.HWND) bool { return e.reg.Contains(h) }

// Embed reparents h into the host frame, stripping its decorations and
// recording the original state for release. Embedding an already-embedded
// handle is idempotent success. A window that vanishes mid-embed rolls the
// registry entry back and reports an OS failure.
func (e *Engine) Embed(h winapi.HWND) error {
	if !e.api.IsWindow(h) {
		return &Error{Kind: KindGone, Op: "embed"}
	}
	if err := e.cl.Check(h); err != nil {
		return err
	}
	host := e.host()
	if host == 0 {
		return &Error{Kind: KindNoHostFrame, Op: "embed"}
	}

	// The host frame must clip children or the embedded window smears over
	// the frame's own painting. Set once, never cleared.
	if hostStyle, err := e.api.Style(host); err == nil && hostStyle&winapi.WS_CLIPCHILDREN == 0 {
		if err := e.api.SetStyle(host, hostStyle|winapi.WS_CLIPCHILDREN); err != nil {
			return osFailure("set_style host", err)
		}
	}

	style, err := e.api.Style(h)
	if err != nil {
		return osFailure("get_style", err)
	}
	exStyle, err := e.api.ExStyle(h)
	if err != nil {
		return osFailure("get_exstyle", err)
	}
	rect, err := e.api.WindowRect(h)
	if err != nil {
		return osFailure("get_window_rect", err)
	}

	if !e.reg.TryInsert(OriginalState{HWND: h, Style: style, ExStyle: exStyle, Rect: rect}) {
		return nil
	}

	newStyle := style&^winapi.EmbedStripStyles | winapi.EmbedAddStyles
	if err := e.api.SetStyle(h, newStyle); err != nil {
		e.reg.Remove(h)
		return osFailure("set_style", err)
	}
	if err := e.api.SetParent(h, host); err != nil {
		_ = e.api.SetStyle(h, style)
		e.reg.Remove(h)
		return osFailure("set_parent", err)
	}
	// Raise without moving; the UI follows up immediately with UpdateRect.
	if err := e.api.SetWindowPos(h, winapi.HWND_TOP, 0, 0, 0, 0, winapi.SWP_NOMOVE|winapi.SWP_NOSIZE|winapi.SWP_SHOWWINDOW); err != nil {
		e.log.Warn("raise after reparent failed", zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
	}
	_, _ = e.Activate(h)

	e.log.Info("window embedded",
		zap.Uintptr("hwnd", uintptr(h)),
		zap.String("class", e.api.WindowClass(h)))
	return nil
}

// UpdateRect moves the embedded window to the given host-client rectangle.
// Returns ok=false when the window no longer exists so the UI can reconcile.
// Requests within one pixel of the current geometry are dropped; rounding
// drift between the UI layer and the window manager would otherwise cause
// endless move storms.
func (e *Engine) UpdateRect(h winapi.HWND, x, y, w, height int32) (ok bool, err error) {
	if !e.api.IsWindow(h) {
		return false, nil
	}

	if host := e.host(); host != 0 && e.reg.Contains(h) {
		if rect, rerr := e.api.WindowRect(h); rerr == nil {
			if tl, cerr := e.api.ScreenToClient(host, winapi.Point{X: rect.Left, Y: rect.Top}); cerr == nil {
				if absDiff(tl.X, x) <= 1 && absDiff(tl.Y, y) <= 1 &&
					absDiff(rect.Width(), w) <= 1 && absDiff(rect.Height(), height) <= 1 {
					return true, nil
				}
			}
		}
	}

	if err := e.api.SetWindowPos(h, 0, x, y, w, height, winapi.SWP_NOZORDER|winapi.SWP_NOACTIVATE|winapi.SWP_SHOWWINDOW); err != nil {
		return true, osFailure("set_pos", err)
	}
	return true, nil
}

// Activate raises h inside the host frame and routes keyboard focus into it.
// When the foreign window lives on another UI thread the two input queues
// are attached for the hand-off and detached shortly after on a separate
// goroutine; attaching a thread to itself would deadlock and is never done.
func (e *Engine) Activate(h winapi.HWND) (ok bool, err error) {
	if !e.api.IsWindow(h) {
		return false, nil
	}

	cur := e.api.CurrentThreadID()
	target := e.api.WindowThreadID(h)
	attached := false
	if cur != target {
		attached = e.api.AttachThreadInput(cur, target, true)
	}

	if err := e.api.SetWindowPos(h, winapi.HWND_TOP, 0, 0, 0, 0, winapi.SWP_NOMOVE|winapi.SWP_NOSIZE|winapi.SWP_SHOWWINDOW); err != nil {
		e.log.Warn("raise for activation failed", zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
	}

	focus := h
	if d := e.api.FindDescendant(h, func(class string) bool { return class == e.renderSurface }); d != 0 {
		focus = d
	}
	e.api.SetActiveWindow(focus)
	e.api.SetFocus(focus)

	if attached {
		time.AfterFunc(e.detachDelay, func() {
			e.api.AttachThreadInput(cur, target, false)
		})
	}
	return true, nil
}

// Hide conceals the embedded window, e.g. while the UI overlays a search
// panel. Style and parent are untouched.
func (e *Engine) Hide(h winapi.HWND) bool {
	if !e.api.IsWindow(h) {
		return false
	}
	e.api.ShowWindow(h, winapi.SW_HIDE)
	return true
}

// Show reverses Hide.
func (e *Engine) Show(h winapi.HWND) bool {
	if !e.api.IsWindow(h) {
		return false
	}
	e.api.ShowWindow(h, winapi.SW_SHOW)
	return true
}

// Release detaches h from the host frame and restores its standalone state.
// Always succeeds: once the window is reparented away it is visually free,
// so later facade failures are logged and swallowed. Releasing a window
// that was never embedded leaves it alone apart from a best-effort
// foreground raise.
func (e *Engine) Release(h winapi.HWND) error {
	if !e.api.IsWindow(h) {
		// Window already died; just forget it.
		e.reg.Remove(h)
		return nil
	}

	cur := e.api.CurrentThreadID()
	target := e.api.WindowThreadID(h)
	if cur != target {
		e.api.AttachThreadInput(cur, target, false)
	}

	if err := e.api.SetParent(h, 0); err != nil {
		e.log.Warn("deparent failed", zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
	}

	if st, okReg := e.reg.Get(h); okReg {
		e.restoreState(h, st)
	} else if style, err := e.api.Style(h); err == nil && style&winapi.WS_CHILD != 0 {
		// Embedded but the saved state is gone: park it somewhere sane.
		// A window that never was a child is left as-is so that releasing
		// twice equals releasing once.
		e.bestEffort(h, "set_style fallback", e.api.SetStyle(h, winapi.ReleaseFallbackStyle))
		fb := e.fallbackRect
		e.bestEffort(h, "set_pos fallback", e.api.SetWindowPos(h, winapi.HWND_TOP, fb.Left, fb.Top, fb.Width(), fb.Height(), winapi.SWP_FRAMECHANGED|winapi.SWP_SHOWWINDOW))
	}

	e.api.ShowWindow(h, winapi.SW_RESTORE)
	e.api.SetForeground(h)
	e.reg.Remove(h)
	return nil
}

func (e *Engine) restoreState(h winapi.HWND, st OriginalState) {
	e.bestEffort(h, "set_style", e.api.SetStyle(h, st.Style))
	e.bestEffort(h, "set_exstyle", e.api.SetExStyle(h, st.ExStyle))
	e.bestEffort(h, "set_pos", e.api.SetWindowPos(h, winapi.HWND_TOP,
		st.Rect.Left, st.Rect.Top, st.Rect.Width(), st.Rect.Height(),
		winapi.SWP_FRAMECHANGED|winapi.SWP_SHOWWINDOW))
}

func (e *Engine) bestEffort(h winapi.HWND, op string, err error) {
	if err != nil {
		e.log.Warn("release step failed", zap.String("op", op), zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
	}
}

// Close releases h first so the window is detached even if it refuses to
// die, then asks it to close. Never waits; poll IsValid to observe the
// outcome.
func (e *Engine) Close(h winapi.HWND) error {
	_ = e.Release(h)
	if err := e.api.PostClose(h); err != nil {
		e.log.Warn("post close failed", zap.Uintptr("hwnd", uintptr(h)), zap.Error(err))
	}
	return nil
}

// IsValid reports whether h still denotes a live window.
func (e *Engine) IsValid(h winapi.HWND) bool { return e.api.IsWindow(h) }

// Title returns the window's current title, empty if it is gone.
func (e *Engine) Title(h winapi.HWND) string {
	if !e.api.IsWindow(h) {
		return ""
	}
	return e.api.WindowTitle(h)
}

// CursorInHostClientArea reports whether the pointer is inside the host
// frame's client area, ignoring the topmost topOffset pixels (the tab bar).
func (e *Engine) CursorInHostClientArea(topOffset int32) bool {
	host := e.host()
	if host == 0 {
		return false
	}
	cursor, ok := e.api.CursorPos()
	if !ok {
		return false
	}
	origin, err := e.api.ClientToScreen(host, winapi.Point{})
	if err != nil {
		return false
	}
	client, err := e.api.ClientRect(host)
	if err != nil {
		return false
	}
	return cursor.X >= origin.X && cursor.X <= origin.X+client.Right &&
		cursor.Y >= origin.Y+topOffset && cursor.Y <= origin.Y+client.Bottom
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func absDiff(a, b int32) int32 {
	if a > b {
		return a - b
	}
	return b - a
}
