package embed

import (
	"errors"
	"sync"

	"WindowHub/internal/winapi"
)

// fakeAPI is an in-memory window manager double. It models just enough:
// windows have styles, rects in screen coordinates, owning pid/tid, a
// parent and children; client origin equals the window rect's top-left.
type fakeAPI struct {
	mu sync.Mutex

	windows map[winapi.HWND]*fakeWindow
	order   []winapi.HWND // Z order, topmost first

	selfPID uint32
	selfTID uint32

	cursor   winapi.Point
	cursorOK bool
	leftDown bool

	failSetParent map[winapi.HWND]error

	attachCalls    []attachCall
	setPosCalls    []setPosCall
	showCalls      []showCall
	focusCalls     []winapi.HWND
	activeCalls    []winapi.HWND
	foregroundSets []winapi.HWND
	postCloseCalls []winapi.HWND
}

type fakeWindow struct {
	title    string
	class    string
	pid      uint32
	tid      uint32
	style    uint32
	exStyle  uint32
	rect     winapi.Rect
	visible  bool
	parent   winapi.HWND
	children []winapi.HWND
}

type attachCall struct {
	src, dst uint32
	attach   bool
}

type setPosCall struct {
	h, after      winapi.HWND
	x, y, w, hgt  int32
	flags         uint32
	movedOrSized  bool
}

type showCall struct {
	h   winapi.HWND
	cmd int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		windows:       map[winapi.HWND]*fakeWindow{},
		selfPID:       1000,
		selfTID:       1,
		cursorOK:      true,
		failSetParent: map[winapi.HWND]error{},
	}
}

func (f *fakeAPI) add(h winapi.HWND, w *fakeWindow) *fakeWindow {
	f.windows[h] = w
	f.order = append(f.order, h)
	return w
}

func (f *fakeAPI) win(h winapi.HWND) *fakeWindow {
	return f.windows[h]
}

var _ WinAPI = (*fakeAPI)(nil)

func (f *fakeAPI) EnumTopLevel() []winapi.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []winapi.HWND
	for _, h := range f.order {
		w := f.windows[h]
		if w != nil && w.visible && w.parent == 0 {
			out = append(out, h)
		}
	}
	return out
}

func (f *fakeAPI) IsWindow(h winapi.HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windows[h] != nil
}

func (f *fakeAPI) Style(h winapi.HWND) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return 0, errors.New("no window")
	}
	return w.style, nil
}

func (f *fakeAPI) SetStyle(h winapi.HWND, style uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return errors.New("no window")
	}
	w.style = style
	return nil
}

func (f *fakeAPI) ExStyle(h winapi.HWND) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return 0, errors.New("no window")
	}
	return w.exStyle, nil
}

func (f *fakeAPI) SetExStyle(h winapi.HWND, style uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return errors.New("no window")
	}
	w.exStyle = style
	return nil
}

func (f *fakeAPI) WindowRect(h winapi.HWND) (winapi.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return winapi.Rect{}, errors.New("no window")
	}
	return w.rect, nil
}

func (f *fakeAPI) ClientRect(h winapi.HWND) (winapi.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return winapi.Rect{}, errors.New("no window")
	}
	return winapi.Rect{Right: w.rect.Width(), Bottom: w.rect.Height()}, nil
}

func (f *fakeAPI) ScreenToClient(h winapi.HWND, pt winapi.Point) (winapi.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return winapi.Point{}, errors.New("no window")
	}
	return winapi.Point{X: pt.X - w.rect.Left, Y: pt.Y - w.rect.Top}, nil
}

func (f *fakeAPI) ClientToScreen(h winapi.HWND, pt winapi.Point) (winapi.Point, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	if w == nil {
		return winapi.Point{}, errors.New("no window")
	}
	return winapi.Point{X: pt.X + w.rect.Left, Y: pt.Y + w.rect.Top}, nil
}

func (f *fakeAPI) SetParent(h, parent winapi.HWND) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failSetParent[h]; err != nil {
		return err
	}
	w := f.windows[h]
	if w == nil {
		return errors.New("no window")
	}
	w.parent = parent
	return nil
}

func (f *fakeAPI) SetWindowPos(h, after winapi.HWND, x, y, w, hgt int32, flags uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	win := f.windows[h]
	if win == nil {
		return errors.New("no window")
	}
	movedOrSized := flags&winapi.SWP_NOMOVE == 0 && flags&winapi.SWP_NOSIZE == 0
	f.setPosCalls = append(f.setPosCalls, setPosCall{h, after, x, y, w, hgt, flags, movedOrSized})
	if movedOrSized {
		win.rect = winapi.Rect{Left: x, Top: y, Right: x + w, Bottom: y + hgt}
	}
	if flags&winapi.SWP_SHOWWINDOW != 0 {
		win.visible = true
	}
	return nil
}

func (f *fakeAPI) ShowWindow(h winapi.HWND, cmd int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	w := f.windows[h]
	f.showCalls = append(f.showCalls, showCall{h, cmd})
	if w == nil {
		return false
	}
	switch cmd {
	case winapi.SW_HIDE:
		w.visible = false
	case winapi.SW_SHOW, winapi.SW_RESTORE:
		w.visible = true
	}
	return true
}

func (f *fakeAPI) SetForeground(h winapi.HWND) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.foregroundSets = append(f.foregroundSets, h)
	return true
}

func (f *fakeAPI) ForegroundWindow() winapi.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.order) == 0 {
		return 0
	}
	return f.order[0]
}

func (f *fakeAPI) PostClose(h winapi.HWND) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postCloseCalls = append(f.postCloseCalls, h)
	return nil
}

func (f *fakeAPI) WindowTitle(h winapi.HWND) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.windows[h]; w != nil {
		return w.title
	}
	return ""
}

func (f *fakeAPI) WindowClass(h winapi.HWND) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.windows[h]; w != nil {
		return w.class
	}
	return ""
}

func (f *fakeAPI) WindowPID(h winapi.HWND) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.windows[h]; w != nil {
		return w.pid
	}
	return 0
}

func (f *fakeAPI) WindowThreadID(h winapi.HWND) uint32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w := f.windows[h]; w != nil {
		return w.tid
	}
	return 0
}

func (f *fakeAPI) AttachThreadInput(src, dst uint32, attach bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachCalls = append(f.attachCalls, attachCall{src, dst, attach})
	return true
}

func (f *fakeAPI) SetFocus(h winapi.HWND) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focusCalls = append(f.focusCalls, h)
}

func (f *fakeAPI) SetActiveWindow(h winapi.HWND) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activeCalls = append(f.activeCalls, h)
}

func (f *fakeAPI) CursorPos() (winapi.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cursor, f.cursorOK
}

func (f *fakeAPI) LeftMouseDown() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leftDown
}

func (f *fakeAPI) FindDescendant(h winapi.HWND, match func(class string) bool) winapi.HWND {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findDescendantLocked(h, match)
}

func (f *fakeAPI) findDescendantLocked(h winapi.HWND, match func(class string) bool) winapi.HWND {
	w := f.windows[h]
	if w == nil {
		return 0
	}
	for _, child := range w.children {
		if cw := f.windows[child]; cw != nil && match(cw.class) {
			return child
		}
		if found := f.findDescendantLocked(child, match); found != 0 {
			return found
		}
	}
	return 0
}

func (f *fakeAPI) CurrentProcessID() uint32 { return f.selfPID }
func (f *fakeAPI) CurrentThreadID() uint32  { return f.selfTID }

// destroy removes the window, simulating an external close.
func (f *fakeAPI) destroy(h winapi.HWND) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.windows, h)
	for i, v := range f.order {
		if v == h {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
}

func (f *fakeAPI) movedOrSizedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.setPosCalls {
		if c.movedOrSized {
			n++
		}
	}
	return n
}

func (f *fakeAPI) attachSnapshot() []attachCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]attachCall, len(f.attachCalls))
	copy(out, f.attachCalls)
	return out
}
