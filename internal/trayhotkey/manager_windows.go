//go:build windows

package trayhotkey

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/getlantern/systray"
	"golang.org/x/sys/windows"
)

// Dependencies are the callbacks fired from tray clicks and global
// hotkeys. All of them may be nil.
type Dependencies struct {
	OnSwitchTab     func(n int)
	OnCloseCurrent  func()
	OnNextTab       func()
	OnPrevTab       func()
	OnOpenSearch    func()
	OnToggleVisible func()
	OnShowMain      func()
	OnExit          func()
}

// Manager owns the tray icon and the global hotkey message loop.
type Manager struct {
	deps Dependencies
	once sync.Once
	stop chan struct{}
}

func NewManager(deps Dependencies) *Manager {
	return &Manager{deps: deps, stop: make(chan struct{})}
}

func (m *Manager) Start() {
	m.once.Do(func() {
		go systray.Run(m.onReady, m.onExit)
		go m.hotkeyLoop()
	})
}

func (m *Manager) Stop() {
	select {
	case <-m.stop:
	default:
		close(m.stop)
	}
	systray.Quit()
}

func (m *Manager) setTrayIcon() {
	exePath, err := os.Executable()
	if err != nil {
		return
	}

	exeDir := filepath.Dir(exePath)
	iconPaths := []string{
		filepath.Join(exeDir, "icon.ico"),
		filepath.Join(exeDir, "build", "windows", "icon.ico"),
	}

	for _, iconPath := range iconPaths {
		iconData, err := os.ReadFile(filepath.Clean(iconPath))
		if err != nil {
			continue
		}
		systray.SetIcon(iconData)
		return
	}
}

func (m *Manager) onReady() {
	systray.SetTitle("WindowHub")
	systray.SetTooltip("Window hub")

	m.setTrayIcon()

	itemShow := systray.AddMenuItem("Show WindowHub", "Show the main window")
	systray.AddSeparator()
	itemExit := systray.AddMenuItem("Exit", "Exit")

	go func() {
		for {
			select {
			case <-m.stop:
				return
			case <-itemShow.ClickedCh:
				if m.deps.OnShowMain != nil {
					m.deps.OnShowMain()
				}
			case <-itemExit.ClickedCh:
				if m.deps.OnExit != nil {
					m.deps.OnExit()
				}
				m.Stop()
				return
			}
		}
	}()
}

func (m *Manager) onExit() {}

const (
	modAlt          = 0x0001
	modControl      = 0x0002
	modShift        = 0x0004
	wmHotkey        = 0x0312
	vkTab           = 0x09
	vkSpace         = 0x20
	vkK             = 0x4B
	vkW             = 0x57
	vkDigit1        = 0x31
	idSwitchTabBase = 0xA10 // +0..8 for Alt+1..Alt+9
	idCloseCurrent  = 0xA20
	idNextTab       = 0xA21
	idPrevTab       = 0xA22
	idOpenSearch    = 0xA23
	idToggleVisible = 0xA24
)

// hotkeyLoop registers the global bindings and pumps WM_HOTKEY. Hotkeys are
// delivered to the registering thread's queue, so the goroutine is pinned
// to its OS thread for the life of the loop.
func (m *Manager) hotkeyLoop() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	user32 := windows.NewLazySystemDLL("user32.dll")
	procRegisterHotKey := user32.NewProc("RegisterHotKey")
	procUnregisterHotKey := user32.NewProc("UnregisterHotKey")
	procPeekMessageW := user32.NewProc("PeekMessageW")

	type binding struct {
		id   int
		mods uint32
		vk   uint32
	}
	bindings := []binding{
		{idCloseCurrent, modControl, vkW},
		{idNextTab, modControl, vkTab},
		{idPrevTab, modControl | modShift, vkTab},
		{idOpenSearch, modControl, vkK},
		{idToggleVisible, modAlt, vkSpace},
	}
	for i := 0; i < 9; i++ {
		bindings = append(bindings, binding{idSwitchTabBase + i, modAlt, vkDigit1 + uint32(i)})
	}

	for _, b := range bindings {
		_, _, _ = procRegisterHotKey.Call(0, uintptr(b.id), uintptr(b.mods), uintptr(b.vk))
	}
	defer func() {
		for _, b := range bindings {
			_, _, _ = procUnregisterHotKey.Call(0, uintptr(b.id))
		}
	}()

	const pmRemove = 0x0001
	var msg MSG
	for {
		select {
		case <-m.stop:
			return
		default:
			r1, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0, pmRemove)
			if r1 == 0 {
				time.Sleep(25 * time.Millisecond)
				continue
			}
			if msg.Message == wmHotkey {
				m.dispatch(int(msg.WParam))
			}
		}
	}
}

func (m *Manager) dispatch(id int) {
	switch {
	case id >= idSwitchTabBase && id < idSwitchTabBase+9:
		if m.deps.OnSwitchTab != nil {
			m.deps.OnSwitchTab(id - idSwitchTabBase + 1)
		}
	case id == idCloseCurrent:
		if m.deps.OnCloseCurrent != nil {
			m.deps.OnCloseCurrent()
		}
	case id == idNextTab:
		if m.deps.OnNextTab != nil {
			m.deps.OnNextTab()
		}
	case id == idPrevTab:
		if m.deps.OnPrevTab != nil {
			m.deps.OnPrevTab()
		}
	case id == idOpenSearch:
		if m.deps.OnOpenSearch != nil {
			m.deps.OnOpenSearch()
		}
	case id == idToggleVisible:
		if m.deps.OnToggleVisible != nil {
			m.deps.OnToggleVisible()
		}
	}
}

type POINT struct {
	X int32
	Y int32
}

type MSG struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      POINT
}
