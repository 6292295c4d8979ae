package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"WindowHub/internal/apps"
	"WindowHub/internal/embed"
	"WindowHub/internal/events"
	"WindowHub/internal/ipcapi"
	"WindowHub/internal/logging"
	"WindowHub/internal/policy"
	"WindowHub/internal/trayhotkey"
	"WindowHub/internal/winapi"

	"github.com/google/uuid"
)

// Dependencies are the callbacks the services layer needs from the UI
// shell.
type Dependencies struct {
	EmitEvent        func(name string, data any)
	ShowMainWindow   func()
	ToggleMainWindow func()
	ExitApp          func()
}

// Services wires the embedding engine, the window lifecycle watcher, the
// tray/hotkey manager and the launch helper together and exposes the
// command surface the UI binds to.
type Services struct {
	deps Dependencies
	cfg  *policy.Config
	log  *zap.Logger

	api        *winapi.Facade
	engine     *embed.Engine
	bus        *events.Bus
	th         *trayhotkey.Manager
	launcher   *apps.Launcher
	discoverer *apps.Discoverer
	procs      *apps.ProcCache

	hostFrame atomic.Uintptr
	stopOnce  sync.Once
	stopCh    chan struct{}
}

func New(deps Dependencies) *Services {
	cfg := policy.DefaultConfig()
	log := logging.L()
	api := winapi.New()

	s := &Services{
		deps:       deps,
		cfg:        cfg,
		log:        log,
		api:        api,
		bus:        events.NewBus(1024),
		discoverer: apps.NewDiscoverer(cfg.StartMenuMaxDepth, cfg.SkipShortcutSubstr),
		procs:      apps.NewProcCache(),
		stopCh:     make(chan struct{}),
	}

	s.engine = embed.NewEngine(embed.Options{
		API:                api,
		Classifier:         embed.NewClassifier(api, cfg.EmbedDenyClasses),
		HostFrame:          s.HostFrame,
		Log:                log,
		ProductName:        cfg.ProductName,
		RenderSurfaceClass: cfg.RenderSurfaceClass,
		FilterDenyClasses:  cfg.FilterDenyClasses,
		MinWindowWidth:     cfg.MinWindowWidth,
		MinWindowHeight:    cfg.MinWindowHeight,
		DetachDelay:        cfg.DetachDelay,
		FallbackRect:       cfg.FallbackRect,
	})

	s.launcher = &apps.Launcher{
		Candidates:   s.candidateHandles,
		Timeout:      cfg.LaunchTimeout,
		PollInterval: cfg.LaunchPollInterval,
	}
	return s
}

func (s *Services) Start(ctx context.Context) {
	s.th = trayhotkey.NewManager(trayhotkey.Dependencies{
		OnSwitchTab: func(n int) {
			s.deps.EmitEvent("switch-tab", n)
		},
		OnCloseCurrent: func() {
			s.deps.EmitEvent("close-current-tab", nil)
		},
		OnNextTab: func() {
			s.deps.EmitEvent("next-tab", nil)
		},
		OnPrevTab: func() {
			s.deps.EmitEvent("prev-tab", nil)
		},
		OnOpenSearch: func() {
			s.deps.EmitEvent("open-search", nil)
		},
		OnToggleVisible: func() {
			if s.deps.ToggleMainWindow != nil {
				s.deps.ToggleMainWindow()
			}
		},
		OnShowMain: func() {
			if s.deps.ShowMainWindow != nil {
				s.deps.ShowMainWindow()
			}
		},
		OnExit: func() {
			if s.deps.ExitApp != nil {
				s.deps.ExitApp()
			}
		},
	})
	s.th.Start()

	if err := s.bus.StartHook(); err != nil {
		s.log.Warn("window event hook unavailable", zap.Error(err))
	}
	go s.watchLoop()
	go s.resolveHostFrame()
}

func (s *Services) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.th != nil {
			s.th.Stop()
		}
		if s.bus != nil {
			s.bus.Stop()
		}
	})
}

// HostFrame returns the host's top-level window handle, 0 until the UI
// shell has created it.
func (s *Services) HostFrame() winapi.HWND {
	return winapi.HWND(s.hostFrame.Load())
}

// resolveHostFrame polls for the shell's main window. Wails creates it
// after startup returns, so the handle is not available synchronously.
func (s *Services) resolveHostFrame() {
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for i := 0; i < 120; i++ {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			if h := s.api.MainWindow(s.cfg.ProductName); h != 0 {
				s.hostFrame.Store(uintptr(h))
				s.log.Info("host frame resolved", zap.Uintptr("hwnd", uintptr(h)))
				return
			}
		}
	}
	s.log.Warn("host frame not found; embedding disabled until it appears")
}

// watchLoop releases embedded windows that die behind our back and tells
// the UI to drop the tab.
func (s *Services) watchLoop() {
	sweep := time.NewTicker(5 * time.Minute)
	defer sweep.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-sweep.C:
			s.procs.Cleanup()
		case ev := <-s.bus.Events():
			if ev.Type != events.EventWindowDestroyed {
				continue
			}
			h := winapi.HWND(ev.HWND)
			if !s.engine.IsEmbedded(h) {
				continue
			}
			_ = s.engine.Release(h)
			s.deps.EmitEvent("window-gone", ipcapi.WindowGoneEvent{
				HWND:  uint64(h),
				AtUTC: ipcapi.NowUTC(),
			})
		}
	}
}

func (s *Services) candidateHandles() []winapi.HWND {
	infos := s.engine.Enumerate()
	out := make([]winapi.HWND, len(infos))
	for i, info := range infos {
		out[i] = info.HWND
	}
	return out
}

// --- command surface ---

func (s *Services) EnumerateWindows() []ipcapi.WindowDescriptor {
	infos := s.engine.Enumerate()
	out := make([]ipcapi.WindowDescriptor, 0, len(infos))
	for _, info := range infos {
		out = append(out, ipcapi.WindowDescriptor{
			HWND:        uint64(info.HWND),
			Title:       info.Title,
			ClassName:   info.Class,
			Width:       info.Width,
			Height:      info.Height,
			ProcessPath: s.procs.ExecutablePath(s.api.WindowPID(info.HWND)),
		})
	}
	return out
}

func (s *Services) CanEmbed(hwnd uint64) error {
	return s.engine.CanEmbed(winapi.HWND(hwnd))
}

func (s *Services) Embed(hwnd uint64) error {
	return s.engine.Embed(winapi.HWND(hwnd))
}

func (s *Services) Release(hwnd uint64) error {
	return s.engine.Release(winapi.HWND(hwnd))
}

func (s *Services) CloseTarget(hwnd uint64) error {
	return s.engine.Close(winapi.HWND(hwnd))
}

func (s *Services) UpdateWindowRect(hwnd uint64, x, y, w, h int32) (bool, error) {
	return s.engine.UpdateRect(winapi.HWND(hwnd), x, y, w, h)
}

func (s *Services) ActivateWindow(hwnd uint64) (bool, error) {
	return s.engine.Activate(winapi.HWND(hwnd))
}

func (s *Services) HideWindow(hwnd uint64) bool {
	return s.engine.Hide(winapi.HWND(hwnd))
}

func (s *Services) ShowWindow(hwnd uint64) bool {
	return s.engine.Show(winapi.HWND(hwnd))
}

func (s *Services) IsWindowValid(hwnd uint64) bool {
	return s.engine.IsValid(winapi.HWND(hwnd))
}

func (s *Services) GetWindowTitle(hwnd uint64) string {
	return s.engine.Title(winapi.HWND(hwnd))
}

func (s *Services) GetForegroundWindow() uint64 {
	return uint64(s.api.ForegroundWindow())
}

func (s *Services) GetMainWindowHWND() uint64 {
	if h := s.HostFrame(); h != 0 {
		return uint64(h)
	}
	// The shell may ask before the resolver goroutine has found it.
	if h := s.api.MainWindow(s.cfg.ProductName); h != 0 {
		s.hostFrame.Store(uintptr(h))
		return uint64(h)
	}
	return 0
}

func (s *Services) IsCursorInClientArea(topOffset int32) bool {
	return s.engine.CursorInHostClientArea(topOffset)
}

func (s *Services) IsMouseLeftDown() bool {
	return s.api.LeftMouseDown()
}

func (s *Services) EnumerateInstalledApps() []ipcapi.AppInfo {
	return s.discoverer.Discover()
}

// LaunchApp starts path on a worker goroutine and returns a ticket; the
// outcome is delivered as a launch-finished event carrying the ticket ID.
func (s *Services) LaunchApp(path string) ipcapi.LaunchTicket {
	ticket := ipcapi.LaunchTicket{ID: uuid.NewString()}
	go func() {
		h, err := s.launcher.Launch(path)
		ev := ipcapi.LaunchFinishedEvent{
			ID:    ticket.ID,
			HWND:  uint64(h),
			AtUTC: ipcapi.NowUTC(),
		}
		if err != nil {
			ev.Error = err.Error()
			s.log.Warn("launch failed", zap.String("path", path), zap.Error(err))
		}
		s.deps.EmitEvent("launch-finished", ev)
	}()
	return ticket
}
