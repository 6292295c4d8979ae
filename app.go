package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"WindowHub/internal/embed"
	"WindowHub/internal/ipcapi"
	"WindowHub/internal/logging"
	"WindowHub/internal/services"
)

// App is the Wails binding surface. Every method maps onto one command of
// the services layer; the frontend sees them as async functions.
type App struct {
	ctx context.Context

	svc   *services.Services
	start sync.Once

	visMu   sync.Mutex
	visible bool
}

func NewApp() *App {
	return &App{visible: true}
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	a.start.Do(func() {
		a.svc = services.New(services.Dependencies{
			EmitEvent: func(name string, data any) {
				runtime.EventsEmit(ctx, name, data)
			},
			ShowMainWindow:   a.showMainWindow,
			ToggleMainWindow: a.toggleMainWindow,
			ExitApp:          a.ExitApp,
		})
		a.svc.Start(ctx)
	})
}

func (a *App) shutdown(ctx context.Context) {
	if a.svc != nil {
		a.svc.Stop()
	}
	_ = logging.Sync()
}

// beforeClose turns the window's close box into hide-to-tray.
func (a *App) beforeClose(ctx context.Context) bool {
	runtime.WindowHide(ctx)
	a.setVisible(false)
	return true
}

func (a *App) showMainWindow() {
	if a.ctx == nil {
		return
	}
	runtime.WindowShow(a.ctx)
	a.setVisible(true)
}

func (a *App) toggleMainWindow() {
	if a.ctx == nil {
		return
	}
	a.visMu.Lock()
	visible := a.visible
	a.visMu.Unlock()
	if visible {
		runtime.WindowHide(a.ctx)
		a.setVisible(false)
	} else {
		runtime.WindowShow(a.ctx)
		a.setVisible(true)
	}
}

func (a *App) setVisible(v bool) {
	a.visMu.Lock()
	a.visible = v
	a.visMu.Unlock()
}

func (a *App) ExitApp() {
	if a.svc != nil {
		a.svc.Stop()
	}
	runtime.Quit(a.ctx)
}

// cmdErr prefixes engine errors with their stable kind so the frontend can
// match on it without parsing prose.
func cmdErr(err error) error {
	if err == nil {
		return nil
	}
	if kind := embed.KindOf(err); kind != "" {
		return fmt.Errorf("%s: %s", kind, err.Error())
	}
	return err
}

func (a *App) EnumerateWindows() []ipcapi.WindowDescriptor {
	if a.svc == nil {
		return nil
	}
	return a.svc.EnumerateWindows()
}

func (a *App) CanEmbedWindow(hwnd uint64) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	if err := a.svc.CanEmbed(hwnd); err != nil {
		return false, cmdErr(err)
	}
	return true, nil
}

func (a *App) EmbedWindow(hwnd uint64) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	if err := a.svc.Embed(hwnd); err != nil {
		return false, cmdErr(err)
	}
	return true, nil
}

func (a *App) ReleaseWindow(hwnd uint64) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	return true, cmdErr(a.svc.Release(hwnd))
}

func (a *App) CloseTargetWindow(hwnd uint64) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	return true, cmdErr(a.svc.CloseTarget(hwnd))
}

// UpdateWindowRect returns false when the window is gone so the frontend
// can drop the tab without an error path.
func (a *App) UpdateWindowRect(hwnd uint64, x, y, width, height int32) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	ok, err := a.svc.UpdateWindowRect(hwnd, x, y, width, height)
	return ok, cmdErr(err)
}

func (a *App) ActivateWindow(hwnd uint64) (bool, error) {
	if a.svc == nil {
		return false, fmt.Errorf("backend not ready")
	}
	ok, err := a.svc.ActivateWindow(hwnd)
	return ok, cmdErr(err)
}

func (a *App) HideWindow(hwnd uint64) bool {
	if a.svc == nil {
		return false
	}
	return a.svc.HideWindow(hwnd)
}

func (a *App) ShowWindow(hwnd uint64) bool {
	if a.svc == nil {
		return false
	}
	return a.svc.ShowWindow(hwnd)
}

func (a *App) IsWindowValid(hwnd uint64) bool {
	if a.svc == nil {
		return false
	}
	return a.svc.IsWindowValid(hwnd)
}

func (a *App) GetWindowTitle(hwnd uint64) string {
	if a.svc == nil {
		return ""
	}
	return a.svc.GetWindowTitle(hwnd)
}

func (a *App) GetForegroundWindow() uint64 {
	if a.svc == nil {
		return 0
	}
	return a.svc.GetForegroundWindow()
}

func (a *App) GetMainWindowHwnd() uint64 {
	if a.svc == nil {
		return 0
	}
	return a.svc.GetMainWindowHWND()
}

func (a *App) IsCursorInClientArea(topOffset int32) bool {
	if a.svc == nil {
		return false
	}
	return a.svc.IsCursorInClientArea(topOffset)
}

func (a *App) IsMouseLeftDown() bool {
	if a.svc == nil {
		return false
	}
	return a.svc.IsMouseLeftDown()
}

func (a *App) EnumerateInstalledApps() []ipcapi.AppInfo {
	if a.svc == nil {
		return nil
	}
	return a.svc.EnumerateInstalledApps()
}

func (a *App) LaunchApp(path string) (ipcapi.LaunchTicket, error) {
	if a.svc == nil {
		return ipcapi.LaunchTicket{}, fmt.Errorf("backend not ready")
	}
	return a.svc.LaunchApp(path), nil
}

func (a *App) GetAutostart() bool {
	return services.IsAutostartEnabled()
}

func (a *App) SetAutostart(enabled bool) error {
	return services.SetAutostart(enabled)
}
