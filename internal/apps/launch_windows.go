//go:build windows

package apps

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"

	"WindowHub/internal/winapi"
)

// Launcher starts an application and waits for its first embeddable window
// to appear. New-window detection is by set difference against a snapshot
// taken before the process starts, because many launchers (shortcut hosts,
// single-instance apps) surface a window in a process other than the one
// spawned.
type Launcher struct {
	// Candidates enumerates the windows that count as embeddable; the
	// services layer passes the engine's filtered enumeration.
	Candidates func() []winapi.HWND

	Timeout      time.Duration
	PollInterval time.Duration
}

var ErrNoWindow = errors.New("application started but no new window appeared")

// Launch starts path and blocks until a window absent from the pre-launch
// snapshot shows up, or the timeout passes.
func (l *Launcher) Launch(path string) (winapi.HWND, error) {
	timeout := l.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	poll := l.PollInterval
	if poll == 0 {
		poll = 100 * time.Millisecond
	}

	before := make(map[winapi.HWND]struct{})
	for _, h := range l.Candidates() {
		before[h] = struct{}{}
	}

	if err := startProcess(path); err != nil {
		return 0, fmt.Errorf("start %s: %w", path, err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		time.Sleep(poll)
		for _, h := range l.Candidates() {
			if _, ok := before[h]; !ok {
				return h, nil
			}
		}
	}
	return 0, ErrNoWindow
}

// startProcess launches an executable directly and hands shortcuts to the
// shell, which knows how to follow them.
func startProcess(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".lnk") {
		return shellOpen(path)
	}

	var si windows.StartupInfo
	var pi windows.ProcessInformation
	si.Cb = uint32(unsafe.Sizeof(si))

	cl, err := windows.UTF16PtrFromString(fmt.Sprintf("%q", path))
	if err != nil {
		return err
	}
	appPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if err := windows.CreateProcess(appPtr, cl, nil, nil, false, 0, nil, nil, &si, &pi); err != nil {
		return err
	}
	_ = windows.CloseHandle(pi.Thread)
	_ = windows.CloseHandle(pi.Process)
	return nil
}

func shellOpen(path string) error {
	verb, _ := windows.UTF16PtrFromString("open")
	file, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.ShellExecute(0, verb, file, nil, nil, windows.SW_SHOWNORMAL)
}
