//go:build windows

package apps

import (
	"fmt"
	"sync"
	"time"

	"github.com/StackExchange/wmi"
)

// ProcCache answers "which executable owns this pid" with a short-lived
// cache in front of WMI; enumeration asks for the same handful of pids on
// every refresh and WMI round-trips are slow.
type ProcCache struct {
	mu   sync.Mutex
	last map[uint32]cachedProc
}

type cachedProc struct {
	exe string
	at  time.Time
}

func NewProcCache() *ProcCache {
	return &ProcCache{last: map[uint32]cachedProc{}}
}

// ExecutablePath returns the full image path of pid, or "".
func (c *ProcCache) ExecutablePath(pid uint32) string {
	c.mu.Lock()
	if v, ok := c.last[pid]; ok && time.Since(v.at) < 30*time.Second {
		c.mu.Unlock()
		return v.exe
	}
	c.mu.Unlock()

	type Win32_Process struct {
		ProcessID      uint32
		ExecutablePath *string
	}
	var dst []Win32_Process
	q := fmt.Sprintf("SELECT ProcessID, ExecutablePath FROM Win32_Process WHERE ProcessID=%d", pid)
	if err := wmi.Query(q, &dst); err != nil || len(dst) == 0 {
		return ""
	}
	exe := ""
	if dst[0].ExecutablePath != nil {
		exe = *dst[0].ExecutablePath
	}

	c.mu.Lock()
	c.last[pid] = cachedProc{exe: exe, at: time.Now()}
	c.mu.Unlock()
	return exe
}

// Cleanup drops entries that have not been refreshed recently.
func (c *ProcCache) Cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for pid, proc := range c.last {
		if now.Sub(proc.at) > 5*time.Minute {
			delete(c.last, pid)
		}
	}
}
