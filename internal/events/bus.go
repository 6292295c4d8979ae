// Package events watches the lifecycle of foreign windows so the hub can
// drop tabs whose window died behind its back.
package events

import "sync"

type EventType string

const (
	EventWindowDestroyed   EventType = "window_destroyed"
	EventWindowShown       EventType = "window_shown"
	EventWindowHidden      EventType = "window_hidden"
	EventForegroundChanged EventType = "foreground_changed"
)

type WindowEvent struct {
	Type      EventType `json:"type"`
	Timestamp int64     `json:"timestampUTC"`
	HWND      uintptr   `json:"hwnd"`
}

// Bus fans window events out to a single consumer. Emit never blocks:
// events are dropped when the buffer is full, the consumer reconciles from
// live state anyway.
type Bus struct {
	ch     chan WindowEvent
	stopCh chan struct{}
	once   sync.Once

	hook *winEventHook
}

func NewBus(buffer int) *Bus {
	return &Bus{
		ch:     make(chan WindowEvent, buffer),
		stopCh: make(chan struct{}),
	}
}

func (b *Bus) Events() <-chan WindowEvent { return b.ch }

func (b *Bus) Emit(ev WindowEvent) {
	select {
	case b.ch <- ev:
	default:
	}
}

// StartHook installs the WinEvent hook and pumps it until Stop.
func (b *Bus) StartHook() error {
	if b.hook != nil {
		return nil
	}
	h := newWinEventHook(b.Emit)
	ready := make(chan error, 1)
	go h.Run(b.stopCh, ready)
	if err := <-ready; err != nil {
		return err
	}
	b.hook = h
	return nil
}

func (b *Bus) Stop() {
	b.once.Do(func() {
		close(b.stopCh)
	})
}
