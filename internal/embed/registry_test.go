package embed

import (
	"sync"
	"testing"

	"WindowHub/internal/winapi"
)

func TestRegistryInsertAndRemove(t *testing.T) {
	r := NewRegistry()
	st := OriginalState{HWND: 0x50, Style: 0x14CF0000, ExStyle: 0x100,
		Rect: winapi.Rect{Left: 10, Top: 20, Right: 410, Bottom: 320}}

	if !r.TryInsert(st) {
		t.Fatal("first TryInsert = false")
	}
	if r.TryInsert(OriginalState{HWND: 0x50, Style: 0xBAD}) {
		t.Fatal("second TryInsert for the same handle = true")
	}
	got, ok := r.Get(0x50)
	if !ok || got != st {
		t.Fatalf("Get = %+v, %v; want original entry", got, ok)
	}

	removed, ok := r.Remove(0x50)
	if !ok || removed != st {
		t.Fatalf("Remove = %+v, %v", removed, ok)
	}
	if _, ok := r.Remove(0x50); ok {
		t.Error("Remove of absent handle = true")
	}
	if r.Contains(0x50) || r.Len() != 0 {
		t.Errorf("registry not empty: contains=%v len=%d", r.Contains(0x50), r.Len())
	}
}

func TestRegistryConcurrentInserts(t *testing.T) {
	r := NewRegistry()
	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.TryInsert(OriginalState{HWND: winapi.HWND(0x100 + i)})
		}(i)
	}
	wg.Wait()

	if r.Len() != n {
		t.Fatalf("len = %d, want %d", r.Len(), n)
	}
	if got := r.Handles(); len(got) != n {
		t.Fatalf("Handles() returned %d entries, want %d", len(got), n)
	}
}

func TestRegistryConcurrentSameHandle(t *testing.T) {
	r := NewRegistry()
	const workers = 8
	var wg sync.WaitGroup
	wins := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if r.TryInsert(OriginalState{HWND: 0x200, Style: uint32(i)}) {
				wins <- struct{}{}
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var won int
	for range wins {
		won++
	}
	if won != 1 {
		t.Fatalf("%d goroutines won the insert, want exactly 1", won)
	}
	if r.Len() != 1 {
		t.Fatalf("len = %d, want 1", r.Len())
	}
}
