package policy

import (
	"time"

	"WindowHub/internal/winapi"
)

// Config is the static configuration of the hub. Nothing here is persisted;
// it exists so tests and the services layer share one source of tunables.
type Config struct {
	ProductName string

	// EmbedDenyClasses and FilterDenyClasses override the built-in
	// denylists when non-nil. Embed matching is by substring, filter
	// matching is exact.
	EmbedDenyClasses  []string
	FilterDenyClasses []string

	RenderSurfaceClass string
	MinWindowWidth     int32
	MinWindowHeight    int32
	DetachDelay        time.Duration
	FallbackRect       winapi.Rect

	// Launch helper tunables.
	LaunchTimeout      time.Duration
	LaunchPollInterval time.Duration
	StartMenuMaxDepth  int
	SkipShortcutSubstr []string
}

func DefaultConfig() *Config {
	return &Config{
		ProductName:        "WindowHub",
		LaunchTimeout:      10 * time.Second,
		LaunchPollInterval: 100 * time.Millisecond,
		StartMenuMaxDepth:  3,
		SkipShortcutSubstr: []string{"Uninstall"},
	}
}
