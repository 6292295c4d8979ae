// Package ipcapi holds the DTO types crossing the UI bridge. Handles travel
// as plain integers; the frontend never interprets them.
package ipcapi

import "time"

type WindowDescriptor struct {
	HWND        uint64 `json:"hwnd"`
	Title       string `json:"title"`
	ClassName   string `json:"className"`
	Width       int32  `json:"width"`
	Height      int32  `json:"height"`
	ProcessPath string `json:"processPath,omitempty"`
}

type AppInfo struct {
	Name string `json:"name"`
	// Path is the shortcut or executable that was discovered; Target is the
	// executable a shortcut resolves to, empty when resolution failed.
	Path   string `json:"path"`
	Target string `json:"target,omitempty"`
}

// LaunchTicket is returned immediately by LaunchApp; the outcome arrives
// later as a launch-finished event carrying the same ID.
type LaunchTicket struct {
	ID string `json:"id"`
}

type LaunchFinishedEvent struct {
	ID    string `json:"id"`
	HWND  uint64 `json:"hwnd"`
	Error string `json:"error,omitempty"`
	AtUTC int64  `json:"atUTC"`
}

type WindowGoneEvent struct {
	HWND  uint64 `json:"hwnd"`
	AtUTC int64  `json:"atUTC"`
}

func NowUTC() int64 { return time.Now().UTC().UnixMilli() }
