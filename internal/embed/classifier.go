package embed

import (
	"strings"

	"WindowHub/internal/winapi"
)

// DenyClasses lists window classes that misbehave when reparented across
// processes: shell roots, desktop workers, taskbars, the task manager and
// framework-managed core windows. Matched by substring containment so class
// name variants are covered.
var DenyClasses = []string{
	"CabinetWClass",
	"ExplorerWClass",
	"Progman",
	"WorkerW",
	"Shell_TrayWnd",
	"Shell_SecondaryTrayWnd",
	"TaskManagerWindow",
	"Windows.UI.Core.CoreWindow",
}

// Classifier decides whether a foreign window may be embedded. It is
// stateless: the verdict depends only on the window's current class name and
// owning process.
type Classifier struct {
	api  WinAPI
	deny []string
}

func NewClassifier(api WinAPI, deny []string) *Classifier {
	if deny == nil {
		deny = DenyClasses
	}
	return &Classifier{api: api, deny: deny}
}

// Check returns nil when h is eligible for embedding, otherwise a
// NotEmbeddable error carrying the reject reason.
func (c *Classifier) Check(h winapi.HWND) error {
	if c.api.WindowPID(h) == c.api.CurrentProcessID() {
		return notEmbeddable(ReasonSelfProcess, "")
	}
	class := c.api.WindowClass(h)
	for _, d := range c.deny {
		if strings.Contains(class, d) {
			return notEmbeddable(ReasonForbiddenClass, class)
		}
	}
	return nil
}
