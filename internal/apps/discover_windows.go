//go:build windows

package apps

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"WindowHub/internal/ipcapi"
)

// Discoverer scans the Start Menu trees for launchable applications.
type Discoverer struct {
	maxDepth   int
	skipSubstr []string
}

func NewDiscoverer(maxDepth int, skipSubstr []string) *Discoverer {
	if maxDepth <= 0 {
		maxDepth = 3
	}
	return &Discoverer{maxDepth: maxDepth, skipSubstr: skipSubstr}
}

// Discover walks the per-user and all-users Start Menu program folders and
// returns the shortcuts and executables found there, deduplicated by name
// and sorted. Shortcut targets are resolved over COM, best-effort.
func (d *Discoverer) Discover() []ipcapi.AppInfo {
	var roots []string
	if v := os.Getenv("APPDATA"); v != "" {
		roots = append(roots, filepath.Join(v, `Microsoft\Windows\Start Menu\Programs`))
	}
	if v := os.Getenv("ProgramData"); v != "" {
		roots = append(roots, filepath.Join(v, `Microsoft\Windows\Start Menu\Programs`))
	}

	resolver := newShortcutResolver()
	defer resolver.close()

	var found []ipcapi.AppInfo
	for _, root := range roots {
		found = append(found, d.scan(root, resolver)...)
	}

	sort.Slice(found, func(i, j int) bool {
		return strings.ToLower(found[i].Name) < strings.ToLower(found[j].Name)
	})
	out := found[:0]
	var prev string
	for _, app := range found {
		key := strings.ToLower(app.Name)
		if key == prev {
			continue
		}
		prev = key
		out = append(out, app)
	}
	return out
}

func (d *Discoverer) scan(root string, resolver *shortcutResolver) []ipcapi.AppInfo {
	var apps []ipcapi.AppInfo
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if depth(root, path) > d.maxDepth {
				return fs.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".lnk" && ext != ".exe" {
			return nil
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		for _, skip := range d.skipSubstr {
			if strings.Contains(name, skip) {
				return nil
			}
		}
		app := ipcapi.AppInfo{Name: name, Path: path}
		if ext == ".lnk" {
			app.Target = resolver.resolve(path)
		}
		apps = append(apps, app)
		return nil
	})
	return apps
}

func depth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// shortcutResolver resolves .lnk targets through the WScript.Shell COM
// object. One resolver serves a whole Discover pass so COM is initialized
// once, not per shortcut.
type shortcutResolver struct {
	shell *ole.IDispatch
}

func newShortcutResolver() *shortcutResolver {
	_ = ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED)
	unknown, err := oleutil.CreateObject("WScript.Shell")
	if err != nil {
		return &shortcutResolver{}
	}
	defer unknown.Release()
	shell, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return &shortcutResolver{}
	}
	return &shortcutResolver{shell: shell}
}

func (r *shortcutResolver) resolve(lnkPath string) string {
	if r.shell == nil {
		return ""
	}
	scRaw, err := oleutil.CallMethod(r.shell, "CreateShortcut", lnkPath)
	if err != nil {
		return ""
	}
	sc := scRaw.ToIDispatch()
	if sc == nil {
		return ""
	}
	defer sc.Release()
	target, err := oleutil.GetProperty(sc, "TargetPath")
	if err != nil || target == nil {
		return ""
	}
	return target.ToString()
}

func (r *shortcutResolver) close() {
	if r.shell != nil {
		r.shell.Release()
		r.shell = nil
	}
	ole.CoUninitialize()
}
