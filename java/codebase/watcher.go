package codebase

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after a file system event
// before polling, so a build writing many class files triggers one poll.
const DefaultDebounce = 200 * time.Millisecond

// FileWatcher rescans class files and archives under the codebase roots
// whose modification time changed. File system notifications trigger a
// poll shortly after files change; the poll interval is the fallback where
// notifications are unavailable. OnChange receives the changed paths after
// each poll that found any.
type FileWatcher struct {
	OnChange func(changed []string)
	Debounce time.Duration

	codebase     *Codebase
	stopCh       chan struct{}
	doneCh       chan struct{}
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, interval time.Duration) *FileWatcher {
	if interval <= 0 {
		interval = time.Second
	}
	return &FileWatcher{
		Debounce:     DefaultDebounce,
		codebase:     c,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
		pollInterval: interval,
		modTimes:     make(map[string]time.Time),
	}
}

func (w *FileWatcher) Start() {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		w.codebase.Logger.Warn("file notifications unavailable, polling only", "err", err)
		notify = nil
	} else {
		w.watchDirs(notify)
	}
	go w.run(notify)
}

// Stop ends watching and waits for an in-flight poll to finish.
func (w *FileWatcher) Stop() {
	close(w.stopCh)
	<-w.doneCh
}

func (w *FileWatcher) run(notify *fsnotify.Watcher) {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	var events <-chan fsnotify.Event
	var errs <-chan error
	if notify != nil {
		defer notify.Close()
		events, errs = notify.Events, notify.Errors
	}

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.pollAndNotify()
		case <-debounce.C:
			w.pollAndNotify()
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					w.addDir(notify, event.Name)
				}
			}
			debounce.Reset(w.Debounce)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			w.codebase.Logger.Warn("file notification error", "err", err)
		}
	}
}

func (w *FileWatcher) pollAndNotify() {
	if changed := w.Poll(); len(changed) > 0 && w.OnChange != nil {
		w.OnChange(changed)
	}
}

// watchDirs subscribes to every directory under the roots. fsnotify is not
// recursive, so each directory is added on its own. Archive roots are
// watched through their parent directory.
func (w *FileWatcher) watchDirs(notify *fsnotify.Watcher) {
	for _, root := range w.codebase.Roots() {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			w.addWatch(notify, filepath.Dir(root))
			continue
		}
		w.addDir(notify, root)
	}
}

func (w *FileWatcher) addDir(notify *fsnotify.Watcher, dir string) {
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.addWatch(notify, path)
		return nil
	})
}

func (w *FileWatcher) addWatch(notify *fsnotify.Watcher, dir string) {
	if err := notify.Add(dir); err != nil {
		w.codebase.Logger.Debug("cannot watch directory", "dir", dir, "err", err)
	}
}

// Prime records the current modification times without rescanning, so the
// first Poll only reports later changes.
func (w *FileWatcher) Prime() {
	for path, mod := range w.snapshot() {
		w.modTimes[path] = mod
	}
}

// Poll compares the files under the roots with the previous poll, updates
// the codebase and returns the changed paths in sorted order.
func (w *FileWatcher) Poll() []string {
	current := w.snapshot()
	var changed []string

	for path, mod := range current {
		last, known := w.modTimes[path]
		if known && !mod.After(last) {
			continue
		}
		w.modTimes[path] = mod
		changed = append(changed, path)

		var err error
		if IsArchive(path) {
			err = w.codebase.ScanArchive(path)
		} else {
			err = w.codebase.ScanFile(path)
		}
		if err != nil {
			w.codebase.Logger.Warn("rescan failed", "path", path, "err", err)
		}
	}

	for path := range w.modTimes {
		if _, ok := current[path]; !ok {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
			changed = append(changed, path)
		}
	}

	sort.Strings(changed)
	return changed
}

func (w *FileWatcher) snapshot() map[string]time.Time {
	files := make(map[string]time.Time)
	for _, root := range w.codebase.Roots() {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files[root] = info.ModTime()
			continue
		}
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !IsClassFile(path) && !IsArchive(path) {
				return nil
			}
			if info, err := d.Info(); err == nil {
				files[path] = info.ModTime()
			}
			return nil
		})
	}
	return files
}
