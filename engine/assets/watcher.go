package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

// ChangeFunc receives the slash separated path of a changed asset, relative to the watched root.
type ChangeFunc func(rel string, kind AssetKind)

/**
 * @brief Watches an asset directory tree and reports created or modified asset files.
 */
type Watcher struct {
	root     string
	onChange ChangeFunc
	logger   core.Logger

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	isClosed bool
	done     chan struct{}
	stopped  chan struct{}
}

func NewWatcher(root string, onChange ChangeFunc, logger core.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		root:     abs,
		onChange: onChange,
		logger:   logger,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	if err := w.watchRecursive(abs); err != nil {
		fsWatch.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	go w.start()
	return w, nil
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	w.mutex.Lock()
	if w.isClosed {
		w.mutex.Unlock()
		return errors.New("watcher already closed")
	}
	w.isClosed = true
	w.mutex.Unlock()

	close(w.done)
	<-w.stopped
	return nil
}

func (w *Watcher) start() {
	defer close(w.stopped)
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			w.handleEvent(e)

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("asset watcher: %s", err)

		case <-w.done:
			w.fsnotify.Close()
			return
		}
	}
}

func (w *Watcher) handleEvent(e fsnotify.Event) {
	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Has(fsnotify.Create) {
			if err := w.watchRecursive(e.Name); err != nil {
				w.logger.Warnf("asset watcher: cannot watch %s: %s", e.Name, err)
			}
		}
		return
	}
	// Can't stat a removed entry, so just try to drop it from the watch list.
	if e.Has(fsnotify.Remove) {
		_ = w.fsnotify.Remove(e.Name)
		return
	}
	if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
		w.notify(e.Name)
	}
}

func (w *Watcher) notify(path string) {
	kind := KindOf(path)
	if kind == AssetKindNone {
		return
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		w.logger.Warnf("asset watcher: %s is outside of %s", path, w.root)
		return
	}
	w.logger.Debugf("asset watcher: %s '%s' changed", kind, rel)
	w.onChange(filepath.ToSlash(rel), kind)
}

// watchRecursive adds all directories under the given one to the watch list.
// Files created before the watch on a new directory is in place are not reported.
func (w *Watcher) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return nil
		}
		return w.fsnotify.Add(walkPath)
	})
}
