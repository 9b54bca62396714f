package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// fileWatcher reports changes to one file. It watches the parent directory
// so that editors which save by renaming a new file into place are seen.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	changes chan string
	errs    chan error
	done    chan struct{}
	once    sync.Once
}

func newFileWatcher(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	fw := &fileWatcher{
		path:    abs,
		watcher: w,
		changes: make(chan string, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *fileWatcher) loop() {
	var timerC <-chan time.Time
	for {
		select {
		case <-fw.done:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				timerC = time.After(watchDebounce)
			}
		case <-timerC:
			timerC = nil
			select {
			case fw.changes <- fw.path:
			default:
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			select {
			case fw.errs <- err:
			default:
			}
		}
	}
}

// next waits for the following change. The program re-issues it after
// every message it returns.
func (fw *fileWatcher) next() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-fw.done:
			return nil
		case path := <-fw.changes:
			return fileChangedMsg{path: path}
		case err := <-fw.errs:
			return watchErrMsg{err: err}
		}
	}
}

func (fw *fileWatcher) Stop() {
	fw.once.Do(func() {
		close(fw.done)
		fw.watcher.Close()
	})
}

// watchFile starts watching the open file, replacing any previous watcher.
func (m *model) watchFile() tea.Cmd {
	if m.watcher != nil {
		m.watcher.Stop()
		m.watcher = nil
	}
	if m.filename == "" {
		return nil
	}
	fw, err := newFileWatcher(m.filename)
	if err != nil {
		m.log.Warn("watch failed", "path", m.filename, "error", err)
		return nil
	}
	m.watcher = fw
	return fw.next()
}

// rememberDisk records what the open file holds after a save or load, so
// that the watcher's echo of our own write is not taken for an outside
// change.
func (m *model) rememberDisk() {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		m.known = nil
		return
	}
	m.known = data
}

func (m *model) changedOnDisk() bool {
	data, err := os.ReadFile(m.filename)
	if err != nil {
		return false
	}
	return string(data) != string(m.known)
}

// yankDocument copies the serialized graph to the system clipboard.
func (m *model) yankDocument() error {
	data, err := m.editor.Encode()
	if err != nil {
		return err
	}
	return clipboard.WriteAll(string(data))
}
