package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/mmcdole/citadel/internal/domain"
)

// FileBackend keeps every key in one JSON object on disk. Writes replace the
// file atomically, and WatchExternal reports writes made by other processes
// sharing the same file.
type FileBackend struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	data   map[string]string
	closed bool

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// OpenFile loads the store at path, creating its directory if needed.
// A missing or unreadable file starts out empty.
func OpenFile(path string, logger *slog.Logger) (*FileBackend, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f := &FileBackend{path: path, logger: logger}
	data, err := f.read()
	if err != nil {
		logger.Warn("discarding unreadable storage file", "path", path, "error", err)
		data = make(map[string]string)
	}
	f.data = data
	return f, nil
}

func (f *FileBackend) Load(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok, nil
}

// Save writes one key. The rest of the file is taken from disk as it is now,
// so keys written by other processes since our last reload are kept. Memory
// changes only for key; the watcher reports the other keys when it reloads.
func (f *FileBackend) Save(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrStorageClosed
	}

	disk := f.currentLocked()
	disk[key] = value
	if err := f.writeLocked(disk); err != nil {
		return err
	}
	f.data[key] = value
	return nil
}

// Delete removes one key, keeping other keys as found on disk.
func (f *FileBackend) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return domain.ErrStorageClosed
	}

	disk := f.currentLocked()
	_, onDisk := disk[key]
	_, inMemory := f.data[key]
	if !onDisk && !inMemory {
		return nil
	}
	if onDisk {
		delete(disk, key)
		if err := f.writeLocked(disk); err != nil {
			return err
		}
	}
	delete(f.data, key)
	return nil
}

// currentLocked returns the file's contents, or a copy of memory when the
// file cannot be read.
func (f *FileBackend) currentLocked() map[string]string {
	disk, err := f.read()
	if err == nil {
		return disk
	}
	f.logger.Warn("rewriting unreadable storage file from memory", "path", f.path, "error", err)
	disk = make(map[string]string, len(f.data))
	for k, v := range f.data {
		disk[k] = v
	}
	return disk
}

// WatchExternal starts watching the file for writes by other processes.
// fn is called once per key whose value changed. Our own writes produce no
// calls for the key written because memory already holds it.
func (f *FileBackend) WatchExternal(fn func(key, value string, present bool)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: atomic renames replace the file's inode
	if err := w.Add(filepath.Dir(f.path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch storage directory: %w", err)
	}

	f.mu.Lock()
	f.watcher = w
	f.done = make(chan struct{})
	f.mu.Unlock()

	go f.watchLoop(w, fn)
	return nil
}

func (f *FileBackend) watchLoop(w *fsnotify.Watcher, fn func(key, value string, present bool)) {
	defer close(f.done)
	name := filepath.Clean(f.path)

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			for _, c := range f.reload() {
				fn(c.key, c.value, c.present)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			f.logger.Warn("storage watcher error", "error", err)
		}
	}
}

type change struct {
	key     string
	value   string
	present bool
}

// reload re-reads the file and returns the keys that differ from memory.
func (f *FileBackend) reload() []change {
	next, err := f.read()
	if err != nil {
		// Partially written or corrupt; the next event will retry
		f.logger.Debug("skipping unreadable storage file", "error", err)
		return nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var changes []change
	for k, v := range next {
		if old, ok := f.data[k]; !ok || old != v {
			changes = append(changes, change{key: k, value: v, present: true})
		}
	}
	for k := range f.data {
		if _, ok := next[k]; !ok {
			changes = append(changes, change{key: k})
		}
	}
	f.data = next
	return changes
}

func (f *FileBackend) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *FileBackend) writeLocked(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".citadel-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace storage file: %w", err)
	}
	return nil
}

func (f *FileBackend) Close() error {
	f.mu.Lock()
	f.closed = true
	w, done := f.watcher, f.done
	f.watcher = nil
	f.mu.Unlock()

	if w == nil {
		return nil
	}
	err := w.Close()
	<-done
	return err
}
