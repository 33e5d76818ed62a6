package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SchemaVersion is the current settings file schema version.
const SchemaVersion = 1

// fileData is the on-disk layout of the settings file.
type fileData struct {
	SchemaVersion int                        `json:"schema_version"`
	Values        map[string]json.RawMessage `json:"values"`
}

// FileKV implements KV on top of a single JSON file.
// Every write rewrites the file atomically via a temp file and rename.
type FileKV struct {
	mu     sync.RWMutex
	path   string
	values map[string]json.RawMessage
	closed bool
}

// NewFileKV opens the settings file at path, creating its directory if needed.
// A missing file is an empty store.
func NewFileKV(path string) (*FileKV, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	kv := &FileKV{
		path:   path,
		values: make(map[string]json.RawMessage),
	}
	if err := kv.Reload(); err != nil {
		if !errors.Is(err, ErrCorrupt) {
			return nil, err
		}
		if err := RecoverFromCorruption(path); err != nil {
			return nil, err
		}
	}
	return kv, nil
}

// Path returns the file backing the store.
func (kv *FileKV) Path() string {
	return kv.path
}

// Reload re-reads the file from disk, replacing the in-memory values.
func (kv *FileKV) Reload() error {
	data, err := os.ReadFile(kv.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			kv.mu.Lock()
			kv.values = make(map[string]json.RawMessage)
			kv.mu.Unlock()
			return nil
		}
		return fmt.Errorf("read %s: %w", kv.path, err)
	}

	var fd fileData
	if err := json.Unmarshal(data, &fd); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, kv.path, err)
	}
	if fd.SchemaVersion > SchemaVersion {
		return fmt.Errorf("unsupported schema version %d (max: %d)", fd.SchemaVersion, SchemaVersion)
	}

	values := fd.Values
	if values == nil {
		values = make(map[string]json.RawMessage)
	}

	kv.mu.Lock()
	kv.values = values
	kv.mu.Unlock()
	return nil
}

// Exists reports whether key has a stored value.
func (kv *FileKV) Exists(key Key) bool {
	kv.mu.RLock()
	defer kv.mu.RUnlock()
	_, ok := kv.values[key.String()]
	return ok
}

// ReadString returns the string stored under key.
func (kv *FileKV) ReadString(key Key) (string, bool) {
	kv.mu.RLock()
	raw, ok := kv.values[key.String()]
	kv.mu.RUnlock()
	if !ok {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// ReadInt returns the integer stored under key.
func (kv *FileKV) ReadInt(key Key) (int, bool) {
	kv.mu.RLock()
	raw, ok := kv.values[key.String()]
	kv.mu.RUnlock()
	if !ok {
		return 0, false
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

// WriteString stores value under key and saves the file.
func (kv *FileKV) WriteString(key Key, value string) error {
	return kv.write(key, value)
}

// WriteInt stores value under key and saves the file.
func (kv *FileKV) WriteInt(key Key, value int) error {
	return kv.write(key, value)
}

// WriteInts stores all values and saves the file once.
func (kv *FileKV) WriteInts(values map[Key]int) error {
	raw := make(map[string]json.RawMessage, len(values))
	for key, value := range values {
		b, err := json.Marshal(value)
		if err != nil {
			return err
		}
		raw[key.String()] = b
	}
	return kv.writeRaw(raw)
}

func (kv *FileKV) write(key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return kv.writeRaw(map[string]json.RawMessage{key.String(): raw})
}

func (kv *FileKV) writeRaw(raw map[string]json.RawMessage) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrStoreClosed
	}

	maps.Copy(kv.values, raw)
	return kv.saveLocked()
}

// Delete removes key and saves the file.
func (kv *FileKV) Delete(key Key) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrStoreClosed
	}
	if _, ok := kv.values[key.String()]; !ok {
		return nil
	}

	delete(kv.values, key.String())
	return kv.saveLocked()
}

// Clear removes every stored value.
func (kv *FileKV) Clear() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if kv.closed {
		return ErrStoreClosed
	}

	kv.values = make(map[string]json.RawMessage)
	return kv.saveLocked()
}

// Close marks the store closed. Later writes fail with ErrStoreClosed.
func (kv *FileKV) Close() error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.closed = true
	return nil
}

// saveLocked writes the file atomically. Caller holds kv.mu.
func (kv *FileKV) saveLocked() error {
	data, err := json.MarshalIndent(fileData{
		SchemaVersion: SchemaVersion,
		Values:        kv.values,
	}, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := kv.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, kv.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}
	return nil
}

// RecoverFromCorruption moves an unreadable settings file aside so the store
// starts empty. The old file is kept next to it with a timestamp suffix.
func RecoverFromCorruption(path string) error {
	backupPath := path + ".corrupted." + time.Now().Format("20060102-150405")
	if err := os.Rename(path, backupPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to backup corrupted file: %w", err)
	}
	return nil
}
