// Package config persists typed settings as a flat YAML document.
//
// Every top-level key maps to an arbitrary YAML value, decoded on demand
// into whatever Go type the caller asks for, so widget regions, window
// geometry and scalar flags live side by side in one file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileStore is a ConfigStore backed by a YAML file.
// It is safe for concurrent use.
type FileStore struct {
	path string

	mu     sync.Mutex
	values map[string]*yaml.Node
	dirty  bool
}

// New creates an empty store that saves to path.
func New(path string) *FileStore {
	return &FileStore{path: path, values: make(map[string]*yaml.Node)}
}

// Open reads the store at path. A missing file yields an empty store.
func Open(path string) (*FileStore, error) {
	s := New(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("config file missing, starting empty", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for k, n := range doc {
		s.values[k] = &n
	}
	return s, nil
}

// Path returns the file the store saves to.
func (s *FileStore) Path() string { return s.path }

// Load decodes the value under key into out. It reports false, without
// error, if the key is absent.
func (s *FileStore) Load(key string, out any) (bool, error) {
	s.mu.Lock()
	n, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := n.Decode(out); err != nil {
		return false, fmt.Errorf("decode %q: %w", key, err)
	}
	return true, nil
}

// Store sets key to value.
func (s *FileStore) Store(key string, value any) error {
	var n yaml.Node
	if err := n.Encode(value); err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	s.mu.Lock()
	s.values[key] = &n
	s.dirty = true
	s.mu.Unlock()
	return nil
}

// SetDefault sets key to value only if the key is absent.
func (s *FileStore) SetDefault(key string, value any) error {
	s.mu.Lock()
	_, ok := s.values[key]
	s.mu.Unlock()
	if ok {
		return nil
	}
	return s.Store(key, value)
}

// Has returns true if key is set.
func (s *FileStore) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// Delete removes key.
func (s *FileStore) Delete(key string) {
	s.mu.Lock()
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
	s.mu.Unlock()
}

// Keys returns the set keys in sorted order.
func (s *FileStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dirty returns true if the store changed since it was opened or saved.
func (s *FileStore) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Save writes the store to its path with keys in sorted order. The file is
// replaced atomically, so a crash never leaves a half-written config.
func (s *FileStore) Save() error {
	data, err := s.marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.dirty = false
	s.mu.Unlock()
	slog.Debug("config saved", "path", s.path)
	return nil
}

func (s *FileStore) marshal() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range keys {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
			s.values[k],
		)
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
