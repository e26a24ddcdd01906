package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"
)

// Store is a string key/value persistence backend.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}

// MemoryStore keeps values in a map. The zero value is ready to use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// FileStore persists a flat key -> value map in a YAML file, or TOML when
// the path ends in ".toml". The file is created on the first Set.
type FileStore struct {
	path string
	toml bool

	mu sync.Mutex
}

// NewFileStore expands a leading "~" in path.
func NewFileStore(path string) (*FileStore, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("settings: expand %q: %w", path, err)
	}
	return &FileStore{
		path: p,
		toml: strings.EqualFold(filepath.Ext(p), ".toml"),
	}, nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, err := f.read()
	if err != nil {
		return err
	}
	m[key] = value
	return f.write(m)
}

func (f *FileStore) read() (map[string]string, error) {
	m := map[string]string{}
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if f.toml {
		if _, err := toml.Decode(string(b), &m); err != nil {
			return nil, fmt.Errorf("settings: decode %s: %w", f.path, err)
		}
		return m, nil
	}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("settings: decode %s: %w", f.path, err)
	}
	if m == nil {
		m = map[string]string{}
	}
	return m, nil
}

func (f *FileStore) write(m map[string]string) error {
	var b []byte
	if f.toml {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(m); err != nil {
			return err
		}
		b = buf.Bytes()
	} else {
		var err error
		if b, err = yaml.Marshal(m); err != nil {
			return err
		}
	}
	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(f.path, b, 0o644)
}
