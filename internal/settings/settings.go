// Package settings holds a sketch's tweakable values together with a copy of
// their defaults, and persists them through a Store.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// DefaultKey is the store key used when Options.Key is empty.
const DefaultKey = "settings"

var ErrNoStore = errors.New("settings: no store")

type Options struct {
	Key   string
	Store Store
	// AutoLoad merges stored values at construction.
	AutoLoad bool
	// AutoSave saves after every Reset.
	AutoSave bool
}

// Settings values travel through encoding/json, so only exported fields of T
// are cloned and persisted.
type Settings[T any] struct {
	Value T

	AutoSave bool

	defaults []byte
	key      string
	store    Store
}

func New[T any](value T, opts Options) (*Settings[T], error) {
	defaults, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("settings: encode defaults: %w", err)
	}
	s := &Settings[T]{
		Value:    value,
		AutoSave: opts.AutoSave,
		defaults: defaults,
		key:      opts.Key,
		store:    opts.Store,
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if opts.AutoLoad {
		if err := s.Load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Defaults returns a fresh copy of the construction-time values.
func (s *Settings[T]) Defaults() T {
	var v T
	if err := json.Unmarshal(s.defaults, &v); err != nil {
		// defaults were produced by json.Marshal of a T
		panic(err)
	}
	return v
}

// Reset restores the defaults and saves when AutoSave is set.
func (s *Settings[T]) Reset() error {
	s.Value = s.Defaults()
	if s.AutoSave {
		return s.Save()
	}
	return nil
}

func (s *Settings[T]) Save() error {
	if s.store == nil {
		return ErrNoStore
	}
	b, err := json.Marshal(s.Value)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.store.Set(s.key, string(b)); err != nil {
		return fmt.Errorf("settings: save %q: %w", s.key, err)
	}
	log.Debug().Str("key", s.key).Msg("settings saved")
	return nil
}

// Load merges the stored fields over the current values. A missing key
// leaves them untouched.
func (s *Settings[T]) Load() error {
	if s.store == nil {
		return ErrNoStore
	}
	raw, ok, err := s.store.Get(s.key)
	if err != nil {
		return fmt.Errorf("settings: load %q: %w", s.key, err)
	}
	if !ok {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &s.Value); err != nil {
		return fmt.Errorf("settings: decode %q: %w", s.key, err)
	}
	log.Debug().Str("key", s.key).Msg("settings loaded")
	return nil
}

func (s *Settings[T]) Key() string { return s.key }
