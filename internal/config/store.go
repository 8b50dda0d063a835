package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Store holds the live configuration, persists edits and reloads the file
// when it changes on disk. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	path      string
	cfg       *UserConfig
	lastSaved []byte
	watching  bool

	callbacks []func(*UserConfig)
	onError   []func(error)
}

// NewStore wraps an already loaded config. path is where Save writes.
func NewStore(path string, cfg *UserConfig) *Store {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Store{path: path, cfg: cfg}
}

// OpenStore loads the config at path, creating a default file when none
// exists. An empty path means the XDG location.
func OpenStore(path string) (*Store, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
		path = p
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		s := NewStore(path, DefaultConfig())
		if err := s.Save(); err != nil {
			return nil, err
		}
		return s, nil
	}

	cfg, err := LoadUserConfigFrom(path)
	if err != nil {
		return nil, err
	}
	return NewStore(path, cfg), nil
}

// Path returns the file the store reads and writes.
func (s *Store) Path() string { return s.path }

// Config returns the current configuration. Callers must not modify it.
func (s *Store) Config() *UserConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// CustomText returns the configured send text and whether one is set.
func (s *Store) CustomText() (string, bool) {
	return s.Config().CustomTextValue()
}

// SetCustomText stores text as the send text and saves the file.
func (s *Store) SetCustomText(text string) error {
	return s.update(func(cfg *UserConfig) {
		cfg.SendText.CustomText = &text
	})
}

// ResetCustomText clears the send text so the default is used, and saves.
func (s *Store) ResetCustomText() error {
	return s.update(func(cfg *UserConfig) {
		cfg.SendText.CustomText = nil
	})
}

func (s *Store) update(edit func(*UserConfig)) error {
	s.mu.Lock()
	next := cloneConfig(s.cfg)
	edit(next)
	if err := s.saveLocked(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.cfg = next
	s.notifyLocked()
	return nil
}

// Save writes the current configuration to disk.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(s.cfg)
}

func (s *Store) saveLocked(cfg *UserConfig) error {
	if err := SaveUserConfig(cfg, s.path); err != nil {
		return err
	}
	// Remember what we wrote so the watcher can skip our own change
	// #nosec G304 - path is the store's own config file
	if data, err := os.ReadFile(s.path); err == nil {
		s.lastSaved = data
	}
	return nil
}

// Reload re-reads the file. On a parse or validation error the current
// configuration is kept and the error returned.
func (s *Store) Reload() error {
	// #nosec G304 - path is the store's own config file
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	s.mu.Lock()
	if s.lastSaved != nil && bytes.Equal(data, s.lastSaved) {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	cfg, err := parseUserConfig(data)
	if err != nil {
		return err
	}
	if err := ValidateConfig(cfg).Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.cfg = cfg
	s.lastSaved = data
	s.notifyLocked()
	return nil
}

// OnChange registers fn to run after every successful reload or edit.
// Callbacks run without the store lock held.
func (s *Store) OnChange(fn func(*UserConfig)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = append(s.callbacks, fn)
}

// OnReloadError registers fn to receive errors from watch-triggered reloads.
func (s *Store) OnReloadError(fn func(error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onError = append(s.onError, fn)
}

// notifyLocked copies callbacks and config, releases the lock, then notifies.
// Must be called with s.mu held for write.
func (s *Store) notifyLocked() {
	cfg := s.cfg
	callbacks := make([]func(*UserConfig), len(s.callbacks))
	copy(callbacks, s.callbacks)
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback(cfg)
	}
}

func (s *Store) reportError(err error) {
	s.mu.RLock()
	handlers := make([]func(error), len(s.onError))
	copy(handlers, s.onError)
	s.mu.RUnlock()

	for _, h := range handlers {
		h(err)
	}
}

// Watch reloads the configuration whenever the file is written, created or
// renamed into place, until ctx is done. The directory is watched rather
// than the file so editors that replace the file are still seen.
func (s *Store) Watch(ctx context.Context) error {
	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil // Already watching
	}
	s.watching = true
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.setWatching(false)
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		s.setWatching(false)
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) setWatching(v bool) {
	s.mu.Lock()
	s.watching = v
	s.mu.Unlock()
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer s.setWatching(false)
	defer func() { _ = watcher.Close() }()

	target := filepath.Clean(s.path)
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(ConfigReloadDebounce, func() {
				if ctx.Err() != nil {
					return
				}
				if err := s.Reload(); err != nil && !errors.Is(err, fs.ErrNotExist) {
					s.reportError(err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.reportError(fmt.Errorf("config watcher: %w", err))
		}
	}
}

func cloneConfig(cfg *UserConfig) *UserConfig {
	out := *cfg
	if cfg.SendText.CustomText != nil {
		text := *cfg.SendText.CustomText
		out.SendText.CustomText = &text
	}
	out.Keybindings.Hotkeys = cloneBinds(cfg.Keybindings.Hotkeys)
	out.Keybindings.PrefixMode = cloneBinds(cfg.Keybindings.PrefixMode)
	return &out
}

func cloneBinds(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = append([]string(nil), v...)
	}
	return out
}
