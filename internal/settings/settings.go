// Package settings is the file-backed preference store. It holds the
// presentation and security preferences that live outside the record
// database: theme, home-screen toggles, news category, and the
// secure-notes PIN with its recovery question.
//
// The store follows the same single-writer discipline as the record
// store: one mutex orders all writes, and each write lands atomically
// via a temp-file rename. An fsnotify watcher picks up edits made
// outside the process.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// DefaultTheme is the theme used until the user picks one.
const DefaultTheme = "Default Blue"

// Settings is the full preference set as serialized to disk. Nullable
// strings use pointers so "never set" survives a round-trip.
type Settings struct {
	Theme            string  `yaml:"theme"`
	ShowGreeting     bool    `yaml:"show_greeting"`
	ShowQuote        bool    `yaml:"show_quote"`
	ShowNews         bool    `yaml:"show_news"`
	ShowWeather      bool    `yaml:"show_weather"`
	NewsCategory     string  `yaml:"news_category"`
	SecureNotesPIN   *string `yaml:"secure_notes_pin,omitempty"`
	SecurityQuestion *string `yaml:"security_question,omitempty"`
	SecurityAnswer   *string `yaml:"security_answer,omitempty"`
}

func defaults() Settings {
	return Settings{
		Theme:        DefaultTheme,
		ShowGreeting: true,
		ShowQuote:    true,
		ShowNews:     true,
		ShowWeather:  true,
		NewsCategory: "general",
	}
}

// Store owns one settings file.
type Store struct {
	path string
	log  *zap.SugaredLogger

	mu      sync.RWMutex
	current Settings

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// Open loads the settings file at path, creating it with defaults if
// absent, and starts watching it for external edits.
func Open(path string, log *zap.SugaredLogger) (*Store, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	s := &Store{
		path:    path,
		log:     log,
		current: defaults(),
		done:    make(chan struct{}),
	}

	if err := s.load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		if err := s.flush(); err != nil {
			return nil, err
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create settings watcher: %w", err)
	}
	// Watch the directory: editors replace the file, which would drop a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch settings directory: %w", err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watchLoop()

	return s, nil
}

// Close stops the watcher. The settings file keeps its last state.
func (s *Store) Close() error {
	close(s.done)
	err := s.watcher.Close()
	s.wg.Wait()
	return err
}

// All returns a copy of the current settings.
func (s *Store) All() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Theme returns the current theme name.
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Theme
}

// SetTheme persists a new theme name.
func (s *Store) SetTheme(name string) error {
	return s.update(func(c *Settings) { c.Theme = name })
}

// SetShowGreeting persists the greeting toggle.
func (s *Store) SetShowGreeting(v bool) error {
	return s.update(func(c *Settings) { c.ShowGreeting = v })
}

// SetShowQuote persists the quote toggle.
func (s *Store) SetShowQuote(v bool) error {
	return s.update(func(c *Settings) { c.ShowQuote = v })
}

// SetShowNews persists the news toggle.
func (s *Store) SetShowNews(v bool) error {
	return s.update(func(c *Settings) { c.ShowNews = v })
}

// SetShowWeather persists the weather toggle.
func (s *Store) SetShowWeather(v bool) error {
	return s.update(func(c *Settings) { c.ShowWeather = v })
}

// SetNewsCategory persists the news category.
func (s *Store) SetNewsCategory(category string) error {
	return s.update(func(c *Settings) { c.NewsCategory = category })
}

// SecureNotesPIN returns the stored PIN, or nil if none is set.
func (s *Store) SecureNotesPIN() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SecureNotesPIN
}

// SetSecureNotesPIN stores the PIN gating secured notes. Pass nil to
// clear it.
func (s *Store) SetSecureNotesPIN(pin *string) error {
	return s.update(func(c *Settings) { c.SecureNotesPIN = pin })
}

// CheckPIN reports whether pin matches the stored PIN. A store with no
// PIN set matches nothing.
func (s *Store) CheckPIN(pin string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SecureNotesPIN != nil && *s.current.SecureNotesPIN == pin
}

// SetSecurityQuestion stores the PIN recovery question and answer.
func (s *Store) SetSecurityQuestion(question, answer *string) error {
	return s.update(func(c *Settings) {
		c.SecurityQuestion = question
		c.SecurityAnswer = answer
	})
}

// SecurityQuestion returns the recovery question, or nil if unset.
func (s *Store) SecurityQuestion() *string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SecurityQuestion
}

// CheckSecurityAnswer reports whether answer matches the stored one.
func (s *Store) CheckSecurityAnswer(answer string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.SecurityAnswer != nil && *s.current.SecurityAnswer == answer
}

func (s *Store) update(apply func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	apply(&s.current)
	return s.flushLocked()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}

	loaded := defaults()
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse settings file %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
	return nil
}

func (s *Store) flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *Store) flushLocked() error {
	data, err := yaml.Marshal(s.current)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}

// watchLoop reloads the file when something else rewrites it. Writes
// from this process also trip the watcher; reloading what we just wrote
// is harmless.
func (s *Store) watchLoop() {
	defer s.wg.Done()

	for {
		select {
		case <-s.done:
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if err := s.load(); err != nil {
				s.log.Warnw("failed to reload settings", "path", s.path, "error", err)
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warnw("settings watcher error", "error", err)
		}
	}
}
