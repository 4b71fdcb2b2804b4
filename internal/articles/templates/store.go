// Package templates keeps named prompt templates loaded from a YAML file.
package templates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// TopicPlaceholder is replaced by the request topic.
const TopicPlaceholder = "{{topic}}"

const reloadDelay = 200 * time.Millisecond

// Template is a reusable custom prompt.
type Template struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Prompt      string `yaml:"prompt" json:"-"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// Store holds the templates of one file. It is safe for concurrent use.
type Store struct {
	path string

	mu     sync.RWMutex
	byName map[string]Template
}

// Load reads the templates at path.
func Load(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rereads the file. On error the previously loaded templates stay in place.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("read templates: %w", err)
	}
	byName, err := parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.byName = byName
	s.mu.Unlock()
	return nil
}

func parse(data []byte) (map[string]Template, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	byName := make(map[string]Template, len(f.Templates))
	for i, t := range f.Templates {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			return nil, fmt.Errorf("template #%d has no name", i+1)
		}
		if strings.TrimSpace(t.Prompt) == "" {
			return nil, fmt.Errorf("template %q has an empty prompt", t.Name)
		}
		if _, dup := byName[t.Name]; dup {
			return nil, fmt.Errorf("template %q is defined twice", t.Name)
		}
		byName[t.Name] = t
	}
	return byName, nil
}

// List returns the templates sorted by name.
func (s *Store) List() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]Template, 0, len(s.byName))
	for _, t := range s.byName {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// Resolve returns the prompt of template name with the topic substituted.
func (s *Store) Resolve(name, topic string) (string, error) {
	s.mu.RLock()
	t, ok := s.byName[name]
	s.mu.RUnlock()
	if !ok {
		return "", apperrors.Validation("unknown prompt template %q", name)
	}

	topic = strings.TrimSpace(topic)
	if strings.Contains(t.Prompt, TopicPlaceholder) && topic == "" {
		return "", apperrors.Validation("prompt template %q needs a topic", name)
	}
	return strings.ReplaceAll(t.Prompt, TopicPlaceholder, topic), nil
}

// Watch reloads the store whenever the file changes until ctx is done.
// The directory is watched so that editors replacing the file are noticed.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", s.path, err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	target := filepath.Clean(s.path)

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
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				debounce.Reset(reloadDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logrus.WithError(err).Warn("Prompt template watcher error")
		case <-debounce.C:
			if err := s.Reload(); err != nil {
				if errors.Is(err, os.ErrNotExist) {
					continue
				}
				logrus.WithError(err).Error("Failed to reload prompt templates, keeping previous set")
				continue
			}
			logrus.WithField("path", s.path).Info("Prompt templates reloaded")
		}
	}
}
