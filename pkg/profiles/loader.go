// Package profiles loads named capture profiles from YAML files and
// hot-reloads them when the directory changes.
package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader loads and optionally hot-reloads capture profiles from YAML files.
type Loader struct {
	dir string

	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewLoader creates a profile loader for the given directory.
func NewLoader(dir string) *Loader {
	return &Loader{
		dir:      dir,
		profiles: make(map[string]Profile),
	}
}

// LoadAll loads all .yaml and .yml files from the configured directory.
// The built-in default profile is always present unless a file shadows it.
func (l *Loader) LoadAll() (map[string]Profile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read profile dir %q: %w", l.dir, err)
	}

	result := map[string]Profile{"default": Default()}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		p, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
		result[p.Name] = p
	}

	l.mu.Lock()
	l.profiles = result
	l.mu.Unlock()

	return result, nil
}

// Get returns a loaded profile by name.
func (l *Loader) Get(name string) (Profile, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if len(l.profiles) == 0 {
		if name == "default" || name == "" {
			return Default(), true
		}
		return Profile{}, false
	}
	p, ok := l.profiles[name]
	return p, ok
}

// All returns all loaded profiles.
func (l *Loader) All() map[string]Profile {
	l.mu.RLock()
	defer l.mu.RUnlock()
	result := make(map[string]Profile, len(l.profiles))
	for k, v := range l.profiles {
		result[k] = v
	}
	return result
}

func (l *Loader) loadFile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse YAML: %w", err)
	}

	if p.Name == "" {
		name := filepath.Base(path)
		p.Name = name[:len(name)-len(filepath.Ext(name))]
	}
	p.Normalize()

	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// WatchAndReload starts watching the profile directory for changes and
// reloads. This blocks until the done channel is closed.
func (l *Loader) WatchAndReload(done <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("watch dir %q: %w", l.dir, err)
	}

	for {
		select {
		case <-done:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				ext := filepath.Ext(event.Name)
				if ext == ".yaml" || ext == ".yml" {
					l.LoadAll()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
