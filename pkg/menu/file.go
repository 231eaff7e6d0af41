package menu

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Extensions lists the menu file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".json", ".toml"}

// FileProvider loads menus from <dir>/<name>.<ext> files.
// Loaded menus are kept until the file changes while watching.
type FileProvider struct {
	dir string

	mu    sync.RWMutex
	menus map[string]*Menu
}

// NewFileProvider creates a provider reading menus from dir.
func NewFileProvider(dir string) (*FileProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("menu dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("menu dir %s is not a directory", dir)
	}

	return &FileProvider{dir: dir, menus: map[string]*Menu{}}, nil
}

// Load returns the named menu, reading its file on first use.
func (p *FileProvider) Load(_ context.Context, name string) (*Menu, error) {
	p.mu.RLock()
	m, ok := p.menus[name]
	p.mu.RUnlock()
	if ok {
		return m, nil
	}

	if name == "" || strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: invalid name %q", ErrNotFound, name)
	}

	for _, ext := range Extensions {
		path := filepath.Join(p.dir, name+ext)
		m, err := ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.Name = name

		p.mu.Lock()
		p.menus[name] = m
		p.mu.Unlock()

		links := 0
		m.Walk(MaxDepth, func(int, *Item) { links++ })
		slog.Debug("menu loaded", "menu", name, "path", path, "revision", m.Revision, "links", links)
		return m, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Watch drops loaded menus whenever their files change, so the next Load
// reads the new content under a new revision. It blocks until ctx is done.
func (p *FileProvider) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(p.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", p.dir, err)
	}

	slog.Info("watching menu dir", "dir", p.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			p.Invalidate(menuName(ev.Name))
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Error("menu watcher error", "error", err)
		}
	}
}

// Invalidate drops a loaded menu.
func (p *FileProvider) Invalidate(name string) {
	if name == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.menus[name]; ok {
		delete(p.menus, name)
		slog.Info("menu invalidated", "menu", name)
	}
}

// menuName maps a file path back to the menu name, or "" for other files.
func menuName(path string) string {
	ext := filepath.Ext(path)
	for _, e := range Extensions {
		if ext == e {
			return strings.TrimSuffix(filepath.Base(path), ext)
		}
	}
	return ""
}

// ReadFile decodes a menu file, picking the format by extension.
func ReadFile(path string) (*Menu, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := Decode(filepath.Ext(path), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse menu %s: %w", path, err)
	}
	return m, nil
}

// Decode parses menu data in the format named by ext.
func Decode(ext string, data []byte) (*Menu, error) {
	var m Menu

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &m); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported menu format %q", ext)
	}

	m.Revision = Fingerprint(m.Items)
	return &m, nil
}

var _ TreeProvider = (*FileProvider)(nil)
