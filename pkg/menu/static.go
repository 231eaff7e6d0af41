package menu

import (
	"context"
	"fmt"
	"sync"
)

// StaticProvider serves menus held in memory.
type StaticProvider struct {
	mu    sync.RWMutex
	menus map[string]*Menu
}

// NewStaticProvider creates a provider holding the given menus.
// Menus without a revision get one computed from their items.
func NewStaticProvider(menus ...*Menu) *StaticProvider {
	p := &StaticProvider{menus: make(map[string]*Menu, len(menus))}
	for _, m := range menus {
		p.Put(m)
	}
	return p
}

// Put adds or replaces a menu.
func (p *StaticProvider) Put(m *Menu) {
	if m.Revision == "" {
		m.Revision = Fingerprint(m.Items)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.menus[m.Name] = m
}

// Load returns the named menu.
func (p *StaticProvider) Load(_ context.Context, name string) (*Menu, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, ok := p.menus[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return m, nil
}

var _ TreeProvider = (*StaticProvider)(nil)
