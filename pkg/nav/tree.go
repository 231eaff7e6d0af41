package nav

import (
	"log/slog"
	"strings"

	"github.com/mchmarny/brandnav/pkg/menu"
)

// Node is a top-level entry of the navigation tree.
type Node struct {
	Href     string   `json:"href"`
	Text     string   `json:"text"`
	Selected bool     `json:"selected,omitempty"`
	Items    []Column `json:"items"`
	Buttons  []Link   `json:"buttons"`

	// Type and Class are only set on the home node.
	Type  string `json:"type,omitempty"`
	Class string `json:"class,omitempty"`
}

// Tree is the navigation tree handed to the header component.
type Tree []Node

// Clone returns a copy of the tree whose nodes can be changed without
// touching t. Columns and links are shared.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	copy(out, t)
	return out
}

// Builder assembles navigation trees from raw menus.
type Builder struct {
	logger *slog.Logger
	home   HomePolicy
}

// Option is a functional option for configuring the Builder.
type Option func(*Builder)

// WithLogger sets the logger used for per-node defects.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithHomePolicy sets how the first node is turned into the home node.
func WithHomePolicy(p HomePolicy) Option {
	return func(b *Builder) { b.home = p }
}

// NewBuilder creates a builder. Without options it tags the first node as
// the home icon and logs to the default logger.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// HomePolicy returns the home policy of the builder.
func (b *Builder) HomePolicy() HomePolicy {
	return b.home
}

// Build converts the top-level items into a navigation tree and marks the
// nodes whose keys are on trail. An empty menu yields an empty tree.
func (b *Builder) Build(items []menu.Item, trail menu.Trail) Tree {
	tree := make(Tree, 0, len(items))

	for _, item := range items {
		if item.Disabled {
			continue
		}

		node := Node{
			Href:    item.URL,
			Text:    item.Title,
			Items:   []Column{},
			Buttons: []Link{},
		}

		if len(item.Items) > 0 {
			buttons, candidates := Classify(item.Items)
			node.Items = Partition(candidates)
			node.Buttons = buttons
		}

		tree = append(tree, node)
	}

	return CoerceHome(b.MarkTrail(tree, items, trail), b.home)
}

// MarkTrail returns a copy of t with the nodes whose item keys are on trail
// selected. items must be the top-level items t was built from; disabled
// items are skipped the same way Build skips them.
func (b *Builder) MarkTrail(t Tree, items []menu.Item, trail menu.Trail) Tree {
	if len(trail) == 0 {
		return t
	}

	out := t.Clone()
	i := 0
	for _, item := range items {
		if item.Disabled {
			continue
		}
		if i >= len(out) {
			b.logger.Warn("menu has more items than the tree it built", "nodes", len(out))
			break
		}
		if b.onTrail(item, trail) {
			out[i].Selected = true
		}
		i++
	}
	return out
}

// onTrail reports whether the item key is on the trail. Blank keys never
// match.
func (b *Builder) onTrail(item menu.Item, trail menu.Trail) bool {
	if strings.TrimSpace(item.Key) == "" {
		b.logger.Debug("menu item has no usable key, skipping trail match",
			"title", item.Title,
			"url", item.URL,
		)
		return false
	}

	return trail.Has(item.Key)
}

// SelectByPath marks the first node whose href equals path exactly.
// Existing selections are kept. The comparison does no normalization of
// case, trailing slashes or query order.
func SelectByPath(t Tree, path string) Tree {
	out := t.Clone()
	for i := range out {
		if out[i].Href == path {
			out[i].Selected = true
			break
		}
	}
	return out
}
