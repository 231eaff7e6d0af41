package menu

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// MaxDepth is the deepest level consumed from a menu: top, child, grandchild.
const MaxDepth = 3

// ErrNotFound is returned when a requested menu does not exist.
var ErrNotFound = errors.New("menu not found")

// Menu represents one named site menu.
type Menu struct {
	// Name is the menu identifier, e.g. "main".
	Name string `json:"name" yaml:"name" toml:"name"`

	// Revision fingerprints the menu content. Cached trees are keyed on it.
	Revision string `json:"revision,omitempty" yaml:"-" toml:"-"`

	// Items is the ordered forest of top-level links.
	Items []Item `json:"items" yaml:"items" toml:"items"`
}

// TreeProvider loads raw menus by name.
type TreeProvider interface {
	// Load returns the named menu, or an error wrapping ErrNotFound.
	Load(ctx context.Context, name string) (*Menu, error)
}

// TrailProvider resolves the active trail of a menu for a request.
type TrailProvider interface {
	ActiveTrail(ctx context.Context, m *Menu, r *http.Request) (Trail, error)
}

// Fingerprint computes a content revision for the menu items.
func Fingerprint(items []Item) string {
	data, _ := json.Marshal(items)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Walk visits enabled items depth-first in order up to depth levels,
// parents before children. Depth 1 is the top level.
func (m *Menu) Walk(depth int, fn func(level int, item *Item)) {
	for i := range m.Items {
		walkItem(&m.Items[i], 1, depth, fn)
	}
}

// walkItem recursively visits an item and its sub-items up to maxLevel.
func walkItem(item *Item, level, maxLevel int, fn func(level int, item *Item)) {
	if level > maxLevel || item.Disabled {
		return
	}

	fn(level, item)

	for i := range item.Items {
		walkItem(&item.Items[i], level+1, maxLevel, fn)
	}
}

// Handler returns an HTTP handler that responds with the menu structure as JSON.
func (m *Menu) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("handling menu request",
			"menu", m.Name,
			"method", r.Method,
			"url", r.URL.Path,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		if err := json.NewEncoder(w).Encode(m); err != nil {
			slog.Error("failed to encode menu", "menu", m.Name, "error", err)
			return
		}
	})
}
