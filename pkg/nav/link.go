// Package nav turns raw site menus into the navigation tree rendered by the
// header component.
//
// The tree has a fixed shape. Top-level links become nodes; their children
// are split into tray buttons and column content, and column content is
// partitioned into layout columns at heading and column break markers.
// Grandchildren hang flat under their parent link. Anything deeper than the
// third level is ignored.
//
// Building is a pure computation over an in-memory menu. A Builder holds no
// mutable state and may be shared by concurrent requests.
package nav

import "github.com/mchmarny/brandnav/pkg/menu"

// Link is a normalized menu link.
type Link struct {
	Href  string        `json:"href"`
	Text  string        `json:"text"`
	Type  menu.LinkType `json:"type,omitempty"`
	Color *string       `json:"color,omitempty"`

	// Items holds third-level links under a column link.
	Items []Link `json:"items,omitempty"`
}

// Normalize converts a raw menu item into a link. Href and text are copied
// as-is and the link type falls back to none when the item has no
// attributes. Children are not visited.
func Normalize(item menu.Item) Link {
	return Link{
		Href: item.URL,
		Text: item.Title,
		Type: item.Attrs().LinkType,
	}
}

// IsBreak reports whether the link starts a new column when it is not first.
func (l Link) IsBreak() bool {
	return l.Type == menu.LinkTypeHeading || l.Type == menu.LinkTypeColumnBreak
}
