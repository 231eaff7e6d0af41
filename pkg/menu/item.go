package menu

// LinkType is the layout role of a link inside a dropdown.
type LinkType string

const (
	// LinkTypeNone is a plain link.
	LinkTypeNone LinkType = ""

	// LinkTypeHeading starts a new column (unless first) and renders as a heading.
	LinkTypeHeading LinkType = "heading"

	// LinkTypeColumnBreak starts a new column (unless first).
	LinkTypeColumnBreak LinkType = "column break"

	// LinkTypeButton renders as a button inside its column.
	LinkTypeButton LinkType = "button"
)

// Attributes are the custom per-link fields attached by the provider.
type Attributes struct {
	// LinkType is the column layout role of the link.
	LinkType LinkType `json:"linkType,omitempty" yaml:"linkType,omitempty" toml:"linkType,omitempty"`

	// IsButton routes a second-level link into the dropdown tray.
	IsButton bool `json:"isButton,omitempty" yaml:"isButton,omitempty" toml:"isButton,omitempty"`

	// ButtonColor is the tray button color, nil when unset.
	ButtonColor *string `json:"buttonColor,omitempty" yaml:"buttonColor,omitempty" toml:"buttonColor,omitempty"`
}

// Item represents an individual raw menu link, which may contain sub-items.
type Item struct {
	// Key is the identity of the link, used for active trail matching.
	Key string `json:"key" yaml:"key" toml:"key"`

	// Title is the already translated link text.
	Title string `json:"title" yaml:"title" toml:"title"`

	// URL is the already resolved link target.
	URL string `json:"url" yaml:"url" toml:"url"`

	// Disabled links are skipped at every level. The zero value is enabled.
	Disabled bool `json:"disabled,omitempty" yaml:"disabled,omitempty" toml:"disabled,omitempty"`

	// Attributes are nil for links that do not carry custom fields.
	Attributes *Attributes `json:"attributes,omitempty" yaml:"attributes,omitempty" toml:"attributes,omitempty"`

	// Items are the sub-items of this menu item.
	Items []Item `json:"items,omitempty" yaml:"items,omitempty" toml:"items,omitempty"`
}

// Attrs returns the item attributes, or the zero value when the item has none.
func (i Item) Attrs() Attributes {
	if i.Attributes == nil {
		return Attributes{}
	}
	return *i.Attributes
}

// Trail is the set of item keys on the active path.
type Trail map[string]struct{}

// NewTrail creates a trail from keys.
func NewTrail(keys ...string) Trail {
	t := make(Trail, len(keys))
	for _, k := range keys {
		t[k] = struct{}{}
	}
	return t
}

// Has reports whether key is on the trail.
func (t Trail) Has(key string) bool {
	_, ok := t[key]
	return ok
}
