package nav

import (
	"fmt"
	"strings"
)

// HomeMode selects how the first node becomes the home node.
type HomeMode string

const (
	// HomeIcon only tags the node as the home icon. This is the default.
	HomeIcon HomeMode = "icon"

	// HomeRoot tags the node and also points it at the site root.
	HomeRoot HomeMode = "root"
)

const (
	homeType  = "icon"
	homeClass = "home"

	// DefaultHomeHref is the href used by HomeRoot when none is set.
	DefaultHomeHref = "/"

	// DefaultHomeText is the text used by HomeRoot when none is set.
	DefaultHomeText = "Home"
)

// HomePolicy configures home coercion.
type HomePolicy struct {
	Mode HomeMode

	// Href and Text replace the node link under HomeRoot.
	Href string
	Text string
}

// ParseHomeMode parses a mode name. The empty string is HomeIcon.
func ParseHomeMode(s string) (HomeMode, error) {
	switch HomeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HomeIcon:
		return HomeIcon, nil
	case HomeRoot:
		return HomeRoot, nil
	default:
		return "", fmt.Errorf("unknown home mode %q", s)
	}
}

// CoerceHome turns the first node of t into the home node following p.
// An empty tree is returned unchanged.
func CoerceHome(t Tree, p HomePolicy) Tree {
	if len(t) == 0 {
		return t
	}

	out := t.Clone()
	home := &out[0]
	home.Type = homeType
	home.Class = homeClass

	if p.Mode == HomeRoot {
		home.Href = p.Href
		if home.Href == "" {
			home.Href = DefaultHomeHref
		}
		home.Text = p.Text
		if home.Text == "" {
			home.Text = DefaultHomeText
		}
	}

	return out
}
