// Package header assembles the props consumed by the brand header component:
// site identity, login links, call to action buttons, session state and the
// navigation tree.
package header

import (
	"context"
	"sort"
	"strings"

	"github.com/mchmarny/brandnav/pkg/nav"
)

// DefaultUserName is shown for logged in viewers without a display name.
const DefaultUserName = "You are logged in"

// AnonymousRole is the role set of viewers without roles.
const AnonymousRole = "anonymous"

// Viewer is the already authenticated visitor of a page.
type Viewer struct {
	// ID is empty for anonymous viewers.
	ID    string
	Name  string
	Roles []string
}

// LoggedIn reports whether the viewer is authenticated.
func (v Viewer) LoggedIn() bool {
	return v.ID != ""
}

// RoleSet returns the viewer roles sorted and deduplicated, used as the cache
// dimension of a tree.
func (v Viewer) RoleSet() []string {
	if len(v.Roles) == 0 {
		return []string{AnonymousRole}
	}

	seen := make(map[string]struct{}, len(v.Roles))
	roles := make([]string, 0, len(v.Roles))
	for _, r := range v.Roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		roles = append(roles, r)
	}
	if len(roles) == 0 {
		return []string{AnonymousRole}
	}

	sort.Strings(roles)
	return roles
}

type viewerKey struct{}

// WithViewer attaches the viewer to ctx for menu providers that filter by
// role.
func WithViewer(ctx context.Context, v Viewer) context.Context {
	return context.WithValue(ctx, viewerKey{}, v)
}

// ViewerFromContext returns the viewer attached to ctx, if any.
func ViewerFromContext(ctx context.Context) (Viewer, bool) {
	v, ok := ctx.Value(viewerKey{}).(Viewer)
	return v, ok
}

// Button is a call to action button in the header.
type Button struct {
	Href  string `json:"href"`
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

// Props are the header component props.
type Props struct {
	BaseURL       string   `json:"baseUrl"`
	Title         string   `json:"title"`
	ParentOrg     string   `json:"parentOrg"`
	ParentOrgURL  string   `json:"parentOrgUrl"`
	ExpandOnHover bool     `json:"expandOnHover"`
	LoginLink     string   `json:"loginLink"`
	LogoutLink    string   `json:"logoutLink"`
	Buttons       []Button `json:"buttons,omitempty"`

	// LoggedIn and UserName are only set when the header follows the site
	// session.
	LoggedIn *bool   `json:"loggedIn,omitempty"`
	UserName *string `json:"userName,omitempty"`

	NavTree       nav.Tree `json:"navTree"`
	CookieConsent bool     `json:"cookieConsent"`
}
