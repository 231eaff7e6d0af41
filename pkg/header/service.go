package header

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mchmarny/brandnav/pkg/cache"
	"github.com/mchmarny/brandnav/pkg/config"
	"github.com/mchmarny/brandnav/pkg/menu"
	"github.com/mchmarny/brandnav/pkg/metric"
	"github.com/mchmarny/brandnav/pkg/nav"
)

const (
	treeKeyPrefix = "navtree"

	// unknownMenu labels errors for menus the provider does not have, so
	// request supplied names never become metric labels.
	unknownMenu = "unknown"
)

// Request describes one header render.
type Request struct {
	Viewer Viewer

	// HTTP is the page request, handed to the trail provider.
	HTTP *http.Request

	// ClientPath is the page path and query as seen by the browser. When
	// set, the first top-level node whose href equals it is selected and the
	// trail provider is not consulted.
	ClientPath string
}

// Service builds header props.
type Service struct {
	cfg     *config.Header
	menus   menu.TreeProvider
	trail   menu.TrailProvider
	cache   cache.Cache
	builder *nav.Builder
	metrics *metric.Header
	logger  *slog.Logger
}

// Option is a functional option for configuring the Service.
type Option func(*Service)

// WithTrailProvider sets the server side active trail strategy.
func WithTrailProvider(p menu.TrailProvider) Option {
	return func(s *Service) { s.trail = p }
}

// WithCache sets the tree cache. Without it trees are rebuilt on every call.
func WithCache(c cache.Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithMetrics sets the service counters.
func WithMetrics(m *metric.Header) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a header service for a validated configuration.
func NewService(cfg *config.Header, menus menu.TreeProvider, opts ...Option) (*Service, error) {
	if cfg == nil {
		return nil, errors.New("header config is required")
	}
	if menus == nil {
		return nil, errors.New("menu provider is required")
	}

	s := &Service{
		cfg:     cfg,
		menus:   menus,
		cache:   cache.NewNullCache(),
		metrics: metric.NopHeader(),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.builder = nav.NewBuilder(
		nav.WithLogger(s.logger),
		nav.WithHomePolicy(cfg.HomePolicy()),
	)

	return s, nil
}

// Props returns the header props for req.
func (s *Service) Props(ctx context.Context, req Request) (*Props, error) {
	p := &Props{
		BaseURL:       s.cfg.BaseURL,
		Title:         s.cfg.Title,
		ParentOrg:     s.cfg.ParentOrg,
		ParentOrgURL:  s.cfg.ParentOrgURL,
		ExpandOnHover: s.cfg.Menu.ExpandOnHover,
		LoginLink:     s.cfg.LoginPath,
		LogoutLink:    s.cfg.LogoutPath,
		Buttons:       s.buttons(),
		CookieConsent: s.cfg.CookieConsent,
		NavTree:       nav.Tree{},
	}

	if s.cfg.SyncSession {
		loggedIn := req.Viewer.LoggedIn()
		name := ""
		if loggedIn {
			name = req.Viewer.Name
			if name == "" {
				name = DefaultUserName
			}
		}
		p.LoggedIn = &loggedIn
		p.UserName = &name
	}

	if s.cfg.Menu.Enabled {
		tree, err := s.Tree(ctx, s.cfg.Menu.Name, req)
		if err != nil {
			return nil, err
		}
		p.NavTree = tree
	}

	return p, nil
}

// buttons returns the configured call to action buttons that have a URL.
func (s *Service) buttons() []Button {
	var out []Button
	for _, c := range s.cfg.CTA {
		if c.URL == "" {
			continue
		}
		out = append(out, Button{Href: c.URL, Text: c.Label, Color: c.Style})
	}
	return out
}

// Tree returns the navigation tree of the named menu for req. The shared
// part of the tree is cached per menu revision and viewer roles; selection
// is applied afterwards.
func (s *Service) Tree(ctx context.Context, name string, req Request) (nav.Tree, error) {
	ctx = WithViewer(ctx, req.Viewer)

	m, err := s.menus.Load(ctx, name)
	if err != nil {
		label := name
		if errors.Is(err, menu.ErrNotFound) {
			label = unknownMenu
		}
		s.metrics.ProviderErrors.Increment(label, "menu")
		return nil, fmt.Errorf("failed to load menu %s: %w", name, err)
	}

	base := s.cachedTree(ctx, m, req.Viewer)

	if req.ClientPath != "" {
		return nav.SelectByPath(base, req.ClientPath), nil
	}

	if s.trail == nil || req.HTTP == nil {
		return base, nil
	}

	trail, err := s.trail.ActiveTrail(ctx, m, req.HTTP)
	if err != nil {
		s.metrics.ProviderErrors.Increment(name, "trail")
		s.logger.Warn("active trail unavailable, rendering without selection",
			"menu", name,
			"error", err,
		)
		return base, nil
	}

	return s.builder.MarkTrail(base, m.Items, trail), nil
}

// cachedTree returns the unselected tree for m, building it on a miss.
// Cache failures are logged and never fail the render.
func (s *Service) cachedTree(ctx context.Context, m *menu.Menu, v Viewer) nav.Tree {
	home := s.builder.HomePolicy()
	key := cache.Key(treeKeyPrefix, m.Name, m.Revision, v.RoleSet(), home.Mode, home.Href, home.Text)

	var tree nav.Tree
	err := cache.GetJSON(ctx, s.cache, key, &tree)
	switch {
	case err == nil:
		s.metrics.CacheLookups.Increment(m.Name, "hit")
		return tree
	case errors.Is(err, cache.ErrCacheMiss):
		s.metrics.CacheLookups.Increment(m.Name, "miss")
	default:
		s.logger.Warn("tree cache read failed", "menu", m.Name, "error", err)
	}

	tree = s.builder.Build(m.Items, nil)
	s.metrics.TreeBuilds.Increment(m.Name)
	s.logger.Debug("navigation tree built",
		"menu", m.Name,
		"revision", m.Revision,
		"nodes", len(tree),
	)

	if s.cfg.Cache.TTL > 0 {
		if err := cache.SetJSON(ctx, s.cache, key, tree, s.cfg.Cache.TTL); err != nil {
			s.logger.Warn("tree cache write failed", "menu", m.Name, "error", err)
		}
	}

	return tree
}
