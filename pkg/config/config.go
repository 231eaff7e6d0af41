// Package config provides the typed header block configuration, loaded with
// Viper from an optional YAML file and BRANDNAV_ environment variables.
//
// Configuration is validated once, at load time. Everything downstream reads
// named fields and never falls back on missing keys.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/mchmarny/brandnav/pkg/nav"
)

const (
	// EnvPrefix is the prefix of environment variable overrides.
	EnvPrefix = "BRANDNAV"

	// MaxCTAs is the number of call to action buttons the header renders.
	MaxCTAs = 2

	DefaultMenuName   = "main"
	DefaultLoginPath  = "/caslogin"
	DefaultLogoutPath = "/caslogout"
	DefaultCacheTTL   = 10 * time.Minute
)

// Styles are the allowed call to action button styles.
var Styles = map[string]struct{}{
	"gold":   {},
	"maroon": {},
	"light":  {},
	"dark":   {},
}

// Header is the configuration of one header instance.
type Header struct {
	Title         string        `mapstructure:"title"`
	ParentOrg     string        `mapstructure:"parent_org"`
	ParentOrgURL  string        `mapstructure:"parent_org_url"`
	BaseURL       string        `mapstructure:"base_url"`
	SyncSession   bool          `mapstructure:"sync_session"`
	LoginPath     string        `mapstructure:"login_path"`
	LogoutPath    string        `mapstructure:"logout_path"`
	CookieConsent bool          `mapstructure:"cookie_consent"`
	Menu          MenuConfig    `mapstructure:"menu"`
	CTA           []CTA         `mapstructure:"cta"`
	Cache         CacheConfig   `mapstructure:"cache"`
	Server        ServerConfig  `mapstructure:"server"`
	Menus         MenusLocation `mapstructure:"menus"`
}

// MenuConfig controls the menu inserted into the header.
type MenuConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Name          string `mapstructure:"name"`
	ExpandOnHover bool   `mapstructure:"expand_on_hover"`
	Home          string `mapstructure:"home"`
	HomeLabel     string `mapstructure:"home_label"`
}

// CTA is a call to action button.
type CTA struct {
	Label string `mapstructure:"label"`
	URL   string `mapstructure:"url"`
	Style string `mapstructure:"style"`
}

// CacheConfig controls nav tree caching. An empty RedisAddr selects the
// in-memory cache; a zero TTL disables caching.
type CacheConfig struct {
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
}

// ServerConfig is the HTTP listener configuration.
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	Metrics bool   `mapstructure:"metrics"`
	TLSCert string `mapstructure:"tls_cert"`
	TLSKey  string `mapstructure:"tls_key"`
}

// TLS reports whether the listener serves HTTPS.
func (s ServerConfig) TLS() bool {
	return s.TLSCert != "" && s.TLSKey != ""
}

// MenusLocation is where menu files are read from.
type MenusLocation struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

// New returns a Viper instance with defaults and environment overrides set.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("title", "")
	v.SetDefault("parent_org", "")
	v.SetDefault("parent_org_url", "")
	v.SetDefault("base_url", "/")
	v.SetDefault("sync_session", true)
	v.SetDefault("login_path", DefaultLoginPath)
	v.SetDefault("logout_path", DefaultLogoutPath)
	v.SetDefault("cookie_consent", false)
	v.SetDefault("menu.enabled", true)
	v.SetDefault("menu.name", DefaultMenuName)
	v.SetDefault("menu.expand_on_hover", false)
	v.SetDefault("menu.home", string(nav.HomeIcon))
	v.SetDefault("menu.home_label", nav.DefaultHomeText)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("server.port", 9876)
	v.SetDefault("server.metrics", true)
	v.SetDefault("server.tls_cert", "")
	v.SetDefault("server.tls_key", "")
	v.SetDefault("menus.dir", "./menus")
	v.SetDefault("menus.watch", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file at path into v and returns the
// validated configuration.
func Load(v *viper.Viper, path string) (*Header, error) {
	if v == nil {
		v = New()
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var h Header
	if err := v.Unmarshal(&h); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := h.Validate(); err != nil {
		return nil, err
	}

	return &h, nil
}

// HomePolicy returns the home coercion policy. Validate has already
// rejected unknown modes.
func (h *Header) HomePolicy() nav.HomePolicy {
	mode, _ := nav.ParseHomeMode(h.Menu.Home)
	return nav.HomePolicy{
		Mode: mode,
		Href: h.BaseURL,
		Text: h.Menu.HomeLabel,
	}
}

// FieldError is a single invalid configuration value.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a configuration.
type ValidationError struct {
	Fields []FieldError
}

// Error returns all field errors on one line.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Validate checks the configuration.
func (h *Header) Validate() error {
	var fields []FieldError
	add := func(field, msg string) {
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if strings.TrimSpace(h.Title) == "" {
		add("title", "required")
	}
	if h.LoginPath == "" {
		add("login_path", "required")
	}
	if h.LogoutPath == "" {
		add("logout_path", "required")
	}
	if h.Menu.Enabled && strings.TrimSpace(h.Menu.Name) == "" {
		add("menu.name", "required when the menu is enabled")
	}
	if _, err := nav.ParseHomeMode(h.Menu.Home); err != nil {
		add("menu.home", err.Error())
	}
	if len(h.CTA) > MaxCTAs {
		add("cta", fmt.Sprintf("at most %d buttons are supported", MaxCTAs))
	}
	for i, c := range h.CTA {
		field := fmt.Sprintf("cta[%d]", i)
		if c.Label != "" && c.URL == "" {
			add(field+".url", "required when the label is set")
		}
		if _, ok := Styles[c.Style]; c.Style != "" && !ok {
			add(field+".style", fmt.Sprintf("unknown style %q", c.Style))
		}
	}
	if (h.Server.TLSCert == "") != (h.Server.TLSKey == "") {
		add("server.tls", "tls_cert and tls_key must be set together")
	}
	if h.Cache.TTL < 0 {
		add("cache.ttl", "must not be negative")
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
