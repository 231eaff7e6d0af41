package menu

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlMenu = `
name: main
items:
  - key: home
    title: Home
    url: /
  - key: about
    title: About
    url: /about
    items:
      - key: apply
        title: Apply
        url: /apply
        attributes:
          isButton: true
          buttonColor: gold
      - key: people
        title: People
        url: /people
        attributes:
          linkType: heading
      - key: hidden
        title: Hidden
        url: /hidden
        disabled: true
`

const jsonMenu = `{
  "name": "main",
  "items": [
    {"key": "home", "title": "Home", "url": "/"},
    {"key": "about", "title": "About", "url": "/about", "items": [
      {"key": "apply", "title": "Apply", "url": "/apply", "attributes": {"isButton": true, "buttonColor": "gold"}},
      {"key": "people", "title": "People", "url": "/people", "attributes": {"linkType": "heading"}},
      {"key": "hidden", "title": "Hidden", "url": "/hidden", "disabled": true}
    ]}
  ]
}`

const tomlMenu = `
name = "main"

[[items]]
key = "home"
title = "Home"
url = "/"

[[items]]
key = "about"
title = "About"
url = "/about"

  [[items.items]]
  key = "apply"
  title = "Apply"
  url = "/apply"
  [items.items.attributes]
  isButton = true
  buttonColor = "gold"

  [[items.items]]
  key = "people"
  title = "People"
  url = "/people"
  [items.items.attributes]
  linkType = "heading"

  [[items.items]]
  key = "hidden"
  title = "Hidden"
  url = "/hidden"
  disabled = true
`

func TestDecodeFormatsAgree(t *testing.T) {
	y, err := Decode(".yaml", []byte(yamlMenu))
	require.NoError(t, err)
	j, err := Decode(".json", []byte(jsonMenu))
	require.NoError(t, err)
	tm, err := Decode(".toml", []byte(tomlMenu))
	require.NoError(t, err)

	assert.Equal(t, y, j)
	assert.Equal(t, y, tm)

	require.Len(t, y.Items, 2)
	about := y.Items[1]
	require.Len(t, about.Items, 3)
	assert.True(t, about.Items[0].Attrs().IsButton)
	require.NotNil(t, about.Items[0].Attrs().ButtonColor)
	assert.Equal(t, "gold", *about.Items[0].Attrs().ButtonColor)
	assert.Equal(t, LinkTypeHeading, about.Items[1].Attrs().LinkType)
	assert.True(t, about.Items[2].Disabled)
	assert.Nil(t, y.Items[0].Attributes)
	assert.NotEmpty(t, y.Revision)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode(".ini", []byte("x"))
	assert.Error(t, err)
}

func TestFileProvider(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.yaml"), []byte(yamlMenu), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "footer.toml"), []byte(tomlMenu), 0o644))

	p, err := NewFileProvider(dir)
	require.NoError(t, err)
	ctx := context.Background()

	m, err := p.Load(ctx, "main")
	require.NoError(t, err)
	assert.Equal(t, "main", m.Name)

	f, err := p.Load(ctx, "footer")
	require.NoError(t, err)
	assert.Equal(t, m.Revision, f.Revision)

	_, err = p.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = p.Load(ctx, "../main")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileProviderInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.json")
	require.NoError(t, os.WriteFile(path, []byte(jsonMenu), 0o644))

	p, err := NewFileProvider(dir)
	require.NoError(t, err)
	ctx := context.Background()

	before, err := p.Load(ctx, "main")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"name":"main","items":[{"key":"only","title":"Only","url":"/"}]}`), 0o644))

	cached, err := p.Load(ctx, "main")
	require.NoError(t, err)
	assert.Same(t, before, cached)

	p.Invalidate(menuName(path))

	after, err := p.Load(ctx, "main")
	require.NoError(t, err)
	assert.Len(t, after.Items, 1)
	assert.NotEqual(t, before.Revision, after.Revision)
}

func TestFileProviderWatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlMenu), 0o644))

	p, err := NewFileProvider(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- p.Watch(ctx) }()

	before, err := p.Load(ctx, "main")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("name: main\nitems:\n  - key: x\n    title: X\n    url: /x\n"), 0o644)
		m, err := p.Load(ctx, "main")
		return err == nil && m.Revision != before.Revision
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestNewFileProviderErrors(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewFileProvider(file)
	assert.Error(t, err)
}

func TestStaticProvider(t *testing.T) {
	p := NewStaticProvider(&Menu{Name: "main", Items: []Item{{Key: "a"}}})

	m, err := p.Load(context.Background(), "main")
	require.NoError(t, err)
	assert.NotEmpty(t, m.Revision)

	_, err = p.Load(context.Background(), "footer")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWalkDepth(t *testing.T) {
	m := &Menu{Items: []Item{{
		Key: "1",
		Items: []Item{{
			Key: "2",
			Items: []Item{{
				Key:   "3",
				Items: []Item{{Key: "4"}},
			}, {Key: "3x", Disabled: true}},
		}},
	}}}

	var keys []string
	m.Walk(MaxDepth, func(level int, item *Item) {
		keys = append(keys, item.Key)
		assert.LessOrEqual(t, level, MaxDepth)
	})
	assert.Equal(t, []string{"1", "2", "3"}, keys)
}

func TestTrailTo(t *testing.T) {
	items := []Item{
		{Key: "home", URL: "/"},
		{Key: "about", URL: "/about", Items: []Item{
			{Key: "team", URL: "/about/team", Items: []Item{
				{Key: "lead", URL: "/about/team/lead", Items: []Item{
					{Key: "deep", URL: "/deep"},
				}},
			}},
		}},
		{Key: "off", URL: "/off", Disabled: true},
	}

	assert.Equal(t, NewTrail("about", "team", "lead"), TrailTo(items, "/about/team/lead"))
	assert.Equal(t, NewTrail("home"), TrailTo(items, "/"))
	assert.Empty(t, TrailTo(items, "/deep"), "fourth level is not searched")
	assert.Empty(t, TrailTo(items, "/off"))
	assert.Empty(t, TrailTo(items, "/About"))
}

func TestPathTrail(t *testing.T) {
	m := &Menu{Items: []Item{{Key: "news", URL: "/news?page=2"}}}

	trail, err := PathTrail{}.ActiveTrail(context.Background(), m, httptest.NewRequest(http.MethodGet, "/news?page=2", nil))
	require.NoError(t, err)
	assert.True(t, trail.Has("news"))

	trail, err = PathTrail{}.ActiveTrail(context.Background(), m, httptest.NewRequest(http.MethodGet, "/news", nil))
	require.NoError(t, err)
	assert.False(t, trail.Has("news"))

	trail, err = PathTrail{}.ActiveTrail(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, trail)
}
