package nav

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mchmarny/brandnav/pkg/menu"
)

func strPtr(s string) *string { return &s }

func link(key, title string) menu.Item {
	return menu.Item{Key: key, Title: title, URL: "/" + key}
}

func typed(key, title string, lt menu.LinkType) menu.Item {
	i := link(key, title)
	i.Attributes = &menu.Attributes{LinkType: lt}
	return i
}

func TestBuildColumnsAfterHeading(t *testing.T) {
	a := link("a", "A")
	a.Items = []menu.Item{
		typed("h", "Section", menu.LinkTypeHeading),
		link("l1", "Alpha"),
		typed("l2", "Beta", menu.LinkTypeColumnBreak),
		link("l3", "Gamma"),
	}

	tree := NewBuilder().Build([]menu.Item{a}, nil)
	require.Len(t, tree, 1)

	assert.Equal(t, []Column{
		{
			{Href: "/h", Text: "Section", Type: menu.LinkTypeHeading},
			{Href: "/l1", Text: "Alpha"},
		},
		{
			{Href: "/l2", Text: "Beta", Type: menu.LinkTypeColumnBreak},
			{Href: "/l3", Text: "Gamma"},
		},
	}, tree[0].Items)
	assert.Empty(t, tree[0].Buttons)
}

func TestBuildTrayButtons(t *testing.T) {
	b1 := link("b1", "Apply")
	b1.Attributes = &menu.Attributes{IsButton: true, ButtonColor: strPtr("gold")}

	a := link("a", "A")
	a.Items = []menu.Item{b1, link("l1", "Alpha")}

	tree := NewBuilder().Build([]menu.Item{a}, nil)
	require.Len(t, tree, 1)

	assert.Equal(t, []Link{{Href: "/b1", Text: "Apply", Color: strPtr("gold")}}, tree[0].Buttons)
	assert.Equal(t, []Column{{{Href: "/l1", Text: "Alpha"}}}, tree[0].Items)
}

func TestBuildActiveTrail(t *testing.T) {
	items := []menu.Item{link("x", "X"), link("y", "Y"), link("z", "Z")}

	tree := NewBuilder().Build(items, menu.NewTrail("y"))
	require.Len(t, tree, 3)

	assert.False(t, tree[0].Selected)
	assert.True(t, tree[1].Selected)
	assert.False(t, tree[2].Selected)

	assert.Equal(t, "icon", tree[0].Type)
	assert.Equal(t, "home", tree[0].Class)
	assert.Equal(t, "/x", tree[0].Href)
	assert.Equal(t, "X", tree[0].Text)
	assert.Empty(t, tree[1].Type)
	assert.Empty(t, tree[1].Class)
}

func TestBuildEmpty(t *testing.T) {
	tree := NewBuilder().Build(nil, menu.NewTrail("x"))
	assert.NotNil(t, tree)
	assert.Empty(t, tree)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestBuildIgnoresDeepLevels(t *testing.T) {
	deep := link("d4", "Fourth")
	deep.Items = []menu.Item{link("d5", "Fifth")}

	g := link("g", "Grandchild")
	g.Items = []menu.Item{deep}

	c := link("c", "Child")
	c.Items = []menu.Item{g}

	top := link("t", "Top")
	top.Items = []menu.Item{c}

	tree := NewBuilder().Build([]menu.Item{top}, nil)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Items, 1)
	require.Len(t, tree[0].Items[0], 1)

	child := tree[0].Items[0][0]
	require.Len(t, child.Items, 1)
	assert.Equal(t, "Grandchild", child.Items[0].Text)
	assert.Empty(t, child.Items[0].Items)
}

func TestBuildSkipsDisabled(t *testing.T) {
	hidden := link("h", "Hidden")
	hidden.Disabled = true

	a := link("a", "A")
	hiddenChild := link("hc", "Hidden child")
	hiddenChild.Disabled = true
	a.Items = []menu.Item{hiddenChild, link("l1", "Alpha")}

	tree := NewBuilder().Build([]menu.Item{hidden, a}, nil)
	require.Len(t, tree, 1)
	assert.Equal(t, "A", tree[0].Text)
	assert.Equal(t, "home", tree[0].Class)
	assert.Equal(t, []Column{{{Href: "/l1", Text: "Alpha"}}}, tree[0].Items)
}

func TestBuildBlankKeyNeverMatches(t *testing.T) {
	blank := link("", "Blank")
	blank.Key = "  "

	tree := NewBuilder().Build([]menu.Item{link("x", "X"), blank}, menu.NewTrail("  ", "x"))
	require.Len(t, tree, 2)
	assert.True(t, tree[0].Selected)
	assert.False(t, tree[1].Selected)
}

func TestBuildHomeRoot(t *testing.T) {
	b := NewBuilder(WithHomePolicy(HomePolicy{Mode: HomeRoot, Href: "/site/"}))
	tree := b.Build([]menu.Item{link("x", "X"), link("y", "Y")}, nil)

	require.Len(t, tree, 2)
	assert.Equal(t, "/site/", tree[0].Href)
	assert.Equal(t, DefaultHomeText, tree[0].Text)
	assert.Equal(t, "icon", tree[0].Type)
	assert.Equal(t, "/y", tree[1].Href)
}

func TestCoerceHomeEmpty(t *testing.T) {
	assert.NotPanics(t, func() {
		out := CoerceHome(Tree{}, HomePolicy{Mode: HomeRoot})
		assert.Empty(t, out)
	})
	assert.Nil(t, CoerceHome(nil, HomePolicy{}))
}

func TestCoerceHomeDoesNotMutateInput(t *testing.T) {
	in := Tree{{Href: "/a", Text: "A"}}
	out := CoerceHome(in, HomePolicy{Mode: HomeRoot})

	assert.Empty(t, in[0].Type)
	assert.Equal(t, "/a", in[0].Href)
	assert.Equal(t, "/", out[0].Href)
}

func TestSelectByPath(t *testing.T) {
	tree := Tree{
		{Href: "/a"},
		{Href: "/b?x=1"},
		{Href: "/b?x=1"},
		{Href: "/c/"},
	}

	out := SelectByPath(tree, "/b?x=1")
	assert.False(t, out[0].Selected)
	assert.True(t, out[1].Selected)
	assert.False(t, out[2].Selected, "only the first match is selected")
	assert.False(t, tree[1].Selected, "input is not modified")

	out = SelectByPath(tree, "/c")
	for _, n := range out {
		assert.False(t, n.Selected, "no trailing slash normalization")
	}

	out = SelectByPath(tree, "/B?x=1")
	for _, n := range out {
		assert.False(t, n.Selected, "no case normalization")
	}
}

// Both activation strategies agree for exact top-level link matches.
func TestActivationStrategiesAgree(t *testing.T) {
	items := []menu.Item{link("x", "X"), link("y", "Y"), link("z", "Z")}
	b := NewBuilder()

	byTrail := b.Build(items, menu.TrailTo(items, "/y"))
	byPath := SelectByPath(b.Build(items, nil), "/y")

	require.Len(t, byPath, len(byTrail))
	for i := range byTrail {
		assert.Equal(t, byTrail[i].Selected, byPath[i].Selected, "node %d", i)
	}
}

func TestTreeJSONShape(t *testing.T) {
	b1 := link("b1", "Apply")
	b1.Attributes = &menu.Attributes{IsButton: true, ButtonColor: strPtr("maroon")}

	y := link("y", "Y")
	y.Items = []menu.Item{b1, typed("l1", "Alpha", menu.LinkTypeButton)}

	tree := NewBuilder().Build([]menu.Item{link("x", "X"), y}, menu.NewTrail("y"))

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"href":"/x","text":"X","items":[],"buttons":[],"type":"icon","class":"home"},
		{"href":"/y","text":"Y","selected":true,
		 "items":[[{"href":"/l1","text":"Alpha","type":"button"}]],
		 "buttons":[{"href":"/b1","text":"Apply","color":"maroon"}]}
	]`, string(data))
}

func TestParseHomeMode(t *testing.T) {
	m, err := ParseHomeMode("")
	require.NoError(t, err)
	assert.Equal(t, HomeIcon, m)

	m, err = ParseHomeMode(" Root ")
	require.NoError(t, err)
	assert.Equal(t, HomeRoot, m)

	_, err = ParseHomeMode("banner")
	assert.Error(t, err)
}

func TestMarkTrailSkipsDisabled(t *testing.T) {
	off := link("off", "Off")
	off.Disabled = true
	items := []menu.Item{link("x", "X"), off, link("y", "Y")}

	b := NewBuilder()
	base := b.Build(items, nil)
	require.Len(t, base, 2)

	marked := b.MarkTrail(base, items, menu.NewTrail("y", "off"))
	assert.False(t, marked[0].Selected)
	assert.True(t, marked[1].Selected)
	assert.False(t, base[1].Selected, "base tree is not modified")

	assert.Equal(t, base, b.MarkTrail(base, items, nil))
}
