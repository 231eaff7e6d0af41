package menu

import (
	"context"
	"net/http"
)

// PathTrail derives the active trail from the request path and query.
// The trail is the chain of keys leading to the first item whose URL
// equals the request target exactly.
type PathTrail struct{}

// ActiveTrail returns the trail for r, empty when nothing matches.
func (PathTrail) ActiveTrail(_ context.Context, m *Menu, r *http.Request) (Trail, error) {
	if m == nil || r == nil || r.URL == nil {
		return Trail{}, nil
	}
	return TrailTo(m.Items, r.URL.RequestURI()), nil
}

// TrailTo returns the keys on the path to the first item with the given URL.
func TrailTo(items []Item, target string) Trail {
	var path []string
	if findTrail(items, target, 1, &path) {
		return NewTrail(path...)
	}
	return Trail{}
}

func findTrail(items []Item, target string, level int, path *[]string) bool {
	if level > MaxDepth {
		return false
	}

	for i := range items {
		item := &items[i]
		if item.Disabled {
			continue
		}

		*path = append(*path, item.Key)
		if item.URL == target || findTrail(item.Items, target, level+1, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
	}
	return false
}

// TrailFunc adapts a function to TrailProvider.
type TrailFunc func(ctx context.Context, m *Menu, r *http.Request) (Trail, error)

// ActiveTrail calls f.
func (f TrailFunc) ActiveTrail(ctx context.Context, m *Menu, r *http.Request) (Trail, error) {
	return f(ctx, m, r)
}

var (
	_ TrailProvider = PathTrail{}
	_ TrailProvider = TrailFunc(nil)
)
