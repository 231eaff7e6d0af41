package nav

import "github.com/mchmarny/brandnav/pkg/menu"

// Classify splits the children of a top-level item into tray buttons and
// column candidates, keeping the original order in both. Disabled children
// are dropped. Grandchildren of column candidates are normalized flat into
// the candidate's Items.
func Classify(children []menu.Item) (buttons []Link, candidates []Link) {
	buttons = []Link{}
	candidates = []Link{}

	for _, child := range children {
		if child.Disabled {
			continue
		}

		attrs := child.Attrs()
		if attrs.IsButton {
			buttons = append(buttons, Link{
				Href:  child.URL,
				Text:  child.Title,
				Color: attrs.ButtonColor,
			})
			continue
		}

		link := Normalize(child)
		link.Items = grandchildren(child.Items)
		candidates = append(candidates, link)
	}

	return buttons, candidates
}

// grandchildren normalizes third-level items. Their own children are not read.
func grandchildren(items []menu.Item) []Link {
	if len(items) == 0 {
		return nil
	}

	links := make([]Link, 0, len(items))
	for _, item := range items {
		if item.Disabled {
			continue
		}
		links = append(links, Normalize(item))
	}
	return links
}
