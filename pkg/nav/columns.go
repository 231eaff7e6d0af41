package nav

// Column is one layout column of a dropdown.
type Column []Link

// Partition groups links into columns in a single forward scan. A heading or
// column break opens a new column, except when it is the very first link, so
// no column is ever empty.
func Partition(links []Link) []Column {
	cols := []Column{}

	col := -1
	started := false
	for _, l := range links {
		if !started || l.IsBreak() {
			cols = append(cols, Column{})
			col++
		}
		cols[col] = append(cols[col], l)
		started = true
	}

	return cols
}
