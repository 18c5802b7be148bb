package state

// Item is one selectable entry of a list. ID is the value handed back on
// selection; Detail is secondary text that also takes part in filtering.
type Item struct {
	ID     string
	Label  string
	Detail string
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
