// Package state holds the view state of filterable lists: items, the filter
// query with its cursor, the highlighted row and the scroll offset.
package state

// List is a filterable, scrollable list with one marked entry.
type List struct {
	ID             string
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
	Active         string
}

// NewList builds a list over items with the cursor on the first entry.
func NewList(id, title string, items []Item) *List {
	l := &List{ID: id, Title: title, LastCursor: -1}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of id, or -1.
func (l *List) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// UpdateItems replaces the entries. The filter is reapplied and the cursor
// follows the active entry when it is still present.
func (l *List) UpdateItems(items []Item) {
	l.Full = CloneItems(items)
	l.applyFilter()
	if idx := l.IndexOf(l.Active); idx >= 0 {
		l.Cursor = idx
	}
	if l.ViewportOffset > len(l.Items)-1 || l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// SetActive marks id as the active entry and moves the cursor to it.
func (l *List) SetActive(id string) {
	l.Active = id
	if idx := l.IndexOf(id); idx >= 0 {
		l.Cursor = idx
	}
}

// IsActive reports whether id is the marked entry.
func (l *List) IsActive(id string) bool {
	return id != "" && l.Active == id
}

// Current returns the entry under the cursor.
func (l *List) Current() (Item, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return Item{}, false
	}
	return l.Items[l.Cursor], true
}
