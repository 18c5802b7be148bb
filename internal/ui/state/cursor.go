package state

// MoveCursorUp moves the cursor one entry up, wrapping to the bottom.
func (l *List) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor--
	if l.Cursor < 0 {
		l.Cursor = n - 1
	}
	return old != l.Cursor
}

// MoveCursorDown moves the cursor one entry down, wrapping to the top.
func (l *List) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor++
	if l.Cursor >= n {
		l.Cursor = 0
	}
	return old != l.Cursor
}

// MoveCursorHome moves the cursor to the first item.
func (l *List) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != l.Cursor
}

// MoveCursorEnd moves the cursor to the last item.
func (l *List) MoveCursorEnd() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = n - 1
	return old != l.Cursor
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays visible.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	if l.Cursor < 0 {
		l.Cursor = 0
	}
	if l.Cursor >= len(l.Items) {
		l.Cursor = len(l.Items) - 1
	}
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	switch {
	case l.Cursor < l.ViewportOffset:
		l.ViewportOffset = l.Cursor
	case l.Cursor > l.ViewportOffset+maxVisible-1:
		l.ViewportOffset = l.Cursor - maxVisible + 1
	}
	if l.ViewportOffset > maxOffset {
		l.ViewportOffset = maxOffset
	}
	if l.ViewportOffset < 0 {
		l.ViewportOffset = 0
	}
}

// Visible returns the window of items starting at the viewport offset.
func (l *List) Visible(maxVisible int) []Item {
	if maxVisible <= 0 || maxVisible >= len(l.Items) {
		return l.Items
	}
	end := l.ViewportOffset + maxVisible
	if end > len(l.Items) {
		end = len(l.Items)
	}
	return l.Items[l.ViewportOffset:end]
}
