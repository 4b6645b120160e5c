package layout

// ListHeight computes the lines available to the list. Returns at least
// MinHeight.
func ListHeight(terminalHeight int, cfg ListConfig) int {
	height := terminalHeight - cfg.ChromeLines
	if height < cfg.MinHeight {
		return cfg.MinHeight
	}
	return height
}

// VisibleItems computes how many bookmarks fit in listHeight lines.
func VisibleItems(listHeight int, cfg ListConfig) int {
	per := cfg.LinesPerItem
	if per < 1 {
		per = 1
	}
	n := listHeight / per
	if n < 1 {
		return 1
	}
	return n
}

// ViewportOffset calculates the scroll offset needed to keep the
// selected item visible within the viewport.
func ViewportOffset(selected, total, visible int) int {
	if total <= visible {
		return 0
	}

	// Keep selection roughly centered, but clamp to valid range
	offset := selected - visible/2
	if offset < 0 {
		offset = 0
	}

	maxOffset := total - visible
	if offset > maxOffset {
		offset = maxOffset
	}

	return offset
}
