package logic

// Navigator handles selection and viewport management for the result list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int // rows that fit on screen
	total          int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{viewportHeight: 1}
}

// SetTotal changes the number of items, keeping the selection where possible
func (n *Navigator) SetTotal(total int) {
	n.total = total
	n.clamp()
	n.ensureSelectedVisible()
}

// SetViewportHeight changes how many rows are visible
func (n *Navigator) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	n.viewportHeight = height
	n.ensureSelectedVisible()
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clamp()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move moves the selection by delta rows
func (n *Navigator) Move(delta int) (int, int) {
	if n.total == 0 {
		return n.selectedIndex, n.viewportOffset
	}
	return n.SetSelectedIndex(n.selectedIndex + delta)
}

// PageDown moves the selection one screen down
func (n *Navigator) PageDown() (int, int) {
	return n.Move(n.viewportHeight)
}

// PageUp moves the selection one screen up
func (n *Navigator) PageUp() (int, int) {
	return n.Move(-n.viewportHeight)
}

// Reset selects the first item and scrolls to the top
func (n *Navigator) Reset() {
	n.selectedIndex = 0
	n.viewportOffset = 0
}

func (n *Navigator) clamp() {
	if n.selectedIndex >= n.total {
		n.selectedIndex = n.total - 1
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
// without leaving empty rows below the last item
func (n *Navigator) ensureSelectedVisible() {
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}
	if n.selectedIndex >= n.viewportOffset+n.viewportHeight {
		n.viewportOffset = n.selectedIndex - n.viewportHeight + 1
	}

	maxOffset := n.total - n.viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
