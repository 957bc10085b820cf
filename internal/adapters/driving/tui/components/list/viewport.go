package list

// restoreFrames is how many rendered frames a restored offset is protected
// from being reported as a user scroll.
const restoreFrames = 2

// Viewport tracks the scroll offset and whether the current offset was set
// by the user or restored programmatically.
type Viewport struct {
	offset  int
	guard   int
	visible int
}

// Offset returns the first visible line.
func (p *Viewport) Offset() int {
	return p.offset
}

// Height returns the number of visible lines.
func (p *Viewport) Height() int {
	return p.visible
}

// SetHeight sets the number of visible lines.
func (p *Viewport) SetHeight(lines int) {
	if lines < 0 {
		lines = 0
	}
	p.visible = lines
}

// Restore jumps to offset and arms the guard so the scroll that follows is
// not mistaken for the user's.
func (p *Viewport) Restore(offset int) {
	if offset < 0 {
		offset = 0
	}
	p.offset = offset
	p.guard = restoreFrames
}

// Restoring reports whether the guard is still armed.
func (p *Viewport) Restoring() bool {
	return p.guard > 0
}

// Frame marks one rendered frame, releasing the guard after restoreFrames.
func (p *Viewport) Frame() {
	if p.guard > 0 {
		p.guard--
	}
}

// ScrollTo moves to offset. changed reports a new offset; userAction reports
// whether it should be treated as the user's own scroll.
func (p *Viewport) ScrollTo(offset int) (changed, userAction bool) {
	if offset < 0 {
		offset = 0
	}
	if offset == p.offset {
		return false, false
	}
	p.offset = offset
	return true, p.guard == 0
}

// Anchor returns to the top without arming the guard.
func (p *Viewport) Anchor() {
	p.offset = 0
	p.guard = 0
}
