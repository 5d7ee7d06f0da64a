package viewer

// Burst counts the display refreshes still owed after an interaction.
// Rendering stops on its own once the count reaches zero.
type Burst struct {
	frames    int
	remaining int
}

// NewBurst creates a burst that renders frames refreshes per request
func NewBurst(frames int) *Burst {
	if frames < 1 {
		frames = 1
	}
	return &Burst{frames: frames}
}

// Request tops the counter up to a full burst
func (b *Burst) Request() {
	if b.remaining < b.frames {
		b.remaining = b.frames
	}
}

// Next consumes one frame and reports whether one was owed
func (b *Burst) Next() bool {
	if b.remaining == 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining returns the frames left in the current burst
func (b *Burst) Remaining() int {
	return b.remaining
}
