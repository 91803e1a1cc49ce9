package batch

// WindowSize is the number of slots in the rolling transaction series
const WindowSize = 30

// Window is a fixed-size ring of per-attempt transaction counts. It starts
// zero-filled; each push drops the oldest slot.
type Window struct {
	slots []int
	head  int // index of the oldest slot
}

// NewWindow creates a zero-filled window of size slots
func NewWindow(size int) *Window {
	if size <= 0 {
		size = WindowSize
	}
	return &Window{slots: make([]int, size)}
}

// Push appends v, evicting the oldest value
func (w *Window) Push(v int) {
	w.slots[w.head] = v
	w.head = (w.head + 1) % len(w.slots)
}

// Values returns a copy of the series, oldest first
func (w *Window) Values() []int {
	out := make([]int, 0, len(w.slots))
	out = append(out, w.slots[w.head:]...)
	out = append(out, w.slots[:w.head]...)
	return out
}

// Len is the fixed number of slots
func (w *Window) Len() int {
	return len(w.slots)
}
