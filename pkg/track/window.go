package track

// WindowCapacity is the fixed size of the smoothing window.
const WindowCapacity = 3

// smoothingWindow is a fixed-capacity FIFO of the most recent mapped
// boxes. Insertion evicts the oldest entry when full.
type smoothingWindow struct {
	boxes []Box
}

// push appends a box, evicting the oldest when at capacity.
func (w *smoothingWindow) push(b Box) {
	if len(w.boxes) == WindowCapacity {
		copy(w.boxes, w.boxes[1:])
		w.boxes = w.boxes[:WindowCapacity-1]
	}
	w.boxes = append(w.boxes, b)
}

// mean returns the per-edge arithmetic mean of the window contents with
// integer truncation. The second return is false when the window is empty.
func (w *smoothingWindow) mean() (Box, bool) {
	n := len(w.boxes)
	if n == 0 {
		return Box{}, false
	}

	var left, top, right, bottom int
	for _, b := range w.boxes {
		left += b.Left
		top += b.Top
		right += b.Right
		bottom += b.Bottom
	}
	return Box{
		Left:   left / n,
		Top:    top / n,
		Right:  right / n,
		Bottom: bottom / n,
	}, true
}

// clear empties the window.
func (w *smoothingWindow) clear() {
	w.boxes = w.boxes[:0]
}

func (w *smoothingWindow) size() int {
	return len(w.boxes)
}
