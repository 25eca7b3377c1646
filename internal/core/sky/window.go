package sky

// Window is the bounded, newest-first, id-unique set of visible wishes
// it is not safe for concurrent use; owners serialize access
type Window struct {
	items    []Augmented
	index    map[int64]struct{}
	capacity int
}

// NewWindow returns an empty window holding at most capacity items on capped paths
// capacity <= 0 means unbounded
func NewWindow(capacity int) *Window {
	return &Window{index: make(map[int64]struct{}), capacity: capacity}
}

// Cap returns the eviction cap
func (w *Window) Cap() int { return w.capacity }

// Len returns the number of items
func (w *Window) Len() int { return len(w.items) }

// Has reports whether id is present
func (w *Window) Has(id int64) bool {
	_, ok := w.index[id]
	return ok
}

// Get returns the augmentation held for id
func (w *Window) Get(id int64) (Augmented, bool) {
	if !w.Has(id) {
		return Augmented{}, false
	}
	for _, it := range w.items {
		if it.ID == id {
			return it, true
		}
	}
	return Augmented{}, false
}

// Items returns a copy of the window, newest first
func (w *Window) Items() []Augmented {
	out := make([]Augmented, len(w.items))
	copy(out, w.items)
	return out
}

// IDs returns the ids in window order
func (w *Window) IDs() []int64 {
	out := make([]int64, len(w.items))
	for i, it := range w.items {
		out[i] = it.ID
	}
	return out
}

// Reset replaces the contents with items, keeping their order
// later duplicates are dropped and the cap applies
func (w *Window) Reset(items []Augmented) {
	w.items = w.items[:0]
	clear(w.index)
	for _, it := range items {
		if w.Has(it.ID) {
			continue
		}
		w.items = append(w.items, it)
		w.index[it.ID] = struct{}{}
	}
	w.truncate()
}

// Push prepends a and evicts from the tail down to the cap
// returns false when a.ID is already present; the window is then untouched
func (w *Window) Push(a Augmented) bool {
	if !w.prepend(a) {
		return false
	}
	w.truncate()
	return true
}

// Prepend prepends a without applying the cap
// returns false when a.ID is already present
func (w *Window) Prepend(a Augmented) bool { return w.prepend(a) }

func (w *Window) prepend(a Augmented) bool {
	if w.Has(a.ID) {
		return false
	}
	w.items = append(w.items, Augmented{})
	copy(w.items[1:], w.items)
	w.items[0] = a
	w.index[a.ID] = struct{}{}
	return true
}

func (w *Window) truncate() {
	if w.capacity <= 0 || len(w.items) <= w.capacity {
		return
	}
	for _, it := range w.items[w.capacity:] {
		delete(w.index, it.ID)
	}
	clear(w.items[w.capacity:])
	w.items = w.items[:w.capacity]
}
