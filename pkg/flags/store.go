package flags

// slotStore is an arena of option value slots. Every registered option owns
// one slot; handles and consumption readers address slots by stable index, so
// writes made during parsing are observed by every holder of the same slot.
type slotStore struct {
	slots []*slot
}

// slot holds the cells of a single option value. A scalar option has exactly
// one cell; a vector option has one cell per position.
type slot struct {
	cells   []string
	writing bool
}

func (s *slotStore) alloc(cells []string) int {
	s.slots = append(s.slots, &slot{cells: cells})
	return len(s.slots) - 1
}

func (s *slotStore) at(id int) *slot {
	return s.slots[id]
}

// mutate runs fn with exclusive write access to the slot's cells. Overlapping
// mutation of the same slot is a programming error under the single threaded
// model, not a supported concurrency pattern.
func (s *slot) mutate(fn func(cells []string) []string) {
	if s.writing {
		panic("flags: overlapping mutation of option slot")
	}
	s.writing = true
	s.cells = fn(s.cells)
	s.writing = false
}

func (s *slot) read(i int) string {
	if s.writing {
		panic("flags: option slot read during mutation")
	}
	return s.cells[i]
}

func (s *slot) len() int {
	return len(s.cells)
}

// snapshot returns a copy of the cells so callers cannot bypass mutate.
func (s *slot) snapshot() []string {
	if s.writing {
		panic("flags: option slot read during mutation")
	}
	out := make([]string, len(s.cells))
	copy(out, s.cells)
	return out
}
