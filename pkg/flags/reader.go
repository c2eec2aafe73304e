package flags

// readStatus reports whether a consumption reader still expects values.
type readStatus int

const (
	processing readStatus = iota
	finished
)

// reader tracks how many values have been consumed for the currently active
// key and whether that satisfies the key's arity. A fresh reader is created
// each time a key token is matched and dropped once its arity is satisfied.
type reader struct {
	slot  *slot
	kind  valueKind
	arity int
	index int
}

func newReader(s *slot, kind valueKind, arity int) *reader {
	return &reader{
		slot:  s,
		kind:  kind,
		arity: arity,
	}
}

// process stores token at the current position and advances. Existing cells
// are overwritten in place; a vector grows by appending at the tail only.
func (r *reader) process(token string) readStatus {
	r.slot.mutate(func(cells []string) []string {
		if r.kind == scalarValue {
			cells[0] = token
			return cells
		}
		if r.index < len(cells) {
			cells[r.index] = token
			return cells
		}
		return append(cells, token)
	})
	r.index++

	if r.arity >= 0 && r.index == r.arity {
		return finished
	}
	return processing
}

// nextKey reports whether a new key may legally interrupt this reader. An
// open ended reader is always safe to interrupt; a fixed arity reader only
// once every position has been consumed.
func (r *reader) nextKey() readStatus {
	if r.arity < 0 || r.index == r.arity {
		return finished
	}
	return processing
}
