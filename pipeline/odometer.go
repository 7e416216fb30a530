package pipeline

// Odometer is an explicit multi-radix counter over the characteristic
// ranges: the state of k nested loops, unrolled so enumeration can stop
// after any cell and resume later.
//
// depth counts the open loop levels. depth == k means the counter sits
// on a cell (the innermost loop body); depth < k means the next move
// opens loop level depth; depth == 0 means every loop has closed.
//
// The canonical drive loop:
//
//	for !o.Finished() {
//		if !o.Inner() {
//			o.Descend()
//			continue
//		}
//		// use o.Index(level) for each level
//		o.Advance()
//	}
type Odometer struct {
	begin []int
	end   []int
	idx   []int
	depth int
}

// newOdometer creates a counter over the half-open ranges
// [begin[i], end[i]). Ranges must be non-empty; the factory validates
// that before construction.
func newOdometer(begin, end []int) *Odometer {
	o := &Odometer{begin: begin, end: end, idx: make([]int, len(begin))}
	if len(begin) > 0 {
		o.idx[0] = begin[0]
		o.depth = 1
	}
	return o
}

// Finished reports whether every loop level has closed.
func (o *Odometer) Finished() bool { return o.depth == 0 }

// Inner reports whether the counter sits on a cell.
func (o *Odometer) Inner() bool { return o.depth == len(o.idx) }

// Descend opens the next loop level at its range's first value.
func (o *Odometer) Descend() {
	o.idx[o.depth] = o.begin[o.depth]
	o.depth++
}

// Advance ticks the innermost open level. A level that reaches its
// range's end closes, carrying into the level outside it; when the
// outermost level closes the odometer is finished.
func (o *Odometer) Advance() {
	for o.depth > 0 {
		o.idx[o.depth-1]++
		if o.idx[o.depth-1] < o.end[o.depth-1] {
			return
		}
		o.depth--
	}
}

// Index returns the current value of the given loop level. Valid for
// levels below depth.
func (o *Odometer) Index(level int) int { return o.idx[level] }

// Levels returns the number of loop levels.
func (o *Odometer) Levels() int { return len(o.idx) }

// State is an Odometer's externalized position, valid to restore into
// an odometer built over the same ranges.
type State struct {
	Values []int
	Depth  int
}

// State snapshots the counter's position.
func (o *Odometer) State() State {
	s := State{Values: make([]int, len(o.idx)), Depth: o.depth}
	copy(s.Values, o.idx)
	return s
}

// Restore sets the counter to a previously snapshotted position.
func (o *Odometer) Restore(s State) error {
	if len(s.Values) != len(o.idx) || s.Depth < 0 || s.Depth > len(o.idx) {
		return ErrBadState
	}
	for i := 0; i < s.Depth; i++ {
		if s.Values[i] < o.begin[i] || s.Values[i] >= o.end[i] {
			return ErrBadState
		}
	}
	copy(o.idx, s.Values)
	o.depth = s.Depth
	return nil
}
