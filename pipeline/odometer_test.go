package pipeline

import (
	"errors"
	"testing"
)

// collect drives the odometer to completion, recording every cell.
func collect(o *Odometer) [][2]int {
	var cells [][2]int
	for !o.Finished() {
		if !o.Inner() {
			o.Descend()
			continue
		}
		cells = append(cells, [2]int{o.Index(0), o.Index(1)})
		o.Advance()
	}
	return cells
}

func TestOdometerRowMajorOrder(t *testing.T) {
	o := newOdometer([]int{0, 0}, []int{2, 3})
	got := collect(o)

	want := [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("cells = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells = %v, want %v", got, want)
		}
	}
}

func TestOdometerNonZeroBegin(t *testing.T) {
	o := newOdometer([]int{3, 10}, []int{5, 12})
	got := collect(o)

	want := [][2]int{{3, 10}, {3, 11}, {4, 10}, {4, 11}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("cells = %v, want %v", got, want)
		}
	}
}

func TestOdometerStateResumption(t *testing.T) {
	full := collect(newOdometer([]int{0, 0}, []int{2, 3}))

	// Enumerate two cells, snapshot, resume in a fresh odometer.
	o := newOdometer([]int{0, 0}, []int{2, 3})
	var head [][2]int
	for len(head) < 2 {
		if !o.Inner() {
			o.Descend()
			continue
		}
		head = append(head, [2]int{o.Index(0), o.Index(1)})
		o.Advance()
	}
	snap := o.State()

	resumed := newOdometer([]int{0, 0}, []int{2, 3})
	if err := resumed.Restore(snap); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	got := append(head, collect(resumed)...)

	if len(got) != len(full) {
		t.Fatalf("resumed enumeration = %v, want %v", got, full)
	}
	for i := range full {
		if got[i] != full[i] {
			t.Fatalf("resumed enumeration = %v, want %v", got, full)
		}
	}
}

func TestOdometerRestoreValidation(t *testing.T) {
	o := newOdometer([]int{0, 0}, []int{2, 3})

	if err := o.Restore(State{Values: []int{0}, Depth: 1}); !errors.Is(err, ErrBadState) {
		t.Errorf("short state: err = %v, want ErrBadState", err)
	}
	if err := o.Restore(State{Values: []int{5, 0}, Depth: 2}); !errors.Is(err, ErrBadState) {
		t.Errorf("out-of-range value: err = %v, want ErrBadState", err)
	}
	if err := o.Restore(State{Values: []int{0, 0}, Depth: 3}); !errors.Is(err, ErrBadState) {
		t.Errorf("bad depth: err = %v, want ErrBadState", err)
	}
}

func TestRangeUpdateComposite(t *testing.T) {
	outer := Range{First: 0, Last: 2}
	inner := Range{First: 0, Last: 3}

	var idx Index
	outer.Update(&idx, 1)
	inner.Update(&idx, 2)
	if idx != 5 {
		t.Errorf("composite index = %v, want 5", idx)
	}

	// Non-zero range start folds the offset, not the raw value.
	shifted := Range{First: 10, Last: 13}
	idx = 0
	outer.Update(&idx, 1)
	shifted.Update(&idx, 11)
	if idx != 4 {
		t.Errorf("composite index = %v, want 4", idx)
	}
}
