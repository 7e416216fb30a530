package pipeline

import "strconv"

// Index is the dense composite index of one pipeline variant: the
// mixed-radix accumulation of every characteristic's value, outermost
// axis most significant. It indexes the factory's pipeline table.
type Index int

// String implements fmt.Stringer.
func (i Index) String() string { return "#" + strconv.Itoa(int(i)) }
