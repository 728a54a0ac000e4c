package ocam

import "fmt"

// ShapeError is returned when an intermediate array does not have the
// dimensions the mode calls for
type ShapeError struct {
	// Mode is the name of the mode being generated
	Mode string

	// Stage names the step that produced the array, e.g. "trim"
	Stage string

	// Want is the expected (rows, cols)
	Want [2]int

	// Got is the observed (rows, cols)
	Got [2]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s produced shape (%d, %d), expected (%d, %d)",
		e.Mode, e.Stage, e.Got[0], e.Got[1], e.Want[0], e.Want[1])
}

// CollisionError is returned when two sensor pixels map to the same raw pixel
type CollisionError struct {
	// Mode is the name of the mode being generated
	Mode string

	// RawIndex is the linear index into the raw frame that was claimed twice
	RawIndex int

	// First and Second are the linear sensor indices that both claimed RawIndex
	First, Second int
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: raw index %d (row %d, col %d) claimed by sensor pixels %d and %d",
		e.Mode, e.RawIndex, e.RawIndex/RawCols, e.RawIndex%RawCols, e.First, e.Second)
}
