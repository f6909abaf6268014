package hypercube

import "fmt"

// ShapeError reports a hypercube shape that cannot be used: wrong rank,
// non-positive axis lengths, or a data buffer whose length does not match
// the shape.
type ShapeError struct {
	// Shape is the offending shape tuple.
	Shape []int

	// Reason describes the violated constraint.
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("invalid hypercube shape %v: %s", e.Shape, e.Reason)
}

// ShapeMismatchError reports a per-sample result whose leading dimension does
// not match the sample count of the spatial shape it is being projected onto.
type ShapeMismatchError struct {
	// Got is the leading dimension of the result array.
	Got int

	// Want is the sample count implied by the spatial shape.
	Want int

	// Spatial is the target spatial shape.
	Spatial SpatialShape
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("result has %d samples, spatial shape %v expects %d",
		e.Got, []int(e.Spatial), e.Want)
}
