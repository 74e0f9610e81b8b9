package shapes

// Point is at ({x}, {y}).
//
//displaydoc
type Point struct {
	x, y int
}

//displaydoc
type Color int

const (
	// red
	Red Color = iota
	// green {0:02}
	Green
	Blue
)
