package generic

// {n} items
//
//displaydoc:error
type Stack[T any] struct {
	items []T
	n     int
}

// path {0:q}
//
//displaydoc
type Path string

// A static label.
//
//displaydoc
type Label struct{}
