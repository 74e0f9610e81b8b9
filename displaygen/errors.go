package displaygen

import "errors"

// Sentinel errors returned by the generator.
var (
	ErrParse             = errors.New("parse source")
	ErrUnresolvedBinding = errors.New("unresolved binding")
	ErrFormat            = errors.New("format generated source")
	ErrReadInput         = errors.New("read input")
	ErrWriteOutput       = errors.New("write output")
	ErrForeignOutput     = errors.New("output file was not generated by displaydoc")
	ErrInvalidOption     = errors.New("invalid option")
	ErrConfigFile        = errors.New("config file")
)
