package sgsim

import "errors"

type StructureType string

const (
	Gaussian    StructureType = "gaussian"
	Exponential StructureType = "exponential"
	Spherical   StructureType = "spherical"
)

var (
	ErrInvalidParameter = errors.New("sgsim: invalid parameter")
	ErrEmptyInput       = errors.New("sgsim: empty input")
	ErrInsufficientData = errors.New("sgsim: insufficient data")
	ErrSingularSystem   = errors.New("sgsim: singular kriging system")
)

// ProgressCallback reports completed realizations out of total while a
// simulation batch is running.
type ProgressCallback func(completed, total int)
