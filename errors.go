package gocollide

import "errors"

var (
	// ErrResources is returned when an Engine's scratch buffers are too
	// large to ever be allocated.
	ErrResources = errors.New("gocollide: cannot allocate engine buffers")
	// ErrBackend is returned when the FFT backend does not match the grid.
	ErrBackend = errors.New("gocollide: FFT backend does not match grid")
)
