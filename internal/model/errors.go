package model

import "errors"

var (
	// ErrNoImageLoaded is returned by preview and export when no image is set.
	ErrNoImageLoaded = errors.New("no image loaded")
	// ErrDivisionByZero is returned when a view transform has a zero scale.
	ErrDivisionByZero = errors.New("division by zero: view scale is 0")
	// ErrInvalidImageSize is returned when an image has no area.
	ErrInvalidImageSize = errors.New("image width and height must be > 0")
	// ErrInvalidGrid is returned for grids with fewer than one row or column.
	ErrInvalidGrid = errors.New("grid needs at least one row and one column")
	// ErrInvalidPageSize is returned for non-positive page dimensions.
	ErrInvalidPageSize = errors.New("page width and height must be > 0")
	// ErrEmptyBlock is returned by border detection for a block with no pixels.
	ErrEmptyBlock = errors.New("pixel block is empty")
)
