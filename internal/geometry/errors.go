package geometry

import "errors"

var (
	// ErrBadDims is returned when w does not hold 2d entries for a d >= 1
	// axis shape, when a shape chain is empty or names an id the lookup
	// cannot resolve, or when a 1-D UWC is required and a higher-order
	// one is given.
	ErrBadDims = errors.New("geometry: mismatched dimensionality")

	// ErrNotHyperrectangle is returned when U does not have the
	// canonical hyperrectangle form (-e_1..-e_d, e_1..e_d) this package
	// assumes everywhere.
	ErrNotHyperrectangle = errors.New("geometry: U is not a hyperrectangle normal matrix")
)
