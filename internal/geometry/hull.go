package geometry

// ConvexHullHyperrectangleND enumerates the lattice points of the box
// [0, w[0]] x ... x [0, w[d-1]] described by the hyperrectangle UWC u.
//
// When dense is true it yields the full product (the "interior" / dense
// enumeration used for per-piece data_offset accounting). When dense is
// false it yields only the product over the first d-1 axes combined with
// the two extreme values {0, w[d-1]} of the last axis (the vertex-rectangle
// surface; the SPF writer does not use this mode, since its shape records
// carry per-axis lengths read directly off w). The traversal order is
// lexicographic with the outermost axis (index 0) varying slowest.
func ConvexHullHyperrectangleND(u UWC, dense bool) ([][]int, error) {
	d := u.Dim()
	if d == 0 || len(u.W) != 2*d {
		return nil, ErrBadDims
	}
	if err := validateHyperrectangleNormals(u.U, d); err != nil {
		return nil, err
	}

	axisValues := make([][]int, d)
	for k := 0; k < d; k++ {
		if !dense && k == d-1 {
			lo, hi := 0, u.W[k]
			if lo == hi {
				axisValues[k] = []int{lo}
			} else {
				axisValues[k] = []int{lo, hi}
			}
			continue
		}
		vals := make([]int, u.W[k]+1)
		for x := 0; x <= u.W[k]; x++ {
			vals[x] = x
		}
		axisValues[k] = vals
	}

	total := 1
	for _, vals := range axisValues {
		total *= len(vals)
	}

	points := make([][]int, 0, total)
	point := make([]int, d)
	var walk func(axis int)
	walk = func(axis int) {
		if axis == d {
			cp := make([]int, d)
			copy(cp, point)
			points = append(points, cp)
			return
		}
		for _, v := range axisValues[axis] {
			point[axis] = v
			walk(axis + 1)
		}
	}
	walk(0)

	return points, nil
}

// validateHyperrectangleNormals checks U has the canonical form rows
// -e_1..-e_d then e_1..e_d, the only form this package's callers ever
// construct (via PatternToUWC / MetaPatternToHyperrectangleUWC).
func validateHyperrectangleNormals(u [][]int, d int) error {
	if len(u) != 2*d {
		return ErrNotHyperrectangle
	}
	for k := 0; k < d; k++ {
		if !isUnitRow(u[k], d, k, -1) {
			return ErrNotHyperrectangle
		}
		if !isUnitRow(u[d+k], d, k, 1) {
			return ErrNotHyperrectangle
		}
	}
	return nil
}

func isUnitRow(row []int, d, axis, value int) bool {
	if len(row) != d {
		return false
	}
	for k, v := range row {
		if k == axis {
			if v != value {
				return false
			}
		} else if v != 0 {
			return false
		}
	}
	return true
}
