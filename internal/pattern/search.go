package pattern

import "gonum.org/v1/gonum/mat"

// SparseMatrix is the minimal view pattern search needs of the matrix
// collaborator described in spec.md §1: a gonum mat.Matrix (Dims, At) that
// can also walk its stored nonzeros in order. *sparse.CSR, as produced by
// internal/mtx, satisfies this directly.
type SparseMatrix interface {
	mat.Matrix
	DoNonZero(func(i, j int, v float64))
}

type coord struct{ row, col int }

// Search runs the greedy non-overlapping cover of m's nonzeros using
// patterns in priority order, under the given Mode. The returned slice
// holds discovered pieces in discovery order, followed by every residual
// single-point piece (1,0,0) in m's stored order, per spec.md §4.2.
func Search(m SparseMatrix, patterns []Pattern, mode Mode) []Piece {
	nrows, ncols := m.Dims()

	var order []coord
	m.DoNonZero(func(i, j int, v float64) {
		order = append(order, coord{i, j})
	})

	covered := make(map[coord]bool, len(order))

	var pieces []Piece
	commit := func(p Pattern, r, c int) {
		for k := 0; k < p.N; k++ {
			covered[coord{r + k*p.I, c + k*p.J}] = true
		}
		pieces = append(pieces, Piece{Row: r, Col: c, Pattern: p})
	}

	fits := func(p Pattern, r, c int) bool {
		if covered[coord{r, c}] {
			return false
		}
		for k := 1; k < p.N; k++ {
			rr, cc := r+k*p.I, c+k*p.J
			if rr < 0 || rr >= nrows || cc < 0 || cc >= ncols {
				return false
			}
			if covered[coord{rr, cc}] {
				return false
			}
			if m.At(rr, cc) == 0 {
				return false
			}
		}
		return true
	}

	switch mode {
	case PatternFirst:
		for _, p := range patterns {
			for _, pos := range order {
				if fits(p, pos.row, pos.col) {
					commit(p, pos.row, pos.col)
				}
			}
		}
	case CellFirst:
		for _, pos := range order {
			if covered[pos] {
				continue
			}
			for _, p := range patterns {
				if fits(p, pos.row, pos.col) {
					commit(p, pos.row, pos.col)
					break
				}
			}
		}
	}

	for _, pos := range order {
		if !covered[pos] {
			pieces = append(pieces, Piece{Row: pos.row, Col: pos.col, Pattern: Singleton})
		}
	}

	return pieces
}
