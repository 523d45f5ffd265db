// Package pattern holds the Pattern/Piece data model and the greedy
// non-overlapping cover search: for each nonzero of a sparse matrix, try
// to place the highest-priority affine pattern that still fits, leaving
// whatever is left over as single-point residual pieces.
package pattern
