// Package geometry converts affine patterns and meta-pattern chains into
// their polyhedral UWC description (inequality matrix U, offset vector w,
// lattice vector c), and enumerates the lattice points of the resulting
// hyperrectangles.
//
// Everything here is pure and allocation-light: no I/O, no mutable shared
// state. Callers own the returned slices.
package geometry
