// Package mtx implements the MatrixMarket collaborator contract from
// spec.md §6.3: loading a coordinate-format MatrixMarket stream into a
// *sparse.CSR with the matrix's stored nonzero order preserved, and
// saving a mat.Matrix back out as coordinate MatrixMarket text.
package mtx
