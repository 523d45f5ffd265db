// Package spf implements the Sparse Polyhedral Format codec described in
// spec.md §6.1: a fixed 30-byte header with a back-patched data pointer,
// a dense shape table, an origin table, a residual index (CSR or COO,
// whichever is smaller), and a trailing f64 value payload.
package spf
