package mtx

import "errors"

var (
	// ErrBadHeader is returned when the first line is not a well-formed
	// "%%MatrixMarket matrix <format> <type> <symmetry>" line.
	ErrBadHeader = errors.New("mtx: malformed MatrixMarket header")

	// ErrUnsupportedFormat is returned for a format other than
	// "coordinate" or "array".
	ErrUnsupportedFormat = errors.New("mtx: unsupported format")

	// ErrUnsupportedType is returned for an element type other than
	// real, integer, complex, or pattern.
	ErrUnsupportedType = errors.New("mtx: unsupported element type")

	// ErrUnsupportedSymmetry is returned for a symmetry token other than
	// general, symmetric, skew-symmetric, or hermitian.
	ErrUnsupportedSymmetry = errors.New("mtx: unsupported symmetry")

	// ErrBadDimensions is returned when the dimensions line cannot be
	// parsed, or is missing the nnz count a coordinate matrix requires.
	ErrBadDimensions = errors.New("mtx: malformed dimensions line")

	// ErrBadEntry is returned for a body line that does not parse as its
	// format's triplet or single value.
	ErrBadEntry = errors.New("mtx: malformed matrix entry")

	// ErrDenseInput is returned by Load for a well-formed array-format
	// (dense) MatrixMarket file: Load only produces a *sparse.CSR, and a
	// dense input should be re-exported as coordinate by the caller
	// first if it is meant to be pattern-mined.
	ErrDenseInput = errors.New("mtx: array (dense) format input, expected coordinate")

	// ErrUnsupportedOutput is returned by Save for a matrix type it does
	// not know how to traverse (anything but *sparse.CSR/*sparse.CSC or
	// *mat.Dense).
	ErrUnsupportedOutput = errors.New("mtx: unsupported matrix type for output")
)
