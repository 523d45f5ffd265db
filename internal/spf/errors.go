package spf

import "errors"

var (
	// ErrNNZMismatch is returned at write time when the piece list's
	// total cell count disagrees with the value matrix's own nnz --
	// the writer's one sanity check against its inputs.
	ErrNNZMismatch = errors.New("spf: piece list nnz does not match matrix nnz")

	// ErrUnsupportedDims is returned on read when the header's dims
	// field is not 2 -- this module's stored format never
	// writes anything else, so any other value means a foreign or
	// corrupt file.
	ErrUnsupportedDims = errors.New("spf: unsupported dims, expected 2")

	// ErrUnsupportedEncoding is returned on read for any encoding_kind
	// other than 0 (vertex-rectangle).
	ErrUnsupportedEncoding = errors.New("spf: unsupported shape encoding kind")

	// ErrUnknownResidualFormat is returned on read for an uninc_format
	// byte other than 0 (CSR) or 2 (COO).
	ErrUnknownResidualFormat = errors.New("spf: unknown residual format byte")

	// ErrTruncated is returned when the input ends before a record
	// that the header promised.
	ErrTruncated = errors.New("spf: truncated input")
)
