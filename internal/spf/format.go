package spf

// Byte offsets and sizes of the fixed SPF header (spec.md §6.1). All
// multi-byte fields are little-endian.
const (
	headerSize = 30

	offNNZ            = 0
	offIncNNZ         = 4
	offNRows          = 8
	offNCols          = 12
	offDims           = 16
	offNumBaseShapes  = 18
	offNumHierShapes  = 22
	offDataPtr        = 26
)

// Residual index encodings.
const (
	ResidualCSR = 0
	ResidualCOO = 2
)

// Shape encoding kinds. Only vertex-rectangle is implemented; any other
// value read back is an Unsupported error (spec.md §7).
const (
	EncodingVertexRectangle = 0
)

// storedDims is the dimensionality always written to the header's "dims"
// field: the spec's Non-goals fix the stored base dimensionality at 2
// regardless of how many axes a meta-pattern chain has.
const storedDims = 2

// numHierShapes is always 0 in this format (spec.md §6.1).
const numHierShapes = 0
