package mtx

// Supported MatrixMarket body formats.
const (
	FormatArray      = "array"
	FormatCoordinate = "coordinate"
)

// Supported MatrixMarket element types. Only Real is fully materialized;
// Integer and Pattern are accepted and parsed as real-valued, since the
// pattern miner only ever needs float64 cell values.
const (
	TypeReal    = "real"
	TypeInteger = "integer"
	TypeComplex = "complex"
	TypePattern = "pattern"
)

// Supported MatrixMarket symmetry tokens. For Symmetric and
// SkewSymmetric, only the lower triangle (including the diagonal) is
// stored on disk; the mirrored entries are reconstructed on load.
const (
	General       = "general"
	Symmetric     = "symmetric"
	SkewSymmetric = "skew-symmetric"
	Hermitian     = "hermitian"
)

// header holds the parsed first line plus the dimensions line that
// follows the comment block.
type header struct {
	format   string
	typ      string
	symmetry string

	rows, cols int
	lines      int // coordinate: number of triplet lines; array: rows*cols
}

// LoadOptions configures Load.
type LoadOptions struct {
	// Transpose swaps row/col of every parsed entry, for --transpose-input.
	Transpose bool
}

// Order selects the traversal CSR or CSC uses when Save walks a sparse
// matrix's nonzeros, for the convert subcommand's --csr|--csc flag.
type Order int

const (
	OrderCSR Order = iota
	OrderCSC
)

// SaveOptions configures Save.
type SaveOptions struct {
	Order Order
}
