package spf_test

import (
	"bytes"
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/maxvdkolk/spfmine/internal/inventory"
	"github.com/maxvdkolk/spfmine/internal/pattern"
	"github.com/maxvdkolk/spfmine/internal/spf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diagonal4 is scenario 1 from spec.md §8: a 4x4 diagonal with value =
// row+1, matched entirely by the pattern (4,1,1).
func diagonal4(t *testing.T) *sparse.CSR {
	t.Helper()
	coo := sparse.NewCOO(4, 4, nil, nil, nil)
	for i := 0; i < 4; i++ {
		coo.Set(i, i, float64(i+1))
	}
	return coo.ToCSR()
}

func TestWriteDiagonalScenario(t *testing.T) {
	m := diagonal4(t)
	pieces := pattern.Search(m, []pattern.Pattern{{N: 4, I: 1, J: 1}}, pattern.PatternFirst)
	require.Len(t, pieces, 1)
	assert.Equal(t, pattern.Piece{Row: 0, Col: 0, Pattern: pattern.Pattern{N: 4, I: 1, J: 1}}, pieces[0])

	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, 4, dec.NNZ)
	assert.Equal(t, 4, dec.IncNNZ)
	assert.Equal(t, 1, dec.NumBaseShapes)

	require.Len(t, dec.Cells, 4)
	for _, c := range dec.Cells {
		assert.Equal(t, c.Row, c.Col)
		assert.Equal(t, float64(c.Row+1), c.Value)
	}
}

// mixedResidual4 is scenario 4: 4x4 with nonzeros at (0,0),(0,1),(0,2) and
// (3,3), pattern (3,0,1).
func mixedResidual4(t *testing.T) *sparse.CSR {
	t.Helper()
	coo := sparse.NewCOO(4, 4, nil, nil, nil)
	coo.Set(0, 0, 1)
	coo.Set(0, 1, 2)
	coo.Set(0, 2, 3)
	coo.Set(3, 3, 9)
	return coo.ToCSR()
}

func TestWriteMixedResidualScenario(t *testing.T) {
	m := mixedResidual4(t)
	pieces := pattern.Search(m, []pattern.Pattern{{N: 3, I: 0, J: 1}}, pattern.PatternFirst)
	require.Len(t, pieces, 2)
	assert.Equal(t, pattern.Piece{Row: 0, Col: 0, Pattern: pattern.Pattern{N: 3, I: 0, J: 1}}, pieces[0])
	assert.Equal(t, pattern.Piece{Row: 3, Col: 3, Pattern: pattern.Singleton}, pieces[1])

	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	assert.Equal(t, 4, dec.NNZ)
	assert.Equal(t, 3, dec.IncNNZ)
	assert.Equal(t, 1, dec.NumBaseShapes)

	got := cellSet(dec.Cells)
	want := map[[2]int]float64{
		{0, 0}: 1, {0, 1}: 2, {0, 2}: 3, {3, 3}: 9,
	}
	assert.Equal(t, want, got)
}

// TestRoundTripConvert is scenario 6: scenario 4's output decoded back
// into a CSR (as "convert" would for MatrixMarket) must equal the
// original sparse structure and values exactly.
func TestRoundTripConvert(t *testing.T) {
	m := mixedResidual4(t)
	pieces := pattern.Search(m, []pattern.Pattern{{N: 3, I: 0, J: 1}}, pattern.PatternFirst)
	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	csr := dec.ToCSR()
	nrows, ncols := csr.Dims()
	origRows, origCols := m.Dims()
	assert.Equal(t, origRows, nrows)
	assert.Equal(t, origCols, ncols)
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			assert.Equal(t, m.At(i, j), csr.At(i, j))
		}
	}
}

// TestTransposeLaw: decode(encode(search(M), transpose_output=true))
// equals M^T (spec.md §8).
func TestTransposeLaw(t *testing.T) {
	m := mixedResidual4(t)
	pieces := pattern.Search(m, []pattern.Pattern{{N: 3, I: 0, J: 1}}, pattern.PatternFirst)
	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{TransposeOutput: true}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	nrows, ncols := m.Dims()
	assert.Equal(t, ncols, dec.NRows)
	assert.Equal(t, nrows, dec.NCols)

	got := cellSet(dec.Cells)
	want := map[[2]int]float64{}
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if v := m.At(i, j); v != 0 {
				want[[2]int{j, i}] = v
			}
		}
	}
	assert.Equal(t, want, got)
}

// TestTransposeCSRResidualOrder exercises the transpose+CSR residual path
// that TestTransposeLaw's single residual never reaches (one residual
// always selects COO). With enough scattered residuals to pick the CSR
// residual encoding, the reordering encodeResidual applies to the index
// for row-major CSR grouping must carry through to the value payload, or
// each reconstructed cell pairs with the wrong value.
func TestTransposeCSRResidualOrder(t *testing.T) {
	coo := sparse.NewCOO(3, 2, nil, nil, nil)
	coo.Set(0, 0, 1)
	coo.Set(0, 1, 2)
	coo.Set(1, 0, 3)
	coo.Set(1, 1, 4)
	coo.Set(2, 0, 5)
	coo.Set(2, 1, 6)
	m := coo.ToCSR()

	pieces := pattern.Search(m, nil, pattern.PatternFirst)
	require.Len(t, pieces, 6)

	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{TransposeOutput: true}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	nrows, ncols := m.Dims()
	assert.Equal(t, ncols, dec.NRows)
	assert.Equal(t, nrows, dec.NCols)

	got := cellSet(dec.Cells)
	want := map[[2]int]float64{}
	for i := 0; i < nrows; i++ {
		for j := 0; j < ncols; j++ {
			if v := m.At(i, j); v != 0 {
				want[[2]int{j, i}] = v
			}
		}
	}
	assert.Equal(t, want, got)
}

// TestPartitionInvariant checks the partition property on a larger, more
// irregular matrix mixing a shared row pattern with scattered residuals.
func TestPartitionInvariant(t *testing.T) {
	coo := sparse.NewCOO(6, 6, nil, nil, nil)
	for _, rc := range [][2]int{{0, 0}, {0, 2}, {0, 4}, {2, 1}, {5, 5}} {
		coo.Set(rc[0], rc[1], float64(rc[0]+rc[1]+1))
	}
	m := coo.ToCSR()

	pieces := pattern.Search(m, []pattern.Pattern{{N: 3, I: 0, J: 2}}, pattern.PatternFirst)
	inv := inventory.NewFromPieces(pieces)

	var buf bytes.Buffer
	require.NoError(t, spf.Write(&buf, inv, m, spf.Options{}))

	dec, err := spf.Read(&buf)
	require.NoError(t, err)

	got := cellSet(dec.Cells)
	want := map[[2]int]float64{}
	m.DoNonZero(func(i, j int, v float64) { want[[2]int{i, j}] = v })
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), dec.NNZ)
}

func cellSet(cells []spf.Cell) map[[2]int]float64 {
	out := make(map[[2]int]float64, len(cells))
	for _, c := range cells {
		out[[2]int{c.Row, c.Col}] = c.Value
	}
	return out
}
