package spf

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/maxvdkolk/spfmine/internal/geometry"
	"github.com/maxvdkolk/spfmine/internal/inventory"
	"gonum.org/v1/gonum/mat"
)

// ValueMatrix is the minimal view the writer needs of the matrix whose
// values it serializes.
type ValueMatrix interface {
	mat.Matrix
	NNZ() int
}

// Options configures a single SPF write.
type Options struct {
	// TransposeOutput swaps rows and columns in piece origins, shape
	// c-vectors, and the residual index, per spec.md §4.4.
	TransposeOutput bool
}

// Write serializes inv (an order-1 or already-augmented inventory) and
// the values of m into SPF, following spec.md §4.4 and §6.1.
//
// Write takes an *inventory.Inventory rather than a raw piece list so
// that both of spec.md §4.4's two constructor shapes -- "the order-1
// piece list" and "an already-augmented inventory" -- are just calls to
// inventory.NewFromPieces followed, optionally, by augment.Run before
// Write is invoked; the writer itself only ever has one job, serializing
// whatever inventory it is handed.
func Write(w io.Writer, inv *inventory.Inventory, m ValueMatrix, opts Options) error {
	nrows, ncols := m.Dims()

	nnz, incNNZ, err := countNNZ(inv)
	if err != nil {
		return err
	}
	if nnz != m.NNZ() {
		return fmt.Errorf("%w: pieces=%d matrix=%d", ErrNNZMismatch, nnz, m.NNZ())
	}

	shapeOrder := inv.ShapeIDsInFirstAppearanceOrder()
	denseID := make(map[int]int, len(shapeOrder))
	for i, id := range shapeOrder {
		denseID[id] = i
	}

	shapeDimsMax := 0
	for _, id := range shapeOrder {
		mp, err := inv.Shape(id)
		if err != nil {
			return err
		}
		if mp.Order > shapeDimsMax {
			shapeDimsMax = mp.Order
		}
	}

	effRows, effCols := nrows, ncols
	if opts.TransposeOutput {
		effRows, effCols = ncols, nrows
	}

	var buf bytes.Buffer
	header := make([]byte, headerSize)
	putI32(header, offNNZ, nnz)
	putI32(header, offIncNNZ, incNNZ)
	putI32(header, offNRows, effRows)
	putI32(header, offNCols, effCols)
	putI16(header, offDims, storedDims)
	putI32(header, offNumBaseShapes, len(shapeOrder))
	putI32(header, offNumHierShapes, numHierShapes)
	// offDataPtr is back-patched below.
	buf.Write(header)

	writeI16(&buf, int16(shapeDimsMax))
	for i := 0; i < shapeDimsMax; i++ {
		writeI32(&buf, 0)
	}

	for _, id := range shapeOrder {
		u, err := geometry.MetaPatternToHyperrectangleUWC(id, inv.ChainLookup())
		if err != nil {
			return err
		}
		if opts.TransposeOutput {
			u = transposeUWC(u)
		}

		order := u.Dim()
		writeI16(&buf, int16(denseID[id]))
		writeI16(&buf, int16(EncodingVertexRectangle))
		writeI16(&buf, int16(order))
		for k := 0; k < order; k++ {
			writeI32(&buf, 0) // minimal corner
		}
		for k := 0; k < order; k++ {
			writeI32(&buf, int32(u.W[k])) // length-along-axis = N_k - 1
		}
		for k := 0; k < order; k++ {
			writeI32(&buf, 1) // stride, always 1
		}
		for k := 0; k < 2*order; k++ {
			writeI32(&buf, int32(u.C[k]))
		}
	}

	// Origin table and non-residual value payload walk the piece map
	// together, in its insertion order, since that order is what both the
	// running data_offset and the value payload's "piece order" are
	// defined against (spec.md §4.4, §6.1). Residual cells are held back
	// into residualPts/residualVals: the residual index (built below by
	// encodeResidual) may reorder them from insertion order into
	// post-transpose row-major order for its CSR encoding, and the
	// residual value payload must follow that exact same permutation or
	// reader.go pairs each reconstructed coordinate with the wrong value.
	var origins bytes.Buffer
	var values bytes.Buffer
	numOrigins := 0
	running := 0

	var residualPts []rc
	var residualVals []float64

	for _, coord := range inv.Pieces.Keys() {
		id, _ := inv.Pieces.Get(coord)

		if id == inventory.ResidualID {
			row, col := coord.Row, coord.Col
			if opts.TransposeOutput {
				row, col = col, row
			}
			residualPts = append(residualPts, rc{row: row, col: col})
			residualVals = append(residualVals, m.At(coord.Row, coord.Col))
			continue
		}

		u, err := geometry.MetaPatternToHyperrectangleUWC(id, inv.ChainLookup())
		if err != nil {
			return err
		}

		vals, err := recursiveTraverse(coord.Row, coord.Col, u, m)
		if err != nil {
			return err
		}
		for _, v := range vals {
			writeF64(&values, v)
		}

		row, col := coord.Row, coord.Col
		if opts.TransposeOutput {
			row, col = col, row
		}
		writeI16(&origins, int16(denseID[id]))
		writeI32(&origins, int32(row))
		writeI32(&origins, int32(col))
		writeI32(&origins, int32(running))
		running += len(vals)
		numOrigins++
	}

	writeI32(&buf, int32(numOrigins))
	buf.Write(origins.Bytes())

	residualBytes, order := encodeResidual(residualPts, effRows)
	buf.Write(residualBytes)
	for _, idx := range order {
		writeF64(&values, residualVals[idx])
	}

	dataPtr := buf.Len()
	buf.Write(values.Bytes())

	out := buf.Bytes()
	putI32(out, offDataPtr, dataPtr)

	_, err = w.Write(out)
	return err
}

// countNNZ sums cell counts across the inventory's pieces, and separately
// the cells contributed by pieces with N>1 (inc_nnz).
func countNNZ(inv *inventory.Inventory) (nnz, incNNZ int, err error) {
	for _, coord := range inv.Pieces.Keys() {
		id, _ := inv.Pieces.Get(coord)
		if id == inventory.ResidualID {
			nnz++
			continue
		}
		if _, err := inv.Shape(id); err != nil {
			return 0, 0, err
		}
		u, err := geometry.MetaPatternToHyperrectangleUWC(id, inv.ChainLookup())
		if err != nil {
			return 0, 0, err
		}
		dense, err := geometry.ConvexHullHyperrectangleND(u, true)
		if err != nil {
			return 0, 0, err
		}
		n := len(dense)
		nnz += n
		incNNZ += n // every non-residual shape has base N > 1 by construction
	}
	return nnz, incNNZ, nil
}

// transposeUWC swaps row/col in a hyperrectangle UWC's c-vector, pairwise
// per axis, leaving U and w untouched (spec.md §4.4).
func transposeUWC(u geometry.UWC) geometry.UWC {
	c := make([]int, len(u.C))
	for k := 0; k < len(c); k += 2 {
		c[k], c[k+1] = u.C[k+1], u.C[k]
	}
	return geometry.UWC{U: u.U, W: u.W, C: c}
}

// recursiveTraverse yields the values of every cell a shape (or the
// singleton residual pattern) covers from the given origin, via
// depth-first expansion of the dense hull -- outermost axis varies
// slowest, matching spec.md §4.4's recursive_traverse.
func recursiveTraverse(row, col int, u geometry.UWC, m ValueMatrix) ([]float64, error) {
	pts, err := geometry.ConvexHullHyperrectangleND(u, true)
	if err != nil {
		return nil, err
	}
	vals := make([]float64, len(pts))
	for i, pt := range pts {
		r, c := row, col
		for axis, k := range pt {
			r += k * u.C[2*axis]
			c += k * u.C[2*axis+1]
		}
		vals[i] = m.At(r, c)
	}
	return vals, nil
}

// rc is a residual cell's (row, col), already in output (post-transpose)
// coordinate space by the time it reaches encodeResidual.
type rc struct{ row, col int }

// encodeResidual builds the residual-format byte plus its index body,
// choosing CSR iff nrows+1+resid <= 2*resid (spec.md §8), else COO. It
// also returns order, the permutation (indices into points) the index
// body was written in; the caller must write the matching residual
// values in that same order, since a CSR index is not necessarily in
// points' original (insertion) order.
func encodeResidual(points []rc, effRows int) (encoded []byte, order []int) {
	resid := len(points)
	order = make([]int, resid)
	for i := range order {
		order[i] = i
	}

	var buf bytes.Buffer

	useCSR := effRows+1+resid <= 2*resid
	if useCSR {
		writeByte(&buf, ResidualCSR)

		// CSR demands column indices grouped by row regardless of the
		// piece map's insertion order, so sort a copy of the index
		// rather than assume the residuals already arrived row-major
		// (true before any transpose, not guaranteed after one). order
		// carries this same permutation back to the caller so the
		// value payload stays paired with the right coordinate.
		sort.Slice(order, func(i, j int) bool {
			pi, pj := points[order[i]], points[order[j]]
			if pi.row != pj.row {
				return pi.row < pj.row
			}
			return pi.col < pj.col
		})

		indptr := make([]int32, effRows+1)
		for _, idx := range order {
			if row := points[idx].row; row+1 < len(indptr) {
				indptr[row+1]++
			}
		}
		for i := 1; i < len(indptr); i++ {
			indptr[i] += indptr[i-1]
		}
		for _, v := range indptr {
			writeI32(&buf, v)
		}
		for _, idx := range order {
			writeI32(&buf, int32(points[idx].col))
		}
	} else {
		writeByte(&buf, ResidualCOO)
		for _, p := range points {
			writeI32(&buf, int32(p.row))
		}
		for _, p := range points {
			writeI32(&buf, int32(p.col))
		}
	}

	return buf.Bytes(), order
}

func putI32(b []byte, off, v int) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(int32(v)))
}

func putI16(b []byte, off, v int) {
	binary.LittleEndian.PutUint16(b[off:off+2], uint16(int16(v)))
}

func writeI32(buf *bytes.Buffer, v int32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	buf.Write(tmp[:])
}

func writeI16(buf *bytes.Buffer, v int16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], uint16(v))
	buf.Write(tmp[:])
}

func writeF64(buf *bytes.Buffer, v float64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
	buf.Write(tmp[:])
}

func writeByte(buf *bytes.Buffer, v byte) {
	buf.WriteByte(v)
}
