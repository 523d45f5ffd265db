package spf

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/james-bowman/sparse"
)

// Cell is a single decoded (row, col, value) triple, the unit spec.md
// §8's round-trip property is stated over.
type Cell struct {
	Row, Col int
	Value    float64
}

// shapeRecord is one parsed entry of the shape table.
type shapeRecord struct {
	id    int
	order int
	w     []int // lengths-along-axis, outermost first
	c     []int // lattice vector, (I_k, J_k) pairs, outermost first
}

func toIntSlice(v []int32) []int {
	out := make([]int, len(v))
	for i, x := range v {
		out[i] = int(x)
	}
	return out
}

// Decoded is the parsed form of an SPF file: enough to reconstruct the
// value matrix and to re-derive every cell's origin.
type Decoded struct {
	NNZ, IncNNZ   int
	NRows, NCols  int
	NumBaseShapes int
	Cells         []Cell
}

// Read parses r as SPF and returns every (row, col, value) triple it
// encodes. It does not return the piece/shape structure: the shape and
// origin tables are used only to place the values, and Read recovers just
// the matrix the format's round-trip property (spec.md §8) is stated over.
func Read(r io.Reader) (*Decoded, error) {
	br := newByteReader(r)

	header := make([]byte, headerSize)
	if err := br.readFull(header); err != nil {
		return nil, err
	}
	nnz := int(int32(binary.LittleEndian.Uint32(header[offNNZ:])))
	incNNZ := int(int32(binary.LittleEndian.Uint32(header[offIncNNZ:])))
	nrows := int(int32(binary.LittleEndian.Uint32(header[offNRows:])))
	ncols := int(int32(binary.LittleEndian.Uint32(header[offNCols:])))
	dims := int(int16(binary.LittleEndian.Uint16(header[offDims:])))
	numBaseShapes := int(int32(binary.LittleEndian.Uint32(header[offNumBaseShapes:])))
	dataPtr := int(int32(binary.LittleEndian.Uint32(header[offDataPtr:])))

	if dims != storedDims {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedDims, dims)
	}

	shapeDimsMax, err := br.readI16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(shapeDimsMax); i++ {
		if _, err := br.readI32(); err != nil {
			return nil, err
		}
	}

	shapes := make(map[int]shapeRecord, numBaseShapes)
	for i := 0; i < numBaseShapes; i++ {
		id, err := br.readI16()
		if err != nil {
			return nil, err
		}
		encKind, err := br.readI16()
		if err != nil {
			return nil, err
		}
		if encKind != EncodingVertexRectangle {
			return nil, fmt.Errorf("%w: got %d", ErrUnsupportedEncoding, encKind)
		}
		order, err := br.readI16()
		if err != nil {
			return nil, err
		}
		n := int(order)
		if _, err := br.readI32s(n); err != nil { // minimal corner, unused
			return nil, err
		}
		w32, err := br.readI32s(n)
		if err != nil {
			return nil, err
		}
		if _, err := br.readI32s(n); err != nil { // strides, always 1
			return nil, err
		}
		c32, err := br.readI32s(2 * n)
		if err != nil {
			return nil, err
		}
		shapes[int(id)] = shapeRecord{id: int(id), order: n, w: toIntSlice(w32), c: toIntSlice(c32)}
	}

	numOrigins, err := br.readI32()
	if err != nil {
		return nil, err
	}

	type origin struct {
		shapeID    int
		row, col   int
		dataOffset int
	}
	origins := make([]origin, numOrigins)
	for i := range origins {
		sid, err := br.readI16()
		if err != nil {
			return nil, err
		}
		row, err := br.readI32()
		if err != nil {
			return nil, err
		}
		col, err := br.readI32()
		if err != nil {
			return nil, err
		}
		off, err := br.readI32()
		if err != nil {
			return nil, err
		}
		origins[i] = origin{shapeID: int(sid), row: int(row), col: int(col), dataOffset: int(off)}
	}

	format, err := br.readByte()
	if err != nil {
		return nil, err
	}

	type rc struct{ row, col int }
	var residual []rc
	switch format {
	case ResidualCSR:
		indptr, err := br.readI32s(nrows + 1)
		if err != nil {
			return nil, err
		}
		resid := int(indptr[len(indptr)-1])
		cols, err := br.readI32s(resid)
		if err != nil {
			return nil, err
		}
		k := 0
		for row := 0; row < nrows; row++ {
			for ; k < int(indptr[row+1]); k++ {
				residual = append(residual, rc{row: row, col: int(cols[k])})
			}
		}
	case ResidualCOO:
		// resid is implied by what's left before data_ptr; read rows
		// until we've consumed exactly that many i32 pairs.
		remaining := dataPtr - br.consumed()
		resid := remaining / 8 // two i32 arrays of resid entries each
		rows, err := br.readI32s(resid)
		if err != nil {
			return nil, err
		}
		cols, err := br.readI32s(resid)
		if err != nil {
			return nil, err
		}
		for i := 0; i < resid; i++ {
			residual = append(residual, rc{row: int(rows[i]), col: int(cols[i])})
		}
	default:
		return nil, fmt.Errorf("%w: got %d", ErrUnknownResidualFormat, format)
	}

	if br.consumed() != dataPtr {
		return nil, fmt.Errorf("%w: data_ptr=%d but read %d bytes of index", ErrTruncated, dataPtr, br.consumed())
	}

	values, err := br.readF64s(nnz)
	if err != nil {
		return nil, err
	}

	var cells []Cell
	vi := 0
	for _, o := range origins {
		sh := shapes[o.shapeID]
		pts := enumerateDense(sh.w)
		for _, pt := range pts {
			row, col := o.row, o.col
			for axis, k := range pt {
				row += k * sh.c[2*axis]
				col += k * sh.c[2*axis+1]
			}
			cells = append(cells, Cell{Row: row, Col: col, Value: values[vi]})
			vi++
		}
	}
	for _, p := range residual {
		cells = append(cells, Cell{Row: p.row, Col: p.col, Value: values[vi]})
		vi++
	}

	return &Decoded{
		NNZ:           nnz,
		IncNNZ:        incNNZ,
		NRows:         nrows,
		NCols:         ncols,
		NumBaseShapes: numBaseShapes,
		Cells:         cells,
	}, nil
}

// ToCSR assembles a Decoded's cells into a *sparse.CSR of its declared
// shape, via a COO builder so duplicate-free, unsorted triples assemble
// correctly regardless of the order Cells happens to be in.
func (d *Decoded) ToCSR() *sparse.CSR {
	coo := sparse.NewCOO(d.NRows, d.NCols, nil, nil, nil)
	for _, c := range d.Cells {
		coo.Set(c.Row, c.Col, c.Value)
	}
	return coo.ToCSR()
}

// enumerateDense enumerates the full product [0,w[0]] x ... x [0,w[d-1]],
// outermost axis (index 0) slowest -- the reader's mirror of
// geometry.ConvexHullHyperrectangleND(u, dense=true), reimplemented here
// against the raw w slice so this package need not import geometry just
// to decode a file it already fully describes.
func enumerateDense(w []int) [][]int {
	d := len(w)
	axisValues := make([][]int, d)
	for k := 0; k < d; k++ {
		vals := make([]int, w[k]+1)
		for x := 0; x <= w[k]; x++ {
			vals[x] = x
		}
		axisValues[k] = vals
	}

	total := 1
	for _, vals := range axisValues {
		total *= len(vals)
	}
	points := make([][]int, 0, total)
	point := make([]int, d)
	var walk func(axis int)
	walk = func(axis int) {
		if axis == d {
			cp := make([]int, d)
			copy(cp, point)
			points = append(points, cp)
			return
		}
		for _, v := range axisValues[axis] {
			point[axis] = v
			walk(axis + 1)
		}
	}
	walk(0)
	return points
}

// byteReader is a small buffered little-endian cursor over r, tracking
// how many bytes it has consumed so the residual-COO branch (which has
// no explicit count field) can infer its length from data_ptr.
type byteReader struct {
	r    io.Reader
	n    int
	tmp8 [8]byte
}

func newByteReader(r io.Reader) *byteReader {
	return &byteReader{r: r}
}

func (b *byteReader) consumed() int { return b.n }

func (b *byteReader) readFull(p []byte) error {
	_, err := io.ReadFull(b.r, p)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return ErrTruncated
		}
		return err
	}
	b.n += len(p)
	return nil
}

func (b *byteReader) readByte() (byte, error) {
	if err := b.readFull(b.tmp8[:1]); err != nil {
		return 0, err
	}
	return b.tmp8[0], nil
}

func (b *byteReader) readI16() (int16, error) {
	if err := b.readFull(b.tmp8[:2]); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b.tmp8[:2])), nil
}

func (b *byteReader) readI32() (int32, error) {
	if err := b.readFull(b.tmp8[:4]); err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b.tmp8[:4])), nil
}

func (b *byteReader) readI32s(n int) ([]int32, error) {
	out := make([]int32, n)
	for i := range out {
		v, err := b.readI32()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (b *byteReader) readF64s(n int) ([]float64, error) {
	out := make([]float64, n)
	for i := range out {
		if err := b.readFull(b.tmp8[:8]); err != nil {
			return nil, err
		}
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b.tmp8[:8]))
	}
	return out, nil
}
