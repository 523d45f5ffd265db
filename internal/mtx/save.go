package mtx

import (
	"bufio"
	"fmt"
	"io"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Save writes m as coordinate-format MatrixMarket ("coordinate real
// general"), iterating nonzeros with DoNonZero the way the teacher's
// SaveToMatrixMarket does. opts.Order selects CSR vs. CSC traversal for
// the convert subcommand's --csr|--csc flag; it has no effect beyond
// which concrete type Save expects to receive.
func Save(w io.Writer, m mat.Matrix, opts SaveOptions) error {
	buf := bufio.NewWriter(w)

	switch v := m.(type) {
	case *sparse.CSR:
		if opts.Order != OrderCSR {
			return fmt.Errorf("%w: got *sparse.CSR with Order=CSC", ErrUnsupportedOutput)
		}
		return saveSparse(buf, v.Dims, v.NNZ, v.DoNonZero)
	case *sparse.CSC:
		if opts.Order != OrderCSC {
			return fmt.Errorf("%w: got *sparse.CSC with Order=CSR", ErrUnsupportedOutput)
		}
		return saveSparse(buf, v.Dims, v.NNZ, v.DoNonZero)
	case *mat.Dense:
		return saveDense(buf, v)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedOutput, m)
	}
}

func saveSparse(buf *bufio.Writer, dims func() (int, int), nnz func() int, doNonZero func(func(i, j int, v float64))) error {
	header := fmt.Sprintf("%%%%MatrixMarket matrix %s %s %s\n", FormatCoordinate, TypeReal, General)
	if _, err := buf.WriteString(header); err != nil {
		return err
	}

	n, m := dims()
	if _, err := fmt.Fprintf(buf, "%d %d %d\n", n, m, nnz()); err != nil {
		return err
	}

	var writeErr error
	doNonZero(func(i, j int, v float64) {
		if writeErr != nil {
			return
		}
		_, writeErr = fmt.Fprintf(buf, "%d %d %v\n", i+1, j+1, v)
	})
	if writeErr != nil {
		return writeErr
	}

	return buf.Flush()
}

func saveDense(buf *bufio.Writer, d *mat.Dense) error {
	header := fmt.Sprintf("%%%%MatrixMarket matrix %s %s %s\n", FormatArray, TypeReal, General)
	if _, err := buf.WriteString(header); err != nil {
		return err
	}

	n, m := d.Dims()
	if _, err := fmt.Fprintf(buf, "%d %d\n", n, m); err != nil {
		return err
	}

	// MatrixMarket array format is column-major.
	for c := 0; c < m; c++ {
		for r := 0; r < n; r++ {
			if _, err := fmt.Fprintf(buf, "%v\n", d.At(r, c)); err != nil {
				return err
			}
		}
	}
	return buf.Flush()
}
