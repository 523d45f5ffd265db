package mtx

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/james-bowman/sparse"
)

// Load parses r as a coordinate-format MatrixMarket stream and returns a
// *sparse.CSR whose nonzero iteration order matches its stored (CSR)
// order, per spec.md §5's ordering guarantee.
func Load(r io.Reader, opts LoadOptions) (*sparse.CSR, error) {
	buf := bufio.NewReader(r)

	h, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}
	if err := parseComment(buf); err != nil {
		return nil, err
	}
	if err := parseDimensions(buf, h); err != nil {
		return nil, err
	}

	if h.format == FormatArray {
		return nil, ErrDenseInput
	}

	return parseCoordinate(buf, h, opts)
}

// parseHeader reads and validates the "%%MatrixMarket matrix <format>
// <type> <symmetry>" line.
func parseHeader(buf *bufio.Reader) (*header, error) {
	line, err := buf.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}

	tokens := strings.Fields(strings.TrimSpace(line))
	if len(tokens) != 5 {
		return nil, fmt.Errorf("%w: got %d tokens, want 5", ErrBadHeader, len(tokens))
	}
	if !strings.EqualFold(tokens[0], "%%MatrixMarket") {
		return nil, fmt.Errorf("%w: missing %%%%MatrixMarket banner", ErrBadHeader)
	}
	if !strings.EqualFold(tokens[1], "matrix") {
		return nil, fmt.Errorf("%w: unsupported object %q, expected matrix", ErrBadHeader, tokens[1])
	}

	h := &header{}
	switch strings.ToLower(tokens[2]) {
	case FormatArray, FormatCoordinate:
		h.format = strings.ToLower(tokens[2])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, tokens[2])
	}

	switch strings.ToLower(tokens[3]) {
	case TypeReal, TypeInteger, TypeComplex, TypePattern:
		h.typ = strings.ToLower(tokens[3])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, tokens[3])
	}

	switch strings.ToLower(tokens[4]) {
	case General, Symmetric, SkewSymmetric, Hermitian:
		h.symmetry = strings.ToLower(tokens[4])
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSymmetry, tokens[4])
	}

	return h, nil
}

// parseComment consumes comment ('%'-prefixed) and blank lines between
// the header and the dimensions line. EOF ends the scan without error.
func parseComment(buf *bufio.Reader) error {
	for {
		b, err := buf.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch b[0] {
		case '%', '\n', ' ', '\t', '\r':
			if _, err := buf.ReadBytes('\n'); err != nil && err != io.EOF {
				return err
			}
		default:
			return nil
		}
	}
}

// parseDimensions parses "rows cols [nnz]" into h.
func parseDimensions(buf *bufio.Reader, h *header) error {
	line, err := buf.ReadString('\n')
	if err != nil && err != io.EOF {
		return err
	}
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) < 2 {
		return fmt.Errorf("%w: %q", ErrBadDimensions, line)
	}

	rows, err := strconv.Atoi(fields[0])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDimensions, err)
	}
	cols, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDimensions, err)
	}
	h.rows, h.cols = rows, cols

	if h.format == FormatArray {
		h.lines = rows * cols
		return nil
	}
	if len(fields) < 3 {
		return fmt.Errorf("%w: coordinate format requires an nnz count: %q", ErrBadDimensions, line)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadDimensions, err)
	}
	h.lines = n
	return nil
}

// parseCoordinate reads triplet lines until the end of input (blank lines
// are skipped; the count in h.lines is not checked), mirroring symmetric /
// skew-symmetric off-diagonal entries, and assembles a CSR via COO.
func parseCoordinate(buf *bufio.Reader, h *header, opts LoadOptions) (*sparse.CSR, error) {
	if h.rows == 0 || h.cols == 0 {
		return nil, fmt.Errorf("%w: empty dimensions (%d, %d)", ErrBadDimensions, h.rows, h.cols)
	}

	nrows, ncols := h.rows, h.cols
	if opts.Transpose {
		nrows, ncols = ncols, nrows
	}
	coo := sparse.NewCOO(nrows, ncols, nil, nil, nil)

	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		i, j, v, err := splitTriplet(line)
		if err != nil {
			return nil, err
		}
		if math.Abs(v) < math.SmallestNonzeroFloat64 {
			continue
		}

		r, c := i-1, j-1
		if opts.Transpose {
			r, c = c, r
		}
		coo.Set(r, c, v)

		if i != j {
			switch h.symmetry {
			case Symmetric:
				rr, cc := j-1, i-1
				if opts.Transpose {
					rr, cc = cc, rr
				}
				coo.Set(rr, cc, v)
			case SkewSymmetric:
				rr, cc := j-1, i-1
				if opts.Transpose {
					rr, cc = cc, rr
				}
				coo.Set(rr, cc, -v)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return coo.ToCSR(), nil
}

// splitTriplet parses "i j v" (pattern-type files omit v and default to 1).
func splitTriplet(s string) (i, j int, v float64, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 && len(fields) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrBadEntry, s)
	}

	i, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadEntry, err)
	}
	j, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadEntry, err)
	}
	if len(fields) == 2 {
		return i, j, 1, nil
	}
	v, err = strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrBadEntry, err)
	}
	return i, j, v, nil
}
