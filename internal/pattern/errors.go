package pattern

import "errors"

var (
	// ErrShortPattern is returned for any pattern line with N < 2; the
	// singleton (1,0,0) triple is reserved for residuals and is never
	// valid user input.
	ErrShortPattern = errors.New("pattern: N must be >= 2")

	// ErrBlankLine is returned for a blank line in the pattern file.
	ErrBlankLine = errors.New("pattern: blank line in pattern file")

	// ErrMalformedLine is returned for a pattern line that does not
	// parse as "(N,I,J)".
	ErrMalformedLine = errors.New("pattern: malformed pattern line")

	// ErrUnknownMode is returned for a search mode string other than
	// "PatternFirst" or "CellFirst".
	ErrUnknownMode = errors.New("pattern: unknown search mode")
)
