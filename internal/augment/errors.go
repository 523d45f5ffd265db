package augment

import "errors"

var (
	// ErrBadCutoff is returned when piece_cutoff < 2: a cutoff of 1
	// would let a single repetition "absorb" itself, which is not a
	// meaningful meta-pattern.
	ErrBadCutoff = errors.New("augment: piece_cutoff must be >= 2")

	// ErrBadTargetDim is returned when target_dim < 2.
	ErrBadTargetDim = errors.New("augment: target_dim must be >= 2")
)
