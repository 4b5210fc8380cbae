package hashlife

import "errors"

// Cache errors
var (
	// ErrPreconditionViolated indicates that GetInner was called with
	// children that do not all share the same level. Indicates a bug in
	// the caller; fatal to the operation.
	ErrPreconditionViolated = errors.New("hashlife: children do not share a level")
)

// Universe errors
var (
	// ErrNotRepresentable indicates that growing the universe further
	// would push the root level past MaxLevel, the largest level whose
	// side length (1 << level) still fits in a Dim.
	ErrNotRepresentable = errors.New("hashlife: coordinate not representable at this level")
)
