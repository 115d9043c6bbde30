package kadro

import "errors"

// Sentinel errors returned by Frame and Table operations.
// All are raised synchronously at the call that caused them; a failed
// transformation never returns a partially applied Table. Match with
// errors.Is and read the wrapped message for the offending column(s).
var (
	// ErrUnknownColumn reports a reference to a column that does not exist.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDuplicateColumn reports a name collision that would break the
	// unique-column-names invariant (rename, set_names, post-join).
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrInvalidGroupColumn reports grouping by, or dropping, a column the
	// active grouping depends on.
	ErrInvalidGroupColumn = errors.New("invalid group column")

	// ErrEmptyJoinKey reports a join whose resolved key set is empty.
	ErrEmptyJoinKey = errors.New("empty join key")

	// ErrUnknownJoinColumn reports a join key absent from either table.
	ErrUnknownJoinColumn = errors.New("unknown join column")

	// ErrJoinKeyTypeMismatch reports a join key column whose left and right
	// dtypes cannot be compared. Int64 and Float64 keys are compatible
	// (compared numerically); any other dtype mix is rejected.
	ErrJoinKeyTypeMismatch = errors.New("join key type mismatch")

	// ErrPartitionLengthMismatch reports a user function whose returned
	// sequence length does not match the rows it was applied to.
	ErrPartitionLengthMismatch = errors.New("partition length mismatch")

	// ErrReducerFailure wraps an error raised by a user-supplied reducer
	// or mutation function. The partition is never silently skipped.
	ErrReducerFailure = errors.New("reducer failure")
)
