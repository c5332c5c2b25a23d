package refdata

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrStateNotFound is returned when a state name has no average.
	ErrStateNotFound = constError("state not found in dataset")

	// ErrInvalidDataset is returned when reference data cannot be parsed.
	ErrInvalidDataset = constError("invalid reference dataset")
)
