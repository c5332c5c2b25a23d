package emissions

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors, compared with errors.Is.
var (
	// ErrNegativeUsage is returned by input validation for a usage amount below zero.
	ErrNegativeUsage = constError("usage cannot be negative")

	// ErrInvalidUsage is returned for NaN or infinite usage amounts.
	ErrInvalidUsage = constError("invalid usage value")

	// ErrReductionOutOfRange is returned for a reduction percent outside [0,100].
	ErrReductionOutOfRange = constError("reduction percent must be between 0 and 100")

	// ErrUnknownCategory is returned when a category name cannot be parsed.
	ErrUnknownCategory = constError("unknown utility category")
)
