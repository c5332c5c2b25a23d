package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

var (
	// ErrInvalidUnit indicates an unrecognized mass unit.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue indicates a negative footprint.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow indicates a NaN, infinite or overflowing value.
	ErrCalculationOverflow = constError("calculation overflow")
)
