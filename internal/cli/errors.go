package cli

// ValidationExitError is returned when a validation command finds problems
// and the caller asked for a non-zero exit. main uses ExitCode as the
// process exit status.
type ValidationExitError struct {
	ExitCode int
	Reason   string
}

func (e *ValidationExitError) Error() string {
	return e.Reason
}

// validationFailedExitCode distinguishes data problems from runtime errors (1).
const validationFailedExitCode = 2
