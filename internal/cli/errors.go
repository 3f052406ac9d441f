package cli

// ExitError carries a process exit code. Printed reports whether the
// command already wrote its own diagnostics.
type ExitError struct {
	Code    int
	Err     error
	Printed bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return "exit status"
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Exit codes.
const (
	ExitFailure = 1
	ExitInvalid = 2
)
