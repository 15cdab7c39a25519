package cli

import "errors"

// ErrUsage matches every error caused by bad flags, config or input rather
// than by a failure inside the pipeline.
var ErrUsage = errors.New("cli usage error")

// Process exit codes returned by ExitCode.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type usageError struct {
	msg   string
	cause error
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

// withUsage reports cause to the user as msg while keeping it reachable
// through errors.As.
func withUsage(cause error, msg string) error {
	return usageError{msg: msg, cause: cause}
}

func (e usageError) Error() string { return e.msg }

func (e usageError) Unwrap() error { return e.cause }

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, ErrUsage):
		return exitUsage
	default:
		return exitFailure
	}
}
