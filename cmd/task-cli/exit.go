package main

// exitError exits with code. With no wrapped error nothing is printed.
type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e exitError) ExitCode() int {
	return e.code
}

func (e exitError) Unwrap() error {
	return e.err
}

