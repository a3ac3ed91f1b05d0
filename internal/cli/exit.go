package cli

import (
	"errors"
	"strings"

	stac "github.com/stac-utils/go-stac"
)

// Exit codes returned by the stac binary.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
	ExitInput   = 3
	ExitConfig  = 10
	ExitFetch   = 11
)

// inputError marks an error as a failure to read or decode the input
// document rather than a validation verdict.
type inputError struct {
	err error
}

func (e *inputError) Error() string { return e.err.Error() }
func (e *inputError) Unwrap() error { return e.err }

// configError marks an error as invalid configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// usage-error message prefixes produced by cobra and pflag. Neither library
// exposes a typed error for these, so the message is all there is to go on.
var usageErrorPrefixes = []string{
	"unknown flag:",
	"unknown shorthand flag:",
	"unknown command",
	"invalid argument",
	"flag needs an argument:",
	"accepts ",
	"requires at least",
	"required flag(s)",
}

func isUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range usageErrorPrefixes {
		if strings.HasPrefix(msg, prefix) {
			return true
		}
	}
	return false
}

// ExitCodeForError maps an error returned by Execute to a process exit code.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitOK
	}
	if isUsageError(err) {
		return ExitUsage
	}
	var inputErr *inputError
	if errors.As(err, &inputErr) {
		return ExitInput
	}
	var configErr *configError
	if errors.As(err, &configErr) {
		return ExitConfig
	}
	var fetchErr *stac.FetchError
	if errors.As(err, &fetchErr) {
		return ExitFetch
	}
	return ExitFailure
}
