package errorhandler

import (
	"bytes"
	"errors"
	"strings"

	"github.com/devantler-tech/ksync/pkg/store"
	"github.com/devantler-tech/ksync/pkg/svc/merge"
	"github.com/spf13/cobra"
)

// Exit codes returned by ExitCode.
const (
	ExitOK      = 0
	ExitFailure = 1
)

// ExitCoder is implemented by errors that carry their own process exit code.
type ExitCoder interface {
	ExitCode() int
}

// Executor coordinates Cobra execution, capturing stderr output and surfacing aggregated errors.
type Executor struct {
	normalizer DefaultNormalizer
}

// NewExecutor constructs an Executor.
func NewExecutor() *Executor {
	return &Executor{normalizer: DefaultNormalizer{}}
}

// Execute runs the provided command while intercepting Cobra's error stream.
// It returns nil on success, or a *CommandError containing both the normalized message
// and the original error to preserve error-chain semantics.
func (e *Executor) Execute(cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	var errBuf bytes.Buffer

	originalErrWriter := cmd.ErrOrStderr()

	cmd.SetErr(&errBuf)
	defer cmd.SetErr(originalErrWriter)

	err := cmd.Execute()
	if err == nil {
		return nil
	}

	return &CommandError{
		message: e.normalizer.Normalize(errBuf.String()),
		cause:   err,
	}
}

// CommandError represents a Cobra execution failure augmented with normalized stderr output.
type CommandError struct {
	message string
	cause   error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	switch {
	case e == nil:
		return ""
	case e.cause == nil:
		return e.message
	case e.message != "":
		if strings.Contains(e.message, e.cause.Error()) {
			return e.message
		}

		return e.message + ": " + e.cause.Error()
	default:
		return e.cause.Error()
	}
}

// Unwrap exposes the underlying cause for errors.Is/errors.As consumers.
func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.cause
}

// Hint returns a follow-up suggestion for the failure, or "".
func (e *CommandError) Hint() string {
	if e == nil {
		return ""
	}

	return Hint(e.cause)
}

// Hint returns a follow-up suggestion for well-known ksync failures, or "".
func Hint(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrAlreadyExists):
		return "apply only creates records; pick another --target-namespace or write a manifest with --output"
	case errors.Is(err, merge.ErrTargetMissing):
		return "the destination has no such record; merge in the other --direction"
	case errors.Is(err, merge.ErrEmptySelection):
		return "select diff lines with --select, e.g. --select L-3"
	case store.IsTransportError(err):
		return "check that both stores are reachable and retry; --retry-timeout retries transient failures"
	default:
		return ""
	}
}

// ExitCode maps err to a process exit code. Errors implementing ExitCoder
// choose their own code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return ExitFailure
}

// DefaultNormalizer cleans up the text cobra writes to stderr on failure.
type DefaultNormalizer struct{}

// Normalize trims whitespace, removes redundant "Error:" prefixes, and preserves multi-line usage hints.
func (DefaultNormalizer) Normalize(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	lines[0] = strings.TrimPrefix(strings.TrimSpace(lines[0]), "Error: ")

	return strings.Join(lines, "\n")
}
