package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/hecate/internal/loader"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Scenario failure
	ExitCommandError = 2 // Command error (unreadable input, bad module, unusable output path, store failure)
)

// Error codes the CLI adds to the loader's E001-E010.
const (
	ErrCodeWriteFailed = "E101" // Output file could not be created or written
	ErrCodeStore       = "E102" // Translation store failure
	ErrCodeNotFound    = "E103" // Input path not found
	ErrCodeNoModules   = "E104" // Directory holds no module documents
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)

	// reported is set once the error has been written through an
	// OutputFormatter, so main does not print it a second time.
	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// reportedExit wraps err like WrapExitError and marks it as already
// written to the user.
func reportedExit(code int, message string, err error) *ExitError {
	e := WrapExitError(code, message, err)
	e.reported = true
	return e
}

// IsReported reports whether err was already written to the user by the
// command that returned it.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.reported
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E101", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// ErrorLocation is the Details payload for errors tied to a source position.
type ErrorLocation struct {
	Path   string `json:"path,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
// Text errors go to ErrWriter so they never mix with assembly on stdout.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	w := f.GetErrWriter()
	fmt.Fprintf(w, "Error [%s]: %s\n", code, message)
	if loc, ok := details.(*ErrorLocation); ok && loc != nil {
		fmt.Fprintf(w, "  at %s\n", loc)
	} else if f.Verbose && details != nil {
		fmt.Fprintf(w, "Details: %v\n", details)
	}
	return nil
}

// String renders the location as path:line:column, dropping unknown parts.
func (l *ErrorLocation) String() string {
	switch {
	case l.Line > 0 && l.Column > 0:
		return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
	case l.Line > 0:
		return fmt.Sprintf("%s:%d", l.Path, l.Line)
	}
	return l.Path
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// LoadFailure writes a module load error and returns the matching
// command-level ExitError.
func (f *OutputFormatter) LoadFailure(err error) error {
	code, message, loc := describeLoadError(err)
	var details interface{}
	if loc != nil {
		details = loc
	}
	_ = f.Error(code, message, details)
	return reportedExit(ExitCommandError, "loading module", err)
}

// describeLoadError splits an error into a code, a message and, for
// loader errors, the source location.
func describeLoadError(err error) (string, string, *ErrorLocation) {
	var le *loader.LoadError
	if !errors.As(err, &le) {
		return loader.ErrCodeGeneric, err.Error(), nil
	}
	loc := &ErrorLocation{Path: le.Path, Line: le.Line}
	if le.Pos.IsValid() {
		loc.Path = le.Pos.Filename()
		loc.Line = le.Pos.Line()
		loc.Column = le.Pos.Column()
	}
	if loc.Path == "" && loc.Line == 0 {
		loc = nil
	}
	return le.Code, le.Message, loc
}
