package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2 // store/config tidak bisa dibuka, argumen salah
)

type ExitError struct {
	Code    int
	Message string
	Err     error
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

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode: ExitFailure kalau bukan ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

type CLIResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data,omitempty"`
}

// Success: json → envelope; text → fungsi text dipanggil.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == "json" {
		b, err := sonic.ConfigStd.MarshalIndent(CLIResponse{Status: "ok", Data: data}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(f.Writer, string(b))
		return err
	}
	return text(f.Writer)
}
