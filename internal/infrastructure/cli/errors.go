package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/printhooks/pkg/application"
	"github.com/felixgeelhaar/printhooks/pkg/domain/profile"
	"github.com/felixgeelhaar/printhooks/pkg/infrastructure/host"
	"github.com/felixgeelhaar/printhooks/pkg/storage"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var statusErr *host.StatusError
	if errors.As(err, &statusErr) && statusErr.Code == 403 {
		return NewCLIError("host rejected the API key", "Set host.api_key in .printhooks/config.yaml or PRINTHOOKS_API_KEY", err)
	}

	var saveErr *application.SaveError
	if errors.As(err, &saveErr) {
		return NewCLIError("settings were not saved, no test event was sent", "Check that the host is reachable and retry 'printhooks test'", err)
	}

	var fireErr *application.TestFireError
	if errors.As(err, &fireErr) {
		return NewCLIError(
			fmt.Sprintf("settings saved but test event %q failed", fireErr.Event),
			"Check the profile URL and the host log, then retry 'printhooks test'",
			err,
		)
	}

	var indexErr *profile.IndexError
	if errors.As(err, &indexErr) {
		return NewCLIError(indexErr.Error(), "Run 'printhooks profile list' to see valid indexes", err)
	}

	var fieldErr *profile.FieldError
	if errors.As(err, &fieldErr) {
		return NewCLIError(fmt.Sprintf("invalid value for %s", fieldErr.Key), "Run 'printhooks profile show' to see current values", err)
	}

	switch {
	case errors.Is(err, application.ErrBusy):
		return NewCLIError("a save-and-test is already running", "Wait for it to finish, then retry", err)
	case errors.Is(err, profile.ErrNoSelection):
		return NewCLIError("no profile selected", "Run 'printhooks profile add' to create one", err)
	case errors.Is(err, profile.ErrUnknownField):
		return NewCLIError("unknown profile field", "Run 'printhooks profile show' to list fields", err)
	case errors.Is(err, application.ErrTemplateNotFound):
		return NewCLIError("template not found", "Run 'printhooks template list' to see available templates", err)
	case errors.Is(err, profile.ErrUnsupportedVersion):
		return NewCLIError("settings were written by a newer plugin", "Upgrade printhooks before importing", err)
	case errors.Is(err, storage.ErrNoPluginSettings):
		return NewCLIError("host config has no webhooks section", "Pass the host's config.yaml, usually ~/.octoprint/config.yaml", err)
	}

	return err
}
