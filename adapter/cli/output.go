package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	onboardingDomain "github.com/felixgeelhaar/onramp/internal/onboarding/domain"
	paymentDomain "github.com/felixgeelhaar/onramp/internal/payment/domain"
	"github.com/spf13/cobra"
)

// Render writes v as indented JSON when --json is set and calls text
// otherwise.
func Render(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

const unexpectedMessage = "An unexpected error occurred."

// UserError is a command failure reduced to the text a user may see. The
// cause stays reachable through errors.Is and errors.As but is never part
// of Error.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string { return e.Message }

func (e *UserError) Unwrap() error { return e.Err }

// Friendly maps err to its sanitized message and logs the cause. Causes
// without a mapped message are logged at error level, the rest at debug.
func Friendly(cmd *cobra.Command, err error) error {
	if err == nil {
		return nil
	}
	msg := onboardingDomain.UserMessage(err)
	if msg == unexpectedMessage {
		msg = paymentDomain.UserMessage(err)
	}

	l := logger
	if l == nil {
		l = slog.Default()
	}
	level := slog.LevelDebug
	if msg == unexpectedMessage {
		level = slog.LevelError
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	l.Log(ctx, level, "command failed",
		"command", cmd.CommandPath(),
		"error", err,
	)
	return &UserError{Message: msg, Err: err}
}
