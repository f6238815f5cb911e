package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation    = "operation"
	KeyStatus       = "status"
	KeyError        = "error"
	KeyIdentityHash = "identity_hash"
	KeyEventID      = "event_id"
	KeyDuration     = "duration"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Setup installs the process-wide default logger. Debug mode lowers the
// level from Info to Debug.
func Setup(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// EventID returns a slog attribute for a calendar event id.
func EventID(id string) slog.Attr {
	return slog.String(KeyEventID, id)
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted
// from output, so Err(maybeNilErr) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeIdentity returns a hashed representation of a user identity for
// logging purposes. This allows correlation of log entries without
// exposing PII.
func AnonymizeIdentity(identity string) string {
	if identity == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(identity))
	return "user:" + hex.EncodeToString(hash[:8])
}

// IdentityHash returns a slog attribute with the anonymized user identity.
func IdentityHash(identity string) slog.Attr {
	return slog.String(KeyIdentityHash, AnonymizeIdentity(identity))
}

// SanitizeToken returns a masked version of a token for logging.
// It returns a length indicator without exposing any token content,
// as even partial token prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
