// Package logging provides structured logging utilities for the service.
//
// It centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Security Considerations
//
//   - User identities are hashed to prevent PII leakage while still
//     allowing correlation of log entries
//   - Tokens are never logged directly; use SanitizeToken
package logging
