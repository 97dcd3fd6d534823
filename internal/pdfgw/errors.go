package pdfgw

import (
	"errors"
	"fmt"
)

// Error categories for gateway failures. Boundaries map these to user-facing
// responses with errors.Is; the raw transport error stays wrapped underneath.
var (
	// ErrInvalidFile covers rejected uploads: wrong content type, empty file,
	// or a payload the service could not parse (HTTP 400).
	ErrInvalidFile = errors.New("invalid pdf file")
	// ErrNotFound covers unknown projects or schedules (HTTP 404).
	ErrNotFound = errors.New("not found")
	// ErrTooLarge covers payloads over the size limit (local check or HTTP 413).
	ErrTooLarge = errors.New("file too large")
	// ErrServerFailure covers HTTP 500 from the service.
	ErrServerFailure = errors.New("pdf service failure")
	// ErrUnreachable covers connection-level failures before any HTTP status.
	ErrUnreachable = errors.New("pdf service unreachable")
)

// mapStatus converts a non-2xx gateway status into a categorized error.
// detail is the server-supplied message, when one could be parsed.
func mapStatus(code int, detail string) error {
	switch code {
	case 400:
		return fmt.Errorf("pdfgw: %w: malformed input or parse failure", ErrInvalidFile)
	case 404:
		return fmt.Errorf("pdfgw: %w", ErrNotFound)
	case 413:
		return fmt.Errorf("pdfgw: %w", ErrTooLarge)
	case 500:
		return fmt.Errorf("pdfgw: %w", ErrServerFailure)
	default:
		if detail != "" {
			return fmt.Errorf("pdfgw: status %d: %s", code, detail)
		}
		return fmt.Errorf("pdfgw: status %d", code)
	}
}
