package scan

import "errors"

// Error classes for per-URL failures. Callers wrap these with context and
// classify with errors.Is.
var (
	ErrInvalidURL         = errors.New("invalid url")
	ErrNetwork            = errors.New("request failed")
	ErrBodyRead           = errors.New("read body failed")
	ErrPersist            = errors.New("persist response failed")
	ErrClientConstruction = errors.New("create http client failed")
)

// ErrorKind returns a short label for err, suitable for metrics.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrBodyRead):
		return "body_read"
	case errors.Is(err, ErrPersist):
		return "persist"
	case errors.Is(err, ErrClientConstruction):
		return "client"
	default:
		return "other"
	}
}
