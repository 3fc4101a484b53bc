package scan

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Outcome is the terminal state reported for a URL that produced a response.
type Outcome string

// Reported outcomes.
const (
	OutcomeSaved   Outcome = "saved"
	OutcomeSkipped Outcome = "skipped"
)

// Request is a fully specified request derived from one input line.
type Request struct {
	// RawURL is the input line exactly as read.
	RawURL string
	// Method is the effective method after defaulting.
	Method string
	URL    *url.URL
	Header http.Header
	// Host overrides the Host header when a "Host:" header was configured.
	Host string
	Body string
	// BodySet marks an explicitly configured body, which may be empty.
	BodySet bool
	// RawHeaders are the configured header strings in their original order.
	RawHeaders []string
}

// HasBody reports whether a request body was configured. An explicitly
// configured empty body counts.
func (r Request) HasBody() bool {
	return r.BodySet || r.Body != ""
}

// KeyMaterial returns the bytes identifying this request for file naming:
// method, raw URL, body and raw headers concatenated without separators.
func (r Request) KeyMaterial() []byte {
	var b strings.Builder
	b.WriteString(r.Method)
	b.WriteString(r.RawURL)
	b.WriteString(r.Body)
	for _, h := range r.RawHeaders {
		b.WriteString(h)
	}
	return []byte(b.String())
}

// Response is the fully read result of executing a Request.
type Response struct {
	// URL is the final URL after redirects.
	URL        *url.URL
	StatusCode int
	ProtoMajor int
	ProtoMinor int
	Header     http.Header
	Body       []byte
	Duration   time.Duration
}
