package scan

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// DefaultMethod is used when no method is configured or the configured one is
// not a valid HTTP token.
const DefaultMethod = http.MethodGet

// RequestConfig holds the request settings shared by every URL in a run.
type RequestConfig struct {
	Method string
	Body   string
	// BodySet marks an explicitly configured body, which may be empty.
	BodySet bool
	Headers []string
}

// HasBody reports whether a body was configured, empty or not.
func (c RequestConfig) HasBody() bool {
	return c.BodySet || c.Body != ""
}

// Builder turns raw URL lines into Requests. The effective method and the
// parsed header set are computed once and copied into each Request.
type Builder struct {
	method     string
	body       string
	hasBody    bool
	rawHeaders []string
	header     http.Header
	host       string
}

// NewBuilder prepares a Builder for cfg.
func NewBuilder(cfg RequestConfig) *Builder {
	header, host := ParseHeaders(cfg.Headers)
	return &Builder{
		method:     EffectiveMethod(cfg.Method, cfg.HasBody()),
		body:       cfg.Body,
		hasBody:    cfg.HasBody(),
		rawHeaders: append([]string(nil), cfg.Headers...),
		header:     header,
		host:       host,
	}
}

// Method returns the effective method every Request will use.
func (b *Builder) Method() string {
	return b.method
}

// Build parses rawURL and returns the Request to execute for it.
func (b *Builder) Build(rawURL string) (Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Request{}, fmt.Errorf("%w %q: %v", ErrInvalidURL, rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Request{}, fmt.Errorf("%w %q: missing scheme or host", ErrInvalidURL, rawURL)
	}
	return Request{
		RawURL:     rawURL,
		Method:     b.method,
		URL:        u,
		Header:     b.header.Clone(),
		Host:       b.host,
		Body:       b.body,
		BodySet:    b.hasBody,
		RawHeaders: b.rawHeaders,
	}, nil
}

// EffectiveMethod applies the defaulting rule: a body with the default GET
// (in any case) becomes POST, any other method is kept verbatim, and a method
// that is not a valid token falls back to GET. Promotion looks at the method
// as configured, so an invalid method with a body is sent as GET.
func EffectiveMethod(method string, hasBody bool) string {
	if hasBody && strings.EqualFold(method, DefaultMethod) {
		return http.MethodPost
	}
	if !httpguts.ValidHeaderFieldName(method) {
		return DefaultMethod
	}
	return method
}

// ParseHeaders parses "Name: value" strings. Entries without a colon or with
// an invalid name or value are dropped. A Host entry is returned separately
// because net/http ignores it in the header map.
func ParseHeaders(raw []string) (http.Header, string) {
	header := make(http.Header, len(raw))
	var host string
	for _, h := range raw {
		name, value, ok := parseHeader(h)
		if !ok {
			continue
		}
		if strings.EqualFold(name, "Host") {
			host = value
			continue
		}
		header.Add(name, value)
	}
	return header, host
}

// DroppedHeaders returns the entries ParseHeaders would ignore.
func DroppedHeaders(raw []string) []string {
	var dropped []string
	for _, h := range raw {
		if _, _, ok := parseHeader(h); !ok {
			dropped = append(dropped, h)
		}
	}
	return dropped
}

func parseHeader(h string) (string, string, bool) {
	name, value, ok := strings.Cut(h, ":")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if !httpguts.ValidHeaderFieldName(name) || !httpguts.ValidHeaderFieldValue(value) {
		return "", "", false
	}
	return name, value, true
}
