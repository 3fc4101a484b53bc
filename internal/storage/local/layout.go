package local

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/JakeFAU/fff/internal/scan"
)

var disallowedPathChars = regexp.MustCompile(`[^a-zA-Z0-9/._-]+`)

// NormalizePath maps the path of u to a relative directory. Runs of
// characters outside [a-zA-Z0-9/._-] collapse to "-", dot segments are
// resolved, and an empty result becomes "root". Query and fragment are
// ignored.
func NormalizePath(u *url.URL) string {
	if u == nil {
		return "root"
	}
	p := disallowedPathChars.ReplaceAllString(u.EscapedPath(), "-")
	p = strings.TrimLeft(path.Clean("/"+p), "/")
	if p == "" {
		return "root"
	}
	return p
}

// FormatHeaders renders the .headers artifact: the request line, configured
// request headers, the request body if any, then the response status line and
// headers. Response header names are lowercased and sorted.
func FormatHeaders(req scan.Request, resp scan.Response) []byte {
	var b strings.Builder
	b.Grow(1024)

	fmt.Fprintf(&b, "%s %s\n\n", req.Method, req.RawURL)
	for _, h := range req.RawHeaders {
		fmt.Fprintf(&b, "> %s\n", h)
	}
	b.WriteString("\n")

	if req.HasBody() {
		b.WriteString(req.Body)
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "< HTTP/%s %d %s\n",
		ProtoVersion(resp.ProtoMajor, resp.ProtoMinor),
		resp.StatusCode,
		http.StatusText(resp.StatusCode),
	)

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, v := range resp.Header[name] {
			fmt.Fprintf(&b, "< %s: %s\n", lower, v)
		}
	}
	return []byte(b.String())
}

// ProtoVersion renders an HTTP version the way it appears in a status line.
func ProtoVersion(major, minor int) string {
	switch {
	case major == 0 && minor == 9:
		return "0.9"
	case major == 1:
		return fmt.Sprintf("1.%d", minor)
	case major >= 2:
		return fmt.Sprintf("%d", major)
	default:
		return "unknown"
	}
}
