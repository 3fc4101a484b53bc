// Package filter decides which responses are persisted.
//
// The decision is evaluated in a fixed order: the status policy (save-all or
// a save-status match) sets the base, ignore-html and then ignore-empty can
// veto it, and a configured match substring replaces the whole decision with
// a body search. The match step overrides the status policy rather than
// combining with it.
package filter

import (
	"bytes"

	"github.com/JakeFAU/fff/internal/scan"
)

var htmlMarker = []byte("<html")

// Policy is the save policy for a run.
type Policy struct {
	SaveAll     bool
	SaveStatus  []int
	IgnoreHTML  bool
	IgnoreEmpty bool
	// Match, when set, replaces every other rule with a raw substring
	// search over the body.
	Match string
	// MatchSet marks an explicitly configured match, which may be empty.
	// An empty match is contained in every body.
	MatchSet bool
}

// ShouldSave reports whether resp should be persisted under p.
func ShouldSave(resp scan.Response, p Policy) bool {
	save := p.SaveAll || containsStatus(p.SaveStatus, resp.StatusCode)
	if p.IgnoreHTML && IsHTML(resp.Body) {
		save = false
	}
	if p.IgnoreEmpty && IsBlank(resp.Body) {
		save = false
	}
	if p.MatchSet || p.Match != "" {
		save = bytes.Contains(resp.Body, []byte(p.Match))
	}
	return save
}

// IsHTML reports whether body contains "<html" in any letter case.
func IsHTML(body []byte) bool {
	n := len(htmlMarker)
	for i := 0; i+n <= len(body); i++ {
		if body[i] == '<' && bytes.EqualFold(body[i:i+n], htmlMarker) {
			return true
		}
	}
	return false
}

// IsBlank reports whether body is empty or only ASCII whitespace.
func IsBlank(body []byte) bool {
	for _, b := range body {
		switch b {
		case ' ', '\t', '\n', '\f', '\r':
		default:
			return false
		}
	}
	return true
}

func containsStatus(codes []int, code int) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
