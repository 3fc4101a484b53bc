// Package xxh3 includes tests for the XXH3 hasher adapter.
package xxh3

import (
	"regexp"
	"testing"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{16}$`)

// TestHasherHashDeterministic ensures repeated hashing yields the same digest.
func TestHasherHashDeterministic(t *testing.T) {
	t.Parallel()

	h := New()
	got, err := h.Hash([]byte("GEThttp://example.com/"))
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if !hexDigest.MatchString(got) {
		t.Fatalf("expected 16 lowercase hex chars, got %q", got)
	}
	again, err := h.Hash([]byte("GEThttp://example.com/"))
	if err != nil {
		t.Fatalf("Hash() repeat error = %v", err)
	}
	if again != got {
		t.Fatalf("expected deterministic hash, got %s vs %s", got, again)
	}
	other, err := h.Hash([]byte("POSThttp://example.com/"))
	if err != nil {
		t.Fatalf("Hash() other error = %v", err)
	}
	if other == got {
		t.Fatalf("expected different inputs to produce different digests")
	}
}

// TestHasherEmptyInput checks the published XXH3-64 digest of the empty input.
func TestHasherEmptyInput(t *testing.T) {
	t.Parallel()

	got, err := New().Hash(nil)
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if want := "2d06800538d394c2"; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestHexPadsToSixteen(t *testing.T) {
	t.Parallel()

	if got := Hex(0xab); got != "00000000000000ab" {
		t.Fatalf("unexpected hex %q", got)
	}
}
