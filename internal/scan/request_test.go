package scan

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMethod(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		method  string
		hasBody bool
		want    string
	}{
		{"default without body", "GET", false, "GET"},
		{"body promotes default", "GET", true, "POST"},
		{"body promotes lowercase default", "get", true, "POST"},
		{"explicit put with body", "PUT", true, "PUT"},
		{"explicit delete without body", "DELETE", false, "DELETE"},
		{"extension method kept", "PURGE", false, "PURGE"},
		{"invalid token falls back", "GE T", false, "GET"},
		{"empty falls back", "", false, "GET"},
		{"empty with body falls back", "", true, "GET"},
		{"invalid token with body falls back to get", "B@D(", true, "GET"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, EffectiveMethod(tc.method, tc.hasBody))
		})
	}
}

func TestBuilderEmptyBody(t *testing.T) {
	t.Parallel()

	b := NewBuilder(RequestConfig{Method: "GET", BodySet: true})
	assert.Equal(t, http.MethodPost, b.Method())

	req, err := b.Build("http://example.com/")
	require.NoError(t, err)
	assert.True(t, req.HasBody())
	assert.Empty(t, req.Body)

	plain, err := NewBuilder(RequestConfig{Method: "GET"}).Build("http://example.com/")
	require.NoError(t, err)
	assert.False(t, plain.HasBody())
	assert.Equal(t, http.MethodGet, plain.Method)
}

func TestParseHeadersDropsInvalidEntries(t *testing.T) {
	t.Parallel()

	header, host := ParseHeaders([]string{
		"X-Test-Header: HeaderValue",
		"  Accept :  text/plain, application/json  ",
		"no colon here",
		"Bad Name: value",
		": empty name",
		"X-Ctl: bad\x00value",
		"Host: vhost.example",
		"X-Multi: one",
		"X-Multi: two",
		"X-Colon: a:b:c",
	})

	assert.Equal(t, "HeaderValue", header.Get("X-Test-Header"))
	assert.Equal(t, "text/plain, application/json", header.Get("Accept"))
	assert.Equal(t, []string{"one", "two"}, header.Values("X-Multi"))
	assert.Equal(t, "a:b:c", header.Get("X-Colon"))
	assert.Empty(t, header.Get("X-Ctl"))
	assert.Empty(t, header.Get("Host"))
	assert.Equal(t, "vhost.example", host)
	assert.Len(t, header, 4)
}

func TestDroppedHeaders(t *testing.T) {
	t.Parallel()

	dropped := DroppedHeaders([]string{"A: 1", "no colon", "Bad Name: v", "Host: h"})
	assert.Equal(t, []string{"no colon", "Bad Name: v"}, dropped)
	assert.Nil(t, DroppedHeaders([]string{"A: 1"}))
}

func TestBuilderBuild(t *testing.T) {
	t.Parallel()

	b := NewBuilder(RequestConfig{
		Method:  "GET",
		Body:    "test data",
		Headers: []string{"X-One: 1", "broken"},
	})
	require.Equal(t, http.MethodPost, b.Method())

	req, err := b.Build("https://example.com/a?b=c")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=c", req.RawURL)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "example.com", req.URL.Host)
	assert.Equal(t, "1", req.Header.Get("X-One"))
	assert.Equal(t, []string{"X-One: 1", "broken"}, req.RawHeaders)
	assert.True(t, req.HasBody())

	req.Header.Set("X-One", "mutated")
	again, err := b.Build("https://example.com/")
	require.NoError(t, err)
	assert.Equal(t, "1", again.Header.Get("X-One"), "requests must not share header maps")
}

func TestBuilderBuildInvalidURL(t *testing.T) {
	t.Parallel()

	b := NewBuilder(RequestConfig{Method: "GET"})
	for _, raw := range []string{"", "not a url", "example.com/path", "http://%zz", "/relative"} {
		_, err := b.Build(raw)
		require.Error(t, err, raw)
		assert.True(t, errors.Is(err, ErrInvalidURL), raw)
		assert.Contains(t, err.Error(), "invalid url")
	}
}

func TestKeyMaterial(t *testing.T) {
	t.Parallel()

	req := Request{
		Method:     "POST",
		RawURL:     "http://h/x",
		Body:       "b=1",
		RawHeaders: []string{"A: 1", "B: 2"},
	}
	assert.Equal(t, "POSThttp://h/xb=1A: 1B: 2", string(req.KeyMaterial()))
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ErrorKind(nil))
	assert.Equal(t, "network", ErrorKind(errors.Join(errors.New("x"), ErrNetwork)))
	assert.Equal(t, "persist", ErrorKind(ErrPersist))
	assert.Equal(t, "other", ErrorKind(errors.New("boom")))
}
