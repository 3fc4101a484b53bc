// Package local persists responses to a content-addressed tree on the local
// filesystem.
package local

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/fff/internal/scan"
)

// File suffixes for the two artifacts written per response.
const (
	BodySuffix    = ".body"
	HeadersSuffix = ".headers"
)

// Config captures the parameters for the local response store.
type Config struct {
	// Root is the output directory; it is created on first write.
	Root string `mapstructure:"output"`
}

// Store writes <root>/<host>/<path>/<key>.body and .headers per response.
type Store struct {
	root   string
	hasher scan.Hasher
	logger *zap.Logger
}

// New creates a Store rooted at cfg.Root.
func New(cfg Config, hasher scan.Hasher, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.Root) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if hasher == nil {
		return nil, fmt.Errorf("hasher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		root:   cfg.Root,
		hasher: hasher,
		logger: logger,
	}, nil
}

// Key returns the hex digest naming the files for req.
func (s *Store) Key(req scan.Request) (string, error) {
	key, err := s.hasher.Hash(req.KeyMaterial())
	if err != nil {
		return "", fmt.Errorf("%w: hash request: %v", scan.ErrPersist, err)
	}
	return key, nil
}

// Persist writes the body and headers artifacts and returns the body path.
func (s *Store) Persist(ctx context.Context, req scan.Request, resp scan.Response) (string, error) {
	if resp.URL == nil {
		return "", fmt.Errorf("%w: response url is required", scan.ErrPersist)
	}
	key, err := s.Key(req)
	if err != nil {
		return "", err
	}
	dir, err := s.Dir(resp)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: context canceled: %v", scan.ErrPersist, err)
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("%w: create dir %s: %v", scan.ErrPersist, dir, err)
	}

	bodyPath := filepath.Join(dir, key+BodySuffix)
	if err := writeFileAtomic(bodyPath, resp.Body); err != nil {
		return "", fmt.Errorf("%w: %v", scan.ErrPersist, err)
	}
	headersPath := filepath.Join(dir, key+HeadersSuffix)
	if err := writeFileAtomic(headersPath, FormatHeaders(req, resp)); err != nil {
		return "", fmt.Errorf("%w: %v", scan.ErrPersist, err)
	}
	s.logger.Debug("response persisted", zap.String("url", req.RawURL), zap.String("path", bodyPath))
	return bodyPath, nil
}

// Dir returns the output directory for resp: root/host/normalized-path.
func (s *Store) Dir(resp scan.Response) (string, error) {
	host := hostDir(resp.URL)
	dir := filepath.Join(s.root, host, filepath.FromSlash(NormalizePath(resp.URL)))

	// Verify the directory stays below root to prevent path traversal.
	rel, err := filepath.Rel(filepath.Clean(s.root), dir)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path traversal detected for host %q", scan.ErrPersist, host)
	}
	return dir, nil
}

// hostDir names the host directory: the lowercased hostname without port,
// with IPv6 literals kept in brackets ("[::1]").
func hostDir(u *url.URL) string {
	if u == nil || u.Hostname() == "" {
		return "unknown"
	}
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}

// writeFileAtomic replaces path with data via a temp file and rename so a
// concurrent writer of the same key never leaves a torn file.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
