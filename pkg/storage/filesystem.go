package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	appErrors "github.com/matrix-industries/credential-api/pkg/errors"
)

// ArtifactStore persists rendered blobs and hands back durable URLs.
type ArtifactStore interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// LocalStore keeps artifacts on disk under a base directory and serves them
// from a public base URL. Writes overwrite on conflict, which is what makes
// re-rendering a document safe.
type LocalStore struct {
	baseDir       string
	publicBaseURL string
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir, publicBaseURL string) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./artifacts"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts directory: %w", err)
	}
	return &LocalStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Put writes the blob to the relative path and returns its public URL.
// The contentType is not persisted locally; the serving layer derives it
// from the file extension.
func (s *LocalStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "artifact store unavailable")
	}
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "prepare artifact directory")
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrTransient.Code, appErrors.ErrTransient.Status, "write artifact")
	}
	return s.publicBaseURL + filepath.ToSlash(clean), nil
}

// Dir exposes the base directory so the HTTP layer can serve artifacts.
func (s *LocalStore) Dir() string {
	return s.baseDir
}
