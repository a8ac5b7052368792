package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"typeevent/internal/domain"
)

type localStore struct {
	rootDir string
	baseURL string
}

// NewLocalStore returns a FileStore that writes blobs under rootDir and serves
// them at baseURL (e.g. "/media"). Blobs are write-once: Save never overwrites
// an existing file, it picks a fresh name instead.
func NewLocalStore(rootDir, baseURL string) (domain.FileStore, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &localStore{
		rootDir: rootDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// sanitizeFilename keeps the base name and drops path separators and other
// characters that have no business in a stored blob name.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-.")
	if out == "" {
		out = "blob"
	}
	return out
}

func (s *localStore) Save(ctx context.Context, dir, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	filename = sanitizeFilename(filename)
	subdir := filepath.Join(s.rootDir, dir)
	if err := os.MkdirAll(subdir, 0o755); err != nil {
		return "", fmt.Errorf("create blob dir: %w", err)
	}

	relPath := filepath.Join(dir, filename)
	err := writeExclusive(filepath.Join(s.rootDir, relPath), data)
	if errors.Is(err, os.ErrExist) {
		// Name collision: prefix a random token rather than overwrite.
		relPath = filepath.Join(dir, uuid.NewString()[:8]+"-"+filename)
		err = writeExclusive(filepath.Join(s.rootDir, relPath), data)
	}
	if err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return filepath.ToSlash(relPath), nil
}

func writeExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *localStore) URL(relPath string) string {
	return s.baseURL + "/" + strings.TrimPrefix(filepath.ToSlash(relPath), "/")
}
