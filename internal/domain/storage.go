package domain

import "context"

// FileStore is write-once blob storage for logos and rendered certificates.
// Save returns a repository-relative path; URL derives the public download
// location for a previously stored path.
type FileStore interface {
	Save(ctx context.Context, dir, filename string, data []byte) (relPath string, err error)
	URL(relPath string) string
}
