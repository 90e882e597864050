// Package storage is the write-once blob store for uploaded files. Callers
// only hold opaque location references; directory layout is an
// implementation detail of the store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports an unresolvable location reference.
var ErrNotFound = errors.New("blob not found")

// BlobStore saves bytes and resolves previously returned references. Saved
// blobs are immutable.
type BlobStore interface {
	Save(ctx context.Context, data []byte, nameHint string) (string, error)
	Resolve(ctx context.Context, ref string) ([]byte, error)
}

// DiskStore keeps blobs on the local filesystem under date-partitioned
// directories with uuid file names, so client-supplied names never touch a
// path.
type DiskStore struct {
	root string
	now  func() time.Time
}

// NewDiskStore creates a store rooted at dir.
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{root: dir, now: time.Now}
}

// Save writes the blob and returns its location reference, relative to the
// store root. Only the extension of nameHint survives into the stored name.
func (s *DiskStore) Save(ctx context.Context, data []byte, nameHint string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString()
	if ext := sanitizeExt(filepath.Ext(nameHint)); ext != "" {
		name += ext
	}

	day := s.now().UTC().Format("2006/01/02")
	dir := filepath.Join(s.root, filepath.FromSlash(day))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return filepath.ToSlash(filepath.Join(day, name)), nil
}

// Resolve reads a blob previously returned by Save. References escaping the
// store root resolve to ErrNotFound rather than leaking filesystem layout.
func (s *DiskStore) Resolve(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cleaned := filepath.Clean(filepath.FromSlash(ref))
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return nil, ErrNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.root, cleaned))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(ext)
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".pdf":
		return ext
	default:
		return ""
	}
}
