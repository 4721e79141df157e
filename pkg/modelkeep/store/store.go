// Package store provides durable blob storage backends for checkpoint data.
package store

import (
	"context"
	"errors"
	"strings"
)

// Store is a path-addressed blob store. Paths use forward slashes
// regardless of backend; each backend maps them to its own layout.
// Implementations must be safe for concurrent use.
type Store interface {
	// Exists reports whether a blob exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the names of blobs that are direct children of dir.
	// Returns an empty slice (not an error) if dir does not exist.
	// Order is unspecified.
	List(ctx context.Context, dir string) ([]string, error)

	// Read retrieves the blob at path.
	// Returns ErrNotFound if no blob exists there.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write stores a blob at path, replacing any existing blob.
	// A write either lands in full or not at all.
	Write(ctx context.Context, path string, data []byte) error

	// Delete removes the blob at path.
	// Returns nil if no blob exists there.
	Delete(ctx context.Context, path string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no blob exists at the requested path.
	ErrNotFound = errors.New("blob not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("store closed")
)

// childName reports whether p is a direct child of dir and, if so,
// returns its name relative to dir. dir "" means the store root.
func childName(p, dir string) (string, bool) {
	prefix := ""
	if dir != "" {
		prefix = strings.TrimSuffix(dir, "/") + "/"
	}
	rest, ok := strings.CutPrefix(p, prefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", false
	}
	return rest, true
}
