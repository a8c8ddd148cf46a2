// Package rendering produces invoice documents from order snapshots and
// stores them in a pluggable document store.
package rendering

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/orderdesk/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DocumentStore persists a rendered document and returns an opaque
// reference that can later be used to locate it.
type DocumentStore interface {
	// Put stores the document content under the given key
	Put(ctx context.Context, key string, content []byte, contentType string) (string, error)
	// Delete removes a stored document. Deleting a key that does not
	// exist is not an error.
	Delete(ctx context.Context, key string) error
}

// NewDocumentStore builds the store selected by the configuration
func NewDocumentStore(cfg *config.DocumentsConfig, logger *zap.Logger) (DocumentStore, error) {
	switch cfg.Backend {
	case "filesystem":
		return NewFilesystemStore(cfg.OutputDir)
	case "s3":
		return NewS3DocumentStore(cfg, WithS3Logger(logger))
	case "stub":
		return NewStubStore(), nil
	default:
		return nil, fmt.Errorf("unknown documents backend %q", cfg.Backend)
	}
}

// FilesystemStore writes documents to a local directory
type FilesystemStore struct {
	outputDir string
}

// NewFilesystemStore creates a FilesystemStore, creating the output
// directory if needed
func NewFilesystemStore(outputDir string) (*FilesystemStore, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}
	return &FilesystemStore{outputDir: outputDir}, nil
}

// Put writes the document to disk and returns its path
func (s *FilesystemStore) Put(_ context.Context, key string, content []byte, _ string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("document key is required")
	}

	path := filepath.Join(s.outputDir, filepath.Clean("/"+key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create document subdirectory: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write document: %w", err)
	}
	return path, nil
}

// Delete removes the document file if it exists
func (s *FilesystemStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("document key is required")
	}

	path := filepath.Join(s.outputDir, filepath.Clean("/"+key))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// StubStore keeps documents in memory. It exists for tests and local
// development and is rejected by config validation in production.
type StubStore struct {
	mu        sync.RWMutex
	documents map[string][]byte
}

// NewStubStore creates an empty StubStore
func NewStubStore() *StubStore {
	return &StubStore{documents: make(map[string][]byte)}
}

// Put stores the document in memory and returns a stub reference
func (s *StubStore) Put(_ context.Context, key string, content []byte, _ string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("document key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(content))
	copy(stored, content)
	s.documents[key] = stored
	return "stub://" + key, nil
}

// Delete removes the document from memory
func (s *StubStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("document key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, key)
	return nil
}

// Get returns a stored document, for test assertions
func (s *StubStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.documents[key]
	return content, ok
}

// Len returns the number of stored documents
func (s *StubStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.documents)
}

var (
	_ DocumentStore = (*FilesystemStore)(nil)
	_ DocumentStore = (*StubStore)(nil)
)
