package rendering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/orderdesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFilesystemStore_Put(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(filepath.Join(dir, "documents"))
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "invoices/INV-2026-00001.html", []byte("<html>test</html>"), "text/html")
	require.NoError(t, err)

	content, err := os.ReadFile(ref)
	require.NoError(t, err)
	assert.Equal(t, "<html>test</html>", string(content))
}

func TestFilesystemStore_RejectsPathTraversal(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "../../etc/escape.html", []byte("x"), "text/html")
	require.NoError(t, err)

	// Clean pins the key under the output directory
	rel, err := filepath.Rel(dir, ref)
	require.NoError(t, err)
	assert.False(t, filepath.IsAbs(rel))
	assert.NotContains(t, rel, "..")
}

func TestFilesystemStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFilesystemStore(dir)
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "invoices/INV-2026-00002.html", []byte("x"), "text/html")
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "invoices/INV-2026-00002.html"))
	_, err = os.Stat(ref)
	assert.True(t, os.IsNotExist(err))

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(context.Background(), "invoices/INV-2026-00002.html"))
}

func TestFilesystemStore_EmptyKey(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "", []byte("x"), "text/html")
	assert.Error(t, err)
}

func TestNewFilesystemStore_RequiresDir(t *testing.T) {
	_, err := NewFilesystemStore("")
	assert.Error(t, err)
}

func TestStubStore(t *testing.T) {
	store := NewStubStore()

	ref, err := store.Put(context.Background(), "invoices/a.html", []byte("one"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, "stub://invoices/a.html", ref)

	_, err = store.Put(context.Background(), "invoices/b.html", []byte("two"), "text/html")
	require.NoError(t, err)
	assert.Equal(t, 2, store.Len())

	content, ok := store.Get("invoices/a.html")
	require.True(t, ok)
	assert.Equal(t, "one", string(content))

	_, ok = store.Get("missing")
	assert.False(t, ok)

	require.NoError(t, store.Delete(context.Background(), "invoices/a.html"))
	assert.Equal(t, 1, store.Len())
	_, ok = store.Get("invoices/a.html")
	assert.False(t, ok)

	// Deleting a missing key is not an error
	assert.NoError(t, store.Delete(context.Background(), "missing"))
}

func TestStubStore_CopiesContent(t *testing.T) {
	store := NewStubStore()
	buf := []byte("original")

	_, err := store.Put(context.Background(), "doc", buf, "text/plain")
	require.NoError(t, err)

	buf[0] = 'X'
	content, ok := store.Get("doc")
	require.True(t, ok)
	assert.Equal(t, "original", string(content))
}

func TestNewDocumentStore(t *testing.T) {
	store, err := NewDocumentStore(&config.DocumentsConfig{Backend: "stub"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &StubStore{}, store)

	store, err = NewDocumentStore(&config.DocumentsConfig{Backend: "filesystem", OutputDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &FilesystemStore{}, store)

	_, err = NewDocumentStore(&config.DocumentsConfig{Backend: "carrier-pigeon"}, zap.NewNop())
	assert.Error(t, err)
}
