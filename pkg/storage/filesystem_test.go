package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/program-workboard-api/pkg/config"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(ctx, "work-requests/list.csv", []byte("id\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, "work-requests/list.csv", name)

	rc, err := store.Open(ctx, name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "id\n1\n", string(data))

	require.NoError(t, store.Delete(ctx, name))
	require.NoError(t, store.Delete(ctx, name))
	_, err = store.Open(ctx, name)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "../outside.csv", []byte("x"))
	assert.Error(t, err)
	_, err = store.Open(context.Background(), "/etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorageSaveLeavesNoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "20250301/list.pdf", []byte("%PDF"))
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "20250301"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "list.pdf", entries[0].Name())
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save(ctx, "old.csv", []byte("old"))
	require.NoError(t, err)
	_, err = store.Save(ctx, "fresh.csv", []byte("fresh"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), past, past))

	_, err = store.Save(ctx, "stale.csv", []byte("stale"))
	require.NoError(t, err)
	abandoned := filepath.Join(dir, "stale.csv.123"+partialSuffix)
	require.NoError(t, os.Rename(filepath.Join(dir, "stale.csv"), abandoned))
	require.NoError(t, os.Chtimes(abandoned, past, past))

	deleted, err := store.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.csv"}, deleted)
	_, err = os.Stat(filepath.Join(dir, "fresh.csv"))
	assert.NoError(t, err)
	_, err = os.Stat(abandoned)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenSelectsDriver(t *testing.T) {
	s, err := Open(context.Background(), config.ExportsConfig{StorageDriver: "fs", StorageDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = Open(context.Background(), config.ExportsConfig{StorageDriver: "gcs"})
	assert.Error(t, err)

	_, err = Open(context.Background(), config.ExportsConfig{StorageDriver: "s3"})
	assert.Error(t, err, "bucket is required")
}
