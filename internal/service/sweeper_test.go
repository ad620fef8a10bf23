package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAgedFile(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("img"), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func TestSweepRemovesOnlyOldOrphans(t *testing.T) {
	dir := t.TempDir()
	writeAgedFile(t, dir, "alice_ref.png", 48*time.Hour)
	writeAgedFile(t, dir, "bob_orphan.png", 48*time.Hour)
	writeAgedFile(t, dir, "carol_fresh.png", time.Hour)

	store := newFakeUserStore()
	store.images["alice_ref.png"] = struct{}{}

	NewImageSweeper(dir, store, discardLogger()).Sweep()

	assert.FileExists(t, filepath.Join(dir, "alice_ref.png"), "referenced image must survive")
	assert.NoFileExists(t, filepath.Join(dir, "bob_orphan.png"), "old orphan must be removed")
	assert.FileExists(t, filepath.Join(dir, "carol_fresh.png"), "fresh file is inside the grace period")
}

func TestSweepAbortsWhenStoreFails(t *testing.T) {
	dir := t.TempDir()
	writeAgedFile(t, dir, "bob_orphan.png", 48*time.Hour)

	store := newFakeUserStore()
	store.imagesErr = os.ErrDeadlineExceeded

	NewImageSweeper(dir, store, discardLogger()).Sweep()

	// Without the referenced set nothing may be deleted.
	assert.FileExists(t, filepath.Join(dir, "bob_orphan.png"))
}

func TestSweepMissingDirectoryIsNoop(t *testing.T) {
	store := newFakeUserStore()
	NewImageSweeper(filepath.Join(t.TempDir(), "absent"), store, discardLogger()).Sweep()
}
