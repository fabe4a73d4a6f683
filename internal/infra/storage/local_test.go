package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaveNamesByTimestamp(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	assert.NoError(t, err)

	now := time.UnixMilli(1700000000123)
	path, err := store.Save(strings.NewReader("fake-jpeg"), "dash.jpg", now)
	assert.NoError(t, err)
	assert.Equal(t, "1700000000123-dash.jpg", filepath.Base(path))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "fake-jpeg", string(data))
}

func TestSaveStripsDirectories(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	assert.NoError(t, err)

	path, err := store.Save(strings.NewReader("x"), "../../escape/dash.jpg", time.UnixMilli(1))
	assert.NoError(t, err)
	assert.Equal(t, "1-dash.jpg", filepath.Base(path))
	assert.Equal(t, store.Dir(), filepath.Dir(path))
}

func TestRemove(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	assert.NoError(t, err)

	path, err := store.Save(strings.NewReader("x"), "dash.jpg", time.UnixMilli(1))
	assert.NoError(t, err)
	assert.NoError(t, store.Remove(path))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRemoveRefusesOutsideDir(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	assert.NoError(t, err)

	outside := filepath.Join(t.TempDir(), "keep.txt")
	assert.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	assert.Error(t, store.Remove(outside))
	_, statErr := os.Stat(outside)
	assert.NoError(t, statErr)
}
