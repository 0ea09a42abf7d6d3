package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquire(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "grove.lock")

	lock, err := Acquire(lockPath)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestAcquire_CreatesParentDirectory(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "nested", "dir", "grove.lock")

	lock, err := Acquire(lockPath)
	require.NoError(t, err)
	defer lock.Release()
}

func TestAcquire_SecondHolderRejected(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "grove.lock")

	first, err := Acquire(lockPath)
	require.NoError(t, err)
	defer first.Release()

	_, err = Acquire(lockPath)
	assert.ErrorIs(t, err, ErrAlreadyRunning)
}

func TestAcquire_AfterRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "grove.lock")

	first, err := Acquire(lockPath)
	require.NoError(t, err)
	require.NoError(t, first.Release())

	second, err := Acquire(lockPath)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}

func TestRelease_Idempotent(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "grove.lock")

	lock, err := Acquire(lockPath)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
	assert.NoError(t, lock.Release())
}
