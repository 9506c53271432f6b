package pagefile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMissingWithoutCreate(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "missing.idx"), false)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestOpenCreatesEmptyFile(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "fresh.idx"), true)
	require.NoError(t, err)
	defer f.Close()

	assert.EqualValues(t, 0, f.NumPages())
	assert.EqualValues(t, 0, f.GetFirstPageNo())
}

func TestAllocWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "rw.idx"), true)
	require.NoError(t, err)
	defer f.Close()

	id := f.AllocPage()
	assert.EqualValues(t, 0, id)

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = byte(i)
	}
	require.NoError(t, f.WritePage(id, buf))

	out := make([]byte, PageSize)
	require.NoError(t, f.ReadPage(id, out))
	assert.Equal(t, buf, out)
}

func TestReopenPreservesNumPages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "persist.idx")

	f, err := Open(path, true)
	require.NoError(t, err)
	f.AllocPage()
	f.AllocPage()
	require.NoError(t, f.WritePage(0, make([]byte, PageSize)))
	require.NoError(t, f.WritePage(1, make([]byte, PageSize)))
	require.NoError(t, f.Close())

	f2, err := Open(path, false)
	require.NoError(t, err)
	defer f2.Close()
	assert.EqualValues(t, 2, f2.NumPages())
}

func TestWriteRejectsWrongSizedBuffer(t *testing.T) {
	dir := t.TempDir()
	f, err := Open(filepath.Join(dir, "badsize.idx"), true)
	require.NoError(t, err)
	defer f.Close()

	id := f.AllocPage()
	err = f.WritePage(id, make([]byte, PageSize-1))
	assert.Error(t, err)
}
