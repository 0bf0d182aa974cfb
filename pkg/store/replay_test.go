package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/barrow/pkg/codec"
)

func writeGeneration(t *testing.T, dir string, gen generation, records []*codec.Record) {
	t.Helper()
	w, err := newPositionedWriter(logFilePath(dir, gen), defaultBufferSize)
	require.NoError(t, err)
	for _, rec := range records {
		_, _, err := writeFrame(w, rec.Encode())
		require.NoError(t, err)
	}
	require.NoError(t, w.flush())
	require.NoError(t, w.close())
}

func TestReplayGenerationBuildsIndex(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 1, []*codec.Record{
		codec.NewSetRecord(1, 100, "a", "1"),
		codec.NewSetRecord(2, 101, "b", "2"),
		codec.NewSetRecord(3, 102, "a", "1-overwritten"),
		codec.NewRemoveRecord(4, 103, "b"),
	})

	reader, err := newPositionedReader(logFilePath(dir, 1), defaultBufferSize)
	require.NoError(t, err)
	defer reader.close()

	idx := newIndex()
	result, err := replayGeneration(1, reader, idx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), result.records)
	assert.Equal(t, uint64(4), result.maxSeq)
	assert.Equal(t, 1, idx.size())

	loc, ok := idx.get("a")
	assert.True(t, ok)
	assert.Equal(t, generation(1), loc.gen)

	_, ok = idx.get("b")
	assert.False(t, ok)

	assert.Greater(t, result.uncompacted, int64(0))
}

func TestReplayGenerationEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 1, nil)

	reader, err := newPositionedReader(logFilePath(dir, 1), defaultBufferSize)
	require.NoError(t, err)
	defer reader.close()

	idx := newIndex()
	result, err := replayGeneration(1, reader, idx)
	require.NoError(t, err)
	assert.Zero(t, result.records)
	assert.Zero(t, idx.size())
}

func TestReplayGenerationCorruptChecksumFails(t *testing.T) {
	dir := t.TempDir()
	writeGeneration(t, dir, 1, []*codec.Record{
		codec.NewSetRecord(1, 100, "a", "1"),
	})

	// Flip a byte inside the value payload, past the length prefix and header.
	path := filepath.Join(dir, "1.log")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0644))

	reader, err := newPositionedReader(path, defaultBufferSize)
	require.NoError(t, err)
	defer reader.close()

	idx := newIndex()
	_, err = replayGeneration(1, reader, idx)
	assert.ErrorIs(t, err, ErrCorruptData)
}
