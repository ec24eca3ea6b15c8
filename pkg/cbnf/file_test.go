package cbnf

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestNet(t *testing.T, th testHeader, payload []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "net.cbnf")
	data := append(th.bytes(), payload...)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenAndPayload(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.flags |= FlagZstdCompressed
	payload := []byte{9, 8, 7, 6, 5}
	path := writeTestNet(t, th, payload)

	f, err := Open(path)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, f.Close())
	}()

	assert.Equal(t, "viri41", f.Header.Name())
	assert.Equal(t, payload, f.Payload())
	assert.True(t, f.Compressed())
	assert.Equal(t, HeaderSize+len(payload), f.Size())
}

func TestOpenHeaderOnly(t *testing.T) {
	t.Parallel()

	path := writeTestNet(t, validTestHeader(), nil)
	f, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Empty(t, f.Payload())
	assert.False(t, f.Compressed())
}

func TestOpenRejectsInvalid(t *testing.T) {
	t.Parallel()

	th := validTestHeader()
	th.outputBuckets = 0
	path := writeTestNet(t, th, []byte{1})

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrInvalidOutputBuckets)

	f, err := OpenWith(path, Options{SkipValidation: true})
	require.NoError(t, err)
	assert.Equal(t, uint8(0), f.Header.OutputBuckets())
	require.NoError(t, f.Close())
}

func TestOpenTooShort(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "short.cbnf")
	require.NoError(t, os.WriteFile(path, []byte("CBNF"), 0o644))
	_, err := Open(path)
	assert.ErrorIs(t, err, ErrTooShort)

	empty := filepath.Join(t.TempDir(), "empty.cbnf")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Open(empty)
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.cbnf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenReaderAt(t *testing.T) {
	t.Parallel()

	data := append(validTestHeader().bytes(), 1, 2, 3)
	f, err := OpenReaderAt(bytes.NewReader(data), int64(len(data)), Options{})
	require.NoError(t, err)
	assert.False(t, f.Mapped())
	assert.Equal(t, []byte{1, 2, 3}, f.Payload())
	require.NoError(t, f.Close())
	assert.ErrorIs(t, f.Close(), ErrClosed)

	_, err = OpenReaderAt(bytes.NewReader(data[:100]), 100, Options{})
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestFromBytesBorrowsBuffer(t *testing.T) {
	t.Parallel()

	data := append(validTestHeader().bytes(), 42)
	f, err := FromBytes(data, Options{})
	require.NoError(t, err)

	data[HeaderSize] = 43
	assert.Equal(t, byte(43), f.Payload()[0])
}
