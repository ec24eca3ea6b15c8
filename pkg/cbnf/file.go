package cbnf

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

var ErrClosed = errors.New("cbnf: file is closed")

// Options controls how a network file is opened.
type Options struct {
	// SkipValidation parses only the length, magic and version.
	SkipValidation bool
}

// File is a network file whose header has been parsed. The payload is left
// untouched for the caller to decode.
type File struct {
	Data    []byte
	Header  *Header
	mmapped bool
}

// Open maps a network file read-only and validates its header.
// If mmap is unavailable, it falls back to ReadAt-based loading.
// The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	return OpenWith(path, Options{})
}

// OpenWith is Open with explicit options.
func OpenWith(path string, opts Options) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("cbnf: %s: file too large to map", path)
	}
	size := int(size64)
	if size < HeaderSize {
		// Report the same error as an in-memory parse without touching mmap.
		return nil, newParseError(KindTooShort, uint64(size))
	}

	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		nf, parseErr := parseFileData(data, true, opts)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		return nf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, fmt.Errorf("cbnf: read %s: %w", path, err)
	}
	return parseFileData(data, false, opts)
}

// OpenReaderAt loads a network file from a random-access reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64, opts Options) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("cbnf: invalid size %d", size)
	}
	if size < HeaderSize {
		return nil, newParseError(KindTooShort, uint64(size))
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, fmt.Errorf("cbnf: read: %w", err)
	}
	return parseFileData(data, false, opts)
}

// FromBytes wraps an in-memory network file. data is borrowed, not copied.
func FromBytes(data []byte, opts Options) (*File, error) {
	return parseFileData(data, false, opts)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool, opts Options) (*File, error) {
	hdr, err := ParseHeader(data, !opts.SkipValidation)
	if err != nil {
		return nil, err
	}
	return &File{
		Data:    data,
		Header:  hdr,
		mmapped: mmapped,
	}, nil
}

// Payload returns a zero-copy slice of everything after the header.
// The caller must not retain this slice after Close.
func (f *File) Payload() []byte {
	if f == nil || f.Data == nil {
		return nil
	}
	return f.Data[HeaderSize:]
}

// Compressed reports whether the payload is zstd-compressed.
func (f *File) Compressed() bool {
	if f == nil || f.Header == nil {
		return false
	}
	return f.Header.Flags().Has(FlagZstdCompressed)
}

// Size returns the total file size in bytes.
func (f *File) Size() int {
	if f == nil {
		return 0
	}
	return len(f.Data)
}

// Mapped reports whether the file is backed by a memory mapping.
func (f *File) Mapped() bool {
	return f != nil && f.mmapped
}

// Close releases file resources and any mmap backing. The header and payload
// must not be used afterwards.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if f.Data == nil {
		return ErrClosed
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.Data)
	}
	f.Data = nil
	f.Header = nil
	f.mmapped = false
	return err
}
