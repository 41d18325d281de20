package psd

import (
	"encoding/binary"
	"io"
	"math"
)

// File is a sequential big-endian reader over a seekable byte source. All
// multi-byte reads are big-endian regardless of host byte order; all reads
// advance the cursor and fail with ErrUnexpectedEOF when fewer bytes remain
// than requested.
type File struct {
	rs io.ReadSeeker
}

// NewFile wraps a seekable byte source (an opened file, a bytes.Reader).
func NewFile(rs io.ReadSeeker) *File {
	return &File{rs: rs}
}

// Read fills p completely or fails.
func (f *File) Read(p []byte) (int, error) {
	n, err := io.ReadFull(f.rs, p)
	if err != nil {
		pos, _ := f.rs.Seek(0, io.SeekCurrent)
		return n, errEOF(pos, len(p)-n)
	}
	return n, nil
}

// ReadBytes reads exactly n raw bytes.
func (f *File) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := f.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadString reads a string of the given byte length.
func (f *File) ReadString(length int) (string, error) {
	buf, err := f.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadByte reads a single byte.
func (f *File) ReadByte() (byte, error) {
	buf := make([]byte, 1)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// ReadUint16 reads a 16-bit unsigned integer.
func (f *File) ReadUint16() (uint16, error) {
	buf := make([]byte, 2)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

// ReadInt16 reads a 16-bit signed integer.
func (f *File) ReadInt16() (int16, error) {
	v, err := f.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a 32-bit unsigned integer.
func (f *File) ReadUint32() (uint32, error) {
	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

// ReadFloat64 reads a 64-bit IEEE 754 float.
func (f *File) ReadFloat64() (float64, error) {
	buf := make([]byte, 8)
	if _, err := f.Read(buf); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

// Peek reads n bytes without advancing the cursor (read, then seek back).
// The cursor is restored even when the read comes up short.
func (f *File) Peek(n int) ([]byte, error) {
	pos, err := f.Tell()
	if err != nil {
		return nil, err
	}
	buf, err := f.ReadBytes(n)
	if seekErr := f.SeekTo(pos); seekErr != nil {
		return nil, seekErr
	}
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// Tell returns the current absolute position.
func (f *File) Tell() (int64, error) {
	return f.rs.Seek(0, io.SeekCurrent)
}

// SeekTo repositions the cursor to an absolute offset.
func (f *File) SeekTo(pos int64) error {
	_, err := f.rs.Seek(pos, io.SeekStart)
	return err
}

// Skip moves the cursor by delta bytes; delta may be negative.
func (f *File) Skip(delta int64) error {
	_, err := f.rs.Seek(delta, io.SeekCurrent)
	return err
}
