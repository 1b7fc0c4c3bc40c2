// Package utils collects small generic helpers shared across the modular
// arithmetic, ring, and PIR orchestration packages.
package utils

import "encoding/binary"

// Buffer is a growable byte slice with cursor-based big-endian reads and
// writes, used to incrementally build or consume a serialized message
// without hand-indexing a byte slice at every call site.
type Buffer struct {
	buf []byte
	pos int
}

// NewBuffer wraps b for writing (appends grow it) and reading (from the
// front). A nil b behaves like an empty buffer.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Bytes returns the unread remainder of the buffer.
func (b *Buffer) Bytes() []byte {
	return b.buf[b.pos:]
}

// WriteUint8 appends a single byte.
func (b *Buffer) WriteUint8(v uint8) {
	b.buf = append(b.buf, v)
}

// ReadUint8 consumes and returns the next byte.
func (b *Buffer) ReadUint8() uint8 {
	v := b.buf[b.pos]
	b.pos++
	return v
}

// WriteUint64 appends v as 8 big-endian bytes.
func (b *Buffer) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// ReadUint64 consumes and returns the next 8 big-endian bytes as a uint64.
func (b *Buffer) ReadUint64() uint64 {
	v := binary.BigEndian.Uint64(b.buf[b.pos : b.pos+8])
	b.pos += 8
	return v
}

// WriteUint64Slice appends every element of s as 8 big-endian bytes.
func (b *Buffer) WriteUint64Slice(s []uint64) {
	for _, v := range s {
		b.WriteUint64(v)
	}
}

// ReadUint64Slice fills s from the buffer, 8 big-endian bytes per element.
func (b *Buffer) ReadUint64Slice(s []uint64) {
	for i := range s {
		s[i] = b.ReadUint64()
	}
}

// WriteUint32LE appends v as 4 little-endian bytes. The wire encoding of PIR
// messages is little-endian (unlike this package's big-endian default),
// matching the residue serialization the protocol's external interfaces
// specify; these LE variants exist for that consumer rather than for
// symmetry with the BE ones above.
func (b *Buffer) WriteUint32LE(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// ReadUint32LE consumes and returns the next 4 little-endian bytes as a uint32.
func (b *Buffer) ReadUint32LE() uint32 {
	v := binary.LittleEndian.Uint32(b.buf[b.pos : b.pos+4])
	b.pos += 4
	return v
}

// WriteUint64LE appends v as 8 little-endian bytes.
func (b *Buffer) WriteUint64LE(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// ReadUint64LE consumes and returns the next 8 little-endian bytes as a uint64.
func (b *Buffer) ReadUint64LE() uint64 {
	v := binary.LittleEndian.Uint64(b.buf[b.pos : b.pos+8])
	b.pos += 8
	return v
}

// WriteUint64SliceLE appends every element of s as 8 little-endian bytes.
func (b *Buffer) WriteUint64SliceLE(s []uint64) {
	for _, v := range s {
		b.WriteUint64LE(v)
	}
}

// ReadUint64SliceLE fills s from the buffer, 8 little-endian bytes per element.
func (b *Buffer) ReadUint64SliceLE(s []uint64) {
	for i := range s {
		s[i] = b.ReadUint64LE()
	}
}

// WriteBytes appends a length-prefixed (4-byte LE) byte string.
func (b *Buffer) WriteBytes(v []byte) {
	b.WriteUint32LE(uint32(len(v)))
	b.buf = append(b.buf, v...)
}

// ReadBytes consumes a length-prefixed (4-byte LE) byte string.
func (b *Buffer) ReadBytes() []byte {
	n := int(b.ReadUint32LE())
	v := make([]byte, n)
	copy(v, b.buf[b.pos:b.pos+n])
	b.pos += n
	return v
}
