package containers

import (
	"unicode/utf8"
	"unsafe"
)

// String is a byte-backed string builder that can be cleared and reused
// without giving up its buffer.
type String struct {
	buf []byte
}

// NewString creates a String with the given capacity in bytes.
func NewString(capacity int) *String {
	return &String{
		buf: make([]byte, 0, capacity),
	}
}

// WriteString appends s.
func (b *String) WriteString(s string) (int, error) {
	b.buf = append(b.buf, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (b *String) WriteByte(c byte) error {
	b.buf = append(b.buf, c)
	return nil
}

// WriteRune appends the UTF-8 encoding of r.
func (b *String) WriteRune(r rune) (int, error) {
	n := len(b.buf)
	b.buf = utf8.AppendRune(b.buf, r)
	return len(b.buf) - n, nil
}

// Write implements io.Writer interface
func (b *String) Write(p []byte) (n int, err error) {
	b.buf = append(b.buf, p...)
	return len(p), nil
}

// String returns a copy of the built string. The copy stays valid after
// the builder is cleared and handed to another owner.
func (b *String) String() string {
	return string(b.buf)
}

// UnsafeString returns the built string without copying.
// WARNING: The result shares memory with the builder. It must not be used
// after the builder is written to, cleared or released to a pool.
func (b *String) UnsafeString() string {
	if len(b.buf) == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b.buf), len(b.buf))
}

// Bytes returns the underlying byte slice
func (b *String) Bytes() []byte {
	return b.buf
}

// Len returns the length of the built string in bytes.
func (b *String) Len() int {
	return len(b.buf)
}

// Cap returns the capacity of the underlying buffer
func (b *String) Cap() int {
	return cap(b.buf)
}

// Grow grows the buffer so that n more bytes fit without reallocating.
func (b *String) Grow(n int) {
	if cap(b.buf)-len(b.buf) < n {
		newSize := len(b.buf) + 2*cap(b.buf) + n
		newBuf := make([]byte, len(b.buf), newSize)
		copy(newBuf, b.buf)
		b.buf = newBuf
	}
}

// Clear empties the builder and keeps the buffer.
func (b *String) Clear() {
	b.buf = b.buf[:0]
}
