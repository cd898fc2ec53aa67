package containers

import "github.com/valyala/bytebufferpool"

// Buffer is a reusable byte buffer. It embeds bytebufferpool.ByteBuffer,
// so it is an io.Writer, io.ReaderFrom and io.WriterTo.
type Buffer struct {
	bytebufferpool.ByteBuffer
}

// NewBuffer creates a Buffer with the given capacity.
func NewBuffer(capacity int) *Buffer {
	b := &Buffer{}
	b.B = make([]byte, 0, capacity)
	return b
}

// Cap returns the capacity of the backing slice.
func (b *Buffer) Cap() int {
	return cap(b.B)
}

// Clear empties the buffer and keeps the backing slice.
func (b *Buffer) Clear() {
	b.Reset()
}
