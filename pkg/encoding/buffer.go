package encoding

// Buffer is an output buffer with a hard capacity limit.
type Buffer struct {
	data  []byte
	limit int
}

// NewBuffer returns an empty buffer that holds at most capacity bytes.
func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{data: make([]byte, 0, capacity), limit: capacity}
}

// Write appends p in full or not at all. It implements io.Writer.
func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Remaining() {
		return 0, ErrNoSpace
	}
	b.data = append(b.data, p...)
	return len(p), nil
}

// Bytes returns the encoded bytes. The slice aliases the buffer.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes written.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Cap returns the capacity limit.
func (b *Buffer) Cap() int {
	return b.limit
}

// Remaining returns the number of bytes that can still be written.
func (b *Buffer) Remaining() int {
	return b.limit - len(b.data)
}

// Reset discards the buffer contents.
func (b *Buffer) Reset() {
	b.data = b.data[:0]
}
