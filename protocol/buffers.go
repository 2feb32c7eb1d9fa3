package protocol

import "errors"

// ErrBufferFull is returned when an append would exceed LineMax
var ErrBufferFull = errors.New("line buffer full")

// LineBuffer accumulates received bytes until a terminator arrives.
// Capacity is fixed at LineMax; appends past it fail instead of overwriting.
type LineBuffer struct {
	buf [LineMax]byte
	pos int
}

// Append stores b at the write cursor and advances it
func (l *LineBuffer) Append(b byte) error {
	if l.pos >= len(l.buf) {
		return ErrBufferFull
	}
	l.buf[l.pos] = b
	l.pos++
	return nil
}

// Len returns the write cursor
func (l *LineBuffer) Len() int {
	return l.pos
}

// Bytes returns the bytes written since the last reset
func (l *LineBuffer) Bytes() []byte {
	return l.buf[:l.pos]
}

// IndexByte returns the offset of the first c, or -1
func (l *LineBuffer) IndexByte(c byte) int {
	for i := 0; i < l.pos; i++ {
		if l.buf[i] == c {
			return i
		}
	}
	return -1
}

// Reset zero-fills the buffer and rewinds the cursor
func (l *LineBuffer) Reset() {
	l.buf = [LineMax]byte{}
	l.pos = 0
}

// Line is a completed line copied out of a LineBuffer
type Line struct {
	buf [LineMax]byte
	n   int
}

// CopyLine copies src up to and including the first terminator.
// If no terminator is present the whole of src is copied.
func CopyLine(dst *Line, src []byte) {
	n := 0
	for n < len(src) && n < len(dst.buf) {
		dst.buf[n] = src[n]
		n++
		if src[n-1] == Terminator {
			break
		}
	}
	dst.n = n
}

// Bytes returns the line content
func (l *Line) Bytes() []byte {
	return l.buf[:l.n]
}

// Len returns the line length including the terminator
func (l *Line) Len() int {
	return l.n
}

// Equal reports an exact byte-for-byte match against msg
func (l *Line) Equal(msg string) bool {
	if l.n != len(msg) {
		return false
	}
	for i := 0; i < l.n; i++ {
		if l.buf[i] != msg[i] {
			return false
		}
	}
	return true
}

// Clear empties the line
func (l *Line) Clear() {
	l.buf = [LineMax]byte{}
	l.n = 0
}

// String returns the line as a string (allocates)
func (l *Line) String() string {
	return string(l.buf[:l.n])
}

// FifoBuffer is a circular buffer for serial I/O
type FifoBuffer struct {
	buf   []byte
	read  int
	write int
	size  int
}

// NewFifoBuffer creates a new FifoBuffer with the specified capacity
func NewFifoBuffer(capacity int) *FifoBuffer {
	return &FifoBuffer{
		buf:  make([]byte, capacity),
		size: capacity,
	}
}

// Write appends data to the FIFO buffer
func (f *FifoBuffer) Write(data []byte) int {
	written := 0
	for _, b := range data {
		nextWrite := (f.write + 1) % f.size
		if nextWrite == f.read {
			// Buffer full
			break
		}
		f.buf[f.write] = b
		f.write = nextWrite
		written++
	}
	return written
}

// Read reads up to len(data) bytes from the FIFO buffer
func (f *FifoBuffer) Read(data []byte) int {
	read := 0
	for i := range data {
		if f.read == f.write {
			break
		}
		data[i] = f.buf[f.read]
		f.read = (f.read + 1) % f.size
		read++
	}
	return read
}

// ReadByte pops one byte; ok is false when empty
func (f *FifoBuffer) ReadByte() (b byte, ok bool) {
	if f.read == f.write {
		return 0, false
	}
	b = f.buf[f.read]
	f.read = (f.read + 1) % f.size
	return b, true
}

// Available returns the number of bytes available for reading
func (f *FifoBuffer) Available() int {
	if f.write >= f.read {
		return f.write - f.read
	}
	return f.size - f.read + f.write
}

// Free returns the number of bytes available for writing
func (f *FifoBuffer) Free() int {
	return f.size - f.Available() - 1
}

// IsEmpty returns true if the buffer is empty
func (f *FifoBuffer) IsEmpty() bool {
	return f.read == f.write
}

// Reset clears the buffer
func (f *FifoBuffer) Reset() {
	f.read = 0
	f.write = 0
}
