package rendercmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Stream is a forward-only byte source for render commands.
// All methods fail with ErrUnexpectedEndOfStream when too few bytes remain.
type Stream interface {
	// ReadByte consumes the next byte.
	ReadByte() (byte, error)
	// ReadN consumes the next n bytes.
	ReadN(n int) ([]byte, error)
	// Peek returns the next n bytes without consuming them.
	Peek(n int) ([]byte, error)
}

// offsetter is implemented by streams that know their byte position.
type offsetter interface {
	Offset() int
}

// streamOffset returns the current offset of s, or -1 if s does not track one.
func streamOffset(s Stream) int {
	if o, ok := s.(offsetter); ok {
		return o.Offset()
	}
	return -1
}

// ---------------------------------------------------------------------------
// Cursor: in-memory stream
// ---------------------------------------------------------------------------

// Cursor reads render commands from a byte slice.
// Slices returned by ReadN and Peek alias the underlying data.
type Cursor struct {
	data   []byte
	offset int
}

// NewCursor creates a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewCursorAt creates a Cursor positioned at offset within data. Render
// command streams usually start somewhere inside a larger model file.
func NewCursorAt(data []byte, offset int) (*Cursor, error) {
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("%w: offset %d outside %d bytes", ErrUnexpectedEndOfStream, offset, len(data))
	}
	return &Cursor{data: data, offset: offset}, nil
}

// ReadByte consumes one byte.
func (c *Cursor) ReadByte() (byte, error) {
	if c.offset >= len(c.data) {
		return 0, ErrUnexpectedEndOfStream
	}
	b := c.data[c.offset]
	c.offset++
	return b, nil
}

// ReadN consumes n bytes.
func (c *Cursor) ReadN(n int) ([]byte, error) {
	buf, err := c.Peek(n)
	if err != nil {
		return nil, err
	}
	c.offset += n
	return buf, nil
}

// Peek returns the next n bytes without consuming them.
func (c *Cursor) Peek(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	if n > len(c.data)-c.offset {
		return nil, ErrUnexpectedEndOfStream
	}
	return c.data[c.offset : c.offset+n : c.offset+n], nil
}

// Offset returns the position of the next unread byte.
func (c *Cursor) Offset() int {
	return c.offset
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.offset
}

// ---------------------------------------------------------------------------
// ReaderStream: io.Reader backed stream
// ---------------------------------------------------------------------------

// ReaderStream adapts an io.Reader to Stream. It is used when the command
// stream is read straight from a file instead of a loaded model.
type ReaderStream struct {
	r      *bufio.Reader
	offset int
}

// NewReaderStream wraps r. The BLEND length lookahead needs at most two
// bytes of buffering.
func NewReaderStream(r io.Reader) *ReaderStream {
	return &ReaderStream{r: bufio.NewReader(r)}
}

// ReadByte consumes one byte.
func (rs *ReaderStream) ReadByte() (byte, error) {
	b, err := rs.r.ReadByte()
	if err != nil {
		return 0, readerErr(err)
	}
	rs.offset++
	return b, nil
}

// ReadN consumes n bytes into a new slice.
func (rs *ReaderStream) ReadN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(rs.r, buf)
	rs.offset += read
	if err != nil {
		return nil, readerErr(err)
	}
	return buf, nil
}

// Peek returns the next n bytes without consuming them.
func (rs *ReaderStream) Peek(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read length %d", n)
	}
	buf, err := rs.r.Peek(n)
	if err != nil {
		return nil, readerErr(err)
	}
	return buf, nil
}

// Offset returns the number of bytes consumed so far.
func (rs *ReaderStream) Offset() int {
	return rs.offset
}

func readerErr(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEndOfStream
	}
	return fmt.Errorf("reading render commands: %w", err)
}
