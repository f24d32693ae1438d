package rendercmd

import (
	"bytes"
	"errors"
	"testing"
	"testing/iotest"
)

func TestCursorReads(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5})

	b, err := c.ReadByte()
	if err != nil || b != 1 {
		t.Fatalf("ReadByte = %d, %v; want 1, nil", b, err)
	}

	peek, err := c.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(peek, []byte{2, 3}) {
		t.Errorf("Peek = %v, want [2 3]", peek)
	}
	if c.Offset() != 1 {
		t.Errorf("Peek advanced offset to %d", c.Offset())
	}

	buf, err := c.ReadN(3)
	if err != nil {
		t.Fatalf("ReadN failed: %v", err)
	}
	if !bytes.Equal(buf, []byte{2, 3, 4}) {
		t.Errorf("ReadN = %v, want [2 3 4]", buf)
	}
	if c.Offset() != 4 || c.Remaining() != 1 {
		t.Errorf("Offset/Remaining = %d/%d, want 4/1", c.Offset(), c.Remaining())
	}
}

func TestCursorEndOfStream(t *testing.T) {
	c := NewCursor([]byte{1, 2})

	if _, err := c.ReadN(3); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("ReadN(3) err = %v", err)
	}
	if c.Offset() != 0 {
		t.Errorf("failed ReadN advanced offset to %d", c.Offset())
	}
	if _, err := c.Peek(3); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("Peek(3) err = %v", err)
	}

	c.ReadN(2)
	if _, err := c.ReadByte(); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("ReadByte at end err = %v", err)
	}
	if buf, err := c.ReadN(0); err != nil || len(buf) != 0 {
		t.Errorf("ReadN(0) at end = %v, %v", buf, err)
	}
}

func TestCursorNegativeLength(t *testing.T) {
	c := NewCursor([]byte{1})
	if _, err := c.ReadN(-1); err == nil {
		t.Error("ReadN(-1) should fail")
	}
}

func TestNewCursorAt(t *testing.T) {
	data := []byte{0xAA, 0xBB, 0x01}

	c, err := NewCursorAt(data, 2)
	if err != nil {
		t.Fatalf("NewCursorAt failed: %v", err)
	}
	if b, _ := c.ReadByte(); b != 0x01 {
		t.Errorf("ReadByte = %#x, want 0x01", b)
	}

	if _, err := NewCursorAt(data, 3); err != nil {
		t.Errorf("offset at end should be allowed: %v", err)
	}
	if _, err := NewCursorAt(data, 4); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("offset past end err = %v", err)
	}
	if _, err := NewCursorAt(data, -1); err == nil {
		t.Error("negative offset should fail")
	}
}

func TestReaderStream(t *testing.T) {
	rs := NewReaderStream(bytes.NewReader([]byte{9, 8, 7, 6}))

	peek, err := rs.Peek(2)
	if err != nil || !bytes.Equal(peek, []byte{9, 8}) {
		t.Fatalf("Peek = %v, %v", peek, err)
	}
	if rs.Offset() != 0 {
		t.Errorf("Peek advanced offset to %d", rs.Offset())
	}

	b, err := rs.ReadByte()
	if err != nil || b != 9 {
		t.Fatalf("ReadByte = %d, %v", b, err)
	}

	buf, err := rs.ReadN(2)
	if err != nil || !bytes.Equal(buf, []byte{8, 7}) {
		t.Fatalf("ReadN = %v, %v", buf, err)
	}
	if rs.Offset() != 3 {
		t.Errorf("Offset = %d, want 3", rs.Offset())
	}

	if _, err := rs.Peek(2); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("Peek past end err = %v", err)
	}
	if _, err := rs.ReadN(2); !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("ReadN past end err = %v", err)
	}
}

func TestReaderStreamPropagatesReadErrors(t *testing.T) {
	boom := errors.New("boom")
	rs := NewReaderStream(iotest.ErrReader(boom))

	_, err := rs.ReadByte()
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
	if errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Error("read failure should not look like end of stream")
	}
}

func TestRunCommandsFromReaderStream(t *testing.T) {
	b := NewBuilder()
	b.SetMaterial(2)
	b.Draw(1)
	b.End()

	r := &MockRenderer{}
	if err := RunCommands(NewReaderStream(bytes.NewReader(b.Bytes())), r); err != nil {
		t.Fatalf("RunCommands failed: %v", err)
	}
	assertCalls(t, r, "draw(1,2)")
}
