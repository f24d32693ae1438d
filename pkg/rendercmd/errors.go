package rendercmd

import (
	"errors"
	"fmt"
)

var (
	ErrUnexpectedEndOfStream = errors.New("unexpected end of render command stream")
	ErrInvalidBlendTermCount = errors.New("invalid blend term count")
	ErrMalformedOperands     = errors.New("operand block does not match opcode")
)

// UnknownOpcodeError reports an opcode that is not in the opcode table.
// Decoding cannot continue past it because its length is unknown.
type UnknownOpcodeError struct {
	Opcode Opcode
	Offset int // Byte offset of the opcode, -1 if the stream has no offsets
}

func (e *UnknownOpcodeError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("unknown render command opcode: 0x%02x", byte(e.Opcode))
	}
	return fmt.Sprintf("unknown render command opcode: 0x%02x at offset %d", byte(e.Opcode), e.Offset)
}

// RendererError wraps an error returned by a Renderer operation.
type RendererError struct {
	Op  string // Renderer operation, e.g. "store_matrix"
	Err error
}

func (e *RendererError) Error() string {
	return fmt.Sprintf("renderer %s: %v", e.Op, e.Err)
}

func (e *RendererError) Unwrap() error {
	return e.Err
}

// CommandError locates a failure at the command that caused it.
type CommandError struct {
	Offset int // Byte offset of the opcode, -1 if the stream has no offsets
	Opcode Opcode
	Err    error
}

func (e *CommandError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("render command %s: %v", e.Opcode, e.Err)
	}
	return fmt.Sprintf("render command %s at offset %d: %v", e.Opcode, e.Offset, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
