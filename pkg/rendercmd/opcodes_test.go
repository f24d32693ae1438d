package rendercmd

import (
	"errors"
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "INVALID") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
}

func TestOpcodeCount(t *testing.T) {
	if got := OpcodeCount(); got != 19 {
		t.Errorf("OpcodeCount() = %d, want 19", got)
	}
}

func TestAllOpcodesSorted(t *testing.T) {
	ops := AllOpcodes()
	for i := 1; i < len(ops); i++ {
		if ops[i-1] >= ops[i] {
			t.Fatalf("AllOpcodes not sorted at %d: %v", i, ops)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpNop, "NOP"},
		{OpEnd, "END"},
		{OpLoadMatrix, "LOAD_MATRIX"},
		{OpSetMaterial, "SET_MATERIAL"},
		{OpSetMaterial44, "SET_MATERIAL_44"},
		{OpDraw, "DRAW"},
		{OpMulObject, "MUL_OBJECT"},
		{OpMulObjectStoreRestore, "MUL_OBJECT_STORE_RESTORE"},
		{OpBlend, "BLEND"},
		{OpUnknown2B, "UNKNOWN_2B"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(0x%02X).String() = %q, want %q", byte(tt.op), got, tt.want)
		}
	}
}

func TestInvalidOpcodeString(t *testing.T) {
	op := Opcode(0xEE)
	if got := op.String(); got != "INVALID(0xEE)" {
		t.Errorf("String() = %q, want INVALID(0xEE)", got)
	}
	if op.IsKnown() {
		t.Error("0xEE should not be known")
	}
}

func TestStaticOperandLen(t *testing.T) {
	tests := []struct {
		op   Opcode
		want int
	}{
		{OpNop, 0},
		{OpEnd, 0},
		{OpUnknown02, 2},
		{OpLoadMatrix, 1},
		{OpSetMaterial, 1},
		{OpDraw, 1},
		{OpMulObject, 3},
		{OpUnknown07, 1},
		{OpUnknown08, 1},
		{OpUnknown0B, 0},
		{OpSetMaterial24, 1},
		{OpMulObjectStore, 4},
		{OpUnknown2B, 0},
		{OpUnknown40, 0},
		{OpSetMaterial44, 1},
		{OpMulObjectRestore, 4},
		{OpMulObjectStoreRestore, 5},
		{OpUnknown80, 0},
	}

	for _, tt := range tests {
		// An empty stream proves no lookahead is needed.
		got, err := OperandLen(tt.op, NewCursor(nil))
		if err != nil {
			t.Errorf("OperandLen(%s) error: %v", tt.op, err)
			continue
		}
		if got != tt.want {
			t.Errorf("OperandLen(%s) = %d, want %d", tt.op, got, tt.want)
		}
	}
}

func TestBlendOperandLenPeeks(t *testing.T) {
	c := NewCursor([]byte{0x05, 0x02, 1, 2, 3, 4, 5, 6})

	n, err := OperandLen(OpBlend, c)
	if err != nil {
		t.Fatalf("OperandLen failed: %v", err)
	}
	if n != 8 {
		t.Errorf("OperandLen = %d, want 8", n)
	}
	if c.Offset() != 0 {
		t.Errorf("OperandLen consumed %d bytes", c.Offset())
	}
}

func TestBlendOperandLenDoesNotRangeCheck(t *testing.T) {
	n, err := OperandLen(OpBlend, NewCursor([]byte{0x00, 0xFF}))
	if err != nil {
		t.Fatalf("OperandLen failed: %v", err)
	}
	if n != 2+3*255 {
		t.Errorf("OperandLen = %d, want %d", n, 2+3*255)
	}
}

func TestBlendOperandLenShortStream(t *testing.T) {
	_, err := OperandLen(OpBlend, NewCursor([]byte{0x05}))
	if !errors.Is(err, ErrUnexpectedEndOfStream) {
		t.Errorf("err = %v, want ErrUnexpectedEndOfStream", err)
	}
}

func TestOperandLenUnknownOpcode(t *testing.T) {
	_, err := OperandLen(Opcode(0x0A), NewCursor([]byte{0, 0, 0}))
	var uerr *UnknownOpcodeError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want *UnknownOpcodeError", err)
	}
	if uerr.Opcode != 0x0A {
		t.Errorf("Opcode = %#x, want 0x0a", byte(uerr.Opcode))
	}
}

func TestOpcodeIsVariableLen(t *testing.T) {
	for _, op := range AllOpcodes() {
		if got, want := op.IsVariableLen(), op == OpBlend; got != want {
			t.Errorf("%s.IsVariableLen() = %v, want %v", op, got, want)
		}
	}
}

func TestOpcodeAliasesShareKind(t *testing.T) {
	groups := [][]Opcode{
		{OpSetMaterial, OpSetMaterial24, OpSetMaterial44},
		{OpMulObject, OpMulObjectStore, OpMulObjectRestore, OpMulObjectStoreRestore},
	}
	for _, group := range groups {
		kind := GetOpcodeInfo(group[0]).Kind
		for _, op := range group[1:] {
			if got := GetOpcodeInfo(op).Kind; got != kind {
				t.Errorf("%s kind = %s, want %s", op, got, kind)
			}
		}
	}
}
