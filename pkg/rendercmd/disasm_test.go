package rendercmd

import (
	"errors"
	"strings"
	"testing"
)

func TestDisassembleEmpty(t *testing.T) {
	out, err := Disassemble(NewCursor([]byte{byte(OpEnd)}))
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	if !strings.Contains(out, "; Render commands") {
		t.Error("Disassembly missing header")
	}
	if !strings.Contains(out, "0000  END") {
		t.Errorf("Disassembly missing END:\n%s", out)
	}
}

func TestDisassembleListing(t *testing.T) {
	b := NewBuilder()
	b.SetMaterial(2)
	b.MulObjectStoreRestore(3, 1, 7, 2)
	b.Blend(4, RawTerm{StackID: 1, BlendID: 0, Weight: 128})
	b.Emit(OpUnknown02, 0xAB, 0xCD)
	b.Draw(9)
	b.End()

	out, err := Disassemble(NewCursor(b.Bytes()))
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}

	want := []string{
		"0000  SET_MATERIAL material=2",
		"0002  MUL_OBJECT_STORE_RESTORE object=3 parent=1 stack=7 restore=2",
		"0008  BLEND stack=4 terms=1 (1,0,0.5)",
		"000E  UNKNOWN_02 ; ab cd",
		"0011  DRAW mesh=9",
		"0013  END",
	}
	for _, line := range want {
		if !strings.Contains(out, line) {
			t.Errorf("Disassembly missing %q:\n%s", line, out)
		}
	}
}

func TestDisassembleTrailingBytes(t *testing.T) {
	out, err := Disassemble(NewCursor([]byte{byte(OpEnd), 0, 0, 0}))
	if err != nil {
		t.Fatalf("Disassemble failed: %v", err)
	}
	if !strings.Contains(out, "; 3 trailing bytes after END") {
		t.Errorf("missing trailing note:\n%s", out)
	}
}

func TestDisassembleError(t *testing.T) {
	out, err := Disassemble(NewCursor([]byte{byte(OpDraw), 5, 0xC3}))
	var uerr *UnknownOpcodeError
	if !errors.As(err, &uerr) {
		t.Fatalf("err = %v, want *UnknownOpcodeError", err)
	}
	if !strings.Contains(out, "0000  DRAW mesh=5") {
		t.Errorf("partial listing missing DRAW:\n%s", out)
	}
	if !strings.Contains(out, "; error: unknown render command opcode: 0xc3 at offset 2") {
		t.Errorf("listing missing error line:\n%s", out)
	}
}

func TestFormatInstructionWithoutOffset(t *testing.T) {
	inst, err := Decode(OpLoadMatrix, []byte{3})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if got := FormatInstruction(&inst); got != "LOAD_MATRIX stack=3" {
		t.Errorf("FormatInstruction = %q", got)
	}
	if got := formatLine(&inst); !strings.HasPrefix(got, "      LOAD_MATRIX") {
		t.Errorf("formatLine = %q", got)
	}
}
