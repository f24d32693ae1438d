package rendercmd

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of the commands in s up to
// and including END. On a decode error the listing decoded so far is
// returned together with the error.
func Disassemble(s Stream) (string, error) {
	var sb strings.Builder

	sb.WriteString("; Render commands\n")
	insts, err := DecodeAll(s)
	for i := range insts {
		sb.WriteString(formatLine(&insts[i]))
	}
	if err != nil {
		sb.WriteString(fmt.Sprintf("; error: %v\n", err))
		return sb.String(), err
	}

	if c, ok := s.(*Cursor); ok && c.Remaining() > 0 {
		sb.WriteString(fmt.Sprintf("; %d trailing bytes after END\n", c.Remaining()))
	}
	return sb.String(), nil
}

func formatLine(inst *Instruction) string {
	if inst.Offset < 0 {
		return fmt.Sprintf("      %s\n", FormatInstruction(inst))
	}
	return fmt.Sprintf("%04X  %s\n", inst.Offset, FormatInstruction(inst))
}

// FormatInstruction renders a single decoded instruction.
func FormatInstruction(inst *Instruction) string {
	name := inst.Opcode.String()

	switch inst.Kind {
	case KindNop, KindEnd:
		return name

	case KindLoadMatrix:
		return fmt.Sprintf("%s stack=%d", name, inst.StackPos)

	case KindSetMaterial:
		return fmt.Sprintf("%s material=%d", name, inst.MaterialID)

	case KindDraw:
		return fmt.Sprintf("%s mesh=%d", name, inst.MeshID)

	case KindMulObject:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s object=%d parent=%d", name, inst.ObjectID, inst.ParentID))
		if inst.HasStackID {
			sb.WriteString(fmt.Sprintf(" stack=%d", inst.StackID))
		}
		if inst.HasRestoreID {
			sb.WriteString(fmt.Sprintf(" restore=%d", inst.RestoreID))
		}
		return sb.String()

	case KindBlend:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s stack=%d terms=%d", name, inst.StackPos, len(inst.Terms)))
		for _, t := range inst.Terms {
			sb.WriteString(fmt.Sprintf(" (%d,%d,%g)", t.StackID, t.BlendID, t.Weight))
		}
		return sb.String()

	default:
		if len(inst.Operands) == 0 {
			return name
		}
		return fmt.Sprintf("%s ; % x", name, inst.Operands)
	}
}
