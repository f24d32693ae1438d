package rendercmd

import "fmt"

// Kind is the logical operation of an instruction, independent of which
// opcode alias encoded it.
type Kind uint8

const (
	KindInert Kind = iota // In the table, no effect
	KindNop
	KindEnd
	KindLoadMatrix
	KindSetMaterial
	KindDraw
	KindMulObject
	KindBlend
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindInert:
		return "inert"
	case KindNop:
		return "nop"
	case KindEnd:
		return "end"
	case KindLoadMatrix:
		return "load_matrix"
	case KindSetMaterial:
		return "set_material"
	case KindDraw:
		return "draw"
	case KindMulObject:
		return "mul_object"
	case KindBlend:
		return "blend"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Instruction is one decoded render command.
// Which fields are meaningful depends on Kind.
type Instruction struct {
	Offset   int    // Byte offset of the opcode, -1 if unknown
	Opcode   Opcode // Raw opcode byte
	Kind     Kind
	Operands []byte // Raw operand block

	// KindLoadMatrix, KindBlend: source or destination slot
	StackPos uint8

	// KindSetMaterial
	MaterialID uint8

	// KindDraw
	MeshID uint8

	// KindMulObject
	ObjectID     uint8
	ParentID     uint8 // Decoded but not forwarded to the Renderer
	StackID      uint8
	HasStackID   bool
	RestoreID    uint8
	HasRestoreID bool

	// KindBlend
	Terms []BlendTerm
}

// Len returns the encoded length of the instruction including the opcode.
func (inst *Instruction) Len() int {
	return 1 + len(inst.Operands)
}

// Decode builds an Instruction from an opcode and its complete operand block.
// The returned Instruction has Offset -1.
func Decode(op Opcode, operands []byte) (Instruction, error) {
	info, ok := opcodeInfoTable[op]
	if !ok {
		return Instruction{}, &UnknownOpcodeError{Opcode: op, Offset: -1}
	}

	inst := Instruction{
		Offset:   -1,
		Opcode:   op,
		Kind:     info.Kind,
		Operands: operands,
	}

	if info.OperandLen != VariableLen && len(operands) != info.OperandLen {
		return inst, fmt.Errorf("%w: %s takes %d bytes, got %d",
			ErrMalformedOperands, op, info.OperandLen, len(operands))
	}

	switch info.Kind {
	case KindLoadMatrix:
		inst.StackPos = operands[0]

	case KindSetMaterial:
		inst.MaterialID = operands[0]

	case KindDraw:
		inst.MeshID = operands[0]

	case KindMulObject:
		// operands[2] is padding
		inst.ObjectID = operands[0]
		inst.ParentID = operands[1]
		switch op {
		case OpMulObjectStore:
			inst.StackID, inst.HasStackID = operands[3], true
		case OpMulObjectRestore:
			inst.RestoreID, inst.HasRestoreID = operands[3], true
		case OpMulObjectStoreRestore:
			inst.StackID, inst.HasStackID = operands[3], true
			inst.RestoreID, inst.HasRestoreID = operands[4], true
		}

	case KindBlend:
		terms, err := decodeBlend(operands)
		if err != nil {
			return inst, err
		}
		inst.StackPos = operands[0]
		inst.Terms = terms
	}

	return inst, nil
}

// decodeBlend extracts the ordered term list of a BLEND operand block.
func decodeBlend(operands []byte) ([]BlendTerm, error) {
	if len(operands) < 2 {
		return nil, fmt.Errorf("%w: BLEND needs at least 2 bytes, got %d", ErrMalformedOperands, len(operands))
	}
	count := operands[1]
	if count > MaxBlendTerms {
		return nil, fmt.Errorf("%w: %d terms, at most %d allowed", ErrInvalidBlendTermCount, count, MaxBlendTerms)
	}
	if want := blendOperandLen(count); len(operands) != want {
		return nil, fmt.Errorf("%w: BLEND with %d terms takes %d bytes, got %d",
			ErrMalformedOperands, count, want, len(operands))
	}

	terms := make([]BlendTerm, count, MaxBlendTerms)
	for i := range terms {
		p := operands[2+3*i:]
		terms[i] = BlendTerm{
			StackID: p[0],
			BlendID: p[1],
			Weight:  WeightFromByte(p[2]),
		}
	}
	return terms, nil
}

// ReadInstruction reads and decodes the next command from s.
func ReadInstruction(s Stream) (Instruction, error) {
	offset := streamOffset(s)

	b, err := s.ReadByte()
	if err != nil {
		return Instruction{Offset: offset}, fmt.Errorf("reading opcode at offset %d: %w", offset, err)
	}
	op := Opcode(b)

	n, err := OperandLen(op, s)
	if err != nil {
		if uerr, ok := err.(*UnknownOpcodeError); ok {
			uerr.Offset = offset
			return Instruction{Offset: offset, Opcode: op}, uerr
		}
		return Instruction{Offset: offset, Opcode: op}, &CommandError{Offset: offset, Opcode: op, Err: err}
	}

	operands, err := s.ReadN(n)
	if err != nil {
		return Instruction{Offset: offset, Opcode: op}, &CommandError{Offset: offset, Opcode: op, Err: err}
	}

	inst, err := Decode(op, operands)
	inst.Offset = offset
	if err != nil {
		return inst, &CommandError{Offset: offset, Opcode: op, Err: err}
	}
	return inst, nil
}

// DecodeAll decodes commands from s up to and including END without
// executing them.
func DecodeAll(s Stream) ([]Instruction, error) {
	var insts []Instruction
	for {
		inst, err := ReadInstruction(s)
		if err != nil {
			return insts, err
		}
		insts = append(insts, inst)
		if inst.Kind == KindEnd {
			return insts, nil
		}
	}
}
