package rendercmd

import (
	"fmt"
	"sort"
)

// Opcode represents a render command opcode.
type Opcode byte

const (
	// ========================================================================
	// Control
	// ========================================================================

	OpNop Opcode = 0x00 // No operation
	OpEnd Opcode = 0x01 // End of render commands

	// ========================================================================
	// Matrix stack
	// ========================================================================

	OpLoadMatrix Opcode = 0x03 // Load stack slot as active transform: <stack:u8>

	// Multiply by object matrix and store: <object:u8> <parent:u8> <pad:u8> [stack:u8] [restore:u8]
	OpMulObject             Opcode = 0x06
	OpMulObjectStore        Opcode = 0x26 // + explicit destination slot
	OpMulObjectRestore      Opcode = 0x46 // + slot restored before the multiply
	OpMulObjectStoreRestore Opcode = 0x66 // + destination and restore slots

	// Weighted blend: <stack:u8> <count:u8> count * (<stack:u8> <blend:u8> <weight:u8>)
	OpBlend Opcode = 0x09

	// ========================================================================
	// Materials and meshes
	// ========================================================================

	OpSetMaterial   Opcode = 0x04 // Set current material: <material:u8>
	OpSetMaterial24 Opcode = 0x24 // Alias of OpSetMaterial
	OpSetMaterial44 Opcode = 0x44 // Alias of OpSetMaterial
	OpDraw          Opcode = 0x05 // Draw mesh with current material: <mesh:u8>

	// ========================================================================
	// Known length, no effect
	// ========================================================================

	OpUnknown02 Opcode = 0x02
	OpUnknown07 Opcode = 0x07
	OpUnknown08 Opcode = 0x08
	OpUnknown0B Opcode = 0x0b
	OpUnknown2B Opcode = 0x2b
	OpUnknown40 Opcode = 0x40
	OpUnknown80 Opcode = 0x80
)

// VariableLen marks an opcode whose operand length depends on its operands.
const VariableLen = -1

// OpcodeInfo provides metadata about each opcode.
type OpcodeInfo struct {
	Name       string // Human-readable name
	OperandLen int    // Number of operand bytes following the opcode (VariableLen for BLEND)
	Kind       Kind   // Logical operation
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	// Control
	OpNop: {"NOP", 0, KindNop},
	OpEnd: {"END", 0, KindEnd},

	// Matrix stack
	OpLoadMatrix:            {"LOAD_MATRIX", 1, KindLoadMatrix},
	OpMulObject:             {"MUL_OBJECT", 3, KindMulObject},
	OpMulObjectStore:        {"MUL_OBJECT_STORE", 4, KindMulObject},
	OpMulObjectRestore:      {"MUL_OBJECT_RESTORE", 4, KindMulObject},
	OpMulObjectStoreRestore: {"MUL_OBJECT_STORE_RESTORE", 5, KindMulObject},
	OpBlend:                 {"BLEND", VariableLen, KindBlend},

	// Materials and meshes
	OpSetMaterial:   {"SET_MATERIAL", 1, KindSetMaterial},
	OpSetMaterial24: {"SET_MATERIAL_24", 1, KindSetMaterial},
	OpSetMaterial44: {"SET_MATERIAL_44", 1, KindSetMaterial},
	OpDraw:          {"DRAW", 1, KindDraw},

	// Inert
	OpUnknown02: {"UNKNOWN_02", 2, KindInert},
	OpUnknown07: {"UNKNOWN_07", 1, KindInert},
	OpUnknown08: {"UNKNOWN_08", 1, KindInert},
	OpUnknown0B: {"UNKNOWN_0B", 0, KindInert},
	OpUnknown2B: {"UNKNOWN_2B", 0, KindInert},
	OpUnknown40: {"UNKNOWN_40", 0, KindInert},
	OpUnknown80: {"UNKNOWN_80", 0, KindInert},
}

// LookupOpcode returns the metadata for an opcode and whether it is in the
// opcode table.
func LookupOpcode(op Opcode) (OpcodeInfo, bool) {
	info, ok := opcodeInfoTable[op]
	return info, ok
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns an OpcodeInfo named "INVALID(0xNN)" if the opcode is not in the table.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("INVALID(0x%02X)", byte(op)), OperandLen: 0, Kind: KindInert}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// IsKnown reports whether the opcode is in the opcode table.
func (op Opcode) IsKnown() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsVariableLen reports whether the operand length must be read from the stream.
func (op Opcode) IsVariableLen() bool {
	return GetOpcodeInfo(op).OperandLen == VariableLen
}

// OperandLen returns the number of operand bytes that follow op in s,
// without consuming any of them.
//
// For every opcode but BLEND this is a constant from the opcode table. BLEND
// peeks its first two operand bytes; its length is 2 + 3*count where count is
// the second byte. The count is not range checked here.
func OperandLen(op Opcode, s Stream) (int, error) {
	info, ok := opcodeInfoTable[op]
	if !ok {
		return 0, &UnknownOpcodeError{Opcode: op, Offset: -1}
	}
	if info.OperandLen != VariableLen {
		return info.OperandLen, nil
	}

	head, err := s.Peek(2)
	if err != nil {
		return 0, err
	}
	return blendOperandLen(head[1]), nil
}

// blendOperandLen is the operand length of a BLEND with count terms.
func blendOperandLen(count byte) int {
	return 2 + 3*int(count)
}

// AllOpcodes returns all opcodes in the table in ascending order.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	sort.Slice(opcodes, func(i, j int) bool { return opcodes[i] < opcodes[j] })
	return opcodes
}

// OpcodeCount returns the number of defined opcodes.
func OpcodeCount() int {
	return len(opcodeInfoTable)
}
