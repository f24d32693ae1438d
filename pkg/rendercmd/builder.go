package rendercmd

// RawTerm is an encoded BLEND term with its fixed-point weight byte.
type RawTerm struct {
	StackID uint8
	BlendID uint8
	Weight  uint8
}

// Builder emits render command streams.
type Builder struct {
	code []byte
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{code: make([]byte, 0, 64)}
}

// Emit appends an opcode with its operands and returns the opcode's offset.
// No validation is done, so malformed streams can be built for tests.
func (b *Builder) Emit(op Opcode, operands ...byte) int {
	offset := len(b.code)
	b.code = append(b.code, byte(op))
	b.code = append(b.code, operands...)
	return offset
}

// Nop emits NOP.
func (b *Builder) Nop() int {
	return b.Emit(OpNop)
}

// End emits END.
func (b *Builder) End() int {
	return b.Emit(OpEnd)
}

// LoadMatrix emits LOAD_MATRIX.
func (b *Builder) LoadMatrix(stackPos uint8) int {
	return b.Emit(OpLoadMatrix, stackPos)
}

// SetMaterial emits SET_MATERIAL.
func (b *Builder) SetMaterial(materialID uint8) int {
	return b.Emit(OpSetMaterial, materialID)
}

// Draw emits DRAW.
func (b *Builder) Draw(meshID uint8) int {
	return b.Emit(OpDraw, meshID)
}

// MulObject emits MUL_OBJECT, storing to the implicit stack cursor.
func (b *Builder) MulObject(objectID, parentID uint8) int {
	return b.Emit(OpMulObject, objectID, parentID, 0)
}

// MulObjectStore emits MUL_OBJECT_STORE with an explicit destination slot.
func (b *Builder) MulObjectStore(objectID, parentID, stackID uint8) int {
	return b.Emit(OpMulObjectStore, objectID, parentID, 0, stackID)
}

// MulObjectRestore emits MUL_OBJECT_RESTORE, loading restoreID before the multiply.
func (b *Builder) MulObjectRestore(objectID, parentID, restoreID uint8) int {
	return b.Emit(OpMulObjectRestore, objectID, parentID, 0, restoreID)
}

// MulObjectStoreRestore emits MUL_OBJECT_STORE_RESTORE.
func (b *Builder) MulObjectStoreRestore(objectID, parentID, stackID, restoreID uint8) int {
	return b.Emit(OpMulObjectStoreRestore, objectID, parentID, 0, stackID, restoreID)
}

// Blend emits BLEND with the given terms. More than MaxBlendTerms terms
// produce a stream the interpreter rejects.
func (b *Builder) Blend(stackPos uint8, terms ...RawTerm) int {
	operands := make([]byte, 0, blendOperandLen(byte(len(terms))))
	operands = append(operands, stackPos, byte(len(terms)))
	for _, t := range terms {
		operands = append(operands, t.StackID, t.BlendID, t.Weight)
	}
	return b.Emit(OpBlend, operands...)
}

// Bytes returns the emitted stream.
func (b *Builder) Bytes() []byte {
	return b.code
}

// Len returns the number of emitted bytes.
func (b *Builder) Len() int {
	return len(b.code)
}
