// Package rendercmd decodes the render command bytecode embedded in 3D model
// assets and drives a matrix-stack renderer with it.
//
// A render command stream positions the sub-meshes (bones/objects) of a
// rigid or skinned model and issues draw calls. Each command is a single
// opcode byte followed by an operand block whose length is fixed per opcode,
// except for BLEND, whose length depends on a term count stored inside its
// own operand block.
//
// # Architecture Overview
//
//   - Opcodes: the opcode table maps every known opcode byte to a mnemonic,
//     a static operand length and the logical operation it performs.
//     Several opcode values are aliases of one logical operation.
//
//   - Stream: a forward-only byte source with a non-destructive Peek.
//     Cursor is the in-memory implementation used for model files that are
//     already loaded.
//
//   - Instruction: the decoded form of one command. Decode separates the
//     logical operation (Kind) from the raw opcode byte so that handler logic
//     is written once per operation.
//
//   - Interpreter: the decode-dispatch loop. It owns the current material and
//     the current stack cursor and forwards every command exactly once to a
//     Renderer.
//
//   - Renderer: the capability the host implements. It owns the matrix stack,
//     the active transform, object and blend matrices, meshes and materials.
//     The interpreter performs no matrix arithmetic.
//
// # Matrix Stack Cursor
//
// MUL_OBJECT commands without an explicit destination store to the current
// stack cursor and then advance it by one, so a chain of MUL_OBJECT commands
// lays out a sequential hierarchy of bone matrices. BLEND and the explicit
// forms of MUL_OBJECT overwrite the cursor.
//
// # Errors
//
// A run either reaches END or stops at the first error. Unknown opcodes are
// fatal because their operand length cannot be determined. Opcodes that are
// in the table but have no effect consume their operands and are logged.
package rendercmd
