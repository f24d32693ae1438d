package rendercmd

import (
	"context"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("rendercmd")

// Interpreter executes one render command stream against a Renderer.
// An Interpreter is created per stream and is not safe for concurrent use.
type Interpreter struct {
	material uint8 // Material used by DRAW
	stackPos uint8 // Destination of the next implicit store
}

// NewInterpreter creates an Interpreter with material 0 and stack cursor 0.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// RunCommands runs s to completion against r with a fresh Interpreter.
func RunCommands(s Stream, r Renderer) error {
	return NewInterpreter().Run(s, r)
}

// Material returns the current material id.
func (in *Interpreter) Material() uint8 {
	return in.material
}

// StackPos returns the current stack cursor.
func (in *Interpreter) StackPos() uint8 {
	return in.stackPos
}

// Run executes commands until END or the first error.
func (in *Interpreter) Run(s Stream, r Renderer) error {
	for {
		done, err := in.Step(s, r)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// RunContext is Run with cancellation. ctx is checked between commands,
// never inside one.
func (in *Interpreter) RunContext(ctx context.Context, s Stream, r Renderer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		done, err := in.Step(s, r)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Step reads and executes exactly one command. It returns true once END
// has been executed.
func (in *Interpreter) Step(s Stream, r Renderer) (bool, error) {
	inst, err := ReadInstruction(s)
	if err != nil {
		return false, err
	}

	if log.AllowLevel(commonlog.Debug) {
		log.Debugf("%04x %-24s % x", inst.Offset, inst.Opcode, inst.Operands)
	}

	done, err := in.Execute(&inst, r)
	if err != nil {
		return false, &CommandError{Offset: inst.Offset, Opcode: inst.Opcode, Err: err}
	}
	return done, nil
}

// Execute applies a decoded instruction. Renderer failures are returned as
// *RendererError.
func (in *Interpreter) Execute(inst *Instruction, r Renderer) (bool, error) {
	switch inst.Kind {
	case KindNop:
		// Do nothing

	case KindEnd:
		return true, nil

	case KindLoadMatrix:
		if err := r.LoadMatrix(inst.StackPos); err != nil {
			return false, &RendererError{Op: "load_matrix", Err: err}
		}

	case KindSetMaterial:
		in.material = inst.MaterialID

	case KindDraw:
		if err := r.Draw(inst.MeshID, in.material); err != nil {
			return false, &RendererError{Op: "draw", Err: err}
		}

	case KindMulObject:
		if inst.HasRestoreID {
			if err := r.LoadMatrix(inst.RestoreID); err != nil {
				return false, &RendererError{Op: "load_matrix", Err: err}
			}
		}
		if err := r.MulByObject(inst.ObjectID); err != nil {
			return false, &RendererError{Op: "mul_by_object", Err: err}
		}
		if inst.HasStackID {
			in.stackPos = inst.StackID
		}
		if err := r.StoreMatrix(in.stackPos); err != nil {
			return false, &RendererError{Op: "store_matrix", Err: err}
		}
		// Wraps at 256
		in.stackPos++

	case KindBlend:
		if len(inst.Terms) > MaxBlendTerms {
			return false, ErrInvalidBlendTermCount
		}
		if err := r.Blend(inst.StackPos, inst.Terms); err != nil {
			return false, &RendererError{Op: "blend", Err: err}
		}
		in.stackPos = inst.StackPos

	default:
		log.Infof("unhandled render command at %04x: %s % x", inst.Offset, inst.Opcode, inst.Operands)
	}

	return false, nil
}
