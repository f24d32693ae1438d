// Package trace records the Renderer calls a render command stream makes
// and serializes them for later inspection.
package trace

import (
	"fmt"
	"strings"

	"github.com/chazu/rendercmd/pkg/rendercmd"
)

// Op names a Renderer operation.
type Op string

const (
	OpLoadMatrix  Op = "load_matrix"
	OpStoreMatrix Op = "store_matrix"
	OpMulByObject Op = "mul_by_object"
	OpBlend       Op = "blend"
	OpDraw        Op = "draw"
)

// Term is a recorded blend term.
type Term struct {
	StackID uint8   `cbor:"s"`
	BlendID uint8   `cbor:"b"`
	Weight  float64 `cbor:"w"`
}

// Call is one recorded Renderer call. Fields not used by Op are zero.
type Call struct {
	Op         Op     `cbor:"op"`
	StackPos   uint8  `cbor:"stack,omitempty"`
	ObjectID   uint8  `cbor:"object,omitempty"`
	MeshID     uint8  `cbor:"mesh,omitempty"`
	MaterialID uint8  `cbor:"material,omitempty"`
	Terms      []Term `cbor:"terms,omitempty"`
	Err        string `cbor:"err,omitempty"` // Error returned by the wrapped renderer
}

// String renders the call in renderer-operation notation.
func (c Call) String() string {
	var s string
	switch c.Op {
	case OpLoadMatrix, OpStoreMatrix:
		s = fmt.Sprintf("%s(%d)", c.Op, c.StackPos)
	case OpMulByObject:
		s = fmt.Sprintf("%s(%d)", c.Op, c.ObjectID)
	case OpDraw:
		s = fmt.Sprintf("%s(%d, %d)", c.Op, c.MeshID, c.MaterialID)
	case OpBlend:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%s(%d, [", c.Op, c.StackPos))
		for i, t := range c.Terms {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(fmt.Sprintf("(%d,%d,%g)", t.StackID, t.BlendID, t.Weight))
		}
		sb.WriteString("])")
		s = sb.String()
	default:
		s = string(c.Op)
	}
	if c.Err != "" {
		s += " ! " + c.Err
	}
	return s
}

// Trace is the outcome of one run: the calls made and the error that
// stopped it, if any.
type Trace struct {
	Calls []Call `cbor:"calls"`
	Err   string `cbor:"err,omitempty"`
}

// String lists one call per line.
func (t *Trace) String() string {
	var sb strings.Builder
	for i, c := range t.Calls {
		sb.WriteString(fmt.Sprintf("%4d  %s\n", i, c))
	}
	if t.Err != "" {
		sb.WriteString(fmt.Sprintf("error: %s\n", t.Err))
	}
	return sb.String()
}

// Count returns how many calls used op.
func (t *Trace) Count(op Op) int {
	n := 0
	for _, c := range t.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// ---------------------------------------------------------------------------
// Recorder
// ---------------------------------------------------------------------------

// Recorder is a Renderer that records every call. If Next is set each call
// is forwarded to it and its error is recorded and returned.
type Recorder struct {
	Next  rendercmd.Renderer
	calls []Call
}

var _ rendercmd.Renderer = (*Recorder)(nil)

// NewRecorder creates a Recorder that forwards to next, which may be nil.
func NewRecorder(next rendercmd.Renderer) *Recorder {
	return &Recorder{Next: next}
}

func (r *Recorder) record(c Call, forward func(rendercmd.Renderer) error) error {
	var err error
	if r.Next != nil {
		err = forward(r.Next)
		if err != nil {
			c.Err = err.Error()
		}
	}
	r.calls = append(r.calls, c)
	return err
}

// LoadMatrix records and forwards a load_matrix call.
func (r *Recorder) LoadMatrix(stackPos uint8) error {
	return r.record(Call{Op: OpLoadMatrix, StackPos: stackPos}, func(n rendercmd.Renderer) error {
		return n.LoadMatrix(stackPos)
	})
}

// StoreMatrix records and forwards a store_matrix call.
func (r *Recorder) StoreMatrix(stackPos uint8) error {
	return r.record(Call{Op: OpStoreMatrix, StackPos: stackPos}, func(n rendercmd.Renderer) error {
		return n.StoreMatrix(stackPos)
	})
}

// MulByObject records and forwards a mul_by_object call.
func (r *Recorder) MulByObject(objectID uint8) error {
	return r.record(Call{Op: OpMulByObject, ObjectID: objectID}, func(n rendercmd.Renderer) error {
		return n.MulByObject(objectID)
	})
}

// Blend records and forwards a blend call. The terms are copied.
func (r *Recorder) Blend(stackPos uint8, terms []rendercmd.BlendTerm) error {
	recorded := make([]Term, len(terms))
	for i, t := range terms {
		recorded[i] = Term{StackID: t.StackID, BlendID: t.BlendID, Weight: t.Weight}
	}
	return r.record(Call{Op: OpBlend, StackPos: stackPos, Terms: recorded}, func(n rendercmd.Renderer) error {
		return n.Blend(stackPos, terms)
	})
}

// Draw records and forwards a draw call.
func (r *Recorder) Draw(meshID, materialID uint8) error {
	return r.record(Call{Op: OpDraw, MeshID: meshID, MaterialID: materialID}, func(n rendercmd.Renderer) error {
		return n.Draw(meshID, materialID)
	})
}

// Calls returns the recorded calls.
func (r *Recorder) Calls() []Call {
	return r.calls
}

// Trace packages the recorded calls with the run's error.
func (r *Recorder) Trace(runErr error) *Trace {
	t := &Trace{Calls: r.calls}
	if runErr != nil {
		t.Err = runErr.Error()
	}
	return t
}

// Run executes s against a new Recorder wrapping next and returns the trace.
// The run error is both returned and stored in the trace.
func Run(s rendercmd.Stream, next rendercmd.Renderer) (*Trace, error) {
	rec := NewRecorder(next)
	err := rendercmd.RunCommands(s, rec)
	return rec.Trace(err), err
}
