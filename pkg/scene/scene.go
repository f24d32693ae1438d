// Package scene is a reference host for render commands: a matrix-stack
// renderer that records draw calls with the transform in effect.
package scene

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/rendercmd/pkg/rendercmd"
)

var log = commonlog.GetLogger("rendercmd.scene")

// DefaultStackSize is the number of matrix stack slots when Config leaves it unset.
const DefaultStackSize = 32

var (
	ErrStackIndex    = errors.New("matrix stack index out of range")
	ErrObjectIndex   = errors.New("object index out of range")
	ErrBlendIndex    = errors.New("blend matrix index out of range")
	ErrMeshIndex     = errors.New("mesh index out of range")
	ErrMaterialIndex = errors.New("material index out of range")
)

// Config describes the model data a Scene renders.
type Config struct {
	StackSize     int          // Matrix stack slots, DefaultStackSize if zero
	Objects       []*mat.Dense // Object bind matrices by object id
	BlendMatrices []*mat.Dense // Blend (inverse bind) matrices by blend id
	MeshCount     int
	MaterialCount int
}

// DrawCall is one mesh draw with the transform in effect when it was issued.
type DrawCall struct {
	MeshID     uint8
	MaterialID uint8
	Transform  *mat.Dense
}

// Scene implements rendercmd.Renderer over 4x4 matrices.
type Scene struct {
	stack   []*mat.Dense
	current *mat.Dense
	objects []*mat.Dense
	blends  []*mat.Dense

	meshCount     int
	materialCount int

	draws []DrawCall
}

var _ rendercmd.Renderer = (*Scene)(nil)

// New creates a Scene with every stack slot and the active transform set
// to identity.
func New(cfg Config) *Scene {
	size := cfg.StackSize
	if size <= 0 {
		size = DefaultStackSize
	}

	s := &Scene{
		stack:         make([]*mat.Dense, size),
		objects:       cfg.Objects,
		blends:        cfg.BlendMatrices,
		meshCount:     cfg.MeshCount,
		materialCount: cfg.MaterialCount,
	}
	s.Reset()
	return s
}

// Reset restores identity matrices and clears recorded draws.
func (s *Scene) Reset() {
	for i := range s.stack {
		s.stack[i] = Identity()
	}
	s.current = Identity()
	s.draws = nil
}

// LoadMatrix sets the active transform to stack[stackPos].
func (s *Scene) LoadMatrix(stackPos uint8) error {
	if int(stackPos) >= len(s.stack) {
		return fmt.Errorf("%w: %d of %d", ErrStackIndex, stackPos, len(s.stack))
	}
	s.current = mat.DenseCopyOf(s.stack[stackPos])
	return nil
}

// StoreMatrix copies the active transform into stack[stackPos].
func (s *Scene) StoreMatrix(stackPos uint8) error {
	if int(stackPos) >= len(s.stack) {
		return fmt.Errorf("%w: %d of %d", ErrStackIndex, stackPos, len(s.stack))
	}
	s.stack[stackPos] = mat.DenseCopyOf(s.current)
	return nil
}

// MulByObject post-multiplies the active transform by an object matrix.
func (s *Scene) MulByObject(objectID uint8) error {
	if int(objectID) >= len(s.objects) {
		return fmt.Errorf("%w: %d of %d", ErrObjectIndex, objectID, len(s.objects))
	}
	var next mat.Dense
	next.Mul(s.current, s.objects[objectID])
	s.current = &next
	return nil
}

// Blend stores the weighted sum of stack x blend products into stack[stackPos].
// The active transform is not changed.
func (s *Scene) Blend(stackPos uint8, terms []rendercmd.BlendTerm) error {
	if int(stackPos) >= len(s.stack) {
		return fmt.Errorf("%w: %d of %d", ErrStackIndex, stackPos, len(s.stack))
	}

	sum := mat.NewDense(4, 4, nil)
	for i, t := range terms {
		if int(t.StackID) >= len(s.stack) {
			return fmt.Errorf("blend term %d: %w: %d of %d", i, ErrStackIndex, t.StackID, len(s.stack))
		}
		if int(t.BlendID) >= len(s.blends) {
			return fmt.Errorf("blend term %d: %w: %d of %d", i, ErrBlendIndex, t.BlendID, len(s.blends))
		}
		var product mat.Dense
		product.Mul(s.stack[t.StackID], s.blends[t.BlendID])
		product.Scale(t.Weight, &product)
		sum.Add(sum, &product)
	}

	s.stack[stackPos] = sum
	return nil
}

// Draw records a draw of meshID with the active transform.
func (s *Scene) Draw(meshID, materialID uint8) error {
	if int(meshID) >= s.meshCount {
		return fmt.Errorf("%w: %d of %d", ErrMeshIndex, meshID, s.meshCount)
	}
	if int(materialID) >= s.materialCount {
		return fmt.Errorf("%w: %d of %d", ErrMaterialIndex, materialID, s.materialCount)
	}

	log.Debugf("draw mesh %d material %d", meshID, materialID)
	s.draws = append(s.draws, DrawCall{
		MeshID:     meshID,
		MaterialID: materialID,
		Transform:  mat.DenseCopyOf(s.current),
	})
	return nil
}

// Draws returns the recorded draw calls in issue order.
func (s *Scene) Draws() []DrawCall {
	return s.draws
}

// Current returns a copy of the active transform.
func (s *Scene) Current() *mat.Dense {
	return mat.DenseCopyOf(s.current)
}

// StackMatrix returns a copy of stack[pos].
func (s *Scene) StackMatrix(pos int) (*mat.Dense, error) {
	if pos < 0 || pos >= len(s.stack) {
		return nil, fmt.Errorf("%w: %d of %d", ErrStackIndex, pos, len(s.stack))
	}
	return mat.DenseCopyOf(s.stack[pos]), nil
}

// StackSize returns the number of matrix stack slots.
func (s *Scene) StackSize() int {
	return len(s.stack)
}
