package rendercmd

// MaxBlendTerms is the largest number of terms a BLEND command may carry.
const MaxBlendTerms = 4

// BlendTerm is one weighted contribution to a BLEND:
// Weight * (stack[StackID] x blend[BlendID]).
type BlendTerm struct {
	StackID uint8
	BlendID uint8
	Weight  float64 // In [0, 1)
}

// WeightFromByte converts a fixed-point weight byte to a fraction.
func WeightFromByte(b byte) float64 {
	return float64(b) / 256.0
}

// Renderer is the capability a host implements to execute render commands.
// It owns all matrix data; the interpreter only passes ids through.
// Any error aborts the run.
type Renderer interface {
	// LoadMatrix sets the active transform to stack[stackPos].
	LoadMatrix(stackPos uint8) error

	// StoreMatrix sets stack[stackPos] to the active transform.
	StoreMatrix(stackPos uint8) error

	// MulByObject sets the active transform to active x object[objectID].
	MulByObject(objectID uint8) error

	// Blend stores the weighted sum of stack[t.StackID] x blend[t.BlendID]
	// over terms into stack[stackPos]. Term order is significant.
	Blend(stackPos uint8, terms []BlendTerm) error

	// Draw draws meshID with materialID.
	Draw(meshID, materialID uint8) error
}
