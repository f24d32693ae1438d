package trace

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode so equal traces encode to equal bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("trace: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Marshal serializes a Trace to CBOR bytes.
func Marshal(t *Trace) ([]byte, error) {
	return cborEncMode.Marshal(t)
}

// Unmarshal deserializes a Trace from CBOR bytes.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("trace: unmarshal: %w", err)
	}
	return &t, nil
}
