package scene

import "gonum.org/v1/gonum/mat"

// Matrices act on column vectors; the translation is the last column.

// Identity returns a 4x4 identity matrix.
func Identity() *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})
}

// Translation returns a 4x4 translation matrix.
func Translation(x, y, z float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	})
}

// Scale returns a 4x4 scale matrix.
func Scale(x, y, z float64) *mat.Dense {
	return mat.NewDense(4, 4, []float64{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	})
}

// TRS returns translation x scale.
func TRS(tx, ty, tz, sx, sy, sz float64) *mat.Dense {
	var m mat.Dense
	m.Mul(Translation(tx, ty, tz), Scale(sx, sy, sz))
	return &m
}

// TranslationOf extracts the translation column of m.
func TranslationOf(m mat.Matrix) (x, y, z float64) {
	return m.At(0, 3), m.At(1, 3), m.At(2, 3)
}
