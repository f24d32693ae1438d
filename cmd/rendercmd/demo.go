package main

import (
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/rendercmd/pkg/rendercmd"
	"github.com/chazu/rendercmd/pkg/scene"
)

// demoStream is a small skinned model: a three-bone chain, one blended
// vertex group and two meshes.
func demoStream() []byte {
	b := rendercmd.NewBuilder()
	b.Nop()
	b.MulObject(0, 0)                   // root -> slot 0
	b.MulObject(1, 0)                   // upper -> slot 1
	b.MulObjectRestore(2, 0, 0)         // side bone off the root -> slot 2
	b.MulObjectStoreRestore(1, 1, 8, 1) // lower -> slot 8
	b.Blend(4,
		rendercmd.RawTerm{StackID: 1, BlendID: 1, Weight: 192},
		rendercmd.RawTerm{StackID: 8, BlendID: 2, Weight: 64},
	)
	b.SetMaterial(0)
	b.LoadMatrix(1)
	b.Draw(0)
	b.SetMaterial(1)
	b.LoadMatrix(4)
	b.Draw(1)
	b.End()
	return b.Bytes()
}

func demoSceneConfig() scene.Config {
	return scene.Config{
		StackSize: 16,
		Objects: []*mat.Dense{
			scene.Translation(0, 1, 0),
			scene.Translation(0, 2, 0),
			scene.TRS(1, 0, 0, 0.5, 0.5, 0.5),
		},
		BlendMatrices: []*mat.Dense{
			scene.Identity(),
			scene.Translation(0, -3, 0),
			scene.Translation(0, -5, 0),
		},
		MeshCount:     2,
		MaterialCount: 2,
	}
}
