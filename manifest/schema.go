package manifest

import (
	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

const schemaSource = `
#Vec3: [number, number, number]

#Manifest: {
	model?: {
		stream?:           string
		offset?:           int & >=0
		"mesh-count"?:     int & >=0
		"material-count"?: int & >=0
	}
	scene?: {
		"stack-size"?: int & >=1 & <=256
	}
	object?: [...{
		id:           int & >=0 & <=255
		translation?: #Vec3
		scale?:       #Vec3
	}]
	blend?: [...{
		id:           int & >=0 & <=255
		translation?: #Vec3
	}]
	log?: {
		verbosity?: int & >=-4 & <=2
		path?:      string
	}
	trace?: {
		output?: string
		store?:  string
	}
}
`

// validate checks a decoded TOML document against the manifest schema.
// Unknown tables and keys are rejected.
func validate(doc map[string]any) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Manifest"))
	if err := schema.Err(); err != nil {
		return err
	}

	v := ctx.Encode(doc)
	if err := v.Err(); err != nil {
		return err
	}
	return schema.Unify(v).Validate(cue.Concrete(true))
}
