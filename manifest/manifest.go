// Package manifest handles rendercmd.toml project configuration.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/mat"

	"github.com/chazu/rendercmd/pkg/scene"
)

// FileName is the manifest file looked for by Load and FindAndLoad.
const FileName = "rendercmd.toml"

// ErrInvalidManifest is returned when a manifest fails validation.
var ErrInvalidManifest = errors.New("invalid manifest")

// Manifest represents a rendercmd.toml project configuration.
type Manifest struct {
	Model   Model         `toml:"model"`
	Scene   SceneSettings `toml:"scene"`
	Objects []Object      `toml:"object"`
	Blends  []Blend       `toml:"blend"`
	Log     LogConfig     `toml:"log"`
	Trace   TraceConfig   `toml:"trace"`

	// Dir is the directory containing the rendercmd.toml file (set at load time).
	Dir string `toml:"-"`
}

// Model locates the render command stream and sizes its tables.
type Model struct {
	Stream        string `toml:"stream"`
	Offset        int    `toml:"offset"`
	MeshCount     int    `toml:"mesh-count"`
	MaterialCount int    `toml:"material-count"`
}

// SceneSettings configures the matrix stack.
type SceneSettings struct {
	StackSize int `toml:"stack-size"`
}

// Object is one object matrix, built from a translation and scale.
type Object struct {
	ID          int        `toml:"id"`
	Translation [3]float64 `toml:"translation"`
	Scale       [3]float64 `toml:"scale"`
}

// Blend is one blend matrix.
type Blend struct {
	ID          int        `toml:"id"`
	Translation [3]float64 `toml:"translation"`
}

// LogConfig configures commonlog.
type LogConfig struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

// TraceConfig configures trace output.
type TraceConfig struct {
	Output string `toml:"output"`
	Store  string `toml:"store"`
}

// Load parses and validates a rendercmd.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return m, nil
}

// Parse decodes and validates manifest text. Dir is left empty.
func Parse(data []byte) (*Manifest, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if err := m.checkIDs(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}

	// Defaults
	if m.Scene.StackSize == 0 {
		m.Scene.StackSize = scene.DefaultStackSize
	}
	for i := range m.Objects {
		if m.Objects[i].Scale == [3]float64{} {
			m.Objects[i].Scale = [3]float64{1, 1, 1}
		}
	}

	return &m, nil
}

func (m *Manifest) checkIDs() error {
	seen := make(map[int]bool)
	for _, o := range m.Objects {
		if seen[o.ID] {
			return fmt.Errorf("duplicate object id %d", o.ID)
		}
		seen[o.ID] = true
	}
	seen = make(map[int]bool)
	for _, b := range m.Blends {
		if seen[b.ID] {
			return fmt.Errorf("duplicate blend id %d", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// FindAndLoad walks up from startDir to find a rendercmd.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// StreamPath returns the absolute path of the model stream, or "" if none
// is configured.
func (m *Manifest) StreamPath() string {
	if m.Model.Stream == "" {
		return ""
	}
	if filepath.IsAbs(m.Model.Stream) {
		return m.Model.Stream
	}
	return filepath.Join(m.Dir, m.Model.Stream)
}

// SceneConfig builds the scene renderer configuration. Object and blend
// slots without an entry are identity matrices.
func (m *Manifest) SceneConfig() scene.Config {
	cfg := scene.Config{
		StackSize:     m.Scene.StackSize,
		MeshCount:     m.Model.MeshCount,
		MaterialCount: m.Model.MaterialCount,
	}

	for _, o := range m.Objects {
		cfg.Objects = growIdentity(cfg.Objects, o.ID+1)
		cfg.Objects[o.ID] = scene.TRS(
			o.Translation[0], o.Translation[1], o.Translation[2],
			o.Scale[0], o.Scale[1], o.Scale[2],
		)
	}
	for _, b := range m.Blends {
		cfg.BlendMatrices = growIdentity(cfg.BlendMatrices, b.ID+1)
		cfg.BlendMatrices[b.ID] = scene.Translation(b.Translation[0], b.Translation[1], b.Translation[2])
	}
	return cfg
}

func growIdentity(ms []*mat.Dense, n int) []*mat.Dense {
	for len(ms) < n {
		ms = append(ms, scene.Identity())
	}
	return ms
}
