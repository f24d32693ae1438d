package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/rendercmd/manifest"
	"github.com/chazu/rendercmd/pkg/rendercmd"
)

var errNoInput = errors.New("no input: give a stream file, -hex, -demo or a " + manifest.FileName + " with [model] stream")

// input collects the stream sources named on the command line.
type input struct {
	hex    string
	demo   bool
	file   string
	offset int // negative means unset
}

// source is a loaded stream positioned at its first command.
type source struct {
	name   string
	cursor *rendercmd.Cursor
}

// load resolves the stream in priority order: -hex, -demo, the file
// argument, then the manifest's model stream.
func (in input) load(m *manifest.Manifest) (*source, error) {
	var (
		name string
		data []byte
		err  error
	)
	offset := in.offset

	switch {
	case in.hex != "":
		name = "hex"
		data, err = parseHex(in.hex)
	case in.demo:
		name = "demo"
		data = demoStream()
	case in.file != "":
		name = filepath.Base(in.file)
		data, err = os.ReadFile(in.file)
	case m != nil && m.StreamPath() != "":
		name = filepath.Base(m.StreamPath())
		data, err = os.ReadFile(m.StreamPath())
		if offset < 0 {
			offset = m.Model.Offset
		}
	default:
		return nil, errNoInput
	}
	if err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	c, err := rendercmd.NewCursorAt(data, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &source{name: name, cursor: c}, nil
}

// parseHex decodes a hex string, ignoring whitespace and an optional 0x
// prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}
