package ast

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Format is the serialization the parser used for a program.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// FormatFromPath picks the format by file extension; anything that is not
// .msgpack or .mp is read as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	}
	return FormatJSON
}

// ErrNoProgram is returned when the input holds no program at all.
var ErrNoProgram = errors.New("no program produced")

// Decode reads, normalizes and validates a program.
func Decode(r io.Reader, format Format) (*Program, error) {
	prog := &Program{}
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(bufio.NewReader(r))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(prog); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoProgram
			}
			return nil, fmt.Errorf("decode msgpack program: %w", err)
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(prog); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, ErrNoProgram
			}
			return nil, fmt.Errorf("decode json program: %w", err)
		}
	}
	prog.Normalize()
	if err := prog.Validate(); err != nil {
		return nil, err
	}
	return prog, nil
}

// LoadFile decodes the program stored at path. When the program does not
// name its source file, File is set to path.
func LoadFile(path string) (*Program, error) {
	// #nosec G304 -- path comes from the project manifest or the command line
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	prog, err := Decode(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if prog.File == "" {
		prog.File = path
	}
	return prog, nil
}

// Encode writes prog in the given format. Tests and tooling use it to
// produce parser-shaped input.
func Encode(w io.Writer, prog *Program, format Format) error {
	if format == FormatMsgpack {
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(true)
		return enc.Encode(prog)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(prog)
}
