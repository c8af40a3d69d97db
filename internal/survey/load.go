package survey

import (
	"bytes"
	"crypto/sha256"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrUnknown is returned when a built-in survey name does not exist.
var ErrUnknown = errors.New("unknown survey")

// LoadBuiltin loads an embedded survey by name.
func LoadBuiltin(name string) (*Survey, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("survey.LoadBuiltin: %w %q", ErrUnknown, name)
	}
	s, err := Parse(data, name+".yaml")
	if err != nil {
		return nil, fmt.Errorf("survey.LoadBuiltin: parse %q: %w", name, err)
	}
	return s, nil
}

// Load reads a survey definition from a YAML or JSON file.
func Load(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("survey.Load: %w", err)
	}
	s, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("survey.Load: %w", err)
	}
	return s, nil
}

// List returns the names of all built-in surveys.
func List() ([]string, error) {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		n := e.Name()
		if strings.HasSuffix(n, ".yaml") {
			names = append(names, strings.TrimSuffix(n, ".yaml"))
		}
	}
	return names, nil
}

// Parse decodes a survey definition. Unknown fields are rejected.
// The path extension selects JSON; anything else is read as YAML.
func Parse(data []byte, path string) (*Survey, error) {
	var s Survey
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	} else {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("parse yaml: empty document")
			}
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}
	h := sha256.Sum256(data)
	s.Hash = fmt.Sprintf("sha256:%x", h)
	s.once.Do(s.build)
	return &s, nil
}
