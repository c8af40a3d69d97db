package answer

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Set maps question names to their current answers.
type Set map[string]Value

// Get returns the answer for name, or Absent when there is none.
func (s Set) Get(name string) Value {
	if s == nil {
		return Absent()
	}
	return s[name]
}

// Clone returns a shallow copy of s. Values are immutable so this is a full snapshot.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Names returns the answered question names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// File holds an answers file with its decoded snapshot and hash.
type File struct {
	FilePath string
	Answers  Set
	Hash     string
}

// Load reads a JSON or YAML answers file and computes its SHA-256 hash.
// The file holds a single object mapping question names to values.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("answer.Load: %w", err)
	}
	set, err := Parse(data, path)
	if err != nil {
		return nil, fmt.Errorf("answer.Load: %w", err)
	}
	h := sha256.Sum256(data)
	return &File{
		FilePath: path,
		Answers:  set,
		Hash:     fmt.Sprintf("sha256:%x", h),
	}, nil
}

// Parse decodes answers; the path extension selects JSON or YAML.
func Parse(data []byte, path string) (Set, error) {
	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	}
	return FromMap(raw), nil
}

// FromMap converts decoded answer data into a Set.
func FromMap(m map[string]any) Set {
	set := make(Set, len(m))
	for k, v := range m {
		set[k] = FromAny(v)
	}
	return set
}
