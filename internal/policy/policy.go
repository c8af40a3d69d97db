// Package policy loads the named constant sets used to turn category totals into a risk level.
package policy

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// ErrUnknown is returned when a built-in policy name does not exist.
var ErrUnknown = errors.New("unknown policy")

var validate = validator.New()

// Policy holds the constants of the final score computation.
type Policy struct {
	Name        string `yaml:"name" json:"name" validate:"required"`
	Version     int    `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description,omitempty"`

	// Fraction of the per-fork mitigation maximum required to count as mitigated.
	MitigationThreshold float64 `yaml:"mitigation_threshold" json:"mitigation_threshold" validate:"gt=0,lte=1"`
	// Number of parallel copies of each mitigation control (design and implementation).
	MitigationForks int `yaml:"mitigation_forks" json:"mitigation_forks" validate:"gte=1"`
	// Share of the raw risk removed when mitigated.
	Deduction float64 `yaml:"deduction" json:"deduction" validate:"gte=0,lt=1"`
	// Upper edges of levels 1-3 as fractions of the raw risk maximum, ascending.
	Bands []float64 `yaml:"bands" json:"bands" validate:"len=3,dive,gt=0,lte=1"`
	// Grouping whose unscored answers form the project-details section.
	ProjectDetailsPanel string `yaml:"project_details_panel" json:"project_details_panel" validate:"required"`
}

// Default returns the standard policy. It matches builtin/default.yaml.
func Default() Policy {
	return Policy{
		Name:                "default",
		Version:             1,
		Description:         "Standard impact assessment scoring.",
		MitigationThreshold: 0.8,
		MitigationForks:     2,
		Deduction:           0.15,
		Bands:               []float64{0.25, 0.5, 0.75},
		ProjectDetailsPanel: "projectDetailsPanel-NS",
	}
}

// Validate checks field ranges and band ordering.
func (p Policy) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("policy %q: %w", p.Name, err)
	}
	if !sort.Float64sAreSorted(p.Bands) {
		return fmt.Errorf("policy %q: bands must be ascending", p.Name)
	}
	return nil
}

// LoadBuiltin loads a built-in policy by name.
func LoadBuiltin(name string) (*Policy, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("policy.LoadBuiltin: %w %q", ErrUnknown, name)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("policy.LoadBuiltin: %q: %w", name, err)
	}
	return p, nil
}

// Load reads and validates a policy from a YAML file.
func Load(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("policy.Load: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("policy.Load: %w", err)
	}
	return p, nil
}

// Parse decodes and validates a policy document.
func Parse(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the names of all available built-in policies.
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
