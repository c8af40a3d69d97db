// Package export writes categorized answers to a file.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/riskscore/internal/session"
	"gopkg.in/yaml.v3"
)

// WriteSections writes the answer groups to outPath. A .yaml or .yml
// extension selects YAML; anything else is written as JSON.
// If every group is empty, no file is created.
func WriteSections(sec session.Sections, outPath string) error {
	if len(sec.Project)+len(sec.RawRisk)+len(sec.Mitigation)+len(sec.MitigationPositive) == 0 {
		return nil
	}

	data, err := Encode(sec, outPath)
	if err != nil {
		return fmt.Errorf("export.WriteSections: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("export.WriteSections: %w", err)
	}
	return nil
}

// Encode serializes the answer groups in the format implied by path.
func Encode(sec session.Sections, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(sec)
	default:
		data, err := json.MarshalIndent(sec, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
