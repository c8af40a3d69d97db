// Package scoring turns survey answers into raw risk, mitigation and a risk level.
package scoring

import (
	"fmt"
	"strings"
)

// Category is the scoring role of a question, derived from its naming suffix.
type Category string

const (
	// CategoryNone means no suffix was found. It only appears as an intermediate result.
	CategoryNone       Category = ""
	CategoryUnscored   Category = "UNSCORED"
	CategoryRawRisk    Category = "RAW_RISK"
	CategoryMitigation Category = "MITIGATION"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryUnscored, CategoryRawRisk, CategoryMitigation:
		return true
	}
	return false
}

// Scored reports whether the category contributes to a score.
func (c Category) Scored() bool {
	return c == CategoryRawRisk || c == CategoryMitigation
}

// DecodeSuffix reads the classification suffix of a question or container name.
func DecodeSuffix(name string) Category {
	switch {
	case strings.HasSuffix(name, "-RS"):
		return CategoryRawRisk
	case strings.HasSuffix(name, "-MS"):
		return CategoryMitigation
	case strings.HasSuffix(name, "-NS"):
		return CategoryUnscored
	}
	return CategoryNone
}

// Level is the ordinal risk band, 1 (lowest) to 4 (highest).
type Level int

const (
	LevelI   Level = 1
	LevelII  Level = 2
	LevelIII Level = 3
	LevelIV  Level = 4
)

func (l Level) Valid() bool {
	return l >= LevelI && l <= LevelIV
}

func (l Level) String() string {
	switch l {
	case LevelI:
		return "Level I"
	case LevelII:
		return "Level II"
	case LevelIII:
		return "Level III"
	case LevelIV:
		return "Level IV"
	}
	return "Unrated"
}

// Description summarizes the impact of a level.
func (l Level) Description() string {
	switch l {
	case LevelI:
		return "Little to no impact"
	case LevelII:
		return "Moderate impact"
	case LevelIII:
		return "High impact"
	case LevelIV:
		return "Very high impact"
	}
	return "Not assessed"
}

// ParseLevel reads a level written as 1-4, I-IV, or "Level III".
func ParseLevel(s string) (Level, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimSpace(strings.TrimPrefix(v, "LEVEL"))
	switch v {
	case "1", "I":
		return LevelI, nil
	case "2", "II":
		return LevelII, nil
	case "3", "III":
		return LevelIII, nil
	case "4", "IV":
		return LevelIV, nil
	}
	return 0, fmt.Errorf("scoring.ParseLevel: invalid level %q", s)
}
