// Package survey loads questionnaire definitions and serves question metadata.
package survey

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/dshills/riskscore/internal/answer"
	"gopkg.in/yaml.v3"
)

// QuestionType is the interaction type of a survey element.
type QuestionType string

const (
	TypeRadioGroup QuestionType = "radiogroup"
	TypeCheckbox   QuestionType = "checkbox"
	TypeDropdown   QuestionType = "dropdown"
	TypeText       QuestionType = "text"
	TypeComment    QuestionType = "comment"
	TypeBoolean    QuestionType = "boolean"
	TypeHTML       QuestionType = "html"
	TypePanel      QuestionType = "panel"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeRadioGroup, TypeCheckbox, TypeDropdown, TypeText,
		TypeComment, TypeBoolean, TypeHTML, TypePanel:
		return true
	}
	return false
}

// Selectable reports whether answers are picked from a choice list.
func (t QuestionType) Selectable() bool {
	switch t {
	case TypeRadioGroup, TypeCheckbox, TypeDropdown:
		return true
	}
	return false
}

// Survey is a questionnaire definition.
type Survey struct {
	Name        string `json:"name" yaml:"name" validate:"required"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Version     int    `json:"version" yaml:"version" validate:"gte=1"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Pages       []Page `json:"pages" yaml:"pages" validate:"required,min=1"`

	// Set by Load and LoadBuiltin.
	Hash string `json:"-" yaml:"-"`

	once      sync.Once
	questions []Question
	index     map[string]int
}

// Page is one screen of the questionnaire.
type Page struct {
	Name     string    `json:"name" yaml:"name" validate:"required"`
	Title    string    `json:"title,omitempty" yaml:"title,omitempty"`
	Elements []Element `json:"elements" yaml:"elements"`
}

// Element is a question, or a panel grouping further elements.
type Element struct {
	Type     QuestionType `json:"type" yaml:"type" validate:"required"`
	Name     string       `json:"name" yaml:"name" validate:"required"`
	Title    string       `json:"title,omitempty" yaml:"title,omitempty"`
	Choices  []Choice     `json:"choices,omitempty" yaml:"choices,omitempty"`
	Elements []Element    `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// Choice is one selectable option. Its value may embed a weight, as in "item2-3".
type Choice struct {
	Value answer.Value `json:"value" yaml:"value"`
	Text  string       `json:"text,omitempty" yaml:"text,omitempty"`
}

// UnmarshalYAML accepts both the mapping form and a bare scalar value.
func (c *Choice) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return node.Decode(&c.Value)
	}
	type plain Choice
	var p plain
	if err := node.Decode(&p); err != nil {
		return fmt.Errorf("survey: decode choice: %w", err)
	}
	*c = Choice(p)
	return nil
}

// UnmarshalJSON accepts both the object form and a bare scalar value.
func (c *Choice) UnmarshalJSON(data []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return json.Unmarshal(data, &c.Value)
	}
	type plain Choice
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("survey: decode choice: %w", err)
	}
	*c = Choice(p)
	return nil
}

// Label returns the display text of the choice, falling back to its value.
func (c Choice) Label() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Value.String()
}

// Question is a flattened survey question with its enclosing container.
type Question struct {
	Name    string
	Title   string
	Type    QuestionType
	Parent  string
	Page    string
	Choices []Choice
}

// DisplayValue renders an answer using choice labels where the value matches a choice.
func (q Question) DisplayValue(v answer.Value) string {
	if v.Kind() == answer.KindList {
		labels := make([]string, 0, len(v.Items()))
		for _, it := range v.Items() {
			labels = append(labels, q.label(it))
		}
		return strings.Join(labels, ", ")
	}
	return q.label(v)
}

func (q Question) label(v answer.Value) string {
	for _, c := range q.Choices {
		if c.Value.Equal(v) {
			return c.Label()
		}
	}
	return v.String()
}
