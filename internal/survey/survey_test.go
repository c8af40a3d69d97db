package survey

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltin(t *testing.T) {
	s, err := LoadBuiltin("aia")
	require.NoError(t, err)
	assert.Equal(t, "aia", s.Name)
	assert.Equal(t, 3, s.PageCount())
	assert.Contains(t, s.Hash, "sha256:")
	assert.Len(t, s.Questions(), 14)
}

func TestLoadBuiltinUnknown(t *testing.T) {
	_, err := LoadBuiltin("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknown))
}

func TestList(t *testing.T) {
	names, err := List()
	require.NoError(t, err)
	assert.Contains(t, names, "aia")
}

func TestQuestionParents(t *testing.T) {
	s, err := LoadBuiltin("aia")
	require.NoError(t, err)

	tests := []struct {
		name   string
		parent string
		page   string
	}{
		{"systemAutonomy", "aboutSystemPanel-RS", "riskAssessment"},
		{"impactRights-RS", "riskAssessment", "riskAssessment"},
		{"projectTitle", "projectDetailsPanel-NS", "projectDetails"},
		{"implementationMeasures", "implementationPhasePanel-MS", "mitigation"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, ok := s.Question(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.parent, q.Parent)
			assert.Equal(t, tt.page, q.Page)
		})
	}

	_, ok := s.Question("aboutSystemPanel-RS")
	assert.False(t, ok, "panels are not questions")
}

func TestQuestionIndexConcurrent(t *testing.T) {
	s := &Survey{
		Name:    "inline",
		Version: 1,
		Pages: []Page{{
			Name: "page1",
			Elements: []Element{
				{Type: TypeRadioGroup, Name: "impact-RS"},
				{Type: TypePanel, Name: "controls-MS", Elements: []Element{
					{Type: TypeCheckbox, Name: "review"},
				}},
			},
		}},
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				q, ok := s.Question("review")
				assert.True(t, ok)
				assert.Equal(t, "controls-MS", q.Parent)
				return
			}
			assert.Len(t, s.Questions(), 2)
		}(i)
	}
	wg.Wait()
}

func TestParseYAMLChoiceForms(t *testing.T) {
	doc := `
name: mini
version: 1
pages:
  - name: p1
    elements:
      - type: radiogroup
        name: q1-RS
        choices:
          - item1-1
          - value: item2-3
            text: High
          - 4
`
	s, err := Parse([]byte(doc), "mini.yaml")
	require.NoError(t, err)

	q, ok := s.Question("q1-RS")
	require.True(t, ok)
	require.Len(t, q.Choices, 3)
	assert.Equal(t, answer.String("item1-1"), q.Choices[0].Value)
	assert.Equal(t, "High", q.Choices[1].Label())
	assert.Equal(t, answer.Number(4), q.Choices[2].Value)
	assert.Equal(t, "p1", q.Parent)
}

func TestParseYAMLUnknownField(t *testing.T) {
	_, err := Parse([]byte("name: x\nversion: 1\ncolour: red\n"), "x.yaml")
	assert.Error(t, err)
}

func TestParseYAMLEmpty(t *testing.T) {
	_, err := Parse(nil, "x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestParseJSON(t *testing.T) {
	doc := `{
  "name": "mini",
  "version": 1,
  "pages": [{
    "name": "p1",
    "elements": [{
      "type": "panel",
      "name": "group-MS",
      "elements": [{"type": "checkbox", "name": "q1", "choices": ["a-1", {"value": "b-2", "text": "Both"}]}]
    }]
  }]
}`
	s, err := Parse([]byte(doc), "mini.json")
	require.NoError(t, err)
	q, ok := s.Question("q1")
	require.True(t, ok)
	assert.Equal(t, "group-MS", q.Parent)
	assert.Equal(t, "Both", q.Choices[1].Label())

	_, err = Parse([]byte(`{"name":"x","extra":true}`), "x.json")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: f\nversion: 2\npages:\n  - name: p\n    elements:\n      - type: text\n        name: t\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Version)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestDisplayValue(t *testing.T) {
	s, err := LoadBuiltin("aia")
	require.NoError(t, err)

	dept, _ := s.Question("department")
	assert.Equal(t, "Health", dept.DisplayValue(answer.String("health")))
	assert.Equal(t, "unknown", dept.DisplayValue(answer.String("unknown")))

	q := Question{Type: TypeCheckbox, Choices: []Choice{
		{Value: answer.String("a-1"), Text: "Alpha"},
		{Value: answer.String("b-2"), Text: "Beta"},
	}}
	assert.Equal(t, "Alpha, Beta", q.DisplayValue(answer.List(answer.String("a-1"), answer.String("b-2"))))
}
