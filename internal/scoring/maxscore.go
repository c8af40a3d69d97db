package scoring

import (
	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/survey"
)

// MaxScore returns the largest contribution a question can make.
// Single-choice questions can contribute at most their best choice; a checkbox
// can have every choice ticked, so its ceiling is the sum. Other types score 0.
func MaxScore(q survey.Question) float64 {
	ceiling := 0.0
	switch q.Type {
	case survey.TypeRadioGroup, survey.TypeDropdown:
		for _, c := range q.Choices {
			if v := answer.Extract(c.Value); v > ceiling {
				ceiling = v
			}
		}
	case survey.TypeCheckbox:
		for _, c := range q.Choices {
			ceiling += answer.Extract(c.Value)
		}
	}
	return saturate(ceiling)
}
