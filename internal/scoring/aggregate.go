package scoring

import (
	"math"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/survey"
)

// Score accumulates the actual and maximum contribution of one category.
type Score struct {
	Actual float64 `json:"actual"`
	Max    float64 `json:"max"`
}

// add accumulates one question. Sums saturate at the largest float64
// instead of overflowing to infinity.
func (s *Score) add(actual, ceiling float64) {
	s.Actual = saturate(s.Actual + actual)
	s.Max = saturate(s.Max + ceiling)
}

func saturate(f float64) float64 {
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

// Totals holds the per-category scores of one computation.
type Totals struct {
	RawRisk    Score `json:"raw_risk"`
	Mitigation Score `json:"mitigation"`
}

// QuestionSource resolves question metadata by name. *survey.Survey satisfies it.
type QuestionSource interface {
	Question(name string) (survey.Question, bool)
}

// Aggregate sums answers and maxima for each scored question name.
// Names that no longer resolve to a question contribute nothing.
func Aggregate(answers answer.Set, questions QuestionSource, names []string) Totals {
	var t Totals
	for _, name := range names {
		q, ok := questions.Question(name)
		if !ok {
			continue
		}
		switch Classify(q) {
		case CategoryRawRisk:
			t.RawRisk.add(answer.Extract(answers.Get(name)), MaxScore(q))
		case CategoryMitigation:
			t.Mitigation.add(answer.Extract(answers.Get(name)), MaxScore(q))
		}
	}
	return t
}
