package scoring

import "github.com/dshills/riskscore/internal/survey"

// Classify returns the category of a question. The question's own suffix wins;
// otherwise the parent's suffix applies, since grouped questions usually carry
// it on the panel. With neither, the question is unscored.
func Classify(q survey.Question) Category {
	if c := DecodeSuffix(q.Name); c != CategoryNone {
		return c
	}
	if c := DecodeSuffix(q.Parent); c != CategoryNone {
		return c
	}
	return CategoryUnscored
}

// HasScore reports whether a question belongs in the scored question set:
// a selectable question classified as raw risk or mitigation.
func HasScore(q survey.Question) bool {
	if !q.Type.Selectable() {
		return false
	}
	return Classify(q).Scored()
}

// ScoredQuestions returns the names of all questions that pass HasScore, in document order.
func ScoredQuestions(questions []survey.Question) []string {
	var names []string
	for _, q := range questions {
		if HasScore(q) {
			names = append(names, q.Name)
		}
	}
	return names
}
