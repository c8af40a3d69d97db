package session

import (
	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/survey"
)

// AnswerRecord is the plain form of one answered question.
type AnswerRecord struct {
	Name         string       `json:"name" yaml:"name"`
	Title        string       `json:"title" yaml:"title"`
	Value        answer.Value `json:"value" yaml:"value"`
	DisplayValue string       `json:"display_value" yaml:"display_value"`
}

// Sections groups answered questions for the results page.
type Sections struct {
	Project            []AnswerRecord `json:"project" yaml:"project"`
	RawRisk            []AnswerRecord `json:"raw_risk" yaml:"raw_risk"`
	Mitigation         []AnswerRecord `json:"mitigation" yaml:"mitigation"`
	MitigationPositive []AnswerRecord `json:"mitigation_positive" yaml:"mitigation_positive"`
}

// Sections categorizes the non-empty answers in survey order. Answers to names
// the survey does not define are skipped. Before the first update all groups are empty.
func (s *Session) Sections() Sections {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.updated {
		return Sections{}
	}
	return Categorize(s.Survey, s.answers, s.Policy.ProjectDetailsPanel)
}

// Categorize builds the answer groups for answers against sv.
// projectPanel names the container whose unscored questions describe the project.
func Categorize(sv *survey.Survey, answers answer.Set, projectPanel string) Sections {
	var out Sections
	for _, q := range sv.Questions() {
		v := answers.Get(q.Name)
		if v.IsEmpty() {
			continue
		}
		rec := AnswerRecord{
			Name:         q.Name,
			Title:        q.Title,
			Value:        v,
			DisplayValue: q.DisplayValue(v),
		}
		if rec.Title == "" {
			rec.Title = q.Name
		}

		switch scoring.Classify(q) {
		case scoring.CategoryUnscored:
			if q.Parent == projectPanel {
				out.Project = append(out.Project, rec)
			}
		case scoring.CategoryRawRisk:
			out.RawRisk = append(out.RawRisk, rec)
		case scoring.CategoryMitigation:
			out.Mitigation = append(out.Mitigation, rec)
			if answer.Extract(v) > 0 {
				out.MitigationPositive = append(out.MitigationPositive, rec)
			}
		}
	}
	return out
}
