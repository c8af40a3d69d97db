// Package report defines the scoring output document.
package report

import (
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/session"
)

// Tool is the producer name recorded in every report.
const Tool = "riskscore"

// Report is the top-level output object.
type Report struct {
	Tool     string           `json:"tool"`
	Version  string           `json:"version"`
	Input    Input            `json:"input"`
	Summary  Summary          `json:"summary"`
	Sections session.Sections `json:"sections"`
	Meta     Meta             `json:"meta"`
}

// Input describes the survey, answers and policy used for scoring.
type Input struct {
	Survey      string `json:"survey"`
	SurveyHash  string `json:"survey_hash"`
	AnswersFile string `json:"answers_file,omitempty"`
	AnswersHash string `json:"answers_hash,omitempty"`
	Policy      string `json:"policy"`
	Page        int    `json:"page"`
}

// Summary holds the category scores, the adjusted total and the level.
type Summary struct {
	RawRisk     scoring.Score `json:"raw_risk"`
	Mitigation  scoring.Score `json:"mitigation"`
	Total       float64       `json:"total"`
	Mitigated   bool          `json:"mitigated"`
	Level       scoring.Level `json:"level"`
	LevelLabel  string        `json:"level_label"`
	Description string        `json:"description"`
	Tuple       []float64     `json:"tuple"`
}

// Meta records details of the scoring run.
type Meta struct {
	SessionID       string `json:"session_id"`
	ScoredQuestions int    `json:"scored_questions"`
	Answered        int    `json:"answered"`
}

// ComputeSummary derives the report summary from a scoring result.
func ComputeSummary(res scoring.Result) Summary {
	return Summary{
		RawRisk:     res.RawRisk,
		Mitigation:  res.Mitigation,
		Total:       res.Total,
		Mitigated:   res.Mitigated,
		Level:       res.Level,
		LevelLabel:  res.Level.String(),
		Description: res.Level.Description(),
		Tuple:       res.Tuple(),
	}
}

// Build assembles a report from one snapshot of a session, so sections and
// summary always agree. A session with no recorded answers yields the zero
// tuple and an unrated level.
func Build(sess *session.Session, version string, in Input) *Report {
	sn := sess.Snapshot()
	r := &Report{
		Tool:     Tool,
		Version:  version,
		Input:    in,
		Sections: sn.Sections,
		Meta: Meta{
			SessionID:       sess.ID.String(),
			ScoredQuestions: len(sn.ScoredQuestions),
		},
	}
	if r.Input.Survey == "" {
		r.Input.Survey = sess.Survey.Name
	}
	if r.Input.SurveyHash == "" {
		r.Input.SurveyHash = sess.Survey.Hash
	}
	if r.Input.Policy == "" {
		r.Input.Policy = sess.Policy.Name
	}
	r.Input.Page = sn.Page

	if sn.Updated {
		r.Summary = ComputeSummary(sn.Result)
	} else {
		r.Summary = Summary{
			LevelLabel:  scoring.Level(0).String(),
			Description: scoring.Level(0).Description(),
			Tuple:       sn.Tuple(),
		}
	}
	for _, v := range sn.Answers {
		if !v.IsEmpty() {
			r.Meta.Answered++
		}
	}
	return r
}

// MeetsLevel reports whether the report's level is at or above threshold.
// An unrated report never meets a threshold.
func (r *Report) MeetsLevel(threshold scoring.Level) bool {
	if !r.Summary.Level.Valid() {
		return false
	}
	return r.Summary.Level >= threshold
}
