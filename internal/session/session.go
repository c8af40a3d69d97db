// Package session holds in-progress survey state and derives scores from it.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/google/uuid"
)

// ErrInvalidPage is returned when an update names a page the survey does not have.
var ErrInvalidPage = errors.New("invalid page")

// Session is the state of one respondent working through a survey.
// It is safe for concurrent use.
type Session struct {
	ID     uuid.UUID
	Survey *survey.Survey
	Policy policy.Policy

	mu        sync.Mutex
	answers   answer.Set
	page      int
	updated   bool
	scored    []string
	populated bool
}

// New starts an empty session over s scored under p.
func New(s *survey.Survey, p policy.Policy) *Session {
	return &Session{
		ID:     uuid.New(),
		Survey: s,
		Policy: p,
	}
}

// Update replaces the answer snapshot and current page. The scored question
// set is computed on the first update and reused until Reset.
func (s *Session) Update(answers answer.Set, page int) error {
	if page < 0 || page >= s.Survey.PageCount() {
		return fmt.Errorf("session.Update: %w: %d", ErrInvalidPage, page)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.answers = answers.Clone()
	s.page = page
	s.updated = true
	if !s.populated {
		s.scored = scoring.ScoredQuestions(s.Survey.Questions())
		s.populated = true
	}
	return nil
}

// Reset discards answers, returns to the first page and clears the scored question cache.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = nil
	s.page = 0
	s.updated = false
	s.scored = nil
	s.populated = false
}

// InProgress reports whether any non-empty answer has been recorded.
func (s *Session) InProgress() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.answers {
		if !v.IsEmpty() {
			return true
		}
	}
	return false
}

// Page returns the current page index.
func (s *Session) Page() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// Answers returns a copy of the current answer snapshot.
func (s *Session) Answers() answer.Set {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers.Clone()
}

// ScoredQuestions returns the cached scored question names, or nil before the first update.
func (s *Session) ScoredQuestions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.populated {
		return nil
	}
	return append([]string(nil), s.scored...)
}

// Result computes the full scoring result. ok is false before the first update.
func (s *Session) Result() (res scoring.Result, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.updated {
		return scoring.Result{}, false
	}
	return scoring.Compute(s.Policy, s.answers, s.Survey, s.scored), true
}

// CalcScore returns [rawRisk, mitigation, total, level], or [0, 0, 0]
// when no answers have been recorded yet.
func (s *Session) CalcScore() []float64 {
	res, ok := s.Result()
	if !ok {
		return []float64{0, 0, 0}
	}
	return res.Tuple()
}

// Snapshot is a consistent view of a session taken under a single lock.
type Snapshot struct {
	Page            int
	Answers         answer.Set
	ScoredQuestions []string
	Sections        Sections

	// Result is valid only when Updated is true.
	Updated bool
	Result  scoring.Result
}

// Tuple returns the score tuple of the snapshot, or [0, 0, 0] before the first update.
func (sn Snapshot) Tuple() []float64 {
	if !sn.Updated {
		return []float64{0, 0, 0}
	}
	return sn.Result.Tuple()
}

// Snapshot captures answers, sections and score together so that a
// concurrent Update cannot interleave between them.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn := Snapshot{
		Page:    s.page,
		Answers: s.answers.Clone(),
		Updated: s.updated,
	}
	if s.populated {
		sn.ScoredQuestions = append([]string(nil), s.scored...)
	}
	if s.updated {
		sn.Sections = Categorize(s.Survey, s.answers, s.Policy.ProjectDetailsPanel)
		sn.Result = scoring.Compute(s.Policy, s.answers, s.Survey, s.scored)
	}
	return sn
}
