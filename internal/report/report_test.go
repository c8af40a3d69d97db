package report

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/policy"
	"github.com/dshills/riskscore/internal/scoring"
	"github.com/dshills/riskscore/internal/session"
	"github.com/dshills/riskscore/internal/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := survey.LoadBuiltin("aia")
	require.NoError(t, err)
	return session.New(s, policy.Default())
}

func TestBuild(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.Update(answer.Set{
		"impactRights-RS":   answer.String("item4-4"),
		"systemAutonomy":    answer.String("item3-4"),
		"humanOversight-MS": answer.String("item1-0"),
		"projectTitle":      answer.String(""),
	}, 1))

	r := Build(sess, "1.2.3", Input{AnswersFile: "a.json", AnswersHash: "sha256:abc"})
	assert.Equal(t, Tool, r.Tool)
	assert.Equal(t, "1.2.3", r.Version)
	assert.Equal(t, "aia", r.Input.Survey)
	assert.Equal(t, "default", r.Input.Policy)
	assert.Equal(t, 1, r.Input.Page)
	assert.Equal(t, sess.Survey.Hash, r.Input.SurveyHash)

	// 8 of 17: above 4.25, at most 8.5.
	assert.Equal(t, []float64{8, 0, 8, 2}, r.Summary.Tuple)
	assert.Equal(t, scoring.LevelII, r.Summary.Level)
	assert.Equal(t, "Level II", r.Summary.LevelLabel)
	assert.False(t, r.Summary.Mitigated)

	assert.Equal(t, 9, r.Meta.ScoredQuestions)
	assert.Equal(t, 3, r.Meta.Answered)
	assert.Equal(t, sess.ID.String(), r.Meta.SessionID)
}

func TestBuildConsistentUnderConcurrentUpdates(t *testing.T) {
	sess := newSession(t)
	one := answer.Set{"impactRights-RS": answer.String("item4-4")}
	two := answer.Set{
		"impactRights-RS": answer.String("item4-4"),
		"systemAutonomy":  answer.String("item3-4"),
	}
	require.NoError(t, sess.Update(one, 0))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			set := one
			if i%2 == 0 {
				set = two
			}
			_ = sess.Update(set, 0)
		}
	}()

	for i := 0; i < 200; i++ {
		r := Build(sess, "dev", Input{})
		switch r.Summary.RawRisk.Actual {
		case 4:
			require.Len(t, r.Sections.RawRisk, 1)
			require.Equal(t, 1, r.Meta.Answered)
		case 8:
			require.Len(t, r.Sections.RawRisk, 2)
			require.Equal(t, 2, r.Meta.Answered)
		default:
			t.Fatalf("unexpected raw risk %v", r.Summary.RawRisk.Actual)
		}
	}
	wg.Wait()
}

func TestBuildBeforeAnswers(t *testing.T) {
	r := Build(newSession(t), "dev", Input{})
	assert.Equal(t, []float64{0, 0, 0}, r.Summary.Tuple)
	assert.Equal(t, "Unrated", r.Summary.LevelLabel)
	assert.False(t, r.MeetsLevel(scoring.LevelI))
}

func TestMeetsLevel(t *testing.T) {
	r := &Report{Summary: Summary{Level: scoring.LevelIII}}
	assert.True(t, r.MeetsLevel(scoring.LevelII))
	assert.True(t, r.MeetsLevel(scoring.LevelIII))
	assert.False(t, r.MeetsLevel(scoring.LevelIV))
}

func TestReportJSONShape(t *testing.T) {
	sess := newSession(t)
	require.NoError(t, sess.Update(answer.Set{"department": answer.String("treasury")}, 0))

	data, err := json.Marshal(Build(sess, "dev", Input{}))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	summary := doc["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["level"])
	sections := doc["sections"].(map[string]any)
	project := sections["project"].([]any)
	require.Len(t, project, 1)
	assert.Equal(t, "Treasury", project[0].(map[string]any)["display_value"])
}
