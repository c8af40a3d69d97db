package scoring

import (
	"math"

	"github.com/dshills/riskscore/internal/answer"
	"github.com/dshills/riskscore/internal/policy"
	"github.com/shopspring/decimal"
)

// Outcome is the mitigation-adjusted total and its risk level.
type Outcome struct {
	Total     float64 `json:"total"`
	Level     Level   `json:"level"`
	Mitigated bool    `json:"mitigated"`
}

// FinalScore applies the default policy to the category totals.
func FinalScore(mitigation, rawRisk Score) Outcome {
	return FinalScoreWith(policy.Default(), mitigation, rawRisk)
}

// FinalScoreWith reduces the raw risk when mitigation reaches the policy threshold
// and bands the total against the raw risk maximum.
func FinalScoreWith(p policy.Policy, mitigation, rawRisk Score) Outcome {
	mitigated := Mitigated(p, mitigation)
	total := toDecimal(rawRisk.Actual)
	if mitigated {
		keep := decimal.NewFromInt(1).Sub(toDecimal(p.Deduction))
		total = keep.Mul(total).Round(0)
	}
	return Outcome{
		Total:     total.InexactFloat64(),
		Level:     bandLevel(p, total, toDecimal(rawRisk.Max)),
		Mitigated: mitigated,
	}
}

// Mitigated reports whether the mitigation actual reaches the threshold share of
// one fork's maximum. Each control is asked once per fork, so only
// max/forks is attainable for a single phase.
func Mitigated(p policy.Policy, mitigation Score) bool {
	forks := p.MitigationForks
	if forks < 1 {
		forks = 1
	}
	perFork := toDecimal(mitigation.Max).Div(decimal.NewFromInt(int64(forks)))
	required := toDecimal(p.MitigationThreshold).Mul(perFork)
	return toDecimal(mitigation.Actual).GreaterThanOrEqual(required)
}

// bandLevel places total into the policy bands. Each band includes its upper edge.
func bandLevel(p policy.Policy, total, rawMax decimal.Decimal) Level {
	for i, edge := range p.Bands {
		if i >= 3 {
			break
		}
		if total.LessThanOrEqual(toDecimal(edge).Mul(rawMax)) {
			return Level(i + 1)
		}
	}
	return LevelIV
}

// toDecimal converts f, treating NaN and the infinities as 0.
func toDecimal(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(f)
}

// Result is the full output of one scoring pass.
type Result struct {
	Totals
	Outcome
}

// Tuple returns [rawRiskActual, mitigationActual, total, level].
func (r Result) Tuple() []float64 {
	return []float64{r.RawRisk.Actual, r.Mitigation.Actual, r.Total, float64(r.Level)}
}

// Compute aggregates the scored questions and derives the final score under p.
func Compute(p policy.Policy, answers answer.Set, questions QuestionSource, names []string) Result {
	t := Aggregate(answers, questions, names)
	return Result{
		Totals:  t,
		Outcome: FinalScoreWith(p, t.Mitigation, t.RawRisk),
	}
}
