package scoring

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onePillarEngine(t *testing.T, questions ...Question) *Engine {
	t.Helper()
	c, err := NewCatalog(questions)
	require.NoError(t, err)
	return NewEngine(c, TierTable{{Tier: TierMini, Cutoff: 100}})
}

func TestQuestionsForTier_Nesting(t *testing.T) {
	e := DefaultEngine()

	mini := e.QuestionsForTier(TierMini)
	medium := e.QuestionsForTier(TierMedium)
	indepth := e.QuestionsForTier(TierIndepth)

	assert.Len(t, mini, 8)
	assert.Len(t, medium, 14)
	assert.Len(t, indepth, 20)

	// 短档位是长档位的前缀
	assert.Equal(t, mini, medium[:len(mini)])
	assert.Equal(t, medium, indepth[:len(medium)])

	for i := 1; i < len(indepth); i++ {
		assert.Less(t, indepth[i-1].Order, indepth[i].Order, "catalog order must be preserved")
	}
}

func TestQuestionsForTier_UnknownTierFallsBackToMini(t *testing.T) {
	e := DefaultEngine()
	assert.Equal(t, e.QuestionsForTier(TierMini), e.QuestionsForTier(Tier("platinum")))
}

func TestQuestionsForPillarAndTier(t *testing.T) {
	e := DefaultEngine()

	tests := []struct {
		tier Tier
		want map[Pillar]int
	}{
		{TierMini, map[Pillar]int{PillarDemand: 2, PillarRevenue: 2, PillarEngine: 2, PillarAdmin: 1, PillarMarketing: 1}},
		{TierMedium, map[Pillar]int{PillarDemand: 3, PillarRevenue: 3, PillarEngine: 3, PillarAdmin: 3, PillarMarketing: 2}},
		{TierIndepth, map[Pillar]int{PillarDemand: 4, PillarRevenue: 4, PillarEngine: 4, PillarAdmin: 4, PillarMarketing: 4}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			for p, n := range tt.want {
				qs := e.QuestionsForPillarAndTier(p, tt.tier)
				assert.Len(t, qs, n, "pillar %s", p)
				for _, q := range qs {
					assert.Equal(t, p, q.Pillar)
				}
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	tier, err := ParseTier(" Medium ")
	require.NoError(t, err)
	assert.Equal(t, TierMedium, tier)

	_, err = ParseTier("platinum")
	assert.Error(t, err)
	_, err = ParseTier("")
	assert.Error(t, err)
}

func TestScoreFor(t *testing.T) {
	single := Question{ID: "s", Pillar: PillarDemand, Type: SingleChoice, Options: []Option{
		{Value: "low", Score: 2}, {Value: "high", Score: 9},
	}}
	scale := Question{ID: "sc", Pillar: PillarDemand, Type: Scale, ScaleMin: 1, ScaleMax: 10}
	multi := Question{ID: "m", Pillar: PillarDemand, Type: MultiChoice, Options: []Option{
		{Value: "a", Score: 4}, {Value: "b", Score: 4}, {Value: "c", Score: 4}, {Value: "zero", Score: 0},
	}}

	tests := []struct {
		name string
		q    Question
		a    Answer
		want float64
	}{
		{"single match", single, SingleChoiceAnswer{Value: "high"}, 9},
		{"single unknown option", single, SingleChoiceAnswer{Value: "nope"}, 0},
		{"single missing", single, nil, 0},
		{"single wrong kind", single, ScaleAnswer{Value: 7}, 0},
		{"scale in range", scale, ScaleAnswer{Value: 7}, 7},
		{"scale above range", scale, ScaleAnswer{Value: 42}, 10},
		{"scale below range", scale, ScaleAnswer{Value: -3}, 0},
		{"scale NaN", scale, ScaleAnswer{Value: math.NaN()}, 0},
		{"scale wrong kind", scale, SingleChoiceAnswer{Value: "7"}, 0},
		{"multi saturates at 10", multi, MultiChoiceAnswer{Values: []string{"a", "b", "c"}}, 10},
		{"multi additive", multi, MultiChoiceAnswer{Values: []string{"a", "b"}}, 8},
		{"multi ignores zero and unknown", multi, MultiChoiceAnswer{Values: []string{"zero", "x", "a"}}, 4},
		{"multi empty", multi, MultiChoiceAnswer{}, 0},
		{"multi only zero", multi, MultiChoiceAnswer{Values: []string{"zero"}}, 0},
		{"multi wrong kind", multi, SingleChoiceAnswer{Value: "a"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreFor(tt.q, tt.a)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 10.0)
		})
	}
}

func TestCalculateScores_EmptyResponsesAreZero(t *testing.T) {
	e := DefaultEngine()
	for _, tier := range []Tier{TierMini, TierMedium, TierIndepth} {
		t.Run(string(tier), func(t *testing.T) {
			assert.Equal(t, DreamScores{}, e.CalculateScores(Responses{}, tier))
			assert.Equal(t, DreamScores{}, e.CalculateScores(nil, tier))
		})
	}
}

func TestCalculateScores_WeightedAggregation(t *testing.T) {
	e := onePillarEngine(t,
		Question{ID: "q1", Pillar: PillarRevenue, Order: 1, Type: Scale, Weight: 1},
		Question{ID: "q2", Pillar: PillarRevenue, Order: 2, Type: Scale, Weight: 3},
	)

	scores := e.CalculateScores(Responses{
		"q1": ScaleAnswer{Value: 0},
		"q2": ScaleAnswer{Value: 10},
	}, TierMini)

	assert.Equal(t, 7.5, scores.Revenue)
	// 其余维度没有题目，得分为 0 而非 NaN
	assert.Equal(t, 0.0, scores.Demand)
	assert.Equal(t, 0.0, scores.Marketing)
	assert.Equal(t, 1.5, scores.Overall)
}

func TestCalculateScores_OverallIsUnweightedPillarMean(t *testing.T) {
	e := onePillarEngine(t,
		Question{ID: "d", Pillar: PillarDemand, Order: 1, Type: Scale},
		Question{ID: "r", Pillar: PillarRevenue, Order: 2, Type: Scale},
		Question{ID: "e", Pillar: PillarEngine, Order: 3, Type: Scale},
		Question{ID: "a", Pillar: PillarAdmin, Order: 4, Type: Scale},
		Question{ID: "m1", Pillar: PillarMarketing, Order: 5, Type: Scale, Weight: 5},
		Question{ID: "m2", Pillar: PillarMarketing, Order: 6, Type: Scale},
		Question{ID: "m3", Pillar: PillarMarketing, Order: 7, Type: Scale},
	)

	scores := e.CalculateScores(Responses{
		"d":  ScaleAnswer{Value: 2},
		"r":  ScaleAnswer{Value: 4},
		"e":  ScaleAnswer{Value: 6},
		"a":  ScaleAnswer{Value: 8},
		"m1": ScaleAnswer{Value: 10},
		"m2": ScaleAnswer{Value: 10},
		"m3": ScaleAnswer{Value: 10},
	}, TierMini)

	assert.Equal(t, DreamScores{Demand: 2, Revenue: 4, Engine: 6, Admin: 8, Marketing: 10, Overall: 6}, scores)
}

func TestCalculateScores_DefaultCatalogMini(t *testing.T) {
	e := DefaultEngine()
	responses := Responses{
		"demand_lead_sources":         SingleChoiceAnswer{Value: "referrals_only"},
		"demand_pipeline_visibility":  ScaleAnswer{Value: 6},
		"revenue_pricing_model":       SingleChoiceAnswer{Value: "packages"},
		"revenue_streams":             MultiChoiceAnswer{Values: []string{"core_service", "recurring"}},
		"engine_delivery_consistency": ScaleAnswer{Value: 5},
		"engine_owner_dependency":     SingleChoiceAnswer{Value: "mostly_runs"},
		"admin_tooling":               SingleChoiceAnswer{Value: "spreadsheets"},
		"marketing_channels":          MultiChoiceAnswer{Values: []string{"social", "email"}},
		// 不在 mini 档位内，不参与计分
		"admin_hours": ScaleAnswer{Value: 10},
	}

	scores := e.CalculateScores(responses, TierMini)
	assert.Equal(t, DreamScores{Demand: 3.6, Revenue: 8, Engine: 6.3, Admin: 4, Marketing: 6, Overall: 5.6}, scores)
}

func TestCalculateScores_Bounds(t *testing.T) {
	e := DefaultEngine()
	responses := Responses{}
	for _, q := range e.Catalog().Questions() {
		switch q.Type {
		case Scale:
			responses[q.ID] = ScaleAnswer{Value: 1e9}
		case SingleChoice:
			responses[q.ID] = SingleChoiceAnswer{Value: q.Options[len(q.Options)-1].Value}
		case MultiChoice:
			vals := make([]string, 0, len(q.Options))
			for _, o := range q.Options {
				vals = append(vals, o.Value)
			}
			responses[q.ID] = MultiChoiceAnswer{Values: vals}
		}
	}

	for _, tier := range []Tier{TierMini, TierMedium, TierIndepth} {
		s := e.CalculateScores(responses, tier)
		for _, v := range []float64{s.Demand, s.Revenue, s.Engine, s.Admin, s.Marketing, s.Overall} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 10.0)
		}
	}
}

func TestCalculateScores_Idempotent(t *testing.T) {
	e := DefaultEngine()
	responses := Responses{
		"demand_lead_sources": SingleChoiceAnswer{Value: "one_channel"},
		"admin_hours":         ScaleAnswer{Value: 3.3},
		"engine_automation":   MultiChoiceAnswer{Values: []string{"reporting", "qa"}},
	}

	first, err := json.Marshal(e.CalculateScores(responses, TierIndepth))
	require.NoError(t, err)
	second, err := json.Marshal(e.CalculateScores(responses, TierIndepth))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompletionPercentage(t *testing.T) {
	e := DefaultEngine()
	responses := Responses{
		"demand_lead_sources":         SingleChoiceAnswer{Value: "one_channel"},
		"revenue_pricing_model":       SingleChoiceAnswer{Value: ""},
		"engine_delivery_consistency": ScaleAnswer{Value: 4},
		"admin_tooling":               SingleChoiceAnswer{Value: "paper"},
		"marketing_channels":          MultiChoiceAnswer{Values: []string{"ads"}},
		"demand_pipeline_visibility":  ScaleAnswer{Value: 0},
	}

	assert.Equal(t, 63, e.CompletionPercentage(responses, TierMini))
	assert.Equal(t, 0, e.CompletionPercentage(Responses{}, TierMini))

	responses["revenue_streams"] = MultiChoiceAnswer{}
	assert.Equal(t, 63, e.CompletionPercentage(responses, TierMini), "empty list is unanswered")
}

func TestCompletionPercentage_EmptyTierIsZero(t *testing.T) {
	c, err := NewCatalog(nil)
	require.NoError(t, err)
	e := NewEngine(c, DefaultTiers)
	assert.Equal(t, 0, e.CompletionPercentage(Responses{"x": ScaleAnswer{Value: 1}}, TierMini))
	assert.Equal(t, DreamScores{}, e.CalculateScores(Responses{}, TierIndepth))
}
