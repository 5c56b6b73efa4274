package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/util"
	"encoding/json"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type assessmentFixture struct {
	svc      *AssessmentService
	store    *fakeAssessmentStore
	cache    *fakeCache
	mailer   *fakeResultMailer
	strategy *fakeStrategy
}

func newAssessmentFixture() *assessmentFixture {
	f := &assessmentFixture{
		store:    newFakeAssessmentStore(),
		cache:    newFakeCache(),
		mailer:   &fakeResultMailer{enabled: true},
		strategy: &fakeStrategy{enabled: true, text: "## 90-day plan"},
	}
	affiliates := fakeAffiliates{
		"partner": {Code: "partner", Active: true},
		"retired": {Code: "retired", Active: false},
	}
	f.svc = NewAssessmentService(scoring.DefaultEngine(), f.store, f.cache, affiliates, f.mailer, f.strategy)
	f.svc.runAsync = func(fn func()) { fn() }
	return f
}

func rawAnswers(t *testing.T, m map[string]interface{}) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		out[k] = b
	}
	return out
}

func miniAnswers(t *testing.T) map[string]json.RawMessage {
	return rawAnswers(t, map[string]interface{}{
		"demand_lead_sources":         "attributed",
		"demand_pipeline_visibility":  4,
		"revenue_pricing_model":       "packages",
		"revenue_streams":             []string{"core_service", "recurring"},
		"engine_delivery_consistency": 6,
		"engine_owner_dependency":     "slows",
		"admin_tooling":               "spreadsheets",
		"marketing_channels":          []string{"social", "email"},
	})
}

var expectedMiniScores = scoring.DreamScores{
	Demand: 7.6, Revenue: 8, Engine: 4.7, Admin: 4, Marketing: 6, Overall: 6.1,
}

func TestAssessmentService_Tiers(t *testing.T) {
	f := newAssessmentFixture()

	tiers := f.svc.Tiers()
	require.Len(t, tiers, 3)
	assert.Equal(t, scoring.TierMini, tiers[0].Tier)
	assert.Equal(t, 8, tiers[0].QuestionCount)
	assert.Equal(t, 14, tiers[1].QuestionCount)
	assert.Equal(t, 20, tiers[2].QuestionCount)
	assert.Equal(t, 1, tiers[0].PillarCounts[scoring.PillarAdmin])
	assert.Equal(t, 4, tiers[2].PillarCounts[scoring.PillarMarketing])
}

func TestAssessmentService_Questions(t *testing.T) {
	f := newAssessmentFixture()

	set, err := f.svc.Questions("Medium")
	require.NoError(t, err)
	assert.Equal(t, scoring.TierMedium, set.Tier)
	assert.Equal(t, 14, set.Total)
	require.Len(t, set.Pillars, 5)
	assert.Equal(t, scoring.PillarDemand, set.Pillars[0].Pillar)

	_, err = f.svc.Questions("huge")
	assert.ErrorIs(t, err, util.ErrInvalidTier)
}

func TestAssessmentService_Start(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()

	a, err := f.svc.Start(ctx, StartInput{Name: " Ada ", Email: " Ada@Example.COM ", Tier: "mini", AffiliateCode: "PARTNER"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.PublicToken)
	assert.Equal(t, "Ada", a.Name)
	assert.Equal(t, "ada@example.com", a.Email)
	assert.Equal(t, model.AssessmentInProgress, a.Status)
	assert.Equal(t, "partner", a.AffiliateCode)

	inactive, err := f.svc.Start(ctx, StartInput{Email: "b@example.com", Tier: "mini", AffiliateCode: "retired"})
	require.NoError(t, err)
	assert.Empty(t, inactive.AffiliateCode)

	unknown, err := f.svc.Start(ctx, StartInput{Email: "c@example.com", Tier: "mini", AffiliateCode: "ghost"})
	require.NoError(t, err)
	assert.Empty(t, unknown.AffiliateCode)

	_, err = f.svc.Start(ctx, StartInput{Email: "d@example.com", Tier: "gigantic"})
	assert.ErrorIs(t, err, util.ErrInvalidTier)
}

func TestAssessmentService_SaveAnswers(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)

	progress, err := f.svc.SaveAnswers(ctx, a.PublicToken, rawAnswers(t, map[string]interface{}{
		"demand_lead_sources": "attributed",
		"admin_tooling":       "spreadsheets",
		"not_a_question":      "x",
	}))
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Answered)
	assert.Equal(t, 8, progress.Total)
	assert.Equal(t, 25, progress.Completion)

	progress, err = f.svc.SaveAnswers(ctx, a.PublicToken, map[string]json.RawMessage{
		"admin_tooling":      json.RawMessage("null"),
		"marketing_channels": json.RawMessage(`["social"]`),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, progress.Answered)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	raw := stored.RawResponses()
	assert.Contains(t, raw, "demand_lead_sources")
	assert.Contains(t, raw, "marketing_channels")
	assert.NotContains(t, raw, "admin_tooling")
	assert.NotContains(t, raw, "not_a_question")
}

func TestAssessmentService_SaveAnswersStoresNormalizedValues(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)

	progress, err := f.svc.SaveAnswers(ctx, a.PublicToken, map[string]json.RawMessage{
		"engine_delivery_consistency": json.RawMessage(`" 7 "`),
		"demand_pipeline_visibility":  json.RawMessage(`"Infinity"`),
		"engine_automation":           json.RawMessage(`"reporting"`),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Answered)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	raw := stored.RawResponses()
	assert.JSONEq(t, `7`, string(raw["engine_delivery_consistency"]))
	assert.JSONEq(t, `["reporting"]`, string(raw["engine_automation"]))
	assert.NotContains(t, raw, "demand_pipeline_visibility")
}

func TestAssessmentService_SaveAnswersErrors(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()

	_, err := f.svc.SaveAnswers(ctx, "missing", nil)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)

	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	assert.ErrorIs(t, err, util.ErrAssessmentCompleted)
}

func TestAssessmentService_Complete(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Name: "Ada", Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	require.NoError(t, err)

	result, err := f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, expectedMiniScores, result.Scores)
	assert.Equal(t, 100, result.Completion)
	assert.Equal(t, model.AssessmentCompleted, result.Status)
	assert.Equal(t, scoring.BandAdvanced, result.Bands[scoring.PillarRevenue])
	assert.Equal(t, scoring.BandIntermediate, result.Bands[scoring.PillarAdmin])
	assert.Len(t, result.Recommendations[scoring.PillarEngine], 3)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, expectedMiniScores, stored.Scores())
	assert.NotNil(t, stored.CompletedAt)
	assert.NotNil(t, stored.EmailSentAt)
	assert.Equal(t, model.StrategyReady, stored.StrategyStatus)
	assert.Equal(t, "## 90-day plan", stored.Strategy)

	require.Len(t, f.mailer.sent, 1)
	assert.Equal(t, 1, f.strategy.calls)
	assert.Contains(t, f.cache.invalidated, a.PublicToken)
}

func TestAssessmentService_CompleteIsIdempotent(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	require.NoError(t, err)

	first, err := f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)
	second, err := f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	assert.Equal(t, first.Scores, second.Scores)
	assert.Len(t, f.mailer.sent, 1)
	assert.Equal(t, 1, f.strategy.calls)
}

func TestAssessmentService_ConcurrentCompleteNotifiesOnce(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	require.NoError(t, err)

	// 两个请求都读到进行中的记录后再继续
	f.svc.Repo = newReadBarrierStore(f.store, 2)

	var wg sync.WaitGroup
	results := make([]*AssessmentResult, 2)
	errs := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = f.svc.Complete(ctx, a.PublicToken)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, expectedMiniScores, results[i].Scores)
		assert.Equal(t, model.AssessmentCompleted, results[i].Status)
	}
	assert.Len(t, f.mailer.sent, 1)
	assert.Equal(t, 1, f.strategy.calls)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, 8, len(stored.RawResponses()))
}

func TestAssessmentService_CompleteWithNoAnswers(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "indepth"})
	require.NoError(t, err)

	result, err := f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, scoring.DreamScores{}, result.Scores)
	assert.Equal(t, 0, result.Completion)
	assert.Equal(t, scoring.BandFoundational, result.Bands[scoring.PillarDemand])
}

func TestAssessmentService_BackgroundFailuresDoNotFailCompletion(t *testing.T) {
	f := newAssessmentFixture()
	f.mailer.err = errBoom
	f.strategy.err = errBoom
	ctx := context.Background()

	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)

	_, err = f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	assert.Nil(t, stored.EmailSentAt)
	assert.Equal(t, model.StrategyFailed, stored.StrategyStatus)
}

func TestAssessmentService_CompleteWithoutStrategy(t *testing.T) {
	f := newAssessmentFixture()
	f.strategy.enabled = false
	ctx := context.Background()

	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	stored, err := f.store.FindByToken(a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, model.StrategyNone, stored.StrategyStatus)
	assert.Zero(t, f.strategy.calls)
}

func TestAssessmentService_Result(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	require.NoError(t, err)

	// 进行中：按当前答案实时计算，不缓存
	live, err := f.svc.Result(ctx, a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentInProgress, live.Status)
	assert.Equal(t, expectedMiniScores, live.Scores)
	assert.Empty(t, f.cache.data)

	_, err = f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	done, err := f.svc.Result(ctx, a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, model.AssessmentCompleted, done.Status)
	assert.Equal(t, "## 90-day plan", done.Strategy)
	assert.Contains(t, f.cache.data, a.PublicToken)

	cached, err := f.svc.Result(ctx, a.PublicToken)
	require.NoError(t, err)
	assert.Equal(t, done.Scores, cached.Scores)

	_, err = f.svc.Result(ctx, "missing")
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestAssessmentService_Preview(t *testing.T) {
	f := newAssessmentFixture()

	preview, err := f.svc.Preview("mini", miniAnswers(t))
	require.NoError(t, err)
	assert.Equal(t, expectedMiniScores, preview.Scores)
	assert.Equal(t, 100, preview.Completion)

	partial, err := f.svc.Preview("indepth", miniAnswers(t))
	require.NoError(t, err)
	assert.Equal(t, 40, partial.Completion)

	_, err = f.svc.Preview("", nil)
	assert.ErrorIs(t, err, util.ErrInvalidTier)
}

func TestAssessmentService_Detail(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)
	_, err = f.svc.SaveAnswers(ctx, a.PublicToken, miniAnswers(t))
	require.NoError(t, err)

	detail, err := f.svc.Detail(a.ID)
	require.NoError(t, err)
	require.Len(t, detail.Answers, 8)
	assert.Equal(t, "demand_lead_sources", detail.Answers[0].QuestionID)
	assert.Equal(t, "Several channels with clear attribution", detail.Answers[0].Answer)

	_, err = f.svc.Detail(999)
	assert.ErrorIs(t, err, util.ErrAssessmentNotFound)
}

func TestAssessmentService_RegenerateStrategy(t *testing.T) {
	f := newAssessmentFixture()
	ctx := context.Background()
	a, err := f.svc.Start(ctx, StartInput{Email: "lead@example.com", Tier: "mini"})
	require.NoError(t, err)

	_, err = f.svc.RegenerateStrategy(ctx, a.ID)
	assert.ErrorIs(t, err, util.ErrAssessmentIncomplete)

	_, err = f.svc.Complete(ctx, a.PublicToken)
	require.NoError(t, err)

	f.strategy.text = "## revised plan"
	updated, err := f.svc.RegenerateStrategy(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "## revised plan", updated.Strategy)

	f.strategy.enabled = false
	_, err = f.svc.RegenerateStrategy(ctx, a.ID)
	assert.ErrorIs(t, err, util.ErrStrategyDisabled)
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"Mozilla/5.0", 255, "Mozilla/5.0"},
		{"abcdef", 3, "abc"},
		{"浏览器标识", 3, "浏览器"},
		{"ab😀cd", 3, "ab😀"},
	}
	for _, tc := range cases {
		got := truncate(tc.in, tc.n)
		assert.Equal(t, tc.want, got)
		assert.True(t, utf8.ValidString(got))
	}
}
