package scoring

import (
	"math"
)

// Engine 纯函数式评分引擎，不持有可变状态，可并发调用
type Engine struct {
	catalog *Catalog
	tiers   TierTable
}

func NewEngine(catalog *Catalog, tiers TierTable) *Engine {
	return &Engine{catalog: catalog, tiers: tiers}
}

// DefaultEngine 参考题库 + 默认档位
func DefaultEngine() *Engine {
	return NewEngine(DefaultCatalog(), DefaultTiers)
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

func (e *Engine) Tiers() TierTable {
	return e.tiers
}

// QuestionsForTier order <= 截止值的题目，保持题库顺序。
// 未知 tier 按最短档位处理
func (e *Engine) QuestionsForTier(tier Tier) []Question {
	cutoff := e.tiers.Cutoff(tier)
	out := make([]Question, 0, len(e.catalog.questions))
	for _, q := range e.catalog.questions {
		if q.Order <= cutoff {
			out = append(out, q)
		}
	}
	return out
}

// QuestionsForPillarAndTier 供前端分组展示，不参与计分
func (e *Engine) QuestionsForPillarAndTier(pillar Pillar, tier Tier) []Question {
	var out []Question
	for _, q := range e.QuestionsForTier(tier) {
		if q.Pillar == pillar {
			out = append(out, q)
		}
	}
	return out
}

// ScoreFor 单题得分，结果始终在 [0,10]；答案缺失、类型不符或无法匹配时为 0
func ScoreFor(q Question, a Answer) float64 {
	if a == nil {
		return 0
	}

	switch q.Type {
	case SingleChoice:
		v, ok := a.(SingleChoiceAnswer)
		if !ok {
			return 0
		}
		opt, ok := q.Option(v.Value)
		if !ok {
			return 0
		}
		return clamp(opt.Score, 0, 10)
	case Scale:
		v, ok := a.(ScaleAnswer)
		if !ok || math.IsNaN(v.Value) {
			return 0
		}
		return clamp(v.Value, 0, 10)
	case MultiChoice:
		v, ok := a.(MultiChoiceAnswer)
		if !ok {
			return 0
		}
		// 累加而非平均：多选高分项会很快达到上限
		var sum float64
		for _, val := range v.Values {
			opt, ok := q.Option(val)
			if !ok || opt.Score <= 0 {
				continue
			}
			sum += opt.Score
		}
		return clamp(sum, 0, 10)
	}
	return 0
}

// CalculateScores 维度内按权重加权平均，总分为五个维度的简单平均
func (e *Engine) CalculateScores(responses Responses, tier Tier) DreamScores {
	type acc struct {
		weighted float64
		weight   float64
	}
	sums := make(map[Pillar]*acc, len(AllPillars))
	for _, p := range AllPillars {
		sums[p] = &acc{}
	}

	for _, q := range e.QuestionsForTier(tier) {
		a, ok := sums[q.Pillar]
		if !ok {
			continue
		}
		a.weighted += ScoreFor(q, responses[q.ID]) * q.Weight
		a.weight += q.Weight
	}

	var scores DreamScores
	var total float64
	for _, p := range AllPillars {
		a := sums[p]
		v := 0.0
		if a.weight > 0 {
			v = round1(a.weighted / a.weight)
		}
		scores.set(p, v)
		total += v
	}
	scores.Overall = round1(total / float64(len(AllPillars)))
	return scores
}

// CompletionPercentage 已作答题数占本档位题数的百分比 (0-100)
func (e *Engine) CompletionPercentage(responses Responses, tier Tier) int {
	qs := e.QuestionsForTier(tier)
	if len(qs) == 0 {
		return 0
	}
	answered := 0
	for _, q := range qs {
		if IsAnswered(responses[q.ID]) {
			answered++
		}
	}
	return int(math.Round(100 * float64(answered) / float64(len(qs))))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
