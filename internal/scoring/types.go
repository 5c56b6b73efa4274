package scoring

import (
	"fmt"
	"strings"
)

// Pillar DREAM 评估的五个业务维度
type Pillar string

const (
	PillarDemand    Pillar = "demand"
	PillarRevenue   Pillar = "revenue"
	PillarEngine    Pillar = "engine"
	PillarAdmin     Pillar = "admin"
	PillarMarketing Pillar = "marketing"
)

// AllPillars 固定顺序，雷达图与报告均按此顺序输出
var AllPillars = []Pillar{PillarDemand, PillarRevenue, PillarEngine, PillarAdmin, PillarMarketing}

func (p Pillar) Valid() bool {
	switch p {
	case PillarDemand, PillarRevenue, PillarEngine, PillarAdmin, PillarMarketing:
		return true
	}
	return false
}

// Label 展示用名称
func (p Pillar) Label() string {
	switch p {
	case PillarDemand:
		return "Demand"
	case PillarRevenue:
		return "Revenue"
	case PillarEngine:
		return "Engine"
	case PillarAdmin:
		return "Admin"
	case PillarMarketing:
		return "Marketing"
	}
	return string(p)
}

type QuestionType string

const (
	SingleChoice QuestionType = "single_choice"
	Scale        QuestionType = "scale"
	MultiChoice  QuestionType = "multi_choice"
)

// Option 选择题选项，Score 为选中后获得的分值 (0-10)
type Option struct {
	Value string  `json:"value"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Question 题库中的一道题，构建后不可变
type Question struct {
	ID       string       `json:"id"`
	Pillar   Pillar       `json:"pillar"`
	Order    int          `json:"order"`
	Type     QuestionType `json:"type"`
	Weight   float64      `json:"weight"`
	Text     string       `json:"text"`
	Help     string       `json:"help,omitempty"`
	Options  []Option     `json:"options,omitempty"`
	ScaleMin int          `json:"scaleMin,omitempty"`
	ScaleMax int          `json:"scaleMax,omitempty"`
}

// Option 按 value 查找选项
func (q Question) Option(value string) (Option, bool) {
	for _, o := range q.Options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

type Tier string

const (
	TierMini    Tier = "mini"
	TierMedium  Tier = "medium"
	TierIndepth Tier = "indepth"
)

// ParseTier 严格校验，未知 tier 返回错误
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TierMini, TierMedium, TierIndepth:
		return t, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// TierConfig 一个测评档位：题目 order 截止值，以及每个维度至少应包含的题数
type TierConfig struct {
	Tier             Tier   `json:"tier"`
	Label            string `json:"label"`
	Cutoff           int    `json:"cutoff"`
	MinPerPillar     int    `json:"minPerPillar"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

// TierTable 按从短到长排列，第一项为兜底档位
type TierTable []TierConfig

// DefaultTiers 与 DefaultCatalog 的 order 字段配套
var DefaultTiers = TierTable{
	{Tier: TierMini, Label: "Mini Audit", Cutoff: 8, MinPerPillar: 1, EstimatedMinutes: 3},
	{Tier: TierMedium, Label: "Standard Audit", Cutoff: 14, MinPerPillar: 2, EstimatedMinutes: 6},
	{Tier: TierIndepth, Label: "In-Depth Audit", Cutoff: 20, MinPerPillar: 4, EstimatedMinutes: 10},
}

// Lookup 返回 tier 的配置，ok=false 表示未知 tier
func (t TierTable) Lookup(tier Tier) (TierConfig, bool) {
	for _, c := range t {
		if c.Tier == tier {
			return c, true
		}
	}
	return TierConfig{}, false
}

// Cutoff 未知 tier 回退到最短档位的截止值
func (t TierTable) Cutoff(tier Tier) int {
	if c, ok := t.Lookup(tier); ok {
		return c.Cutoff
	}
	if len(t) == 0 {
		return 0
	}
	return t[0].Cutoff
}

// Validate 截止值必须严格递增，保证题目集合逐级嵌套
func (t TierTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("tier table is empty")
	}
	seen := make(map[Tier]bool, len(t))
	for i, c := range t {
		if seen[c.Tier] {
			return fmt.Errorf("duplicate tier %q", c.Tier)
		}
		seen[c.Tier] = true
		if c.Cutoff <= 0 {
			return fmt.Errorf("tier %q: cutoff must be positive", c.Tier)
		}
		if i > 0 && c.Cutoff <= t[i-1].Cutoff {
			return fmt.Errorf("tier %q: cutoff %d must exceed %q cutoff %d", c.Tier, c.Cutoff, t[i-1].Tier, t[i-1].Cutoff)
		}
	}
	return nil
}

// DreamScores 五个维度得分与总分，均保留一位小数
type DreamScores struct {
	Demand    float64 `json:"demand"`
	Revenue   float64 `json:"revenue"`
	Engine    float64 `json:"engine"`
	Admin     float64 `json:"admin"`
	Marketing float64 `json:"marketing"`
	Overall   float64 `json:"overall"`
}

// Pillar 取某个维度的得分
func (s DreamScores) Pillar(p Pillar) float64 {
	switch p {
	case PillarDemand:
		return s.Demand
	case PillarRevenue:
		return s.Revenue
	case PillarEngine:
		return s.Engine
	case PillarAdmin:
		return s.Admin
	case PillarMarketing:
		return s.Marketing
	}
	return 0
}

func (s *DreamScores) set(p Pillar, v float64) {
	switch p {
	case PillarDemand:
		s.Demand = v
	case PillarRevenue:
		s.Revenue = v
	case PillarEngine:
		s.Engine = v
	case PillarAdmin:
		s.Admin = v
	case PillarMarketing:
		s.Marketing = v
	}
}
