package scoring

import (
	"fmt"
)

// Catalog 只读题库。构建时复制并补全默认值，之后不再修改，可被并发读取
type Catalog struct {
	questions []Question
	index     map[string]int
}

// NewCatalog 校验并构建题库，题目顺序保持调用方给定的顺序
func NewCatalog(questions []Question) (*Catalog, error) {
	c := &Catalog{
		questions: make([]Question, 0, len(questions)),
		index:     make(map[string]int, len(questions)),
	}

	for _, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question at order %d has empty id", q.Order)
		}
		if _, dup := c.index[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		if !q.Pillar.Valid() {
			return nil, fmt.Errorf("question %q: unknown pillar %q", q.ID, q.Pillar)
		}
		if q.Weight < 0 {
			return nil, fmt.Errorf("question %q: weight must be positive", q.ID)
		}
		if q.Weight == 0 {
			q.Weight = 1.0
		}

		switch q.Type {
		case SingleChoice, MultiChoice:
			if len(q.Options) == 0 {
				return nil, fmt.Errorf("question %q: choice question without options", q.ID)
			}
			opts := make([]Option, len(q.Options))
			for i, o := range q.Options {
				if o.Score < 0 || o.Score > 10 {
					return nil, fmt.Errorf("question %q: option %q score %v out of range", q.ID, o.Value, o.Score)
				}
				opts[i] = o
			}
			q.Options = opts
		case Scale:
			if q.ScaleMin == 0 && q.ScaleMax == 0 {
				q.ScaleMin, q.ScaleMax = 1, 10
			}
			if q.ScaleMin >= q.ScaleMax {
				return nil, fmt.Errorf("question %q: invalid scale %d..%d", q.ID, q.ScaleMin, q.ScaleMax)
			}
		default:
			return nil, fmt.Errorf("question %q: unknown type %q", q.ID, q.Type)
		}

		c.index[q.ID] = len(c.questions)
		c.questions = append(c.questions, q)
	}

	return c, nil
}

// MustCatalog 用于包级静态题库
func MustCatalog(questions []Question) *Catalog {
	c, err := NewCatalog(questions)
	if err != nil {
		panic(err)
	}
	return c
}

// Questions 返回副本
func (c *Catalog) Questions() []Question {
	out := make([]Question, len(c.questions))
	copy(out, c.questions)
	return out
}

func (c *Catalog) Len() int {
	return len(c.questions)
}

func (c *Catalog) Question(id string) (Question, bool) {
	i, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return c.questions[i], true
}

// Validate 检查题库与档位表的耦合关系：每个档位内每个维度的题数不少于 MinPerPillar
func (c *Catalog) Validate(tiers TierTable) error {
	if err := tiers.Validate(); err != nil {
		return err
	}
	for _, tc := range tiers {
		counts := make(map[Pillar]int, len(AllPillars))
		for _, q := range c.questions {
			if q.Order <= tc.Cutoff {
				counts[q.Pillar]++
			}
		}
		for _, p := range AllPillars {
			if counts[p] < tc.MinPerPillar {
				return fmt.Errorf("tier %q: pillar %q has %d questions, want at least %d", tc.Tier, p, counts[p], tc.MinPerPillar)
			}
		}
	}
	return nil
}
