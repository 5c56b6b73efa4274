package service

import (
	"context"
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/logger"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// StrategyPrompt 发送给模型的系统提示和用户提示
type StrategyPrompt struct {
	System string
	User   string
}

// StrategyGenerator 根据提示生成 AI 策略文本
type StrategyGenerator interface {
	Generate(ctx context.Context, prompt StrategyPrompt) (string, error)
}

// OpenAIStrategyGenerator 兼容 OpenAI 协议的接口实现，BaseURL 可指向其他兼容服务
type OpenAIStrategyGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func NewOpenAIStrategyGenerator(cfg config.AIConfig) (*OpenAIStrategyGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIStrategyGenerator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (g *OpenAIStrategyGenerator) Generate(ctx context.Context, prompt StrategyPrompt) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
		MaxCompletionTokens: g.maxTokens,
		Temperature:         0.7,
	})
	if err != nil {
		return "", fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("empty completion content")
	}
	return content, nil
}

// FormattedAnswer 一道已作答题目的可读形式
type FormattedAnswer struct {
	QuestionID string         `json:"questionId"`
	Pillar     scoring.Pillar `json:"pillar"`
	Question   string         `json:"question"`
	Answer     string         `json:"answer"`
}

// FormatAnswers 按题目顺序列出本档位内已作答的题目，选项值替换为选项文字
func FormatAnswers(engine *scoring.Engine, tier scoring.Tier, responses scoring.Responses) []FormattedAnswer {
	var out []FormattedAnswer
	for _, q := range engine.QuestionsForTier(tier) {
		a := responses[q.ID]
		if !scoring.IsAnswered(a) {
			continue
		}
		text := describeAnswer(q, a)
		if text == "" {
			continue
		}
		out = append(out, FormattedAnswer{
			QuestionID: q.ID,
			Pillar:     q.Pillar,
			Question:   q.Text,
			Answer:     text,
		})
	}
	return out
}

// FormatResponses 生成 "Q: ... / A: ..." 形式的问答文本
func FormatResponses(engine *scoring.Engine, tier scoring.Tier, responses scoring.Responses) string {
	var b strings.Builder
	for i, fa := range FormatAnswers(engine, tier, responses) {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", fa.Question, fa.Answer)
	}
	return b.String()
}

func describeAnswer(q scoring.Question, a scoring.Answer) string {
	switch v := a.(type) {
	case scoring.SingleChoiceAnswer:
		if opt, ok := q.Option(v.Value); ok {
			return opt.Label
		}
		return v.Value
	case scoring.ScaleAnswer:
		return fmt.Sprintf("%s / %s",
			strconv.FormatFloat(v.Value, 'f', -1, 64),
			strconv.Itoa(q.ScaleMax))
	case scoring.MultiChoiceAnswer:
		labels := make([]string, 0, len(v.Values))
		for _, value := range v.Values {
			if opt, ok := q.Option(value); ok {
				labels = append(labels, opt.Label)
			} else {
				labels = append(labels, value)
			}
		}
		return strings.Join(labels, ", ")
	}
	return ""
}

// LeadInfo 提示词中使用的测评者信息
type LeadInfo struct {
	Name      string
	Company   string
	TierLabel string
}

const strategySystemPrompt = "You are a pragmatic AI strategy consultant for small service businesses. " +
	"You review DREAM AI Audit results (Demand, Revenue, Engine, Admin, Marketing, each scored 0-10) " +
	"and write a concise, actionable plan in plain Markdown. " +
	"Prioritise the two weakest pillars, suggest specific AI tools or automations, and keep it under 600 words."

// BuildStrategyPrompt 组装策略生成提示词
func BuildStrategyPrompt(lead LeadInfo, scores scoring.DreamScores, formatted string) StrategyPrompt {
	var b strings.Builder

	b.WriteString("Business profile\n")
	if lead.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	}
	if lead.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", lead.Company)
	}
	if lead.TierLabel != "" {
		fmt.Fprintf(&b, "Audit: %s\n", lead.TierLabel)
	}

	b.WriteString("\nScores (0-10)\n")
	for _, p := range scoring.AllPillars {
		fmt.Fprintf(&b, "%s: %.1f\n", p.Label(), scores.Pillar(p))
	}
	fmt.Fprintf(&b, "Overall: %.1f\n", scores.Overall)

	if formatted != "" {
		b.WriteString("\nAnswers\n")
		b.WriteString(formatted)
	}

	b.WriteString("\nWrite a 90-day AI strategy with three phases. For each phase list concrete actions and the pillar they improve.")

	return StrategyPrompt{
		System: strategySystemPrompt,
		User:   b.String(),
	}
}

// StrategyService 测评完成后生成 AI 策略
type StrategyService struct {
	mu        sync.RWMutex
	engine    *scoring.Engine
	generator StrategyGenerator
}

func NewStrategyService(cfg *config.Config, engine *scoring.Engine) *StrategyService {
	s := &StrategyService{engine: engine}
	s.UpdateConfig(cfg)
	return s
}

// NewStrategyServiceWithGenerator 直接指定生成器
func NewStrategyServiceWithGenerator(engine *scoring.Engine, generator StrategyGenerator) *StrategyService {
	return &StrategyService{engine: engine, generator: generator}
}

// UpdateConfig 根据 AI 配置重建生成器，未启用时置空
func (s *StrategyService) UpdateConfig(cfg *config.Config) {
	var generator StrategyGenerator
	if cfg.AI.Enabled {
		g, err := NewOpenAIStrategyGenerator(cfg.AI)
		if err != nil {
			logger.Log.Warn("AI strategy disabled", zap.Error(err))
		} else {
			generator = g
		}
	}

	s.mu.Lock()
	s.generator = generator
	s.mu.Unlock()
}

func (s *StrategyService) current() StrategyGenerator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generator
}

func (s *StrategyService) Enabled() bool {
	return s.current() != nil
}

// Generate 为一次测评生成策略文本
func (s *StrategyService) Generate(ctx context.Context, a *model.DreamAssessment) (string, error) {
	generator := s.current()
	if generator == nil {
		return "", util.ErrStrategyDisabled
	}

	responses := scoring.DecodeResponses(s.engine.Catalog(), a.RawResponses())
	lead := LeadInfo{
		Name:      a.Name,
		Company:   a.Company,
		TierLabel: tierLabel(s.engine, a.Tier),
	}
	prompt := BuildStrategyPrompt(lead, a.Scores(), FormatResponses(s.engine, a.Tier, responses))

	return generator.Generate(ctx, prompt)
}

func tierLabel(engine *scoring.Engine, tier scoring.Tier) string {
	if cfg, ok := engine.Tiers().Lookup(tier); ok {
		return cfg.Label
	}
	return string(tier)
}
