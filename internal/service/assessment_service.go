package service

import (
	"context"
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/scoring"
	"dream_site_backend/internal/util"
	"dream_site_backend/pkg/logger"
	"dream_site_backend/pkg/monitoring"
	"dream_site_backend/pkg/tracing"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 后台任务（邮件、AI 策略）的超时时间
const backgroundJobTimeout = 2 * time.Minute

type assessmentStore interface {
	Create(a *model.DreamAssessment) error
	FindByID(id uint) (*model.DreamAssessment, error)
	FindByToken(token string) (*model.DreamAssessment, error)
	UpdateResponses(id uint, responses json.RawMessage, completion int) error
	MarkCompleted(a *model.DreamAssessment) (bool, error)
	UpdateStrategy(id uint, strategy string, status model.StrategyStatus) error
	MarkEmailSent(id uint, at time.Time) error
	List(filter repository.AssessmentFilter, page, limit int) ([]model.DreamAssessment, int64, error)
	Delete(id uint) error
}

type resultCache interface {
	Get(ctx context.Context, token string, dest interface{}) (bool, error)
	Set(ctx context.Context, token string, value interface{}) error
	Invalidate(ctx context.Context, token string) error
}

type affiliateFinder interface {
	FindByCode(code string) (*model.Affiliate, error)
}

type resultMailer interface {
	Enabled() bool
	SendResults(ctx context.Context, a *model.DreamAssessment, result *AssessmentResult) error
}

type strategyGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, a *model.DreamAssessment) (string, error)
}

// TierSummary 档位说明，供前端展示选择
type TierSummary struct {
	Tier             scoring.Tier           `json:"tier"`
	Label            string                 `json:"label"`
	QuestionCount    int                    `json:"questionCount"`
	EstimatedMinutes int                    `json:"estimatedMinutes"`
	PillarCounts     map[scoring.Pillar]int `json:"pillarCounts"`
}

// PillarQuestions 一个维度下的题目
type PillarQuestions struct {
	Pillar    scoring.Pillar     `json:"pillar"`
	Label     string             `json:"label"`
	Questions []scoring.Question `json:"questions"`
}

// QuestionSet 某档位的题目，按维度分组
type QuestionSet struct {
	Tier    scoring.Tier      `json:"tier"`
	Label   string            `json:"label"`
	Total   int               `json:"total"`
	Pillars []PillarQuestions `json:"pillars"`
}

// StartInput 开始测评时提交的线索信息
type StartInput struct {
	Name          string
	Email         string
	Company       string
	Tier          string
	AffiliateCode string
	IPAddress     string
	UserAgent     string
}

// AnswerProgress 保存答案后的进度
type AnswerProgress struct {
	Token      string `json:"token"`
	Answered   int    `json:"answered"`
	Total      int    `json:"total"`
	Completion int    `json:"completion"`
}

// AssessmentResult 结果页数据
type AssessmentResult struct {
	Token           string                          `json:"token"`
	Name            string                          `json:"name"`
	Company         string                          `json:"company,omitempty"`
	Tier            scoring.Tier                    `json:"tier"`
	TierLabel       string                          `json:"tierLabel"`
	Status          model.AssessmentStatus          `json:"status"`
	Scores          scoring.DreamScores             `json:"scores"`
	Bands           map[scoring.Pillar]scoring.Band `json:"bands"`
	Recommendations scoring.Recommendations         `json:"recommendations"`
	Completion      int                             `json:"completion"`
	Strategy        string                          `json:"strategy,omitempty"`
	StrategyStatus  model.StrategyStatus            `json:"strategyStatus,omitempty"`
	CompletedAt     *time.Time                      `json:"completedAt,omitempty"`
}

// PreviewResult 无状态评分结果
type PreviewResult struct {
	Tier            scoring.Tier                    `json:"tier"`
	Scores          scoring.DreamScores             `json:"scores"`
	Bands           map[scoring.Pillar]scoring.Band `json:"bands"`
	Recommendations scoring.Recommendations         `json:"recommendations"`
	Completion      int                             `json:"completion"`
}

// AssessmentDetail 后台详情：记录、评分结果和可读问答
type AssessmentDetail struct {
	Assessment *model.DreamAssessment `json:"assessment"`
	Result     *AssessmentResult      `json:"result"`
	Answers    []FormattedAnswer      `json:"answers"`
}

type AssessmentService struct {
	Engine     *scoring.Engine
	Repo       assessmentStore
	Cache      resultCache
	Affiliates affiliateFinder
	Mail       resultMailer
	Strategy   strategyGenerator

	// runAsync 执行完成后的后台任务，测试中可替换为同步执行
	runAsync func(func())
}

func NewAssessmentService(
	engine *scoring.Engine,
	repo assessmentStore,
	cache resultCache,
	affiliates affiliateFinder,
	mail resultMailer,
	strategy strategyGenerator,
) *AssessmentService {
	return &AssessmentService{
		Engine:     engine,
		Repo:       repo,
		Cache:      cache,
		Affiliates: affiliates,
		Mail:       mail,
		Strategy:   strategy,
		runAsync:   func(f func()) { go f() },
	}
}

// Tiers 返回所有档位概览
func (s *AssessmentService) Tiers() []TierSummary {
	tiers := s.Engine.Tiers()
	out := make([]TierSummary, 0, len(tiers))
	for _, t := range tiers {
		counts := make(map[scoring.Pillar]int, len(scoring.AllPillars))
		for _, p := range scoring.AllPillars {
			counts[p] = len(s.Engine.QuestionsForPillarAndTier(p, t.Tier))
		}
		out = append(out, TierSummary{
			Tier:             t.Tier,
			Label:            t.Label,
			QuestionCount:    len(s.Engine.QuestionsForTier(t.Tier)),
			EstimatedMinutes: t.EstimatedMinutes,
			PillarCounts:     counts,
		})
	}
	return out
}

// Questions 返回档位题目，未知档位返回 ErrInvalidTier
func (s *AssessmentService) Questions(tierName string) (*QuestionSet, error) {
	tier, err := s.parseTier(tierName)
	if err != nil {
		return nil, err
	}

	set := &QuestionSet{
		Tier:  tier,
		Label: tierLabel(s.Engine, tier),
		Total: len(s.Engine.QuestionsForTier(tier)),
	}
	for _, p := range scoring.AllPillars {
		qs := s.Engine.QuestionsForPillarAndTier(p, tier)
		if len(qs) == 0 {
			continue
		}
		set.Pillars = append(set.Pillars, PillarQuestions{
			Pillar:    p,
			Label:     p.Label(),
			Questions: qs,
		})
	}
	return set, nil
}

func (s *AssessmentService) parseTier(name string) (scoring.Tier, error) {
	tier, err := scoring.ParseTier(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrInvalidTier, err)
	}
	if _, ok := s.Engine.Tiers().Lookup(tier); !ok {
		return "", fmt.Errorf("%w: %s not configured", util.ErrInvalidTier, tier)
	}
	return tier, nil
}

// Start 创建一次进行中的测评
func (s *AssessmentService) Start(ctx context.Context, in StartInput) (*model.DreamAssessment, error) {
	tier, err := s.parseTier(in.Tier)
	if err != nil {
		return nil, err
	}

	a := &model.DreamAssessment{
		PublicToken: model.GenerateUUID(),
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Company:     strings.TrimSpace(in.Company),
		Tier:        tier,
		Status:      model.AssessmentInProgress,
		Responses:   json.RawMessage("{}"),
		IPAddress:   in.IPAddress,
		UserAgent:   truncate(in.UserAgent, 255),
	}
	a.AffiliateCode = s.resolveAffiliate(in.AffiliateCode)

	if err := s.Repo.Create(a); err != nil {
		return nil, fmt.Errorf("create assessment: %w", err)
	}

	monitoring.AssessmentsStarted.WithLabelValues(string(tier)).Inc()
	logger.Log.Info("Assessment started",
		zap.String("token", a.PublicToken),
		zap.String("tier", string(tier)),
		zap.String("affiliate", a.AffiliateCode))
	return a, nil
}

// resolveAffiliate 只保留存在且启用的推广码
func (s *AssessmentService) resolveAffiliate(code string) string {
	code = NormalizeAffiliateCode(code)
	if code == "" || s.Affiliates == nil {
		return ""
	}
	aff, err := s.Affiliates.FindByCode(code)
	if err != nil || !aff.Active {
		return ""
	}
	return aff.Code
}

func (s *AssessmentService) findByToken(token string) (*model.DreamAssessment, error) {
	a, err := s.Repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// SaveAnswers 合并一批答案。null 清除已有答案，未知题目和无法解析的值被忽略
func (s *AssessmentService) SaveAnswers(ctx context.Context, token string, answers map[string]json.RawMessage) (*AnswerProgress, error) {
	a, err := s.findByToken(token)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AssessmentCompleted {
		return nil, util.ErrAssessmentCompleted
	}

	catalog := s.Engine.Catalog()
	merged := a.RawResponses()
	for id, raw := range answers {
		q, ok := catalog.Question(id)
		if !ok {
			continue
		}
		if isJSONNull(raw) {
			delete(merged, id)
			continue
		}
		decoded := scoring.DecodeResponses(catalog, map[string]json.RawMessage{q.ID: raw})
		if _, ok := decoded[q.ID]; !ok {
			continue
		}
		merged[q.ID] = raw
	}

	// 按题型归一化后保存，如 "7" 存为 7
	responses := scoring.DecodeResponses(catalog, merged)
	data, err := json.Marshal(scoring.EncodeResponses(responses))
	if err != nil {
		return nil, err
	}

	progress := s.progress(a, responses)

	if err := s.Repo.UpdateResponses(a.ID, data, progress.Completion); err != nil {
		return nil, fmt.Errorf("update responses: %w", err)
	}
	return progress, nil
}

func (s *AssessmentService) progress(a *model.DreamAssessment, responses scoring.Responses) *AnswerProgress {
	questions := s.Engine.QuestionsForTier(a.Tier)
	answered := 0
	for _, q := range questions {
		if scoring.IsAnswered(responses[q.ID]) {
			answered++
		}
	}
	return &AnswerProgress{
		Token:      a.PublicToken,
		Answered:   answered,
		Total:      len(questions),
		Completion: s.Engine.CompletionPercentage(responses, a.Tier),
	}
}

// Complete 评分并标记完成。已完成的测评直接返回已保存的结果，
// 邮件和策略生成只由完成状态切换成功的一次调用触发
func (s *AssessmentService) Complete(ctx context.Context, token string) (*AssessmentResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "assessment.complete")
	defer span.End()

	a, err := s.findByToken(token)
	if err != nil {
		return nil, err
	}
	if a.Status == model.AssessmentCompleted {
		return s.buildResult(a), nil
	}

	responses := scoring.DecodeResponses(s.Engine.Catalog(), a.RawResponses())
	scores := s.Engine.CalculateScores(responses, a.Tier)

	now := time.Now()
	a.SetScores(scores)
	a.Completion = s.Engine.CompletionPercentage(responses, a.Tier)
	a.Status = model.AssessmentCompleted
	a.CompletedAt = &now
	if s.Strategy != nil && s.Strategy.Enabled() {
		a.StrategyStatus = model.StrategyPending
	}

	won, err := s.Repo.MarkCompleted(a)
	if err != nil {
		return nil, fmt.Errorf("complete assessment: %w", err)
	}
	if !won {
		// 并发提交时由另一请求完成，返回已保存的结果
		stored, err := s.findByToken(token)
		if err != nil {
			return nil, err
		}
		return s.buildResult(stored), nil
	}

	span.SetAttributes(
		attribute.String("assessment.tier", string(a.Tier)),
		attribute.Float64("assessment.overall", scores.Overall),
	)
	monitoring.ObserveCompletion(a.Tier, scores)
	logger.Log.Info("Assessment completed",
		zap.String("token", a.PublicToken),
		zap.String("tier", string(a.Tier)),
		zap.Float64("overall", scores.Overall),
		zap.Int("completion", a.Completion))

	result := s.buildResult(a)
	s.invalidate(ctx, a.PublicToken)

	completed := *a
	s.runAsync(func() { s.afterCompletion(&completed, result) })

	return result, nil
}

// afterCompletion 发送结果邮件并生成 AI 策略，失败只记录日志
func (s *AssessmentService) afterCompletion(a *model.DreamAssessment, result *AssessmentResult) {
	ctx, cancel := context.WithTimeout(context.Background(), backgroundJobTimeout)
	defer cancel()

	if s.Mail != nil && s.Mail.Enabled() {
		if err := s.Mail.SendResults(ctx, a, result); err != nil {
			monitoring.BackgroundJobFailures.WithLabelValues("results_email").Inc()
			logger.Log.Error("Failed to send results email", zap.String("token", a.PublicToken), zap.Error(err))
		} else if err := s.Repo.MarkEmailSent(a.ID, time.Now()); err != nil {
			logger.Log.Warn("Failed to mark email sent", zap.String("token", a.PublicToken), zap.Error(err))
		}
	}

	if a.StrategyStatus == model.StrategyPending {
		if err := s.generateStrategy(ctx, a); err != nil {
			monitoring.BackgroundJobFailures.WithLabelValues("strategy").Inc()
			logger.Log.Error("Failed to generate strategy", zap.String("token", a.PublicToken), zap.Error(err))
		}
	}
}

func (s *AssessmentService) generateStrategy(ctx context.Context, a *model.DreamAssessment) error {
	text, err := s.Strategy.Generate(ctx, a)
	if err != nil {
		if uerr := s.Repo.UpdateStrategy(a.ID, "", model.StrategyFailed); uerr != nil {
			logger.Log.Warn("Failed to record strategy failure", zap.Error(uerr))
		}
		s.invalidate(ctx, a.PublicToken)
		return err
	}

	if err := s.Repo.UpdateStrategy(a.ID, text, model.StrategyReady); err != nil {
		return err
	}
	s.invalidate(ctx, a.PublicToken)
	return nil
}

// RegenerateStrategy 后台手动重新生成策略
func (s *AssessmentService) RegenerateStrategy(ctx context.Context, id uint) (*model.DreamAssessment, error) {
	if s.Strategy == nil || !s.Strategy.Enabled() {
		return nil, util.ErrStrategyDisabled
	}

	a, err := s.findByID(id)
	if err != nil {
		return nil, err
	}
	if a.Status != model.AssessmentCompleted {
		return nil, util.ErrAssessmentIncomplete
	}

	if err := s.generateStrategy(ctx, a); err != nil {
		return nil, err
	}
	return s.findByID(id)
}

func (s *AssessmentService) invalidate(ctx context.Context, token string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, token); err != nil {
		logger.Log.Warn("Failed to invalidate result cache", zap.String("token", token), zap.Error(err))
	}
}

// Result 结果页数据。完成的结果走缓存，进行中的测评按当前答案实时计算
func (s *AssessmentService) Result(ctx context.Context, token string) (*AssessmentResult, error) {
	if s.Cache != nil {
		var cached AssessmentResult
		hit, err := s.Cache.Get(ctx, token, &cached)
		if err != nil {
			logger.Log.Warn("Result cache read failed", zap.String("token", token), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	a, err := s.findByToken(token)
	if err != nil {
		return nil, err
	}

	result := s.buildResult(a)
	if a.Status == model.AssessmentCompleted && a.StrategyStatus != model.StrategyPending && s.Cache != nil {
		if err := s.Cache.Set(ctx, token, result); err != nil {
			logger.Log.Warn("Result cache write failed", zap.String("token", token), zap.Error(err))
		}
	}
	return result, nil
}

func (s *AssessmentService) buildResult(a *model.DreamAssessment) *AssessmentResult {
	scores := a.Scores()
	completion := a.Completion
	if a.Status != model.AssessmentCompleted {
		responses := scoring.DecodeResponses(s.Engine.Catalog(), a.RawResponses())
		scores = s.Engine.CalculateScores(responses, a.Tier)
		completion = s.Engine.CompletionPercentage(responses, a.Tier)
	}

	return &AssessmentResult{
		Token:           a.PublicToken,
		Name:            a.Name,
		Company:         a.Company,
		Tier:            a.Tier,
		TierLabel:       tierLabel(s.Engine, a.Tier),
		Status:          a.Status,
		Scores:          scores,
		Bands:           bandsFor(scores),
		Recommendations: scoring.GenerateRecommendations(scores),
		Completion:      completion,
		Strategy:        a.Strategy,
		StrategyStatus:  a.StrategyStatus,
		CompletedAt:     a.CompletedAt,
	}
}

// Preview 对提交的答案直接评分，不落库
func (s *AssessmentService) Preview(tierName string, answers map[string]json.RawMessage) (*PreviewResult, error) {
	tier, err := s.parseTier(tierName)
	if err != nil {
		return nil, err
	}

	responses := scoring.DecodeResponses(s.Engine.Catalog(), answers)
	scores := s.Engine.CalculateScores(responses, tier)
	return &PreviewResult{
		Tier:            tier,
		Scores:          scores,
		Bands:           bandsFor(scores),
		Recommendations: scoring.GenerateRecommendations(scores),
		Completion:      s.Engine.CompletionPercentage(responses, tier),
	}, nil
}

func (s *AssessmentService) List(filter repository.AssessmentFilter, page, limit int) ([]model.DreamAssessment, int64, error) {
	return s.Repo.List(filter, page, limit)
}

func (s *AssessmentService) findByID(id uint) (*model.DreamAssessment, error) {
	a, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssessmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// Detail 后台详情
func (s *AssessmentService) Detail(id uint) (*AssessmentDetail, error) {
	a, err := s.findByID(id)
	if err != nil {
		return nil, err
	}

	responses := scoring.DecodeResponses(s.Engine.Catalog(), a.RawResponses())
	return &AssessmentDetail{
		Assessment: a,
		Result:     s.buildResult(a),
		Answers:    FormatAnswers(s.Engine, a.Tier, responses),
	}, nil
}

func (s *AssessmentService) Delete(ctx context.Context, id uint) error {
	a, err := s.findByID(id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.invalidate(ctx, a.PublicToken)
	return nil
}

func bandsFor(scores scoring.DreamScores) map[scoring.Pillar]scoring.Band {
	bands := make(map[scoring.Pillar]scoring.Band, len(scoring.AllPillars))
	for _, p := range scoring.AllPillars {
		bands[p] = scoring.BandFor(scores.Pillar(p))
	}
	return bands
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || strings.TrimSpace(string(raw)) == "null"
}

// truncate 按字符截断，与 MySQL varchar 长度一致
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
