package controller

import (
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/repository"
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	AssessmentService *service.AssessmentService
	Cfg               *config.Config
}

func NewAssessmentController(assessmentService *service.AssessmentService, cfg *config.Config) *AssessmentController {
	return &AssessmentController{
		AssessmentService: assessmentService,
		Cfg:               cfg,
	}
}

// swagger:model StartAssessmentRequest
type StartAssessmentRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	Email         string `json:"email" binding:"required,email"`
	Company       string `json:"company" binding:"max=150"`
	Tier          string `json:"tier" binding:"required"`
	AffiliateCode string `json:"affiliateCode"`
}

// swagger:model SaveAnswersRequest
type SaveAnswersRequest struct {
	Answers map[string]json.RawMessage `json:"answers" binding:"required"`
}

// swagger:model PreviewRequest
type PreviewRequest struct {
	Tier    string                     `json:"tier" binding:"required"`
	Answers map[string]json.RawMessage `json:"answers"`
}

func writeAssessmentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidTier):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAssessmentNotFound):
		util.Error(ctx, http.StatusNotFound, "Assessment not found")
	case errors.Is(err, util.ErrAssessmentCompleted):
		util.Conflict(ctx, "Assessment already completed")
	case errors.Is(err, util.ErrAssessmentIncomplete):
		util.Conflict(ctx, "Assessment not completed yet")
	case errors.Is(err, util.ErrStrategyDisabled):
		util.Error(ctx, http.StatusServiceUnavailable, "Strategy generation is disabled")
	default:
		util.LogInternalError(ctx, err)
	}
}

// ListTiers godoc
// @Summary 测评档位列表
// @Description 返回 mini / medium / indepth 三个档位的题量和预计用时
// @Tags 测评
// @Produce json
// @Success 200 {object} util.Response{data=[]service.TierSummary}
// @Router /api/audit/tiers [get]
func (c *AssessmentController) ListTiers(ctx *gin.Context) {
	util.Success(ctx, c.AssessmentService.Tiers())
}

// GetQuestions godoc
// @Summary 获取档位题目
// @Description 按维度分组返回指定档位的题目
// @Tags 测评
// @Produce json
// @Param tier query string true "档位" Enums(mini, medium, indepth)
// @Success 200 {object} util.Response{data=service.QuestionSet}
// @Failure 400 {object} util.Response "档位无效"
// @Router /api/audit/questions [get]
func (c *AssessmentController) GetQuestions(ctx *gin.Context) {
	set, err := c.AssessmentService.Questions(ctx.Query("tier"))
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, set)
}

// StartAssessment godoc
// @Summary 开始测评
// @Description 登记线索信息并创建进行中的测评，推广码缺省时读取推广 Cookie
// @Tags 测评
// @Accept json
// @Produce json
// @Param body body StartAssessmentRequest true "线索信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/audit/start [post]
func (c *AssessmentController) StartAssessment(ctx *gin.Context) {
	var req StartAssessmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	code := req.AffiliateCode
	if code == "" && c.Cfg.Quiz.ReferralCookie != "" {
		if cookie, err := ctx.Cookie(c.Cfg.Quiz.ReferralCookie); err == nil {
			code = cookie
		}
	}

	a, err := c.AssessmentService.Start(ctx.Request.Context(), service.StartInput{
		Name:          req.Name,
		Email:         req.Email,
		Company:       req.Company,
		Tier:          req.Tier,
		AffiliateCode: code,
		IPAddress:     ctx.ClientIP(),
		UserAgent:     ctx.Request.UserAgent(),
	})
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"token":  a.PublicToken,
		"tier":   a.Tier,
		"status": a.Status,
	})
}

// SaveAnswers godoc
// @Summary 保存答案
// @Description 合并一批答案到测评，值为 null 时清除该题答案
// @Tags 测评
// @Accept json
// @Produce json
// @Param token path string true "测评令牌"
// @Param body body SaveAnswersRequest true "题目ID -> 答案"
// @Success 200 {object} util.Response{data=service.AnswerProgress}
// @Failure 404 {object} util.Response "测评不存在"
// @Failure 409 {object} util.Response "测评已完成"
// @Router /api/audit/{token}/answers [put]
func (c *AssessmentController) SaveAnswers(ctx *gin.Context) {
	var req SaveAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.AssessmentService.SaveAnswers(ctx.Request.Context(), ctx.Param("token"), req.Answers)
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// CompleteAssessment godoc
// @Summary 完成测评
// @Description 计算五个维度得分和总分，随后异步发送结果邮件并生成 AI 策略
// @Tags 测评
// @Produce json
// @Param token path string true "测评令牌"
// @Success 200 {object} util.Response{data=service.AssessmentResult}
// @Failure 404 {object} util.Response "测评不存在"
// @Router /api/audit/{token}/complete [post]
func (c *AssessmentController) CompleteAssessment(ctx *gin.Context) {
	result, err := c.AssessmentService.Complete(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetResult godoc
// @Summary 获取测评结果
// @Tags 测评
// @Produce json
// @Param token path string true "测评令牌"
// @Success 200 {object} util.Response{data=service.AssessmentResult}
// @Failure 404 {object} util.Response "测评不存在"
// @Router /api/audit/{token}/result [get]
func (c *AssessmentController) GetResult(ctx *gin.Context) {
	result, err := c.AssessmentService.Result(ctx.Request.Context(), ctx.Param("token"))
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Preview godoc
// @Summary 预览得分
// @Description 对提交的答案直接评分，不保存
// @Tags 测评
// @Accept json
// @Produce json
// @Param body body PreviewRequest true "档位和答案"
// @Success 200 {object} util.Response{data=service.PreviewResult}
// @Failure 400 {object} util.Response "档位无效"
// @Router /api/audit/preview [post]
func (c *AssessmentController) Preview(ctx *gin.Context) {
	var req PreviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AssessmentService.Preview(req.Tier, req.Answers)
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ---- 后台 ----

// AdminListAssessments godoc
// @Summary 测评列表
// @Tags 后台-测评
// @Produce json
// @Security BearerAuth
// @Param tier query string false "档位"
// @Param status query string false "状态" Enums(in_progress, completed)
// @Param affiliate query string false "推广码"
// @Param email query string false "邮箱"
// @Param strategy query string false "AI 策略状态" Enums(pending, ready, failed)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/assessments [get]
func (c *AssessmentController) AdminListAssessments(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	filter := repository.AssessmentFilter{
		Tier:          ctx.Query("tier"),
		Status:        ctx.Query("status"),
		AffiliateCode: ctx.Query("affiliate"),
		Email:         ctx.Query("email"),
		Strategy:      ctx.Query("strategy"),
	}

	list, total, err := c.AssessmentService.List(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// AdminGetAssessment godoc
// @Summary 测评详情
// @Description 包含得分、建议以及格式化后的问答
// @Tags 后台-测评
// @Produce json
// @Security BearerAuth
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response{data=service.AssessmentDetail}
// @Failure 404 {object} util.Response "测评不存在"
// @Router /api/admin/assessments/{id} [get]
func (c *AssessmentController) AdminGetAssessment(ctx *gin.Context) {
	detail, err := c.AssessmentService.Detail(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// AdminDeleteAssessment godoc
// @Summary 删除测评
// @Tags 后台-测评
// @Produce json
// @Security BearerAuth
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response
// @Router /api/admin/assessments/{id} [delete]
func (c *AssessmentController) AdminDeleteAssessment(ctx *gin.Context) {
	if err := c.AssessmentService.Delete(ctx.Request.Context(), util.MustParseUint(ctx.Param("id"))); err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AdminRegenerateStrategy godoc
// @Summary 重新生成 AI 策略
// @Tags 后台-测评
// @Produce json
// @Security BearerAuth
// @Param id path int true "测评ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 409 {object} util.Response "测评未完成"
// @Failure 503 {object} util.Response "未启用 AI 策略"
// @Router /api/admin/assessments/{id}/strategy [post]
func (c *AssessmentController) AdminRegenerateStrategy(ctx *gin.Context) {
	a, err := c.AssessmentService.RegenerateStrategy(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeAssessmentError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"id":             a.ID,
		"strategy":       a.Strategy,
		"strategyStatus": a.StrategyStatus,
	})
}
