package controller

import (
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AffiliateController struct {
	AffiliateService *service.AffiliateService
	Cfg              *config.Config
}

func NewAffiliateController(affiliateService *service.AffiliateService, cfg *config.Config) *AffiliateController {
	return &AffiliateController{
		AffiliateService: affiliateService,
		Cfg:              cfg,
	}
}

// swagger:model AffiliateRequest
type AffiliateRequest struct {
	Code   string `json:"code"`
	Name   string `json:"name" binding:"max=100"`
	Email  string `json:"email" binding:"omitempty,email"`
	Active *bool  `json:"active"`
	Notes  string `json:"notes" binding:"max=500"`
}

func (r AffiliateRequest) input() service.AffiliateInput {
	return service.AffiliateInput{
		Code:   r.Code,
		Name:   r.Name,
		Email:  r.Email,
		Active: r.Active,
		Notes:  r.Notes,
	}
}

func writeAffiliateError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAffiliateNotFound):
		util.Error(ctx, http.StatusNotFound, "Affiliate not found")
	case errors.Is(err, util.ErrAffiliateCodeTaken):
		util.Conflict(ctx, "Affiliate code already in use")
	case errors.Is(err, util.ErrInvalidAffiliate):
		util.BadRequest(ctx, "Affiliate code must be 3-50 characters of a-z, 0-9, '-' or '_'")
	default:
		util.LogInternalError(ctx, err)
	}
}

// TrackReferral godoc
// @Summary 推广链接跳转
// @Description 记录点击并写入推广 Cookie 后跳转到测评页，未知推广码直接跳转
// @Tags 推广
// @Param code path string true "推广码"
// @Success 302
// @Router /api/r/{code} [get]
func (c *AffiliateController) TrackReferral(ctx *gin.Context) {
	quiz := c.Cfg.Quiz
	if code := c.AffiliateService.TrackClick(ctx.Request.Context(), ctx.Param("code")); code != "" && quiz.ReferralCookie != "" {
		maxAge := quiz.ReferralCookieTTL * 24 * 60 * 60
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(quiz.ReferralCookie, code, maxAge, "/", "", ctx.Request.TLS != nil, false)
	}
	ctx.Redirect(http.StatusFound, quiz.QuizURL())
}

// ListAffiliates godoc
// @Summary 推广伙伴列表
// @Tags 后台-推广
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/affiliates [get]
func (c *AffiliateController) ListAffiliates(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	list, total, err := c.AffiliateService.List(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// CreateAffiliate godoc
// @Summary 创建推广伙伴
// @Tags 后台-推广
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AffiliateRequest true "推广伙伴"
// @Success 201 {object} util.Response{data=model.Affiliate}
// @Failure 409 {object} util.Response "推广码已存在"
// @Router /api/admin/affiliates [post]
func (c *AffiliateController) CreateAffiliate(ctx *gin.Context) {
	var req AffiliateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AffiliateService.Create(req.input())
	if err != nil {
		writeAffiliateError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// GetAffiliate godoc
// @Summary 推广伙伴详情
// @Tags 后台-推广
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response{data=model.Affiliate}
// @Router /api/admin/affiliates/{id} [get]
func (c *AffiliateController) GetAffiliate(ctx *gin.Context) {
	a, err := c.AffiliateService.Get(util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeAffiliateError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// UpdateAffiliate godoc
// @Summary 更新推广伙伴
// @Description 推广码创建后不可修改
// @Tags 后台-推广
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body AffiliateRequest true "推广伙伴"
// @Success 200 {object} util.Response{data=model.Affiliate}
// @Router /api/admin/affiliates/{id} [put]
func (c *AffiliateController) UpdateAffiliate(ctx *gin.Context) {
	var req AffiliateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AffiliateService.Update(util.MustParseUint(ctx.Param("id")), req.input())
	if err != nil {
		writeAffiliateError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

// DeleteAffiliate godoc
// @Summary 删除推广伙伴
// @Tags 后台-推广
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response
// @Router /api/admin/affiliates/{id} [delete]
func (c *AffiliateController) DeleteAffiliate(ctx *gin.Context) {
	if err := c.AffiliateService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		writeAffiliateError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetAffiliateStats godoc
// @Summary 推广效果统计
// @Description 点击数、线索数、完成数和平均总分
// @Tags 后台-推广
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response{data=model.AffiliateStats}
// @Router /api/admin/affiliates/{id}/stats [get]
func (c *AffiliateController) GetAffiliateStats(ctx *gin.Context) {
	stats, err := c.AffiliateService.Stats(ctx.Request.Context(), util.MustParseUint(ctx.Param("id")))
	if err != nil {
		writeAffiliateError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
