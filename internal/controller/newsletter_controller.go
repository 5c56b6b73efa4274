package controller

import (
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type NewsletterController struct {
	NewsletterService *service.NewsletterService
}

func NewNewsletterController(newsletterService *service.NewsletterService) *NewsletterController {
	return &NewsletterController{NewsletterService: newsletterService}
}

// swagger:model SubscribeRequest
type SubscribeRequest struct {
	Email  string `json:"email" binding:"required,email"`
	Name   string `json:"name" binding:"max=100"`
	Source string `json:"source" binding:"max=50"`
}

// swagger:model UnsubscribeRequest
type UnsubscribeRequest struct {
	Token string `json:"token" binding:"required"`
}

// Subscribe godoc
// @Summary 订阅邮件
// @Description 重复订阅直接返回成功，已退订的邮箱重新激活
// @Tags 订阅
// @Accept json
// @Produce json
// @Param body body SubscribeRequest true "订阅信息"
// @Success 200 {object} util.Response{data=object}
// @Success 201 {object} util.Response{data=object}
// @Router /api/newsletter/subscribe [post]
func (c *NewsletterController) Subscribe(ctx *gin.Context) {
	var req SubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	source := req.Source
	if source == "" {
		source = "website"
	}

	sub, created, err := c.NewsletterService.Subscribe(ctx.Request.Context(), req.Email, req.Name, source)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	data := gin.H{"email": sub.Email, "status": sub.Status}
	if created {
		util.Created(ctx, data)
		return
	}
	util.Success(ctx, data)
}

// Unsubscribe godoc
// @Summary 退订邮件
// @Tags 订阅
// @Accept json
// @Produce json
// @Param body body UnsubscribeRequest true "退订令牌"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "令牌无效"
// @Router /api/newsletter/unsubscribe [post]
func (c *NewsletterController) Unsubscribe(ctx *gin.Context) {
	var req UnsubscribeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.NewsletterService.Unsubscribe(req.Token); err != nil {
		if errors.Is(err, util.ErrSubscriberNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListSubscribers godoc
// @Summary 订阅者列表
// @Tags 后台-订阅
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态" Enums(active, unsubscribed)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/subscribers [get]
func (c *NewsletterController) ListSubscribers(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	list, total, err := c.NewsletterService.List(ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}
