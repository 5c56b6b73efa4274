package controller

import (
	"dream_site_backend/internal/model"
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	ContactService *service.ContactService
}

func NewContactController(contactService *service.ContactService) *ContactController {
	return &ContactController{ContactService: contactService}
}

// swagger:model ContactRequest
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email"`
	Company string `json:"company" binding:"max=150"`
	Phone   string `json:"phone" binding:"max=50"`
	Message string `json:"message" binding:"required,max=5000"`
	Source  string `json:"source" binding:"max=50"`
}

// swagger:model ContactStatusRequest
type ContactStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new handled"`
}

// SubmitContact godoc
// @Summary 提交联系表单
// @Tags 联系
// @Accept json
// @Produce json
// @Param body body ContactRequest true "联系信息"
// @Success 201 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/contact [post]
func (c *ContactController) SubmitContact(ctx *gin.Context) {
	var req ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	contact, err := c.ContactService.Submit(ctx.Request.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Company: req.Company,
		Phone:   req.Phone,
		Message: req.Message,
		Source:  req.Source,
	})
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"id": contact.ID})
}

// ListContacts godoc
// @Summary 联系表单列表
// @Tags 后台-联系
// @Produce json
// @Security BearerAuth
// @Param status query string false "状态" Enums(new, handled)
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/contacts [get]
func (c *ContactController) ListContacts(ctx *gin.Context) {
	page, limit := util.ParsePagination(ctx)
	list, total, err := c.ContactService.List(ctx.Query("status"), page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// UpdateContactStatus godoc
// @Summary 更新联系表单状态
// @Tags 后台-联系
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body ContactStatusRequest true "状态"
// @Success 200 {object} util.Response{data=model.Contact}
// @Router /api/admin/contacts/{id}/status [patch]
func (c *ContactController) UpdateContactStatus(ctx *gin.Context) {
	var req ContactStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	contact, err := c.ContactService.SetStatus(util.MustParseUint(ctx.Param("id")), model.ContactStatus(req.Status))
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, contact)
}

// DeleteContact godoc
// @Summary 删除联系表单
// @Tags 后台-联系
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response
// @Router /api/admin/contacts/{id} [delete]
func (c *ContactController) DeleteContact(ctx *gin.Context) {
	if err := c.ContactService.Delete(util.MustParseUint(ctx.Param("id"))); err != nil {
		if errors.Is(err, util.ErrNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
