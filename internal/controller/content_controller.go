package controller

import (
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

func writeContentError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrSlugTaken):
		util.Conflict(ctx, "Slug already in use")
	case errors.Is(err, util.ErrInvalidSlug):
		util.BadRequest(ctx, "Slug cannot be empty")
	case errors.Is(err, util.ErrFileTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, "File too large")
	case errors.Is(err, util.ErrInvalidFileType):
		util.BadRequest(ctx, "Invalid file type")
	default:
		util.LogInternalError(ctx, err)
	}
}

// ---- 作品案例 ----

// ListProjects godoc
// @Summary 作品案例列表
// @Tags 内容
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/projects [get]
func (c *ContentController) ListProjects(ctx *gin.Context) {
	c.listProjects(ctx, true)
}

// AdminListProjects godoc
// @Summary 作品案例列表（含草稿）
// @Tags 后台-内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/projects [get]
func (c *ContentController) AdminListProjects(ctx *gin.Context) {
	c.listProjects(ctx, false)
}

func (c *ContentController) listProjects(ctx *gin.Context, publishedOnly bool) {
	page, limit := util.ParsePagination(ctx)
	list, total, err := c.ContentService.ListProjects(publishedOnly, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// GetProject godoc
// @Summary 作品案例详情
// @Tags 内容
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} util.Response{data=model.Project}
// @Failure 404 {object} util.Response
// @Router /api/projects/{slug} [get]
func (c *ContentController) GetProject(ctx *gin.Context) {
	p, err := c.ContentService.GetProject(ctx.Param("slug"), true)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// CreateProject godoc
// @Summary 创建作品案例
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ProjectInput true "作品案例"
// @Success 201 {object} util.Response{data=model.Project}
// @Failure 409 {object} util.Response "slug 已存在"
// @Router /api/admin/projects [post]
func (c *ContentController) CreateProject(ctx *gin.Context) {
	var req service.ProjectInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ContentService.CreateProject(req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// UpdateProject godoc
// @Summary 更新作品案例
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body service.ProjectInput true "作品案例"
// @Success 200 {object} util.Response{data=model.Project}
// @Router /api/admin/projects/{id} [put]
func (c *ContentController) UpdateProject(ctx *gin.Context) {
	var req service.ProjectInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ContentService.UpdateProject(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// DeleteProject godoc
// @Summary 删除作品案例
// @Tags 后台-内容
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response
// @Router /api/admin/projects/{id} [delete]
func (c *ContentController) DeleteProject(ctx *gin.Context) {
	if err := c.ContentService.DeleteProject(util.MustParseUint(ctx.Param("id"))); err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 博客 ----

// ListPosts godoc
// @Summary 博客文章列表
// @Tags 内容
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/blog [get]
func (c *ContentController) ListPosts(ctx *gin.Context) {
	c.listPosts(ctx, true)
}

// AdminListPosts godoc
// @Summary 博客文章列表（含草稿）
// @Tags 后台-内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/admin/blog [get]
func (c *ContentController) AdminListPosts(ctx *gin.Context) {
	c.listPosts(ctx, false)
}

func (c *ContentController) listPosts(ctx *gin.Context, publishedOnly bool) {
	page, limit := util.ParsePagination(ctx)
	list, total, err := c.ContentService.ListPosts(publishedOnly, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Page(ctx, list, total, page, limit)
}

// GetPost godoc
// @Summary 博客文章详情
// @Tags 内容
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} util.Response{data=model.BlogPost}
// @Failure 404 {object} util.Response
// @Router /api/blog/{slug} [get]
func (c *ContentController) GetPost(ctx *gin.Context) {
	p, err := c.ContentService.GetPost(ctx.Param("slug"), true)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// CreatePost godoc
// @Summary 创建博客文章
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.BlogPostInput true "文章"
// @Success 201 {object} util.Response{data=model.BlogPost}
// @Router /api/admin/blog [post]
func (c *ContentController) CreatePost(ctx *gin.Context) {
	var req service.BlogPostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ContentService.CreatePost(req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Created(ctx, p)
}

// UpdatePost godoc
// @Summary 更新博客文章
// @Description 首次发布时记录发布时间
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body service.BlogPostInput true "文章"
// @Success 200 {object} util.Response{data=model.BlogPost}
// @Router /api/admin/blog/{id} [put]
func (c *ContentController) UpdatePost(ctx *gin.Context) {
	var req service.BlogPostInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	p, err := c.ContentService.UpdatePost(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// DeletePost godoc
// @Summary 删除博客文章
// @Tags 后台-内容
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response
// @Router /api/admin/blog/{id} [delete]
func (c *ContentController) DeletePost(ctx *gin.Context) {
	if err := c.ContentService.DeletePost(util.MustParseUint(ctx.Param("id"))); err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ---- 服务项目 ----

// ListServices godoc
// @Summary 服务项目列表
// @Tags 内容
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Service}
// @Router /api/services [get]
func (c *ContentController) ListServices(ctx *gin.Context) {
	c.listServices(ctx, true)
}

// AdminListServices godoc
// @Summary 服务项目列表（含草稿）
// @Tags 后台-内容
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Service}
// @Router /api/admin/services [get]
func (c *ContentController) AdminListServices(ctx *gin.Context) {
	c.listServices(ctx, false)
}

func (c *ContentController) listServices(ctx *gin.Context, publishedOnly bool) {
	list, err := c.ContentService.ListServices(publishedOnly)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// GetService godoc
// @Summary 服务项目详情
// @Tags 内容
// @Produce json
// @Param slug path string true "slug"
// @Success 200 {object} util.Response{data=model.Service}
// @Router /api/services/{slug} [get]
func (c *ContentController) GetService(ctx *gin.Context) {
	svc, err := c.ContentService.GetService(ctx.Param("slug"), true)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, svc)
}

// CreateService godoc
// @Summary 创建服务项目
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ServiceInput true "服务项目"
// @Success 201 {object} util.Response{data=model.Service}
// @Router /api/admin/services [post]
func (c *ContentController) CreateService(ctx *gin.Context) {
	var req service.ServiceInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	svc, err := c.ContentService.CreateService(req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Created(ctx, svc)
}

// UpdateService godoc
// @Summary 更新服务项目
// @Tags 后台-内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID"
// @Param body body service.ServiceInput true "服务项目"
// @Success 200 {object} util.Response{data=model.Service}
// @Router /api/admin/services/{id} [put]
func (c *ContentController) UpdateService(ctx *gin.Context) {
	var req service.ServiceInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	svc, err := c.ContentService.UpdateService(util.MustParseUint(ctx.Param("id")), req)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, svc)
}

// DeleteService godoc
// @Summary 删除服务项目
// @Tags 后台-内容
// @Security BearerAuth
// @Param id path int true "ID"
// @Success 200 {object} util.Response
// @Router /api/admin/services/{id} [delete]
func (c *ContentController) DeleteService(ctx *gin.Context) {
	if err := c.ContentService.DeleteService(util.MustParseUint(ctx.Param("id"))); err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadMedia godoc
// @Summary 上传图片
// @Description 支持 jpg/png/gif/webp，最大 10MB
// @Tags 后台-内容
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片"
// @Success 201 {object} util.Response{data=object}
// @Failure 413 {object} util.Response "文件过大"
// @Router /api/admin/media [post]
func (c *ContentController) UploadMedia(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	url, err := c.ContentService.UploadMedia(ctx.Request.Context(), file)
	if err != nil {
		writeContentError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"url": url})
}
