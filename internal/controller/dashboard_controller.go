package controller

import (
	"dream_site_backend/internal/service"
	"dream_site_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// @Summary 后台仪表盘
// @Description 测评、联系表单、订阅者和推广伙伴的汇总数据
// @Tags 后台-仪表盘
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.DashboardStats}
// @Router /api/admin/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	stats, err := c.DashboardService.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
