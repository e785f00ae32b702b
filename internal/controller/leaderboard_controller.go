package controller

import (
	"errors"

	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
	ModuleService      *service.ModuleService
	DefaultLimit       int
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService, moduleService *service.ModuleService, defaultLimit int) *LeaderboardController {
	return &LeaderboardController{
		LeaderboardService: leaderboardService,
		ModuleService:      moduleService,
		DefaultLimit:       defaultLimit,
	}
}

// ForModule godoc
// @Summary 模块排行榜
// @Description 按分数降序、同分按时间升序排列
// @Tags 排行榜
// @Produce  json
// @Security BearerAuth
// @Param   id path string true "模块 ID"
// @Param   limit query int false "返回条数"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/modules/{id}/leaderboard [get]
func (c *LeaderboardController) ForModule(ctx *gin.Context) {
	moduleID := ctx.Param("id")
	if _, err := c.ModuleService.Get(moduleID); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	limit := util.ParseIntDefault(ctx.Query("limit"), c.DefaultLimit)
	entries, err := c.LeaderboardService.ForModule(ctx.Request.Context(), moduleID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
