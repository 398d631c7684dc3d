package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// @Summary 学员统计
// @Description 积分、等级、完成训练数以及距离下一级的积分
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StatsDashboard}
// @Router /stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	dashboard, err := c.StatsService.Dashboard(ctx.Request.Context(), sess.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// @Summary 积分排行榜
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数，默认 10，最多 50"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /stats/leaderboard [get]
func (c *StatsController) GetLeaderboard(ctx *gin.Context) {
	_, limit := util.ParsePage("1", ctx.Query("limit"), 10, 50)

	leaderboard, err := c.StatsService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, leaderboard)
}
