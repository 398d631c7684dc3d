package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 获取用户成就
// @Description 所有启用的成就，附带解锁状态与进度百分比
// @Tags 成就系统
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.AchievementView}
// @Router /achievements [get]
func (c *AchievementController) GetUserAchievements(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	views, err := c.AchievementService.ListForUser(ctx.Request.Context(), sess.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, views)
}

// @Summary 成就目录（管理员）
// @Tags 成就管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Achievement}
// @Router /admin/achievements [get]
func (c *AchievementController) ListAchievements(ctx *gin.Context) {
	list, err := c.AchievementService.ListAll(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建成就
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.AchievementRequest true "成就"
// @Success 201 {object} util.Response{data=model.Achievement}
// @Failure 400 {object} util.Response
// @Router /admin/achievements [post]
func (c *AchievementController) CreateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AchievementService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// @Summary 更新成就
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Param body body service.AchievementRequest true "成就"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Router /admin/achievements/{id} [put]
func (c *AchievementController) UpdateAchievement(ctx *gin.Context) {
	var req service.AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AchievementService.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// @Summary 启用/停用成就
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response
// @Router /admin/achievements/{id}/active [patch]
func (c *AchievementController) SetAchievementActive(ctx *gin.Context) {
	var req setActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AchievementService.SetActive(ctx.Request.Context(), ctx.Param("id"), *req.Active); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id"), "active": *req.Active})
}

// @Summary 上传徽章图片
// @Tags 成就管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Param file formData file true "图片"
// @Success 200 {object} util.Response{data=model.Achievement}
// @Router /admin/achievements/{id}/badge [post]
func (c *AchievementController) UploadBadge(ctx *gin.Context) {
	header, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	defer file.Close()

	a, err := c.AchievementService.UploadBadge(ctx.Request.Context(), ctx.Param("id"), file, header.Filename, header.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, a)
}

type grantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// @Summary 手动授予成就
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "成就ID"
// @Success 200 {object} util.Response
// @Router /admin/achievements/{id}/grant [post]
func (c *AchievementController) GrantAchievement(ctx *gin.Context) {
	var req grantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	created, err := c.AchievementService.Grant(ctx.Request.Context(), ctx.Param("id"), req.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"granted": created})
}
