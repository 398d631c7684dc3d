package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type SessionController struct {
	SessionService *service.WorkoutSessionService
}

func NewSessionController(sessionService *service.WorkoutSessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

type startSessionRequest struct {
	WorkoutID string `json:"workout_id" binding:"required"`
}

// @Summary 开始训练
// @Description 替换当前未完成的训练会话
// @Tags 训练会话
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startSessionRequest true "训练ID"
// @Success 201 {object} util.Response{data=service.WorkoutSession}
// @Failure 403 {object} util.Response
// @Router /sessions [post]
func (c *SessionController) StartSession(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req startSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.Start(ctx.Request.Context(), sess, req.WorkoutID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, session)
}

// @Summary 当前训练会话
// @Tags 训练会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.WorkoutSession}
// @Failure 404 {object} util.Response
// @Router /sessions/current [get]
func (c *SessionController) CurrentSession(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	session, err := c.SessionService.Current(ctx.Request.Context(), sess.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 切换动作完成状态
// @Tags 训练会话
// @Produce json
// @Security BearerAuth
// @Param index path int true "动作下标，从 0 开始"
// @Success 200 {object} util.Response{data=service.WorkoutSession}
// @Failure 400 {object} util.Response
// @Router /sessions/current/exercises/{index}/toggle [post]
func (c *SessionController) ToggleExercise(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid exercise index")
		return
	}

	session, err := c.SessionService.ToggleExercise(ctx.Request.Context(), sess.UserID, index)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, session)
}

// @Summary 完成训练
// @Description 计分、更新统计并返回新解锁的成就。503 且 retryable=true 时会话保留，可直接重试
// @Tags 训练会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.FinishResult}
// @Failure 400 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /sessions/current/finish [post]
func (c *SessionController) FinishSession(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.SessionService.Finish(ctx.Request.Context(), sess.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 放弃训练
// @Tags 训练会话
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /sessions/current [delete]
func (c *SessionController) CloseSession(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SessionService.Close(ctx.Request.Context(), sess.UserID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 训练历史
// @Tags 训练会话
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /sessions/history [get]
func (c *SessionController) History(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	page, limit := util.ParsePage(ctx.Query("page"), ctx.Query("limit"), 20, 100)

	result, err := c.SessionService.History(ctx.Request.Context(), sess.UserID, page, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
