package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	WorkoutService *service.WorkoutService
}

func NewWorkoutController(workoutService *service.WorkoutService) *WorkoutController {
	return &WorkoutController{WorkoutService: workoutService}
}

// @Summary 可用训练列表
// @Description 学院训练加上所绑定私教的训练，每个动作附带 embed_url
// @Tags 训练
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.WorkoutView}
// @Router /workouts [get]
func (c *WorkoutController) ListWorkouts(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.WorkoutService.ListForStudent(ctx.Request.Context(), sess)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 我管理的训练
// @Description 管理员为学院训练，私教为自己创建的训练
// @Tags 训练管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.WorkoutView}
// @Router /admin/workouts [get]
// @Router /trainer/workouts [get]
func (c *WorkoutController) ListOwnedWorkouts(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	list, err := c.WorkoutService.ListOwned(ctx.Request.Context(), sess)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 创建训练
// @Tags 训练管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.WorkoutRequest true "训练"
// @Success 201 {object} util.Response{data=model.Workout}
// @Router /admin/workouts [post]
// @Router /trainer/workouts [post]
func (c *WorkoutController) CreateWorkout(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req service.WorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.WorkoutService.Create(ctx.Request.Context(), sess, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, w)
}

// @Summary 更新训练
// @Tags 训练管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "训练ID"
// @Param body body service.WorkoutRequest true "训练"
// @Success 200 {object} util.Response{data=model.Workout}
// @Router /admin/workouts/{id} [put]
// @Router /trainer/workouts/{id} [put]
func (c *WorkoutController) UpdateWorkout(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req service.WorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	w, err := c.WorkoutService.Update(ctx.Request.Context(), sess, ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, w)
}

// @Summary 删除训练
// @Tags 训练管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "训练ID"
// @Success 200 {object} util.Response
// @Router /admin/workouts/{id} [delete]
// @Router /trainer/workouts/{id} [delete]
func (c *WorkoutController) DeleteWorkout(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.WorkoutService.Delete(ctx.Request.Context(), sess, ctx.Param("id")); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
