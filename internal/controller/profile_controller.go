package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// @Summary 当前用户资料
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Profile}
// @Router /profile [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.ProfileService.Get(ctx.Request.Context(), sess.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 学员列表（管理员）
// @Tags 学员管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Profile}
// @Router /admin/students [get]
func (c *ProfileController) ListStudents(ctx *gin.Context) {
	students, err := c.ProfileService.ListStudents(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// @Summary 按邮箱激活学员（管理员）
// @Description 状态置为 active，有效期一个月；学员需先在站点注册
// @Tags 学员管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ActivateStudentRequest true "邮箱与套餐"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 404 {object} util.Response
// @Router /admin/students/activate [post]
func (c *ProfileController) ActivateStudent(ctx *gin.Context) {
	var req service.ActivateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.ActivateStudent(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// @Summary 编辑学员（管理员）
// @Tags 学员管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "学员ID"
// @Param body body service.UpdateStudentRequest true "学员资料"
// @Success 200 {object} util.Response{data=model.Profile}
// @Failure 400 {object} util.Response
// @Router /admin/students/{id} [put]
func (c *ProfileController) UpdateStudent(ctx *gin.Context) {
	var req service.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.ProfileService.UpdateStudent(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}
