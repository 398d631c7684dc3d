package controller

import (
	"monsterhouse_backend/internal/service"
	"monsterhouse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PersonalController struct {
	PersonalService *service.PersonalService
}

func NewPersonalController(personalService *service.PersonalService) *PersonalController {
	return &PersonalController{PersonalService: personalService}
}

type linkRequest struct {
	Code string `json:"code" binding:"required"`
}

// @Summary 绑定私教
// @Description 访问码忽略大小写与首尾空白
// @Tags 私教
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body linkRequest true "访问码"
// @Success 200 {object} util.Response{data=model.PersonalTrainer}
// @Failure 400 {object} util.Response
// @Router /personal/link [post]
func (c *PersonalController) Link(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req linkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trainer, err := c.PersonalService.Link(ctx.Request.Context(), sess, req.Code)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, trainer)
}

// @Summary 解除绑定
// @Tags 私教
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /personal/link [delete]
func (c *PersonalController) Unlink(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	if err := c.PersonalService.Unlink(ctx.Request.Context(), sess); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 我的私教
// @Tags 私教
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.PersonalTrainer}
// @Router /personal [get]
func (c *PersonalController) GetLinked(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	trainer, err := c.PersonalService.Linked(ctx.Request.Context(), sess)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, trainer)
}

// @Summary 我的学员
// @Tags 私教后台
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Profile}
// @Router /trainer/students [get]
func (c *PersonalController) Students(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	students, err := c.PersonalService.Students(ctx.Request.Context(), sess)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, students)
}

// @Summary 更新私教资料
// @Tags 私教后台
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.TrainerProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.PersonalTrainer}
// @Router /trainer/profile [put]
func (c *PersonalController) UpdateProfile(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	var req service.TrainerProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trainer, err := c.PersonalService.UpdateProfile(ctx.Request.Context(), sess, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, trainer)
}

// @Summary 上传私教照片
// @Tags 私教后台
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片"
// @Success 200 {object} util.Response{data=model.PersonalTrainer}
// @Router /trainer/photo [post]
func (c *PersonalController) UploadPhoto(ctx *gin.Context) {
	sess, ok := util.GetSessionFromContext(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
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

	trainer, err := c.PersonalService.UploadPhoto(ctx.Request.Context(), sess, file, header.Filename, header.Size)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, trainer)
}

// @Summary 创建私教（管理员）
// @Tags 私教管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateTrainerRequest true "私教"
// @Success 201 {object} util.Response{data=model.PersonalTrainer}
// @Failure 409 {object} util.Response
// @Router /admin/trainers [post]
func (c *PersonalController) CreateTrainer(ctx *gin.Context) {
	var req service.CreateTrainerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	trainer, err := c.PersonalService.Create(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, trainer)
}

// @Summary 私教列表（管理员）
// @Tags 私教管理
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.PersonalTrainer}
// @Router /admin/trainers [get]
func (c *PersonalController) ListTrainers(ctx *gin.Context) {
	list, err := c.PersonalService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
