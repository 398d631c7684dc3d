package util

import (
	"errors"
	"monsterhouse_backend/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Retryable bool        `json:"retryable,omitempty"`
}

// PageResponse 分页响应结构
type PageResponse struct {
	List  interface{} `json:"list"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// HandleError 将业务错误映射为 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	switch {
	case IsRetryable(err):
		logger.Log.Error("retryable storage failure", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, Response{
			Code:      http.StatusServiceUnavailable,
			Message:   ErrRetryable.Error(),
			Retryable: true,
		})
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrWorkoutNotFound),
		errors.Is(err, ErrAchievementNotFound),
		errors.Is(err, ErrTrainerNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrTrainerNotLinked):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNoExercisesCompleted),
		errors.Is(err, ErrExerciseIndexOutOfRange),
		errors.Is(err, ErrInvalidCriteriaType),
		errors.Is(err, ErrInvalidAchievement),
		errors.Is(err, ErrInvalidWorkout),
		errors.Is(err, ErrInvalidAccessCode),
		errors.Is(err, ErrInvalidUpload),
		errors.Is(err, ErrInvalidTrainer),
		errors.Is(err, ErrInvalidProfile):
		BadRequest(c, err.Error())
	case errors.Is(err, ErrSessionNotInProgress),
		errors.Is(err, ErrAccessCodeTaken):
		Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrWorkoutNotVisible),
		errors.Is(err, ErrAccountInactive),
		errors.Is(err, ErrNotPersonalTrainer):
		Error(c, http.StatusForbidden, err.Error())
	default:
		LogInternalError(c, err)
	}
}
