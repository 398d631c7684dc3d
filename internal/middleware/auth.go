package middleware

import (
	"context"
	"errors"
	"monsterhouse_backend/internal/config"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/internal/util"
	"monsterhouse_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileFinder 按令牌 sub 加载调用者资料
type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// AuthMiddleware 校验 Bearer 令牌，加载资料并注入 model.Session
func AuthMiddleware(cfg *config.Config, profiles ProfileFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret, cfg.JWT.Issuer)
		if err != nil {
			logger.Log.Debug("JWT解析错误", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		profile, err := profiles.FindByID(c.Request.Context(), claims.Subject)
		if errors.Is(err, util.ErrUserNotFound) {
			util.Forbidden(c)
			c.Abort()
			return
		}
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		util.SetSession(c, profile.Session())
		c.Next()
	}
}

// RoleMiddleware 管理员拥有所有角色的权限
func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := util.GetSessionFromContext(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		hasRole := sess.IsAdmin()
		for _, role := range roles {
			if sess.Role == role {
				hasRole = true
				break
			}
		}

		if !hasRole {
			util.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// ActiveMiddleware 状态非 active 的学员不能访问训练相关接口
func ActiveMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := util.GetSessionFromContext(c)
		if !ok {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !sess.CanTrain() {
			util.HandleError(c, util.ErrAccountInactive)
			c.Abort()
			return
		}
		c.Next()
	}
}
