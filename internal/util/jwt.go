package util

import (
	"errors"
	"monsterhouse_backend/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Claims 身份提供方签发的令牌，sub 为用户 ID
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

const sessionKey = "session"

// ParseJWT 校验 HS256 令牌并返回声明
func ParseJWT(tokenString, secret, issuer string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

func SetSession(c *gin.Context, s model.Session) {
	c.Set(sessionKey, s)
}

// GetSessionFromContext 返回中间件注入的调用者身份
func GetSessionFromContext(c *gin.Context) (model.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return model.Session{}, false
	}
	s, ok := v.(model.Session)
	return s, ok
}
