package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
	"github.com/xiebiao/warehouse/pkg/jwt"
	"github.com/xiebiao/warehouse/pkg/response"
)

// Context中保存的认证信息
const (
	ctxUserID      = "user_id"
	ctxUsername    = "username"
	ctxRole        = "role"
	ctxAccessToken = "access_token"
	ctxTokenExpiry = "token_expires_at"
)

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 验证签名和过期时间
// 3. 检查Token黑名单和用户停用标记
// 4. 把操作人（用户ID+角色）写入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
	logger       *zap.Logger
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
		logger:       logger,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperrors.ErrUnauthorized)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			abort(c, apperrors.ErrInvalidToken)
			return
		}
		tokenString := parts[1]

		// 2. 验证Token（Refresh Token不携带角色，不能用来访问接口）
		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			abort(c, err)
			return
		}
		if claims.Role == "" {
			abort(c, apperrors.ErrInvalidToken)
			return
		}

		// 3. 已登出的Token、已停用用户的Token都视为失效
		revoked, err := m.sessionStore.IsRevoked(c.Request.Context(), tokenString, claims.UserID)
		if err != nil {
			m.logger.Error("check token state failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
			abort(c, err)
			return
		}
		if revoked {
			abort(c, apperrors.ErrTokenExpired)
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxRole, claims.Role)
		c.Set(ctxAccessToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(ctxTokenExpiry, claims.ExpiresAt.Time)
		}

		c.Next()
	}
}

func abort(c *gin.Context, err error) {
	response.Error(c, err)
	c.Abort()
}

// GetActor 当前操作人（未登录时UserID为0）
func GetActor(c *gin.Context) user.Actor {
	role, _ := c.Get(ctxRole)
	r, _ := role.(string)
	return user.NewActor(GetUserID(c), user.Role(r))
}

// GetUserID 当前登录用户ID
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get(ctxUserID); exists {
		if uid, ok := userID.(uint); ok {
			return uid
		}
	}
	return 0
}

// GetAccessToken 当前请求使用的Access Token及其过期时间（登出时加入黑名单）
func GetAccessToken(c *gin.Context) (string, time.Time) {
	token := c.GetString(ctxAccessToken)
	expiresAt, _ := c.Get(ctxTokenExpiry)
	t, _ := expiresAt.(time.Time)
	return token, t
}
