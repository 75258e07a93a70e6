package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// SessionStore 登录会话存储
// Key设计：
//   - session:{user_id}  登录信息（用户名、角色、登录时间），过期时间与Refresh Token一致
//   - blacklist:{token}  已登出的Access Token，过期时间为Token剩余有效期
//   - revoked:{user_id}  已停用的用户，该用户签发过的全部Access Token失效
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore 创建会话存储
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// SaveSession 保存用户会话
func (s *SessionStore) SaveSession(ctx context.Context, userID uint, sessionData map[string]interface{}, ttl time.Duration) error {
	key := sessionKey(userID)

	// HSet + Expire 放在一个Pipeline里，减少一次网络往返
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, sessionData)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "保存会话失败")
	}
	return nil
}

// GetSession 获取用户会话，不存在返回ErrUnauthorized
func (s *SessionStore) GetSession(ctx context.Context, userID uint) (map[string]string, error) {
	result, err := s.client.HGetAll(ctx, sessionKey(userID)).Result()
	if err != nil {
		return nil, apperrors.Wrap(err, "获取会话失败")
	}
	if len(result) == 0 {
		return nil, apperrors.ErrUnauthorized
	}
	return result, nil
}

// DeleteSession 删除用户会话（登出、停用账号）
func (s *SessionStore) DeleteSession(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "删除会话失败")
	}
	return nil
}

// AddToBlacklist 将Token加入黑名单
// ttl<=0说明Token已过期，无需加入
func (s *SessionStore) AddToBlacklist(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		return apperrors.Wrap(err, "添加Token到黑名单失败")
	}
	return nil
}

// IsInBlacklist 检查Token是否在黑名单中
func (s *SessionStore) IsInBlacklist(ctx context.Context, token string) (bool, error) {
	exists, err := s.client.Exists(ctx, blacklistKey(token)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查黑名单失败")
	}
	return exists > 0, nil
}

// RevokeUser 停用用户后使其全部Token失效（ttl取Access Token有效期）
func (s *SessionStore) RevokeUser(ctx context.Context, userID uint, ttl time.Duration) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, revokedKey(userID), "inactive", ttl)
		pipe.Del(ctx, sessionKey(userID))
		return nil
	})
	if err != nil {
		return apperrors.Wrap(err, "撤销用户Token失败")
	}
	return nil
}

// RestoreUser 重新启用用户
func (s *SessionStore) RestoreUser(ctx context.Context, userID uint) error {
	if err := s.client.Del(ctx, revokedKey(userID)).Err(); err != nil {
		return apperrors.Wrap(err, "恢复用户失败")
	}
	return nil
}

// IsRevoked Token在黑名单中或所属用户已停用
func (s *SessionStore) IsRevoked(ctx context.Context, token string, userID uint) (bool, error) {
	n, err := s.client.Exists(ctx, blacklistKey(token), revokedKey(userID)).Result()
	if err != nil {
		return false, apperrors.Wrap(err, "检查Token状态失败")
	}
	return n > 0, nil
}

func sessionKey(userID uint) string {
	return fmt.Sprintf("session:%d", userID)
}

func blacklistKey(token string) string {
	return "blacklist:" + token
}

func revokedKey(userID uint) string {
	return fmt.Sprintf("revoked:%d", userID)
}
