package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/internal/testutil"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
	"github.com/xiebiao/warehouse/pkg/jwt"
)

type userFixture struct {
	env      *testutil.Env
	mr       *miniredis.Miniredis
	sessions *redis.SessionStore
	jwt      *jwt.Manager
	login    *LoginUseCase
	logout   *LogoutUseCase
	manage   *ManageUsersUseCase
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	env := testutil.NewEnv(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("test-secret", 15*time.Minute, 24*time.Hour)
	svc := user.NewService(env.Users)
	log := zap.NewNop()

	return &userFixture{
		env:      env,
		mr:       mr,
		sessions: sessions,
		jwt:      jwtManager,
		login:    NewLoginUseCase(svc, jwtManager, sessions, log),
		logout:   NewLogoutUseCase(sessions),
		manage:   NewManageUsersUseCase(svc, sessions, jwtManager, log),
	}
}

func TestBootstrapAdminAndLogin(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()

	// 未配置时跳过
	require.NoError(t, f.manage.BootstrapAdmin(ctx, "", "", ""))
	count, err := f.env.Users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, f.manage.BootstrapAdmin(ctx, "root", "root@example.com", "Passw0rd!"))
	// 已有用户时不重复创建
	require.NoError(t, f.manage.BootstrapAdmin(ctx, "other", "other@example.com", "Passw0rd!"))
	count, err = f.env.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	resp, err := f.login.Execute(ctx, LoginRequest{Username: "root", Password: "Passw0rd!", ClientIP: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Role)
	assert.ElementsMatch(t, []string{"can_create_items", "can_create_warehouse", "can_manage_users", "can_override_stock"}, resp.User.Capabilities)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := f.jwt.ParseToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)

	session, err := f.sessions.GetSession(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", session["ip"])

	_, err = f.login.Execute(ctx, LoginRequest{Username: "root", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	_, err = f.login.Execute(ctx, LoginRequest{Username: "nobody", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	// 登出：删除会话并拉黑Token
	require.NoError(t, f.logout.Execute(ctx, resp.User.ID, resp.AccessToken, claims.ExpiresAt.Time))
	revoked, err := f.sessions.IsRevoked(ctx, resp.AccessToken, resp.User.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestManageUsers(t *testing.T) {
	f := newUserFixture(t)
	ctx := context.Background()
	admin := f.env.SeedUser(t, "admin", user.RoleAdmin)
	staff := f.env.SeedUser(t, "staff", user.RoleStaff)

	created, err := f.manage.Create(ctx, CreateUserRequest{
		Username: "picker", Email: "picker@example.com", Password: "Picker123", Actor: admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "staff", created.Role)
	assert.Empty(t, created.Capabilities)

	_, err = f.manage.Create(ctx, CreateUserRequest{
		Username: "picker", Email: "picker2@example.com", Password: "Picker123", Actor: admin,
	})
	assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)
	_, err = f.manage.Create(ctx, CreateUserRequest{
		Username: "boss", Email: "boss@example.com", Password: "Picker123", Role: "owner", Actor: admin,
	})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
	_, err = f.manage.Create(ctx, CreateUserRequest{
		Username: "sneaky", Email: "sneaky@example.com", Password: "Picker123", Actor: staff,
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// 停用后已签发的Token失效
	dto, err := f.manage.SetActive(ctx, admin, created.ID, false)
	require.NoError(t, err)
	assert.False(t, dto.IsActive)
	revoked, err := f.sessions.IsRevoked(ctx, "any-token", created.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 15*time.Minute, f.mr.TTL(fmt.Sprintf("revoked:%d", created.ID)))

	active, err := f.manage.List(ctx, staff, true)
	require.NoError(t, err)
	assert.Len(t, active, 2)
	_, err = f.manage.List(ctx, staff, false)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	all, err := f.manage.List(ctx, admin, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.manage.SetActive(ctx, admin, created.ID, true)
	require.NoError(t, err)
	revoked, err = f.sessions.IsRevoked(ctx, "any-token", created.ID)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = f.manage.SetActive(ctx, admin, admin.UserID, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeBusinessError, apperrors.GetAppError(err).Code)

	profile, err := f.manage.Profile(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, "staff", profile.Username)
	_, err = f.manage.Profile(ctx, user.Actor{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
