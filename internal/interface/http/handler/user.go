package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/warehouse/internal/application/user"
	"github.com/xiebiao/warehouse/internal/interface/http/dto"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/pkg/response"
)

// UserHandler 登录、登出和用户管理
// Handler只做参数解析和响应转换，权限判断在应用层
type UserHandler struct {
	loginUseCase  *appuser.LoginUseCase
	logoutUseCase *appuser.LogoutUseCase
	manageUsers   *appuser.ManageUsersUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(
	loginUseCase *appuser.LoginUseCase,
	logoutUseCase *appuser.LogoutUseCase,
	manageUsers *appuser.ManageUsersUseCase,
) *UserHandler {
	return &UserHandler{
		loginUseCase:  loginUseCase,
		logoutUseCase: logoutUseCase,
		manageUsers:   manageUsers,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码，返回JWT Token（停用账号不能登录）
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse} "登录成功"
// @Failure      200 {object} response.Response "40103 用户名或密码错误 / 40105 账号已停用"
// @Router       /api/v1/auth/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出
// @Summary      登出
// @Description  删除会话并使当前Access Token失效
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response
// @Router       /api/v1/auth/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	token, expiresAt := middleware.GetAccessToken(c)
	if err := h.logoutUseCase.Execute(c.Request.Context(), middleware.GetUserID(c), token, expiresAt); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Profile 当前用户信息
// @Summary      当前用户信息
// @Tags         认证
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Router       /api/v1/profile [get]
func (h *UserHandler) Profile(c *gin.Context) {
	result, err := h.manageUsers.Profile(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListUsers 用户列表
// @Summary      用户列表
// @Description  默认只返回启用的用户；all=true返回全部用户（需要can_manage_users）
// @Tags         用户
// @Produce      json
// @Security     BearerAuth
// @Param        all query bool false "包含停用用户"
// @Success      200 {object} response.Response{data=[]appuser.UserDTO}
// @Router       /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	var q dto.ListUsersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.manageUsers.List(c.Request.Context(), middleware.GetActor(c), !q.All)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateUser 创建用户
// @Summary      创建用户
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户信息"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Failure      200 {object} response.Response "40104 无权限 / 40007 用户名已存在 / 40008 邮箱已被使用"
// @Router       /api/v1/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.manageUsers.Create(c.Request.Context(), appuser.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Actor:    middleware.GetActor(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SetActive 启用/停用用户
// @Summary      启用/停用用户
// @Description  停用后该用户已签发的Token立即失效
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Param        request body dto.SetActiveRequest true "是否启用"
// @Success      200 {object} response.Response{data=appuser.UserDTO}
// @Router       /api/v1/users/{id}/active [patch]
func (h *UserHandler) SetActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	result, err := h.manageUsers.SetActive(c.Request.Context(), middleware.GetActor(c), id, *req.IsActive)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
