package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcategory "github.com/xiebiao/warehouse/internal/application/category"
	appitem "github.com/xiebiao/warehouse/internal/application/item"
	appledger "github.com/xiebiao/warehouse/internal/application/ledger"
	apppayment "github.com/xiebiao/warehouse/internal/application/payment"
	appreport "github.com/xiebiao/warehouse/internal/application/report"
	appseller "github.com/xiebiao/warehouse/internal/application/seller"
	appuser "github.com/xiebiao/warehouse/internal/application/user"
	appwarehouse "github.com/xiebiao/warehouse/internal/application/warehouse"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/warehouse/internal/interface/http/handler"
	"github.com/xiebiao/warehouse/internal/interface/http/middleware"
	"github.com/xiebiao/warehouse/internal/testutil"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
	"github.com/xiebiao/warehouse/pkg/jwt"
)

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Details map[string]interface{} `json:"details"`
}

type server struct {
	t      *testing.T
	engine http.Handler
	env    *testutil.Env
	jwt    *jwt.Manager
}

func newServer(t *testing.T) *server {
	t.Helper()
	env := testutil.NewEnv(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	log := zap.NewNop()
	sessions := redis.NewSessionStore(client)
	jwtManager := jwt.NewManager("router-test-secret", 15*time.Minute, 24*time.Hour)
	userService := user.NewService(env.Users)
	manageUsers := appuser.NewManageUsersUseCase(userService, sessions, jwtManager, log)
	require.NoError(t, manageUsers.BootstrapAdmin(context.Background(), "root", "root@example.com", "Passw0rd1"))

	h := Handlers{
		User: handler.NewUserHandler(
			appuser.NewLoginUseCase(userService, jwtManager, sessions, log),
			appuser.NewLogoutUseCase(sessions),
			manageUsers,
		),
		Item: handler.NewItemHandler(
			appitem.NewCreateItemUseCase(env.Items, env.Categories, env.Warehouses, env.Txns, env.Tx, log),
			appitem.NewUpdateItemUseCase(env.Items, env.Categories, env.Warehouses, env.Tx, env.Cache, log),
			appitem.NewDeleteItemUseCase(env.Items, env.Txns, env.Tx, env.Cache, env.Events, log),
			appitem.NewQueryItemUseCase(env.Items, env.Txns, env.Cache, log),
		),
		Warehouse: handler.NewWarehouseHandler(
			appwarehouse.NewUseCase(env.Warehouses, env.Tx, env.Cache, log),
			appcategory.NewListCategoriesUseCase(env.Categories),
		),
		Transaction: handler.NewTransactionHandler(
			appledger.NewRecordTransactionUseCase(env.Items, env.Txns, env.Tx, env.Events, env.Cache, log, 3),
			appledger.NewListTransactionsUseCase(env.Txns),
		),
		Seller: handler.NewSellerHandler(
			appseller.NewUseCase(env.Sellers, env.Payments, log),
			apppayment.NewUseCase(env.Payments, env.Sellers, log),
		),
		Report: handler.NewReportHandler(appreport.NewUseCase(env.Items, env.Warehouses, env.Txns)),
	}
	auth := middleware.NewAuthMiddleware(jwtManager, sessions, log)

	return &server{
		t:      t,
		engine: New(Options{Mode: "test"}, log, h, auth),
		env:    env,
		jwt:    jwtManager,
	}
}

func (s *server) do(method, path, token string, body interface{}) envelope {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (s *server) login(username, password string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(s.t, 0, resp.Code, resp.Message)
	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &data))
	return data.AccessToken
}

func decodeData(t *testing.T, resp envelope, v interface{}) {
	t.Helper()
	require.Equal(t, 0, resp.Code, resp.Message)
	require.NoError(t, json.Unmarshal(resp.Data, v))
}

func TestPingAndAuthRequired(t *testing.T) {
	s := newServer(t)

	assert.Equal(t, 0, s.do(http.MethodGet, "/ping", "", nil).Code)
	assert.Equal(t, apperrors.ErrCodeUnauthorized, s.do(http.MethodGet, "/api/v1/items", "", nil).Code)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, s.do(http.MethodGet, "/api/v1/items", "garbage", nil).Code)

	// Refresh Token不能访问业务接口
	pair, err := s.jwt.GenerateToken(1, "root", "admin")
	require.NoError(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidToken, s.do(http.MethodGet, "/api/v1/items", pair.RefreshToken, nil).Code)
	assert.Equal(t, 0, s.do(http.MethodGet, "/api/v1/items", pair.AccessToken, nil).Code)

	assert.Equal(t, apperrors.ErrCodeInvalidPassword,
		s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "root", "password": "wrong-pass1"}).Code)
	assert.Equal(t, apperrors.ErrCodeBindError,
		s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "root"}).Code)
}

func TestStockFlow(t *testing.T) {
	s := newServer(t)
	token := s.login("root", "Passw0rd1")

	// 1. 建仓库和物料（期初库存50）
	var wh struct {
		ID uint `json:"id"`
	}
	decodeData(t, s.do(http.MethodPost, "/api/v1/warehouses", token, map[string]string{"name": "Main"}), &wh)

	var created struct {
		ID           uint   `json:"id"`
		SSID         string `json:"ssid"`
		CurrentStock int    `json:"current_stock"`
	}
	decodeData(t, s.do(http.MethodPost, "/api/v1/items", token, map[string]interface{}{
		"ssid":          "SS-HTTP-1",
		"name":          "Bolt",
		"category":      "Fasteners",
		"initial_stock": 50,
		"reorder_level": 25,
		"unit_price":    "1.50",
		"warehouse_id":  wh.ID,
	}), &created)
	assert.Equal(t, 50, created.CurrentStock)

	// 2. 仓管员（无越权能力）出库20
	decodeData(t, s.do(http.MethodPost, "/api/v1/users", token, map[string]string{
		"username": "clerk", "email": "clerk@example.com", "password": "Clerk1234", "role": "staff",
	}), &struct{}{})
	clerk := s.login("clerk", "Clerk1234")

	var recorded struct {
		NewStock   int  `json:"new_stock"`
		IsLowStock bool `json:"is_low_stock"`
	}
	decodeData(t, s.do(http.MethodPost, "/api/v1/transactions", clerk, map[string]interface{}{
		"item_id": created.ID, "type": "OUT", "quantity": 20,
	}), &recorded)
	assert.Equal(t, 30, recorded.NewStock)
	assert.False(t, recorded.IsLowStock)

	// 3. 超量出库被拒绝，详情里带可用数量和申请数量
	resp := s.do(http.MethodPost, "/api/v1/transactions", clerk, map[string]interface{}{
		"item_id": created.ID, "type": "OUT", "quantity": 100,
	})
	assert.Equal(t, apperrors.ErrCodeInsufficientStock, resp.Code)
	assert.EqualValues(t, 30, resp.Details["available"])
	assert.EqualValues(t, 100, resp.Details["requested"])

	// 4. 按SSID查询库存（被拒绝的出库不影响库存）
	var snap struct {
		CurrentStock int    `json:"current_stock"`
		Warehouse    string `json:"warehouse"`
	}
	decodeData(t, s.do(http.MethodGet, "/api/v1/items/ssid/SS-HTTP-1/stock", clerk, nil), &snap)
	assert.Equal(t, 30, snap.CurrentStock)
	assert.Equal(t, "Main", snap.Warehouse)

	// 5. 流水分页（期初IN + OUT）
	var page struct {
		Total int64 `json:"total"`
	}
	txnPath := "/api/v1/transactions?item_id=" + fmt.Sprint(created.ID)
	decodeData(t, s.do(http.MethodGet, txnPath, token, nil), &page)
	assert.Equal(t, int64(2), page.Total)

	// 6. 管理员可越权出库，库存变为负数
	decodeData(t, s.do(http.MethodPost, "/api/v1/transactions", token, map[string]interface{}{
		"item_id": created.ID, "type": "OUT", "quantity": 100, "notes": "emergency",
	}), &recorded)
	assert.Equal(t, -70, recorded.NewStock)
	assert.True(t, recorded.IsLowStock)

	decodeData(t, s.do(http.MethodGet, "/api/v1/items/ssid/SS-HTTP-1/stock", token, nil), &snap)
	assert.Equal(t, -70, snap.CurrentStock)
	decodeData(t, s.do(http.MethodGet, txnPath, token, nil), &page)
	assert.Equal(t, int64(3), page.Total)

	// 7. 仓库有物料时不能删除
	assert.Equal(t, apperrors.ErrCodeWarehouseNotEmpty,
		s.do(http.MethodDelete, "/api/v1/warehouses/"+fmt.Sprint(wh.ID), token, nil).Code)

	// 8. 仪表盘
	var dash struct {
		TotalItems        int64 `json:"total_items"`
		TotalTransactions int64 `json:"total_transactions"`
		LowStockCount     int   `json:"low_stock_count"`
	}
	decodeData(t, s.do(http.MethodGet, "/api/v1/reports/dashboard", token, nil), &dash)
	assert.Equal(t, int64(1), dash.TotalItems)
	assert.Equal(t, int64(3), dash.TotalTransactions)
	assert.Equal(t, 1, dash.LowStockCount)

	assert.Equal(t, apperrors.ErrCodeInvalidParams, s.do(http.MethodGet, "/api/v1/items/abc", token, nil).Code)
	assert.Equal(t, apperrors.ErrCodeItemNotFound, s.do(http.MethodGet, "/api/v1/items/999", token, nil).Code)
}

func TestRolesAndLogout(t *testing.T) {
	s := newServer(t)
	admin := s.login("root", "Passw0rd1")

	decodeData(t, s.do(http.MethodPost, "/api/v1/users", admin, map[string]string{
		"username": "picker", "email": "picker@example.com", "password": "Picker123", "role": "staff",
	}), &struct{}{})
	staff := s.login("picker", "Picker123")

	// staff不能建仓库、不能管理供应商
	assert.Equal(t, apperrors.ErrCodeForbidden,
		s.do(http.MethodPost, "/api/v1/warehouses", staff, map[string]string{"name": "Side"}).Code)
	assert.Equal(t, apperrors.ErrCodeForbidden, s.do(http.MethodGet, "/api/v1/sellers", staff, nil).Code)

	var profile struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	decodeData(t, s.do(http.MethodGet, "/api/v1/profile", staff, nil), &profile)
	assert.Equal(t, "picker", profile.Username)
	assert.Equal(t, "staff", profile.Role)

	// 登出后Token失效
	assert.Equal(t, 0, s.do(http.MethodPost, "/api/v1/auth/logout", staff, nil).Code)
	assert.Equal(t, apperrors.ErrCodeTokenExpired, s.do(http.MethodGet, "/api/v1/profile", staff, nil).Code)

	// 付款：金额四舍五入到两位小数
	var p struct {
		Amount string `json:"amount"`
		Status string `json:"status"`
	}
	decodeData(t, s.do(http.MethodPost, "/api/v1/payments", admin, map[string]interface{}{
		"amount": "10.005", "method": "cash",
	}), &p)
	assert.Equal(t, "10.01", p.Amount)
	assert.Equal(t, "pending", p.Status)
}
