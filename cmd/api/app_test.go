package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/infrastructure/config"
)

// 用sqlite内存库和miniredis跑一遍完整的依赖注入
func TestInitializeApp(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"},
		Redis:    config.RedisConfig{Host: mr.Host(), Port: port, StockTTL: time.Minute},
		JWT: config.JWTConfig{
			Secret:             "app-test-secret",
			AccessTokenExpire:  time.Minute,
			RefreshTokenExpire: time.Hour,
		},
		Ledger: config.LedgerConfig{ConflictRetries: 3},
	}

	app, cleanup, err := InitializeApp(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(cleanup)

	require.NotNil(t, app.Engine)
	require.NotNil(t, app.GRPCServer)
	require.NoError(t, app.ManageUsers.BootstrapAdmin(context.Background(), "root", "root@example.com", "Passw0rd1"))

	w := httptest.NewRecorder()
	app.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
