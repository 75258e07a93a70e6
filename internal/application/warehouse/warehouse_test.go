package warehouse

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/application/port"
	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
	"github.com/xiebiao/warehouse/internal/testutil"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

func TestWarehouseUseCase_CRUD(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	uc := NewUseCase(env.Warehouses, env.Tx, env.Cache, zap.NewNop())
	admin := env.SeedUser(t, "admin", user.RoleAdmin)

	created, err := uc.Create(ctx, WarehouseRequest{Name: " North ", Location: "Dock 4", Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "North", created.Name)
	assert.Nil(t, created.ItemCount)

	updated, err := uc.Update(ctx, created.ID, WarehouseRequest{Name: "North Annex", Location: "Dock 5", Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "North Annex", updated.Name)

	detail, err := uc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.ItemCount)
	assert.Zero(t, *detail.ItemCount)

	_, err = uc.Create(ctx, WarehouseRequest{Name: "", Actor: admin})
	assert.ErrorIs(t, err, warehouse.ErrInvalidName)

	require.NoError(t, uc.Delete(ctx, created.ID, admin))
	_, err = uc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, warehouse.ErrWarehouseNotFound)
}

func TestWarehouseUseCase_RequiresCapability(t *testing.T) {
	env := testutil.NewEnv(t)
	uc := NewUseCase(env.Warehouses, env.Tx, env.Cache, zap.NewNop())
	manager := env.SeedUser(t, "manager", user.RoleManager)

	_, err := uc.Create(context.Background(), WarehouseRequest{Name: "South", Actor: manager})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = uc.Create(context.Background(), WarehouseRequest{Name: "South"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestWarehouseUseCase_DeleteNotEmpty(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	uc := NewUseCase(env.Warehouses, env.Tx, env.Cache, zap.NewNop())
	admin := env.SeedUser(t, "admin", user.RoleAdmin)
	wh := env.SeedWarehouse(t, "Busy")

	cat, err := env.Categories.GetOrCreate(ctx, "Tools")
	require.NoError(t, err)
	it, err := item.NewItem("SS-WH-1", item.Metadata{
		Name: "Hammer", UnitPrice: decimal.Zero, WarehouseID: wh.ID, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.Items.Create(ctx, it))

	err = uc.Delete(ctx, wh.ID, admin)
	assert.ErrorIs(t, err, warehouse.ErrWarehouseNotEmpty)
	assert.Equal(t, int64(1), apperrors.GetAppError(err).Details["item_count"])

	list, err := uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	err = uc.Delete(ctx, 999, admin)
	assert.ErrorIs(t, err, warehouse.ErrWarehouseNotFound)
}

func TestWarehouseUseCase_RenameInvalidatesSnapshots(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	uc := NewUseCase(env.Warehouses, env.Tx, env.Cache, zap.NewNop())
	admin := env.SeedUser(t, "admin", user.RoleAdmin)
	wh := env.SeedWarehouse(t, "East")

	cat, err := env.Categories.GetOrCreate(ctx, "Tools")
	require.NoError(t, err)
	it, err := item.NewItem("SS-WH-2", item.Metadata{
		Name: "Wrench", UnitPrice: decimal.Zero, WarehouseID: wh.ID, CategoryID: cat.ID,
	})
	require.NoError(t, err)
	require.NoError(t, env.Items.Create(ctx, it))
	require.NoError(t, env.Cache.Set(ctx, &port.StockSnapshot{SSID: "SS-WH-2", Warehouse: "East"}))

	// 只改地址不影响快照
	_, err = uc.Update(ctx, wh.ID, WarehouseRequest{Name: "East", Location: "Dock 9", Actor: admin})
	require.NoError(t, err)
	cached, err := env.Cache.Get(ctx, "SS-WH-2")
	require.NoError(t, err)
	require.NotNil(t, cached)

	_, err = uc.Update(ctx, wh.ID, WarehouseRequest{Name: "East Annex", Location: "Dock 9", Actor: admin})
	require.NoError(t, err)
	cached, err = env.Cache.Get(ctx, "SS-WH-2")
	require.NoError(t, err)
	assert.Nil(t, cached)
	assert.Equal(t, []string{"SS-WH-2"}, env.Cache.Invalidated)
}
