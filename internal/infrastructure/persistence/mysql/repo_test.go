package mysql

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/warehouse/internal/domain/item"
	"github.com/xiebiao/warehouse/internal/domain/ledger"
	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/domain/warehouse"
	"github.com/xiebiao/warehouse/internal/infrastructure/config"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

// newTestDB 每个测试一个独立的sqlite内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDB(config.DatabaseConfig{Driver: "sqlite", Path: "file::memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db        *gorm.DB
	users     user.Repository
	houses    warehouse.Repository
	items     item.Repository
	txns      ledger.Repository
	operator  *user.User
	warehouse *warehouse.Warehouse
	category  uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)

	f := &fixture{
		db:     db,
		users:  NewUserRepository(db),
		houses: NewWarehouseRepository(db),
		items:  NewItemRepository(db),
		txns:   NewTransactionRepository(db),
	}

	f.operator = user.NewUser("operator", "operator@example.com", "hash", user.RoleStaff)
	require.NoError(t, f.users.Create(ctx, f.operator))

	w, err := warehouse.NewWarehouse("Main Depot", "Dock 1", "")
	require.NoError(t, err)
	require.NoError(t, f.houses.Create(ctx, w))
	f.warehouse = w

	c, err := NewCategoryRepository(db).GetOrCreate(ctx, "Hardware")
	require.NoError(t, err)
	f.category = c.ID
	return f
}

func (f *fixture) newItem(t *testing.T, ssid, name string, reorder int) *item.Item {
	t.Helper()
	it, err := item.NewItem(ssid, item.Metadata{
		Name:         name,
		ReorderLevel: reorder,
		UnitPrice:    decimal.RequireFromString("2.50"),
		WarehouseID:  f.warehouse.ID,
		CategoryID:   f.category,
	})
	require.NoError(t, err)
	require.NoError(t, f.items.Create(context.Background(), it))
	return it
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(newTestDB(t))

	u := user.NewUser("alice", "alice@example.com", "hash", user.RoleManager)
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	t.Run("用户名重复", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("alice", "other@example.com", "hash", user.RoleStaff))
		assert.ErrorIs(t, err, apperrors.ErrUsernameDuplicate)
	})

	t.Run("邮箱重复", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("bob", "alice@example.com", "hash", user.RoleStaff))
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})

	t.Run("停用后只查询启用用户", func(t *testing.T) {
		found, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.RoleManager, found.Role)

		found.SetActive(false)
		require.NoError(t, repo.Update(ctx, found))

		active, err := repo.List(ctx, true)
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := repo.List(ctx, false)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.False(t, all[0].IsActive)
	})

	t.Run("不存在", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 999)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}

func TestCategoryRepository_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCategoryRepository(db)

	first, err := repo.GetOrCreate(ctx, "  Tools ")
	require.NoError(t, err)
	second, err := repo.GetOrCreate(ctx, "Tools")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Tools", second.Name)

	// 事务内创建
	tx := NewTxManager(db)
	err = tx.Transaction(ctx, func(txCtx context.Context) error {
		_, err := repo.GetOrCreate(txCtx, "Paint")
		return err
	})
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Paint", list[0].Name)

	_, err = repo.GetOrCreate(ctx, " ")
	assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
}

func TestItemRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it := f.newItem(t, "SS-0001", "Hex Bolt", 5)

	t.Run("SSID重复", func(t *testing.T) {
		dup, err := item.NewItem("SS-0001", item.Metadata{
			Name: "Other", WarehouseID: f.warehouse.ID, CategoryID: f.category,
		})
		require.NoError(t, err)
		assert.ErrorIs(t, f.items.Create(ctx, dup), item.ErrDuplicateSSID)

		exists, err := f.items.ExistsBySSID(ctx, "SS-0001")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("查询时填充仓库和分类名称", func(t *testing.T) {
		found, err := f.items.FindBySSID(ctx, "SS-0001")
		require.NoError(t, err)
		assert.Equal(t, "Main Depot", found.WarehouseName)
		assert.Equal(t, "Hardware", found.CategoryName)
		assert.True(t, decimal.RequireFromString("2.5").Equal(found.UnitPrice))
	})

	t.Run("比较并交换库存", func(t *testing.T) {
		require.NoError(t, f.items.CompareAndSetStock(ctx, it.ID, 0, 20))
		err := f.items.CompareAndSetStock(ctx, it.ID, 0, 30)
		assert.ErrorIs(t, err, item.ErrStockConflict)

		found, err := f.items.FindByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, 20, found.CurrentStock)
	})

	t.Run("更新元数据不修改库存", func(t *testing.T) {
		found, err := f.items.FindByID(ctx, it.ID)
		require.NoError(t, err)
		require.NoError(t, found.UpdateMetadata(item.Metadata{
			Name: "Hex Bolt M8", Unit: "box", ReorderLevel: 25,
			WarehouseID: f.warehouse.ID, CategoryID: f.category,
		}))
		found.CurrentStock = 9999
		require.NoError(t, f.items.Update(ctx, found))

		reloaded, err := f.items.FindByID(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hex Bolt M8", reloaded.Name)
		assert.Equal(t, 20, reloaded.CurrentStock)
	})

	t.Run("列表和低库存", func(t *testing.T) {
		f.newItem(t, "SS-0002", "Washer", 3)

		list, total, err := f.items.List(ctx, item.ListParams{Page: 1, PageSize: 10, Keyword: "bolt"})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, list, 1)

		// SS-0001: 20 <= 25（缺口5），SS-0002: 0 <= 3（缺口3）
		low, err := f.items.ListLowStock(ctx, 0)
		require.NoError(t, err)
		require.Len(t, low, 2)
		assert.Equal(t, "SS-0001", low[0].SSID)

		_, lowTotal, err := f.items.List(ctx, item.ListParams{Page: 1, PageSize: 10, LowStock: true})
		require.NoError(t, err)
		assert.Equal(t, int64(2), lowTotal)
	})
}

func TestTransactionRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.newItem(t, "SS-0100", "Cable Tie", 10)

	base := time.Now().Add(-time.Hour)
	entries := []struct {
		typ ledger.Type
		qty int
	}{
		{ledger.TypeIn, 50},
		{ledger.TypeOut, 20},
		{ledger.TypeAdjustment, -5},
	}
	stock := 0
	for i, e := range entries {
		after := stock + ledger.SignedEffect(e.typ, e.qty)
		require.NoError(t, f.txns.Create(ctx, &ledger.Transaction{
			Type: e.typ, Quantity: e.qty, ItemID: it.ID, WarehouseID: f.warehouse.ID,
			UserID: f.operator.ID, StockBefore: stock, StockAfter: after,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
		stock = after
	}

	t.Run("按时间正序重放等于当前库存", func(t *testing.T) {
		txns, total, err := f.txns.List(ctx, ledger.Filter{ItemID: it.ID, OldestFirst: true})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, 25, ledger.Fold(txns))
		assert.Equal(t, "SS-0100", txns[0].ItemSSID)
		assert.Equal(t, "operator", txns[0].Username)
		assert.Equal(t, "Main Depot", txns[0].WarehouseName)
	})

	t.Run("按类型过滤", func(t *testing.T) {
		txns, total, err := f.txns.List(ctx, ledger.Filter{Type: ledger.TypeOut, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, 20, txns[0].Quantity)
	})

	t.Run("最近流水倒序", func(t *testing.T) {
		recent, err := f.txns.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, ledger.TypeAdjustment, recent[0].Type)
	})

	t.Run("删除物料流水", func(t *testing.T) {
		n, err := f.txns.DeleteByItem(ctx, it.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)

		count, err := f.txns.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestWarehouseRepository_DeleteRestricted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.newItem(t, "SS-0200", "Pallet", 1)

	count, err := f.houses.CountItems(ctx, f.warehouse.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 外键RESTRICT兜底
	err = f.houses.Delete(ctx, f.warehouse.ID)
	assert.ErrorIs(t, err, warehouse.ErrWarehouseNotEmpty)

	assert.ErrorIs(t, f.houses.Delete(ctx, 999), warehouse.ErrWarehouseNotFound)
}

func TestTxManager_Rollback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.newItem(t, "SS-0300", "Glue", 1)
	tx := NewTxManager(f.db)

	boom := errors.New("boom")
	err := tx.Transaction(ctx, func(txCtx context.Context) error {
		locked, err := f.items.LockByID(txCtx, it.ID)
		if err != nil {
			return err
		}
		if err := f.items.CompareAndSetStock(txCtx, it.ID, locked.CurrentStock, 42); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := f.items.FindByID(ctx, it.ID)
	require.NoError(t, err)
	assert.Zero(t, found.CurrentStock, "事务回滚后库存不变")
}

func TestSellerAndPaymentRepository(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	sellers := NewSellerRepository(f.db)
	payments := NewPaymentRepository(f.db)

	s, err := seller.NewSeller("Acme Supplies", "sales@acme.test", "")
	require.NoError(t, err)
	require.NoError(t, sellers.Create(ctx, s))

	for i := 0; i < 3; i++ {
		p, err := payment.NewPayment(&s.ID, decimal.NewFromInt(int64(100+i)), "usd", payment.MethodBank, payment.StatusPending,
			fmt.Sprintf("invoice %d", i), f.operator.ID)
		require.NoError(t, err)
		require.NoError(t, payments.Create(ctx, p))
	}

	list, err := payments.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Acme Supplies", list[0].SellerName)
	assert.Equal(t, "operator", list[0].ProcessedByName)
	assert.Equal(t, "USD", list[0].Currency)

	p := list[0]
	require.NoError(t, p.ChangeStatus(payment.StatusCompleted))
	require.NoError(t, payments.Update(ctx, p))
	reloaded, err := payments.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, payment.StatusCompleted, reloaded.Status)

	n, err := payments.CountBySeller(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.ErrorIs(t, sellers.Delete(ctx, s.ID), seller.ErrSellerInUse)
}
