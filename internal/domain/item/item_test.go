package item

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMeta() Metadata {
	return Metadata{
		Name:         "Hex bolt M8",
		Unit:         "",
		ReorderLevel: 10,
		UnitPrice:    decimal.RequireFromString("1.255"),
		WarehouseID:  1,
		CategoryID:   2,
	}
}

func TestNewItem(t *testing.T) {
	it, err := NewItem(" BOLT-M8 ", validMeta())
	require.NoError(t, err)

	assert.Equal(t, "BOLT-M8", it.SSID)
	assert.Equal(t, DefaultUnit, it.Unit)
	assert.Equal(t, 0, it.CurrentStock, "期初库存通过流水登记")
	assert.Equal(t, "1.26", it.UnitPrice.StringFixed(2))
}

func TestNewItem_Validation(t *testing.T) {
	tests := []struct {
		name   string
		ssid   string
		mutate func(m *Metadata)
		want   error
	}{
		{"SSID过短", "AB", nil, ErrInvalidSSID},
		{"SSID过长", strings.Repeat("S", 51), nil, ErrInvalidSSID},
		{"名称过短", "SS1", func(m *Metadata) { m.Name = "ab" }, ErrInvalidName},
		{"描述过长", "SS1", func(m *Metadata) { m.Description = strings.Repeat("d", 501) }, ErrInvalidDescription},
		{"单位过长", "SS1", func(m *Metadata) { m.Unit = strings.Repeat("u", 21) }, ErrInvalidUnit},
		{"补货线为负", "SS1", func(m *Metadata) { m.ReorderLevel = -1 }, ErrInvalidReorderLevel},
		{"单价为负", "SS1", func(m *Metadata) { m.UnitPrice = decimal.NewFromInt(-1) }, ErrInvalidUnitPrice},
		{"缺少仓库", "SS1", func(m *Metadata) { m.WarehouseID = 0 }, ErrWarehouseRequired},
		{"缺少分类", "SS1", func(m *Metadata) { m.CategoryID = 0 }, ErrCategoryRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := validMeta()
			if tt.mutate != nil {
				tt.mutate(&meta)
			}
			_, err := NewItem(tt.ssid, meta)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestItem_LowStock(t *testing.T) {
	it := &Item{CurrentStock: 30, ReorderLevel: 10}
	assert.False(t, it.IsLowStock())
	assert.Equal(t, 0, it.Shortage())

	it.CurrentStock = 10
	assert.True(t, it.IsLowStock(), "等于补货线也算低库存")
	assert.Equal(t, 0, it.Shortage())

	it.CurrentStock = -5
	assert.True(t, it.IsLowStock())
	assert.Equal(t, 15, it.Shortage())
}

func TestItem_StockValue(t *testing.T) {
	it := &Item{CurrentStock: 3, UnitPrice: decimal.RequireFromString("2.50")}
	assert.Equal(t, "7.50", it.StockValue().StringFixed(2))
}

func TestSSIDGenerator_Candidate(t *testing.T) {
	g := NewSSIDGenerator()
	g.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	g.suffix = func() string { return "K7QM" }

	assert.Equal(t, "SS20240115103000K7QM", g.Candidate())
	assert.NoError(t, ValidateSSID(g.Candidate()))
}

func TestSSIDGenerator_RandomSuffix(t *testing.T) {
	g := NewSSIDGenerator()
	c := g.Candidate()

	assert.True(t, strings.HasPrefix(c, "SS"))
	assert.Len(t, c, 2+14+4)
}

func TestSSIDGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("第三次尝试成功", func(t *testing.T) {
		g := NewSSIDGenerator()
		calls := 0
		ssid, err := g.Generate(ctx, func(context.Context, string) (bool, error) {
			calls++
			return calls < 3, nil
		})
		require.NoError(t, err)
		assert.NotEmpty(t, ssid)
		assert.Equal(t, 3, calls)
	})

	t.Run("全部冲突", func(t *testing.T) {
		g := NewSSIDGenerator()
		calls := 0
		_, err := g.Generate(ctx, func(context.Context, string) (bool, error) {
			calls++
			return true, nil
		})
		assert.ErrorIs(t, err, ErrGenerationExhausted)
		assert.Equal(t, MaxSSIDAttempts, calls)
	})

	t.Run("存储错误直接返回", func(t *testing.T) {
		g := NewSSIDGenerator()
		boom := errors.New("connection reset")
		_, err := g.Generate(ctx, func(context.Context, string) (bool, error) {
			return false, boom
		})
		assert.ErrorIs(t, err, boom)
	})
}
