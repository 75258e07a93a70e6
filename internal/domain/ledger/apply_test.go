package ledger

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		typ         Type
		quantity    int
		canOverride bool
		want        int
		wantErr     error
	}{
		{"入库", 50, TypeIn, 20, false, 70, nil},
		{"出库", 50, TypeOut, 20, false, 30, nil},
		{"出库刚好清零", 20, TypeOut, 20, false, 0, nil},
		{"出库不足", 30, TypeOut, 40, false, 30, ErrInsufficientStock},
		{"出库不足但有override", 30, TypeOut, 40, true, -10, nil},
		{"调整为负", 30, TypeAdjustment, -35, false, 30, ErrNegativeStockRejected},
		{"调整为负但有override", 30, TypeAdjustment, -35, true, -5, nil},
		{"调整为0是空操作", 30, TypeAdjustment, 0, false, 30, nil},
		{"负库存上正调整", -5, TypeAdjustment, 10, false, 5, nil},
		{"入库数量为0", 10, TypeIn, 0, false, 10, ErrInvalidQuantity},
		{"出库数量为负", 10, TypeOut, -1, true, 10, ErrInvalidQuantity},
		{"未知类型", 10, Type("MOVE"), 1, true, 10, ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(tt.current, tt.typ, tt.quantity, tt.canOverride)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply_ErrorDetails(t *testing.T) {
	_, err := Apply(30, TypeOut, 40, false)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, 30, appErr.Details["available"])
	assert.Equal(t, 40, appErr.Details["requested"])

	_, err = Apply(30, TypeAdjustment, -35, false)
	appErr = apperrors.GetAppError(err)
	assert.Equal(t, -5, appErr.Details["would_be"])
	assert.False(t, apperrors.IsRetryable(err))
}

// 库存始终等于流水的累加结果
func TestApply_FoldMatchesStock(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	types := []Type{TypeIn, TypeOut, TypeAdjustment}

	stock := 0
	var log []*Transaction
	for i := 0; i < 500; i++ {
		typ := types[r.Intn(len(types))]
		qty := r.Intn(40) - 10
		override := r.Intn(4) == 0

		next, err := Apply(stock, typ, qty, override)
		if err != nil {
			assert.Equal(t, stock, next, "失败时不应改变库存")
			continue
		}
		if !override && stock >= 0 {
			assert.GreaterOrEqual(t, next, 0, "没有override权限时不能把库存变为负数")
		}
		log = append(log, &Transaction{Type: typ, Quantity: qty, StockBefore: stock, StockAfter: next})
		stock = next

		require.Equal(t, stock, Fold(log))
	}
}

func TestParseType(t *testing.T) {
	typ, err := ParseType(" adjustment ")
	require.NoError(t, err)
	assert.Equal(t, TypeAdjustment, typ)

	_, err = ParseType("transfer")
	assert.ErrorIs(t, err, ErrInvalidType)
}
