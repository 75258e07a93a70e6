package payment

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xiebiao/warehouse/internal/domain/payment"
	"github.com/xiebiao/warehouse/internal/domain/seller"
	"github.com/xiebiao/warehouse/internal/domain/user"
	"github.com/xiebiao/warehouse/internal/testutil"
	apperrors "github.com/xiebiao/warehouse/pkg/errors"
)

func TestPaymentUseCase(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	uc := NewUseCase(env.Payments, env.Sellers, zap.NewNop())
	admin := env.SeedUser(t, "admin", user.RoleAdmin)
	manager := env.SeedUser(t, "manager", user.RoleManager)

	s, err := seller.NewSeller("Acme", "", "")
	require.NoError(t, err)
	require.NoError(t, env.Sellers.Create(ctx, s))

	dto, err := uc.Create(ctx, CreatePaymentRequest{
		SellerID: &s.ID,
		Amount:   decimal.RequireFromString("199.999"),
		Currency: "eur",
		Method:   "Card",
		Actor:    admin,
	})
	require.NoError(t, err)
	assert.Equal(t, "200.00", dto.Amount)
	assert.Equal(t, "EUR", dto.Currency)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, "Acme", dto.SellerName)

	// 不关联供应商也可以登记
	_, err = uc.Create(ctx, CreatePaymentRequest{Amount: decimal.NewFromInt(5), Status: "completed", Actor: admin})
	require.NoError(t, err)

	missing := uint(999)
	_, err = uc.Create(ctx, CreatePaymentRequest{SellerID: &missing, Amount: decimal.NewFromInt(1), Actor: admin})
	assert.ErrorIs(t, err, seller.ErrSellerNotFound)
	_, err = uc.Create(ctx, CreatePaymentRequest{Amount: decimal.NewFromInt(1), Method: "cheque", Actor: admin})
	assert.ErrorIs(t, err, payment.ErrInvalidMethod)
	_, err = uc.Create(ctx, CreatePaymentRequest{Amount: decimal.NewFromInt(1), Actor: manager})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	done, err := uc.UpdateStatus(ctx, admin, dto.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, "admin", done.ProcessedBy)

	_, err = uc.UpdateStatus(ctx, admin, dto.ID, "pending")
	assert.ErrorIs(t, err, payment.ErrInvalidStatusTransition)

	list, err := uc.List(ctx, admin, 0)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
