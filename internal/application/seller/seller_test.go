package seller

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

func TestSellerUseCase(t *testing.T) {
	env := testutil.NewEnv(t)
	ctx := context.Background()
	uc := NewUseCase(env.Sellers, env.Payments, zap.NewNop())
	admin := env.SeedUser(t, "admin", user.RoleAdmin)
	staff := env.SeedUser(t, "staff", user.RoleStaff)

	acme, err := uc.Create(ctx, SellerRequest{Name: "Acme", Email: "sales@acme.io", Actor: admin})
	require.NoError(t, err)
	bolt, err := uc.Create(ctx, SellerRequest{Name: "Bolt Co", Actor: admin})
	require.NoError(t, err)

	_, err = uc.Create(ctx, SellerRequest{Name: "Bad", Email: "not-an-email", Actor: admin})
	assert.ErrorIs(t, err, seller.ErrInvalidEmail)
	_, err = uc.List(ctx, staff)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	updated, err := uc.Update(ctx, acme.ID, SellerRequest{Name: "Acme Ltd", Phone: "555-0100", Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", updated.Name)

	// 有付款记录的供应商不能删除
	p, err := payment.NewPayment(&acme.ID, decimal.NewFromInt(10), "", payment.MethodBank, "", "", admin.UserID)
	require.NoError(t, err)
	require.NoError(t, env.Payments.Create(ctx, p))

	err = uc.Delete(ctx, acme.ID, admin)
	assert.ErrorIs(t, err, seller.ErrSellerInUse)
	assert.Equal(t, int64(1), apperrors.GetAppError(err).Details["payment_count"])

	require.NoError(t, uc.Delete(ctx, bolt.ID, admin))
	err = uc.Delete(ctx, bolt.ID, admin)
	assert.ErrorIs(t, err, seller.ErrSellerNotFound)

	list, err := uc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Ltd", list[0].Name)
}
