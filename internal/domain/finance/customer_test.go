package finance

import (
	"testing"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T, creditLimit int64) *Customer {
	t.Helper()
	c, err := NewCustomer("Abeba Trading", "0914000000", "Adi Haki", valueobject.BranchBerhane,
		decimal.NewFromInt(creditLimit))
	require.NoError(t, err)
	return c
}

func TestNewCustomer(t *testing.T) {
	c := newTestCustomer(t, 200000)

	assert.True(t, c.OutstandingBalance.IsZero())
	assert.True(t, c.CreditAvailable().Equal(decimal.NewFromInt(200000)))
}

func TestNewCustomer_Validation(t *testing.T) {
	_, err := NewCustomer("", "", "", valueobject.BranchBerhane, decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewCustomer("Abeba Trading", "", "", "", decimal.Zero)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewCustomer("Abeba Trading", "", "", valueobject.BranchBerhane, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCustomer_ExtendCredit(t *testing.T) {
	c := newTestCustomer(t, 200000)

	require.NoError(t, c.ExtendCredit(decimal.NewFromInt(150000)))
	assert.True(t, c.OutstandingBalance.Equal(decimal.NewFromInt(150000)))
	assert.True(t, c.CreditAvailable().Equal(decimal.NewFromInt(50000)))

	err := c.ExtendCredit(decimal.NewFromInt(50001))
	require.Error(t, err)
	assert.True(t, c.OutstandingBalance.Equal(decimal.NewFromInt(150000)))

	require.NoError(t, c.ExtendCredit(decimal.NewFromInt(50000)), "exact limit is allowed")
}

func TestCustomer_SettleCredit(t *testing.T) {
	c := newTestCustomer(t, 200000)
	require.NoError(t, c.ExtendCredit(decimal.NewFromInt(100000)))

	require.NoError(t, c.SettleCredit(decimal.NewFromInt(40000)))
	assert.True(t, c.OutstandingBalance.Equal(decimal.NewFromInt(60000)))

	err := c.SettleCredit(decimal.NewFromInt(60001))
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestCustomer_SetCreditLimit(t *testing.T) {
	c := newTestCustomer(t, 200000)
	require.NoError(t, c.ExtendCredit(decimal.NewFromInt(100000)))

	err := c.SetCreditLimit(decimal.NewFromInt(50000))
	assert.ErrorIs(t, err, shared.ErrValidation, "limit below what is owed")

	require.NoError(t, c.SetCreditLimit(decimal.NewFromInt(100000)))
	assert.True(t, c.CreditAvailable().IsZero())
}
