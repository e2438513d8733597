package finance

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveLoan(t *testing.T, amount int64) *Loan {
	t.Helper()
	l, err := NewLoan(uuid.New(), "Abeba Trading", valueobject.BranchBerhane, nil,
		decimal.NewFromInt(amount), time.Now().AddDate(0, 0, 30))
	require.NoError(t, err)
	return l
}

func TestNewLoan(t *testing.T) {
	l := newActiveLoan(t, 100000)

	assert.Equal(t, LoanActive, l.Status)
	assert.True(t, l.Balance.Equal(decimal.NewFromInt(100000)))
	assert.True(t, l.PaidAmount.IsZero())
	assert.NotEmpty(t, l.LoanNumber)
}

func TestNewLoan_Validation(t *testing.T) {
	due := time.Now().AddDate(0, 0, 30)

	_, err := NewLoan(uuid.Nil, "x", valueobject.BranchBerhane, nil, decimal.NewFromInt(100), due)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewLoan(uuid.New(), "x", "", nil, decimal.NewFromInt(100), due)
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = NewLoan(uuid.New(), "x", valueobject.BranchBerhane, nil, decimal.Zero, due)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoan_RecordPayment(t *testing.T) {
	l := newActiveLoan(t, 100000)

	require.NoError(t, l.RecordPayment(decimal.NewFromInt(40000), "cash", "", "hanna", ""))
	assert.True(t, l.Balance.Equal(decimal.NewFromInt(60000)))
	assert.True(t, l.PaidAmount.Equal(decimal.NewFromInt(40000)))
	assert.Equal(t, LoanActive, l.Status)
	require.Len(t, l.Payments, 1)

	require.NoError(t, l.RecordPayment(decimal.NewFromInt(60000), "transfer", "TRX-9", "hanna", "final"))
	assert.True(t, l.Balance.IsZero())
	assert.Equal(t, LoanPaid, l.Status)
	assert.Len(t, l.Payments, 2)
}

func TestLoan_RecordPayment_Excess(t *testing.T) {
	l := newActiveLoan(t, 100000)

	err := l.RecordPayment(decimal.NewFromInt(100001), "cash", "", "hanna", "")
	assert.ErrorIs(t, err, ErrExcessPayment)
	assert.True(t, l.Balance.Equal(decimal.NewFromInt(100000)), "rejected payment changes nothing")
	assert.Empty(t, l.Payments)

	// a partial payment then another overshooting the remainder
	require.NoError(t, l.RecordPayment(decimal.NewFromInt(99999), "cash", "", "hanna", ""))
	err = l.RecordPayment(decimal.NewFromInt(2), "cash", "", "hanna", "")
	assert.ErrorIs(t, err, ErrExcessPayment)

	// settling the exact remainder is fine
	require.NoError(t, l.RecordPayment(decimal.NewFromInt(1), "cash", "", "hanna", ""))
	assert.Equal(t, LoanPaid, l.Status)
}

func TestLoan_RecordPayment_Validation(t *testing.T) {
	l := newActiveLoan(t, 1000)

	assert.ErrorIs(t, l.RecordPayment(decimal.Zero, "cash", "", "hanna", ""), shared.ErrValidation)
	assert.ErrorIs(t, l.RecordPayment(decimal.NewFromInt(100), "", "", "hanna", ""), shared.ErrValidation)
}

func TestLoan_RecordPayment_PaidLoanRefuses(t *testing.T) {
	l := newActiveLoan(t, 1000)
	require.NoError(t, l.RecordPayment(decimal.NewFromInt(1000), "cash", "", "hanna", ""))

	err := l.RecordPayment(decimal.NewFromInt(1), "cash", "", "hanna", "")
	assert.ErrorIs(t, err, shared.ErrInvalidStage)
}

func TestLoan_RecomputeStatus(t *testing.T) {
	l := newActiveLoan(t, 1000)
	now := time.Now()

	l.RecomputeStatus(now)
	assert.Equal(t, LoanActive, l.Status)

	l.RecomputeStatus(now.AddDate(0, 0, 31))
	assert.Equal(t, LoanOverdue, l.Status)
	assert.True(t, l.IsOverdue(now.AddDate(0, 0, 31)))

	require.NoError(t, l.RecordPayment(decimal.NewFromInt(1000), "cash", "", "hanna", ""))
	assert.Equal(t, LoanPaid, l.Status)
	assert.False(t, l.IsOverdue(now.AddDate(0, 0, 31)))
}
