package finance

import (
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReconciliationStatus classifies a close-of-day cash count
type ReconciliationStatus string

const (
	ReconciliationMatched ReconciliationStatus = "matched"
	ReconciliationFlagged ReconciliationStatus = "flagged"
)

// ClassifyVariance applies the tolerance band to a signed variance.
// Anything at or beyond the tolerance is flagged for review.
func ClassifyVariance(variance, tolerance decimal.Decimal) ReconciliationStatus {
	if variance.Abs().LessThan(tolerance) {
		return ReconciliationMatched
	}
	return ReconciliationFlagged
}

// Reconciliation is an end-of-period cash count for one branch and date.
// Once written it is immutable; corrections are new records, never edits.
type Reconciliation struct {
	shared.BaseAggregateRoot
	BranchID     valueobject.Branch   `gorm:"not null;index:idx_reconciliation_branch_date"`
	Date         string               `gorm:"not null;index:idx_reconciliation_branch_date"` // YYYY-MM-DD
	ExpectedCash decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	ActualCash   decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Variance     decimal.Decimal      `gorm:"type:decimal(18,2);not null"` // actual - expected, signed
	Tolerance    decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Status       ReconciliationStatus `gorm:"not null;index"`
	ReconciledBy string               `gorm:"not null"`
	Notes        string               `gorm:"not null;default:''"`
	Corrects     *string              // Reconciliation number of the record this one supersedes
	Number       string               `gorm:"not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Reconciliation) TableName() string {
	return "reconciliations"
}

// NewReconciliationParams carries a cash-count submission
type NewReconciliationParams struct {
	BranchID     valueobject.Branch
	Date         string
	ExpectedCash decimal.Decimal
	ActualCash   decimal.Decimal
	Tolerance    decimal.Decimal
	ReconciledBy string
	Notes        string
	Corrects     *string
}

// NewReconciliation computes and classifies the variance for a branch/date.
// ExpectedCash comes from summing the day's cash sales, which the caller
// derives from the transaction log.
func NewReconciliation(p NewReconciliationParams) (*Reconciliation, error) {
	if p.BranchID.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if _, err := time.Parse("2006-01-02", p.Date); err != nil {
		return nil, shared.NewDomainErrorf("VALIDATION_ERROR", "Invalid reconciliation date %q", p.Date)
	}
	if p.ReconciledBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Reconciler is required")
	}
	if p.ActualCash.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Actual cash cannot be negative")
	}
	if p.Tolerance.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tolerance cannot be negative")
	}

	variance := p.ActualCash.Sub(p.ExpectedCash)
	root := shared.NewBaseAggregateRoot()
	r := &Reconciliation{
		BaseAggregateRoot: root,
		BranchID:          p.BranchID,
		Date:              p.Date,
		ExpectedCash:      p.ExpectedCash,
		ActualCash:        p.ActualCash,
		Variance:          variance,
		Tolerance:         p.Tolerance,
		Status:            ClassifyVariance(variance, p.Tolerance),
		ReconciledBy:      p.ReconciledBy,
		Notes:             p.Notes,
		Corrects:          p.Corrects,
		Number:            "REC-" + p.Date + "-" + root.ID.String()[:8],
	}
	if r.Status == ReconciliationFlagged {
		r.AddDomainEvent(NewReconciliationFlaggedEvent(r))
	}
	return r, nil
}

// IsFlagged reports whether the count fell outside the tolerance band
func (r *Reconciliation) IsFlagged() bool {
	return r.Status == ReconciliationFlagged
}
