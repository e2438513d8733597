package production

import (
	"fmt"
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// WheatQuality grades an incoming supplier delivery
type WheatQuality string

const (
	WheatQualityExcellent WheatQuality = "excellent"
	WheatQualityGood      WheatQuality = "good"
	WheatQualityAverage   WheatQuality = "average"
	WheatQualityPoor      WheatQuality = "poor"
)

// IsValid checks if the quality grade is recognized
func (q WheatQuality) IsValid() bool {
	switch q {
	case WheatQualityExcellent, WheatQualityGood, WheatQualityAverage, WheatQualityPoor:
		return true
	}
	return false
}

// WheatDelivery records a supplier dropping raw wheat at a branch. The
// quantity is added to the branch's raw wheat stock through the inventory
// ledger in the same transaction.
type WheatDelivery struct {
	shared.BaseEntity
	DeliveryNumber string             `gorm:"not null;uniqueIndex"`
	SupplierName   string             `gorm:"not null"`
	BranchID       valueobject.Branch `gorm:"not null;index"`
	Quantity       decimal.Decimal    `gorm:"type:decimal(18,4);not null"` // kg
	Quality        WheatQuality       `gorm:"not null"`
	ReceivedBy     string             `gorm:"not null"`
	Notes          string             `gorm:"not null;default:''"`
}

// TableName returns the table name for GORM
func (WheatDelivery) TableName() string {
	return "wheat_deliveries"
}

// NewWheatDelivery records an incoming supplier delivery
func NewWheatDelivery(supplierName string, branch valueobject.Branch, quantity decimal.Decimal, quality WheatQuality, receivedBy, notes string) (*WheatDelivery, error) {
	if supplierName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Supplier name is required")
	}
	if branch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Delivery quantity must be positive")
	}
	if quality == "" {
		quality = WheatQualityGood
	}
	if !quality.IsValid() {
		return nil, shared.NewDomainErrorf("VALIDATION_ERROR", "Unknown quality grade %q", quality)
	}
	if receivedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Receiver is required")
	}

	entity := shared.NewBaseEntity()
	return &WheatDelivery{
		BaseEntity:     entity,
		DeliveryNumber: fmt.Sprintf("WD-%s-%s", time.Now().Format("20060102150405"), entity.ID.String()[:4]),
		SupplierName:   supplierName,
		BranchID:       branch,
		Quantity:       quantity,
		Quality:        quality,
		ReceivedBy:     receivedBy,
		Notes:          notes,
	}, nil
}

// Reference returns the identifier used on ledger transaction records
func (w *WheatDelivery) Reference() string {
	return w.DeliveryNumber
}
