package production

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MillingStatus tracks a milling run from start to finish
type MillingStatus string

const (
	MillingPending   MillingStatus = "pending"
	MillingCompleted MillingStatus = "completed"
)

// MillingOutput is one product produced by a milling run
type MillingOutput struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MillingOutputs is stored as a JSONB array on the order row
type MillingOutputs []MillingOutput

// Value implements driver.Valuer for JSONB storage
func (o MillingOutputs) Value() (driver.Value, error) {
	if o == nil {
		o = MillingOutputs{}
	}
	return json.Marshal(o)
}

// Scan implements sql.Scanner for JSONB storage
func (o *MillingOutputs) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan MillingOutputs: unsupported type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, o)
}

// MillingOrder converts raw wheat into flour products at one branch. The
// wheat is deducted from inventory when the order starts; the outputs are
// added when it completes. Both mutations go through the inventory ledger
// in the same transaction as the status change.
type MillingOrder struct {
	shared.BaseAggregateRoot
	OrderNumber   string             `gorm:"not null;uniqueIndex"`
	BranchID      valueobject.Branch `gorm:"not null;index"`
	RawWheatInput decimal.Decimal    `gorm:"type:decimal(18,4);not null"` // kg
	Outputs       MillingOutputs     `gorm:"type:jsonb;not null"`
	Status        MillingStatus      `gorm:"not null;index"`
	CreatedBy     string             `gorm:"not null"`
	CompletedBy   string             `gorm:"not null;default:''"`
	CompletedAt   *time.Time
	Notes         string `gorm:"not null;default:''"`
}

// TableName returns the table name for GORM
func (MillingOrder) TableName() string {
	return "milling_orders"
}

// NewMillingOrder starts a milling run. The caller deducts RawWheatInput
// from the branch's raw wheat in the same transaction; insufficient wheat
// fails the whole creation.
func NewMillingOrder(branch valueobject.Branch, rawWheatInput decimal.Decimal, createdBy, notes string) (*MillingOrder, error) {
	if branch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if rawWheatInput.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Raw wheat input must be positive")
	}
	if createdBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Creator is required")
	}

	root := shared.NewBaseAggregateRoot()
	return &MillingOrder{
		BaseAggregateRoot: root,
		OrderNumber:       fmt.Sprintf("MO-%s-%s", time.Now().Format("20060102150405"), root.ID.String()[:4]),
		BranchID:          branch,
		RawWheatInput:     rawWheatInput,
		Outputs:           MillingOutputs{},
		Status:            MillingPending,
		CreatedBy:         createdBy,
		Notes:             notes,
	}, nil
}

// Complete records the milled outputs and closes the order. The caller
// adds each output quantity to inventory in the same transaction.
func (m *MillingOrder) Complete(outputs MillingOutputs, completedBy string) error {
	if m.Status != MillingPending {
		return shared.NewDomainErrorf("INVALID_STAGE", "Milling order %s is already %s", m.OrderNumber, m.Status)
	}
	if len(outputs) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "At least one output product is required")
	}
	for _, out := range outputs {
		if out.ProductName == "" {
			return shared.NewDomainError("VALIDATION_ERROR", "Output product name is required")
		}
		if out.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("VALIDATION_ERROR", "Output quantity must be positive")
		}
	}
	if completedBy == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Completer is required")
	}

	now := time.Now()
	m.Outputs = outputs
	m.Status = MillingCompleted
	m.CompletedBy = completedBy
	m.CompletedAt = &now
	m.UpdatedAt = now
	m.IncrementVersion()
	return nil
}

// TotalOutput sums the produced quantities across all products
func (m *MillingOrder) TotalOutput() decimal.Decimal {
	total := decimal.Zero
	for _, out := range m.Outputs {
		total = total.Add(out.Quantity)
	}
	return total
}

// Reference returns the identifier used on ledger transaction records
func (m *MillingOrder) Reference() string {
	return m.OrderNumber
}
