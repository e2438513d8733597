package workflow

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kushukushu/backend/internal/domain/shared"
	"github.com/kushukushu/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// PurchaseStatus represents the stage of a purchase requisition
type PurchaseStatus string

const (
	PurchasePendingAdminApproval PurchaseStatus = "pending_admin_approval"
	PurchasePendingOwnerApproval PurchaseStatus = "pending_owner_approval"
	PurchasePendingFinance       PurchaseStatus = "pending_finance"
	PurchaseFundsRequested       PurchaseStatus = "funds_requested"
	PurchaseCompleted            PurchaseStatus = "completed"
	PurchaseRejected             PurchaseStatus = "rejected"

	// Legacy stage from the retired three-step chain. Never produced by
	// new requests; accepted on read and repaired by Normalize.
	PurchasePendingManagerApproval PurchaseStatus = "pending_manager_approval"
)

// IsValid checks if the status is a valid PurchaseStatus
func (s PurchaseStatus) IsValid() bool {
	switch s {
	case PurchasePendingAdminApproval, PurchasePendingOwnerApproval,
		PurchasePendingFinance, PurchaseFundsRequested,
		PurchaseCompleted, PurchaseRejected, PurchasePendingManagerApproval:
		return true
	}
	return false
}

// String returns the string representation of PurchaseStatus
func (s PurchaseStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are accepted
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseCompleted || s == PurchaseRejected
}

// IsPendingApproval reports whether the requisition is still awaiting its
// routed approver (the stages Normalize is allowed to rewrite).
func (s PurchaseStatus) IsPendingApproval() bool {
	return s == PurchasePendingAdminApproval ||
		s == PurchasePendingOwnerApproval ||
		s == PurchasePendingManagerApproval
}

// Routing identifies the approval chain selected for a requisition
type Routing string

const (
	RoutingAdmin Routing = "admin"
	RoutingOwner Routing = "owner"
)

// RouteByAmount selects the approval chain from the estimated cost alone.
// Amounts up to the threshold go to the admin; larger amounts go straight
// to the owner and skip the admin step entirely. The function is pure so
// the create path and the repair path cannot drift apart.
func RouteByAmount(estimatedCost, adminThreshold decimal.Decimal) (Routing, PurchaseStatus) {
	if estimatedCost.GreaterThan(adminThreshold) {
		return RoutingOwner, PurchasePendingOwnerApproval
	}
	return RoutingAdmin, PurchasePendingAdminApproval
}

// PurchaseCategory classifies what is being bought
type PurchaseCategory string

const (
	PurchaseCategoryRawMaterial PurchaseCategory = "raw_material"
	PurchaseCategoryEquipment   PurchaseCategory = "equipment"
	PurchaseCategorySupplies    PurchaseCategory = "supplies"
	PurchaseCategoryService     PurchaseCategory = "service"
	PurchaseCategoryOther       PurchaseCategory = "other"
)

// PurchaseType distinguishes cash purchases from credit purchases
type PurchaseType string

const (
	PurchaseTypeCash   PurchaseType = "cash"
	PurchaseTypeCredit PurchaseType = "credit"
)

// PaymentDetails records the finance payout that completes a requisition
type PaymentDetails struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Reference string          `json:"reference,omitempty"`
	PaidBy    string          `json:"paid_by"`
	PaidAt    time.Time       `json:"paid_at"`
	Notes     string          `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (p PaymentDetails) Value() (driver.Value, error) { return json.Marshal(p) }

// Scan implements sql.Scanner for JSONB storage
func (p *PaymentDetails) Scan(value interface{}) error { return scanJSON(value, p) }

// IsSet returns true once payment has been processed
func (p PaymentDetails) IsSet() bool { return p.PaidBy != "" }

// PurchaseRequisition is a spend request routed through an amount-dependent
// approval chain. Each approval sub-record is written exactly once; the
// trail is never rewritten.
type PurchaseRequisition struct {
	shared.BaseAggregateRoot
	RequestNumber       string              `gorm:"not null;uniqueIndex"`
	RequestedBy         string              `gorm:"not null"`
	BranchID            valueobject.Branch  `gorm:"not null;index"`
	Description         string              `gorm:"not null"`
	Category            PurchaseCategory    `gorm:"not null"`
	PurchaseType        PurchaseType        `gorm:"not null;default:'cash'"`
	EstimatedCost       decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	RequiresFundRequest bool                `gorm:"not null;default:true"`
	Routing             Routing             `gorm:"not null;index"`
	Status              PurchaseStatus      `gorm:"not null;index"`
	AdminApproval       Approval            `gorm:"type:jsonb"`
	OwnerApproval       Approval            `gorm:"type:jsonb"`
	FundsApproval       Approval            `gorm:"type:jsonb"`
	ManagerApproval     Approval            `gorm:"type:jsonb"` // Legacy chain leftover, cleared by Normalize
	PaymentDetails      PaymentDetails      `gorm:"type:jsonb"`
	RejectedBy          string              `gorm:"not null;default:''"`
	RejectionReason     string              `gorm:"not null;default:''"`
	RejectedAt          *time.Time
	History             WorkflowHistory `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (PurchaseRequisition) TableName() string {
	return "purchase_requisitions"
}

// NewPurchaseRequisitionParams carries creation input for a requisition
type NewPurchaseRequisitionParams struct {
	RequestedBy         string
	BranchID            valueobject.Branch
	Description         string
	Category            PurchaseCategory
	PurchaseType        PurchaseType
	EstimatedCost       decimal.Decimal
	RequiresFundRequest bool
	AdminThreshold      decimal.Decimal
}

// NewPurchaseRequisition creates a requisition routed by its estimated cost
func NewPurchaseRequisition(p NewPurchaseRequisitionParams) (*PurchaseRequisition, error) {
	if p.RequestedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requester is required")
	}
	if p.BranchID.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Branch is required")
	}
	if p.Description == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Description is required")
	}
	if p.EstimatedCost.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Estimated cost must be positive")
	}
	if p.Category == "" {
		p.Category = PurchaseCategoryOther
	}
	if p.PurchaseType == "" {
		p.PurchaseType = PurchaseTypeCash
	}

	routing, status := RouteByAmount(p.EstimatedCost, p.AdminThreshold)
	root := shared.NewBaseAggregateRoot()
	r := &PurchaseRequisition{
		BaseAggregateRoot:   root,
		RequestNumber:       fmt.Sprintf("PR-%s-%s", time.Now().Format("20060102150405"), root.ID.String()[:4]),
		RequestedBy:         p.RequestedBy,
		BranchID:            p.BranchID,
		Description:         p.Description,
		Category:            p.Category,
		PurchaseType:        p.PurchaseType,
		EstimatedCost:       p.EstimatedCost,
		RequiresFundRequest: p.RequiresFundRequest,
		Routing:             routing,
		Status:              status,
		History:             WorkflowHistory{},
	}
	r.History = r.History.Append("created", string(status), Actor{Name: p.RequestedBy, Role: RoleManager}, p.Description)
	return r, nil
}

func (r *PurchaseRequisition) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

func (r *PurchaseRequisition) recordTransition(from PurchaseStatus, actor Actor) {
	r.AddDomainEvent(NewPurchaseStageChangedEvent(r, from, actor))
}

// ApproveAdmin records the admin decision on an admin-routed requisition
// and makes it payable. Owner-routed requisitions never pass through here.
func (r *PurchaseRequisition) ApproveAdmin(actor Actor, notes string) error {
	if actor.Role != RoleAdmin {
		return shared.NewDomainErrorf("FORBIDDEN", "Role %s cannot approve as admin", actor.Role)
	}
	if r.Status != PurchasePendingAdminApproval {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Requisition %s is %s, expected %s", r.RequestNumber, r.Status, PurchasePendingAdminApproval)
	}
	if r.AdminApproval.IsSet() {
		return shared.NewDomainError("INVALID_STAGE", "Admin approval is already recorded")
	}

	from := r.Status
	r.AdminApproval = Approval{ApprovedBy: actor.Name, ApprovedAt: time.Now(), Notes: notes}
	r.Status = PurchasePendingFinance
	r.History = r.History.Append("admin_approval", string(r.Status), actor, notes)
	r.touch()
	r.recordTransition(from, actor)
	return nil
}

// ApproveOwner records the owner decision on an owner-routed requisition
func (r *PurchaseRequisition) ApproveOwner(actor Actor, notes string) error {
	if actor.Role != RoleOwner {
		return shared.NewDomainErrorf("FORBIDDEN", "Role %s cannot approve as owner", actor.Role)
	}
	if r.Status != PurchasePendingOwnerApproval {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Requisition %s is %s, expected %s", r.RequestNumber, r.Status, PurchasePendingOwnerApproval)
	}
	if r.OwnerApproval.IsSet() {
		return shared.NewDomainError("INVALID_STAGE", "Owner approval is already recorded")
	}

	from := r.Status
	r.OwnerApproval = Approval{ApprovedBy: actor.Name, ApprovedAt: time.Now(), Notes: notes}
	r.Status = PurchasePendingFinance
	r.History = r.History.Append("owner_approval", string(r.Status), actor, notes)
	r.touch()
	r.recordTransition(from, actor)
	return nil
}

// RequestFunds records the finance funds authorization. Requisitions that
// do not require a fund request skip straight to payment.
func (r *PurchaseRequisition) RequestFunds(actor Actor, notes string) error {
	if actor.Role != RoleFinance {
		return shared.NewDomainErrorf("FORBIDDEN", "Role %s cannot authorize funds", actor.Role)
	}
	if !r.RequiresFundRequest {
		return shared.NewDomainErrorf("VALIDATION_ERROR",
			"Requisition %s does not require a fund request", r.RequestNumber)
	}
	if r.Status != PurchasePendingFinance {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Requisition %s is %s, expected %s", r.RequestNumber, r.Status, PurchasePendingFinance)
	}

	from := r.Status
	r.FundsApproval = Approval{ApprovedBy: actor.Name, ApprovedAt: time.Now(), Notes: notes}
	r.Status = PurchaseFundsRequested
	r.History = r.History.Append("funds_requested", string(r.Status), actor, notes)
	r.touch()
	r.recordTransition(from, actor)
	return nil
}

// ProcessPaymentParams carries the finance payout input
type ProcessPaymentParams struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
	Notes     string
}

// ProcessPayment records the payout and completes the requisition
func (r *PurchaseRequisition) ProcessPayment(actor Actor, p ProcessPaymentParams) error {
	if actor.Role != RoleFinance {
		return shared.NewDomainErrorf("FORBIDDEN", "Role %s cannot process payments", actor.Role)
	}
	expected := PurchaseFundsRequested
	if !r.RequiresFundRequest {
		expected = PurchasePendingFinance
	}
	if r.Status != expected {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Requisition %s is %s, expected %s", r.RequestNumber, r.Status, expected)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if p.Method == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Payment method is required")
	}

	r.PaymentDetails = PaymentDetails{
		Amount:    p.Amount,
		Method:    p.Method,
		Reference: p.Reference,
		PaidBy:    actor.Name,
		PaidAt:    time.Now(),
		Notes:     p.Notes,
	}
	from := r.Status
	r.Status = PurchaseCompleted
	r.History = r.History.Append("payment_processed", string(r.Status), actor, p.Notes)
	r.touch()
	r.recordTransition(from, actor)
	return nil
}

// Reject terminates the requisition with a mandatory reason
func (r *PurchaseRequisition) Reject(actor Actor, reason string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Requisition %s is already %s", r.RequestNumber, r.Status)
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	from := r.Status
	r.Status = PurchaseRejected
	r.RejectedBy = actor.Name
	r.RejectionReason = reason
	r.RejectedAt = &now
	r.History = r.History.Append("rejected", string(r.Status), actor, reason)
	r.touch()
	r.recordTransition(from, actor)
	return nil
}

// Normalize repairs a requisition left in a legacy or mis-routed pending
// stage by recomputing routing and status from the estimated cost. Manager
// fields from the retired three-step chain are stripped. The operation is
// idempotent: given the same amount and threshold it always produces the
// same result, and it never touches requisitions that have progressed past
// approval.
func (r *PurchaseRequisition) Normalize(adminThreshold decimal.Decimal) bool {
	changed := false

	if r.ManagerApproval.IsSet() {
		r.ManagerApproval = Approval{}
		changed = true
	}

	if r.Status.IsPendingApproval() {
		routing, status := RouteByAmount(r.EstimatedCost, adminThreshold)
		if r.Routing != routing || r.Status != status {
			r.Routing = routing
			r.Status = status
			changed = true
		}
	} else if routing, _ := RouteByAmount(r.EstimatedCost, adminThreshold); r.Routing != routing {
		// Past-approval requisitions keep their status but get the
		// routing label corrected for reporting.
		r.Routing = routing
		changed = true
	}

	if changed {
		r.touch()
	}
	return changed
}

// Reference returns the identifier used on ledger and finance records
func (r *PurchaseRequisition) Reference() string {
	return r.RequestNumber
}
