package workflow

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

// StockRequestStatus represents the stage of a stock transfer request
type StockRequestStatus string

const (
	StockRequestPendingAdminApproval   StockRequestStatus = "pending_admin_approval"
	StockRequestPendingManagerApproval StockRequestStatus = "pending_manager_approval"
	StockRequestPendingFulfillment     StockRequestStatus = "pending_fulfillment"
	StockRequestReadyForPickup         StockRequestStatus = "ready_for_pickup"
	StockRequestInTransit              StockRequestStatus = "in_transit"
	StockRequestConfirmed              StockRequestStatus = "confirmed"
	StockRequestRejected               StockRequestStatus = "rejected"
)

// IsValid checks if the status is a valid StockRequestStatus
func (s StockRequestStatus) IsValid() bool {
	switch s {
	case StockRequestPendingAdminApproval, StockRequestPendingManagerApproval,
		StockRequestPendingFulfillment, StockRequestReadyForPickup,
		StockRequestInTransit, StockRequestConfirmed, StockRequestRejected:
		return true
	}
	return false
}

// String returns the string representation of StockRequestStatus
func (s StockRequestStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are accepted
func (s StockRequestStatus) IsTerminal() bool {
	return s == StockRequestConfirmed || s == StockRequestRejected
}

// Next returns the status that follows s in the fulfillment pipeline
func (s StockRequestStatus) Next() (StockRequestStatus, bool) {
	next, ok := stockRequestPipeline[s]
	return next, ok
}

// CanTransitionTo checks the transition against the explicit pipeline graph.
// Rejection is reachable from every non-terminal state.
func (s StockRequestStatus) CanTransitionTo(target StockRequestStatus) bool {
	if target == StockRequestRejected {
		return !s.IsTerminal()
	}
	return stockRequestPipeline[s] == target
}

// StageOwner returns the role that owns the pending stage
func (s StockRequestStatus) StageOwner() (Role, bool) {
	role, ok := stockRequestStageOwners[s]
	return role, ok
}

// stockRequestPipeline is the linear transition graph. Each stage has a
// single successor; no stage may be skipped.
var stockRequestPipeline = map[StockRequestStatus]StockRequestStatus{
	StockRequestPendingAdminApproval:   StockRequestPendingManagerApproval,
	StockRequestPendingManagerApproval: StockRequestPendingFulfillment,
	StockRequestPendingFulfillment:     StockRequestReadyForPickup,
	StockRequestReadyForPickup:         StockRequestInTransit,
	StockRequestInTransit:              StockRequestConfirmed,
}

// stockRequestStageOwners maps each pending stage to the role allowed to act on it
var stockRequestStageOwners = map[StockRequestStatus]Role{
	StockRequestPendingAdminApproval:   RoleAdmin,
	StockRequestPendingManagerApproval: RoleManager,
	StockRequestPendingFulfillment:     RoleStorekeeper,
	StockRequestReadyForPickup:         RoleGuard,
	StockRequestInTransit:              RoleSales,
}

// DispatchStatus tracks the customer-delivery sub-state
type DispatchStatus string

const (
	DispatchPending    DispatchStatus = "pending_dispatch"
	DispatchDispatched DispatchStatus = "dispatched"
	DispatchDelivered  DispatchStatus = "delivered"
)

// CustomerInfo holds delivery details for customer-delivery requests
type CustomerInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (c CustomerInfo) Value() (driver.Value, error) { return json.Marshal(c) }

// Scan implements sql.Scanner for JSONB storage
func (c *CustomerInfo) Scan(value interface{}) error { return scanJSON(value, c) }

// FulfillmentRecord captures the storekeeper's packaging action
type FulfillmentRecord struct {
	PackingSlipNumber string          `json:"packing_slip_number"`
	ActualQuantity    decimal.Decimal `json:"actual_quantity"`
	VehicleNumber     string          `json:"vehicle_number,omitempty"`
	DriverName        string          `json:"driver_name,omitempty"`
	FulfilledBy       string          `json:"fulfilled_by"`
	FulfilledAt       time.Time       `json:"fulfilled_at"`
	Notes             string          `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (f FulfillmentRecord) Value() (driver.Value, error) { return json.Marshal(f) }

// Scan implements sql.Scanner for JSONB storage
func (f *FulfillmentRecord) Scan(value interface{}) error { return scanJSON(value, f) }

// IsSet returns true once the request has been fulfilled
func (f FulfillmentRecord) IsSet() bool { return f.FulfilledBy != "" }

// GateVerificationRecord captures the guard checkpoint before goods leave
type GateVerificationRecord struct {
	GatePassNumber string    `json:"gate_pass_number"`
	VehicleNumber  string    `json:"vehicle_number,omitempty"`
	DriverName     string    `json:"driver_name,omitempty"`
	VerifiedBy     string    `json:"verified_by"`
	ExitAt         time.Time `json:"exit_at"`
	Notes          string    `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (g GateVerificationRecord) Value() (driver.Value, error) { return json.Marshal(g) }

// Scan implements sql.Scanner for JSONB storage
func (g *GateVerificationRecord) Scan(value interface{}) error { return scanJSON(value, g) }

// IsSet returns true once the gate check has happened
func (g GateVerificationRecord) IsSet() bool { return g.VerifiedBy != "" }

// DeliveryConfirmationRecord captures receipt at the destination. A
// received quantity differing from the fulfilled quantity is recorded as a
// variance, never a blocking error.
type DeliveryConfirmationRecord struct {
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	VarianceQuantity decimal.Decimal `json:"variance_quantity"` // received - fulfilled, signed
	Condition        string          `json:"condition"`
	ConfirmedBy      string          `json:"confirmed_by"`
	ConfirmedAt      time.Time       `json:"confirmed_at"`
	Notes            string          `json:"notes,omitempty"`
}

// Value implements driver.Valuer for JSONB storage
func (d DeliveryConfirmationRecord) Value() (driver.Value, error) { return json.Marshal(d) }

// Scan implements sql.Scanner for JSONB storage
func (d *DeliveryConfirmationRecord) Scan(value interface{}) error { return scanJSON(value, d) }

// IsSet returns true once delivery has been confirmed
func (d DeliveryConfirmationRecord) IsSet() bool { return d.ConfirmedBy != "" }

// HasVariance returns true if received differs from fulfilled
func (d DeliveryConfirmationRecord) HasVariance() bool { return !d.VarianceQuantity.IsZero() }

// StockRequest is a transfer of packaged product from a source branch to a
// destination branch (or customer), moved through a fixed multi-role
// pipeline: admin, manager, storekeeper fulfillment, guard, requester
// confirmation.
type StockRequest struct {
	shared.BaseAggregateRoot
	RequestNumber      string                     `gorm:"not null;uniqueIndex"`
	RequestedBy        string                     `gorm:"not null"`
	BranchID           valueobject.Branch         `gorm:"not null;index"` // Destination branch
	SourceBranch       valueobject.Branch         `gorm:"not null;index"`
	ProductName        string                     `gorm:"not null"`
	PackageSize        decimal.Decimal            `gorm:"type:decimal(18,4);not null"` // kg per package
	Quantity           decimal.Decimal            `gorm:"type:decimal(18,4);not null"` // number of packages
	TotalWeight        decimal.Decimal            `gorm:"type:decimal(18,4);not null"` // quantity * package size
	Reason             string                     `gorm:"not null;default:''"`
	Status             StockRequestStatus         `gorm:"not null;index"`
	IsCustomerDelivery bool                       `gorm:"not null;default:false"`
	CustomerInfo       *CustomerInfo              `gorm:"type:jsonb"`
	DispatchStatus     DispatchStatus             `gorm:"not null;default:''"`
	BatchID            string                     `gorm:"not null;default:'';index"`
	AdminApproval      Approval                   `gorm:"type:jsonb"`
	ManagerApproval    Approval                   `gorm:"type:jsonb"`
	Fulfillment        FulfillmentRecord          `gorm:"type:jsonb"`
	GateVerification   GateVerificationRecord     `gorm:"type:jsonb"`
	Delivery           DeliveryConfirmationRecord `gorm:"type:jsonb"`
	RejectedBy         string                     `gorm:"not null;default:''"`
	RejectionReason    string                     `gorm:"not null;default:''"`
	RejectedAt         *time.Time
	History            WorkflowHistory `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (StockRequest) TableName() string {
	return "stock_requests"
}

// NewStockRequestParams carries creation input for a stock request
type NewStockRequestParams struct {
	RequestedBy        string
	SourceBranch       valueobject.Branch
	DestinationBranch  valueobject.Branch
	ProductName        string
	PackageSize        decimal.Decimal
	Quantity           decimal.Decimal
	Reason             string
	IsCustomerDelivery bool
	CustomerInfo       *CustomerInfo
	BatchID            string
}

// NewStockRequest creates a stock request awaiting admin approval
func NewStockRequest(p NewStockRequestParams) (*StockRequest, error) {
	if p.RequestedBy == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requester is required")
	}
	if p.SourceBranch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Source branch is required")
	}
	if p.ProductName == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name is required")
	}
	if p.PackageSize.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Package size must be positive")
	}
	if p.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if p.IsCustomerDelivery {
		if p.CustomerInfo == nil || p.CustomerInfo.Name == "" {
			return nil, shared.NewDomainError("VALIDATION_ERROR", "Customer info is required for customer deliveries")
		}
	} else if p.DestinationBranch.IsEmpty() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Destination branch is required")
	}

	root := shared.NewBaseAggregateRoot()
	r := &StockRequest{
		BaseAggregateRoot:  root,
		RequestNumber:      fmt.Sprintf("SR-%s-%s", time.Now().Format("20060102150405"), root.ID.String()[:4]),
		RequestedBy:        p.RequestedBy,
		BranchID:           p.DestinationBranch,
		SourceBranch:       p.SourceBranch,
		ProductName:        p.ProductName,
		PackageSize:        p.PackageSize,
		Quantity:           p.Quantity,
		TotalWeight:        p.Quantity.Mul(p.PackageSize),
		Reason:             p.Reason,
		Status:             StockRequestPendingAdminApproval,
		IsCustomerDelivery: p.IsCustomerDelivery,
		CustomerInfo:       p.CustomerInfo,
		BatchID:            p.BatchID,
		History:            WorkflowHistory{},
	}
	if p.IsCustomerDelivery {
		r.DispatchStatus = DispatchPending
	}
	r.History = r.History.Append("created", string(r.Status), Actor{Name: p.RequestedBy, Role: RoleSales}, p.Reason)
	return r, nil
}

// guardStage validates that the actor's role owns the current stage and
// that the request is in the expected status for the action.
func (r *StockRequest) guardStage(expected StockRequestStatus, actor Actor) error {
	if r.Status != expected {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Request %s is %s, expected %s", r.RequestNumber, r.Status, expected)
	}
	owner, ok := r.Status.StageOwner()
	if !ok || actor.Role != owner {
		return shared.NewDomainErrorf("FORBIDDEN",
			"Role %s cannot act on a request in %s", actor.Role, r.Status)
	}
	return nil
}

// advance moves the request to the next pipeline stage and records history
func (r *StockRequest) advance(stage string, actor Actor, notes string) {
	from := r.Status
	next, _ := r.Status.Next()
	r.Status = next
	r.History = r.History.Append(stage, string(r.Status), actor, notes)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewStockRequestStageChangedEvent(r, from, actor))
}

// ApproveAdmin stamps the admin approval and advances to manager review.
// The caller reserves TotalWeight at the source branch in the same
// transaction, so approval and reservation succeed or fail together.
func (r *StockRequest) ApproveAdmin(actor Actor, notes string) error {
	if err := r.guardStage(StockRequestPendingAdminApproval, actor); err != nil {
		return err
	}
	r.AdminApproval = Approval{ApprovedBy: actor.Name, ApprovedAt: time.Now(), Notes: notes}
	r.advance("admin_approval", actor, notes)
	return nil
}

// ApproveManager stamps the manager approval and hands off to fulfillment
func (r *StockRequest) ApproveManager(actor Actor, notes string) error {
	if err := r.guardStage(StockRequestPendingManagerApproval, actor); err != nil {
		return err
	}
	r.ManagerApproval = Approval{ApprovedBy: actor.Name, ApprovedAt: time.Now(), Notes: notes}
	r.advance("manager_approval", actor, notes)
	return nil
}

// FulfillParams carries the storekeeper's packaging input
type FulfillParams struct {
	PackingSlipNumber string
	ActualQuantity    decimal.Decimal
	VehicleNumber     string
	DriverName        string
	Notes             string
}

// Fulfill records packaging by the storekeeper. The actual quantity, not
// the requested one, governs the ledger deduction performed by the caller.
// A packing slip number is generated when omitted.
func (r *StockRequest) Fulfill(actor Actor, p FulfillParams) error {
	if err := r.guardStage(StockRequestPendingFulfillment, actor); err != nil {
		return err
	}
	if p.ActualQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("VALIDATION_ERROR", "Actual quantity must be positive")
	}

	slip := p.PackingSlipNumber
	if slip == "" {
		slip = "PS-" + r.RequestNumber
	}
	r.Fulfillment = FulfillmentRecord{
		PackingSlipNumber: slip,
		ActualQuantity:    p.ActualQuantity,
		VehicleNumber:     p.VehicleNumber,
		DriverName:        p.DriverName,
		FulfilledBy:       actor.Name,
		FulfilledAt:       time.Now(),
		Notes:             p.Notes,
	}
	r.advance("fulfillment", actor, p.Notes)
	return nil
}

// ActualWeight returns the fulfilled weight (actual quantity * package size)
func (r *StockRequest) ActualWeight() decimal.Decimal {
	return r.Fulfillment.ActualQuantity.Mul(r.PackageSize)
}

// GateVerify records the guard checkpoint and marks the goods in transit.
// Inventory was already deducted at fulfillment; this only advances the
// logistics state and timestamps the exit.
func (r *StockRequest) GateVerify(actor Actor, gatePassNumber, vehicleNumber, driverName, notes string) error {
	if err := r.guardStage(StockRequestReadyForPickup, actor); err != nil {
		return err
	}
	if gatePassNumber == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Gate pass number is required")
	}

	if vehicleNumber == "" {
		vehicleNumber = r.Fulfillment.VehicleNumber
	}
	if driverName == "" {
		driverName = r.Fulfillment.DriverName
	}
	r.GateVerification = GateVerificationRecord{
		GatePassNumber: gatePassNumber,
		VehicleNumber:  vehicleNumber,
		DriverName:     driverName,
		VerifiedBy:     actor.Name,
		ExitAt:         time.Now(),
		Notes:          notes,
	}
	r.advance("gate_verification", actor, notes)
	return nil
}

// ConfirmDelivery records receipt at the destination. Short or over
// shipment is captured as a signed variance and never blocks the
// transition; a condition other than "good" requires notes.
func (r *StockRequest) ConfirmDelivery(actor Actor, receivedQuantity decimal.Decimal, condition, notes string) error {
	if err := r.guardStage(StockRequestInTransit, actor); err != nil {
		return err
	}
	if receivedQuantity.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Received quantity cannot be negative")
	}
	if condition == "" {
		condition = "good"
	}
	if condition != "good" && notes == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Notes are required when condition is not good")
	}

	r.Delivery = DeliveryConfirmationRecord{
		ReceivedQuantity: receivedQuantity,
		VarianceQuantity: receivedQuantity.Sub(r.Fulfillment.ActualQuantity),
		Condition:        condition,
		ConfirmedBy:      actor.Name,
		ConfirmedAt:      time.Now(),
		Notes:            notes,
	}
	if r.IsCustomerDelivery {
		r.DispatchStatus = DispatchDelivered
	}
	r.advance("delivery_confirmation", actor, notes)
	return nil
}

// Dispatch marks a customer delivery as dispatched by the manager
func (r *StockRequest) Dispatch(actor Actor, driverName, vehicleNumber, notes string) error {
	if !r.IsCustomerDelivery {
		return shared.NewDomainError("VALIDATION_ERROR", "Request is not a customer delivery")
	}
	if actor.Role != RoleManager {
		return shared.NewDomainErrorf("FORBIDDEN", "Role %s cannot dispatch deliveries", actor.Role)
	}
	if r.DispatchStatus != DispatchPending {
		return shared.NewDomainErrorf("INVALID_STAGE", "Delivery is already %s", r.DispatchStatus)
	}

	r.DispatchStatus = DispatchDispatched
	r.History = r.History.Append("dispatched", string(r.Status), actor,
		fmt.Sprintf("driver %s, vehicle %s. %s", driverName, vehicleNumber, notes))
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// Reject terminates the request with a mandatory reason. Rejection is
// reachable from any non-terminal state and is itself terminal; any
// inventory compensation is performed by the caller in the same
// transaction.
func (r *StockRequest) Reject(actor Actor, reason string) error {
	if r.Status.IsTerminal() {
		return shared.NewDomainErrorf("INVALID_STAGE",
			"Request %s is already %s", r.RequestNumber, r.Status)
	}
	if reason == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Rejection reason is required")
	}

	now := time.Now()
	from := r.Status
	r.Status = StockRequestRejected
	r.RejectedBy = actor.Name
	r.RejectionReason = reason
	r.RejectedAt = &now
	r.History = r.History.Append("rejected", string(r.Status), actor, reason)
	r.UpdatedAt = now
	r.IncrementVersion()
	r.AddDomainEvent(NewStockRequestRejectedEvent(r, from, actor, reason))
	return nil
}

// HasOutstandingReservation reports whether reserved stock is still held
// for this request (reserved at admin approval, consumed at fulfillment).
func (r *StockRequest) HasOutstandingReservation() bool {
	return r.Status == StockRequestPendingManagerApproval || r.Status == StockRequestPendingFulfillment
}

// WasDeducted reports whether source inventory was already deducted
// (fulfillment happened and goods left the available pool).
func (r *StockRequest) WasDeducted() bool {
	return r.Fulfillment.IsSet()
}

// Reference returns the identifier used on ledger transaction records
func (r *StockRequest) Reference() string {
	return r.RequestNumber
}

// scanJSON is the shared sql.Scanner body for JSONB sub-records
func scanJSON(value interface{}, dest interface{}) error {
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
		return errors.New("failed to scan JSON column: unsupported type")
	}
	if len(bytes) == 0 {
		return nil
	}
	return json.Unmarshal(bytes, dest)
}
