package inventory

import (
	"context"

	"github.com/kushukushu/backend/internal/domain/inventory"
	"github.com/kushukushu/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockBelowThresholdHandler reacts to items crossing their low or
// critical threshold. Alerts surface in the structured log, which the
// operations side scrapes for branch restock decisions.
type StockBelowThresholdHandler struct {
	logger *zap.Logger
}

// NewStockBelowThresholdHandler creates a handler for low-stock events
func NewStockBelowThresholdHandler(logger *zap.Logger) *StockBelowThresholdHandler {
	return &StockBelowThresholdHandler{logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockBelowThresholdHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowThreshold}
}

// Handle logs the alert with enough context to act on it
func (h *StockBelowThresholdHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	alert, ok := event.(*inventory.StockBelowThresholdEvent)
	if !ok {
		return nil
	}

	log := h.logger.Warn
	if alert.StockLevel == inventory.StockLevelCritical {
		log = h.logger.Error
	}
	log("stock below threshold",
		zap.String("product", alert.ProductName),
		zap.String("branch", alert.BranchID.String()),
		zap.String("stock_level", string(alert.StockLevel)),
		zap.String("quantity", alert.Quantity.String()),
	)
	return nil
}
