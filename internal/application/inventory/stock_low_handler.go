package inventory

import (
	"context"
	"fmt"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/inventory"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"go.uber.org/zap"
)

// Alert types
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlertNotifier sends restocking alerts to the workshop
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert is a powder restocking alert
type StockAlert struct {
	TenantID    string `json:"tenant_id"`
	MaterialID  string `json:"material_id"`
	Reference   string `json:"reference"`
	StockRealKg string `json:"stock_real_kg"`
	MinStockKg  string `json:"min_stock_kg"`
	AlertType   string `json:"alert_type"`
}

// MaterialStockLowHandler turns MaterialStockLow events into alerts
type MaterialStockLowHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewMaterialStockLowHandler creates the handler
func NewMaterialStockLowHandler(logger *zap.Logger) *MaterialStockLowHandler {
	return &MaterialStockLowHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *MaterialStockLowHandler) WithNotifier(notifier StockAlertNotifier) *MaterialStockLowHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *MaterialStockLowHandler) EventTypes() []string {
	return []string{inventory.EventTypeMaterialStockLow}
}

// Handle processes a MaterialStockLowEvent
func (h *MaterialStockLowHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	lowEvent, ok := event.(*inventory.MaterialStockLowEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeMaterialStockLow, event.EventType())
	}

	alertType := AlertTypeLowStock
	if !lowEvent.StockRealKg.IsPositive() {
		alertType = AlertTypeOutOfStock
	}

	h.logger.Warn("material below minimum stock",
		zap.String("tenant_id", event.TenantID().String()),
		zap.String("material_id", lowEvent.MaterialID.String()),
		zap.String("reference", lowEvent.Reference),
		zap.String("stock_real_kg", lowEvent.StockRealKg.String()),
		zap.String("min_stock_kg", lowEvent.MinStockKg.String()),
		zap.String("alert_type", alertType),
	)

	if h.notifier == nil {
		return nil
	}

	alert := StockAlert{
		TenantID:    event.TenantID().String(),
		MaterialID:  lowEvent.MaterialID.String(),
		Reference:   lowEvent.Reference,
		StockRealKg: lowEvent.StockRealKg.String(),
		MinStockKg:  lowEvent.MinStockKg.String(),
		AlertType:   alertType,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// alerting is best effort
		h.logger.Error("failed to send stock alert",
			zap.String("material_id", alert.MaterialID),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*MaterialStockLowHandler)(nil)
