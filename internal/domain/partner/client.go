package partner

import (
	"strings"

	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceTrigger is the client's preference for when a job is invoiced automatically
type InvoiceTrigger string

const (
	InvoiceTriggerOnReady     InvoiceTrigger = "on_ready"
	InvoiceTriggerOnDelivered InvoiceTrigger = "on_delivered"
	InvoiceTriggerManual      InvoiceTrigger = "manual"
)

// IsValid checks if the trigger is a known value
func (t InvoiceTrigger) IsValid() bool {
	switch t {
	case InvoiceTriggerOnReady, InvoiceTriggerOnDelivered, InvoiceTriggerManual:
		return true
	}
	return false
}

// String returns the string representation of InvoiceTrigger
func (t InvoiceTrigger) String() string {
	return string(t)
}

// ParseInvoiceTrigger normalizes a stored trigger; unknown or empty values mean manual
func ParseInvoiceTrigger(s string) InvoiceTrigger {
	t := InvoiceTrigger(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return InvoiceTriggerManual
	}
	return t
}

// Client is a customer of the workshop
type Client struct {
	shared.TenantAggregateRoot
	Name           string
	Email          string
	InvoiceTrigger InvoiceTrigger
}

// NewClient creates a client invoiced manually until told otherwise
func NewClient(tenantID uuid.UUID, name string) (*Client, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	return &Client{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		InvoiceTrigger:      InvoiceTriggerManual,
	}, nil
}

// SetInvoiceTrigger changes the automatic invoicing preference
func (c *Client) SetInvoiceTrigger(trigger InvoiceTrigger) error {
	if !trigger.IsValid() {
		return shared.NewDomainError("INVALID_INVOICE_TRIGGER", "Invalid invoice trigger: "+string(trigger))
	}
	c.InvoiceTrigger = trigger
	return nil
}

// AutoInvoices reports whether any status can invoice this client automatically
func (c *Client) AutoInvoices() bool {
	return c.InvoiceTrigger == InvoiceTriggerOnReady || c.InvoiceTrigger == InvoiceTriggerOnDelivered
}
