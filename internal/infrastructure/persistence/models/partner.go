package models

import (
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/partner"
)

// ClientModel is the persistence model for the Client aggregate root
type ClientModel struct {
	TenantAggregateModel
	Name           string `gorm:"type:varchar(200);not null"`
	Email          string `gorm:"type:varchar(200)"`
	InvoiceTrigger string `gorm:"type:varchar(20);not null;default:'manual'"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Name:                m.Name,
		Email:               m.Email,
		InvoiceTrigger:      partner.ParseInvoiceTrigger(m.InvoiceTrigger),
	}
}

// ClientModelFromDomain creates a new persistence model from a domain Client
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{
		Name:           c.Name,
		Email:          c.Email,
		InvoiceTrigger: string(c.InvoiceTrigger),
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
