package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("defaults to manual invoicing", func(t *testing.T) {
		c, err := NewClient(uuid.New(), "Atelier Dupont")

		require.NoError(t, err)
		assert.Equal(t, InvoiceTriggerManual, c.InvoiceTrigger)
		assert.False(t, c.AutoInvoices())
	})

	t.Run("fails with nil tenant", func(t *testing.T) {
		c, err := NewClient(uuid.Nil, "Atelier Dupont")

		assert.Nil(t, c)
		assert.Contains(t, err.Error(), "Tenant ID cannot be empty")
	})

	t.Run("fails with blank name", func(t *testing.T) {
		_, err := NewClient(uuid.New(), "  ")
		assert.Error(t, err)
	})
}

func TestClient_SetInvoiceTrigger(t *testing.T) {
	c, err := NewClient(uuid.New(), "Métallerie Martin")
	require.NoError(t, err)

	require.NoError(t, c.SetInvoiceTrigger(InvoiceTriggerOnReady))
	assert.True(t, c.AutoInvoices())

	err = c.SetInvoiceTrigger(InvoiceTrigger("weekly"))
	assert.Error(t, err)
	assert.Equal(t, InvoiceTriggerOnReady, c.InvoiceTrigger)
}

func TestParseInvoiceTrigger(t *testing.T) {
	tests := []struct {
		in   string
		want InvoiceTrigger
	}{
		{"on_ready", InvoiceTriggerOnReady},
		{" ON_DELIVERED ", InvoiceTriggerOnDelivered},
		{"manual", InvoiceTriggerManual},
		{"", InvoiceTriggerManual},
		{"sometimes", InvoiceTriggerManual},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseInvoiceTrigger(tt.in))
		})
	}
}
