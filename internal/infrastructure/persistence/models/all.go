package models

// All returns every model, in dependency order, for AutoMigrate in tests
func All() []any {
	return []any{
		&ClientModel{},
		&MaterialModel{},
		&QuoteModel{},
		&QuoteItemModel{},
		&JobModel{},
		&JobAuditLogModel{},
		&StockMovementModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
	}
}
