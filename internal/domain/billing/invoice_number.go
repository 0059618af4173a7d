package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultInvoicePrefix is the leading part of generated invoice numbers
const DefaultInvoicePrefix = "FA"

const sequenceWidth = 5

// InvoiceNumberPrefix returns the tenant-year prefix, e.g. "FA-2026-"
func InvoiceNumberPrefix(prefix string, year int) string {
	if prefix == "" {
		prefix = DefaultInvoicePrefix
	}
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// FormatInvoiceNumber renders a sequence as e.g. "FA-2026-00042"
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%0*d", InvoiceNumberPrefix(prefix, year), sequenceWidth, seq)
}

// ParseInvoiceSequence extracts the trailing numeric suffix of an invoice number
func ParseInvoiceSequence(number string) (int64, bool) {
	number = strings.TrimSpace(number)
	end := len(number)
	start := end
	for start > 0 && number[start-1] >= '0' && number[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	seq, err := strconv.ParseInt(number[start:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return seq, true
}
