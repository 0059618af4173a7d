package cache

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/Thermopoudre/ThermoGestion-sub003/internal/application/billing"
	"github.com/Thermopoudre/ThermoGestion-sub003/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCounterKeyPrefix = "invoice:seq:"
	counterTTL              = 400 * 24 * time.Hour
)

// resyncScript raises the counter to ARGV[1] and never lowers it
var resyncScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
local target = tonumber(ARGV[1])
if target > current then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
	return target
end
return current
`)

// RedisInvoiceCounter hands out invoice numbers from a Redis INCR counter per tenant and year.
// Numbers taken by a transaction that later rolls back are not reused.
type RedisInvoiceCounter struct {
	client    redis.Cmdable
	prefix    string
	keyPrefix string
}

// NewRedisInvoiceCounter creates a counter using the invoice prefix (e.g. "FA")
func NewRedisInvoiceCounter(client redis.Cmdable, prefix string) *RedisInvoiceCounter {
	if prefix == "" {
		prefix = billing.DefaultInvoicePrefix
	}
	return &RedisInvoiceCounter{
		client:    client,
		prefix:    prefix,
		keyPrefix: defaultCounterKeyPrefix,
	}
}

// NextNumber increments the tenant-year counter and formats the invoice number.
// A missing counter is first seeded from the latest stored number read through latest.
func (c *RedisInvoiceCounter) NextNumber(ctx context.Context, latest appbilling.LatestNumberFinder, tenantID uuid.UUID, issuedAt time.Time) (string, error) {
	year := issuedAt.Year()
	key := c.key(tenantID, year)

	if err := c.ensureSeeded(ctx, latest, key, tenantID, year); err != nil {
		return "", err
	}

	seq, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("increment invoice counter: %w", err)
	}
	if seq == 1 {
		c.client.Expire(ctx, key, counterTTL)
	}
	return billing.FormatInvoiceNumber(c.prefix, year, seq), nil
}

// Resync raises the tenant-year counter to seq when it lags behind the stored invoices
func (c *RedisInvoiceCounter) Resync(ctx context.Context, tenantID uuid.UUID, issuedAt time.Time, seq int64) error {
	key := c.key(tenantID, issuedAt.Year())
	if err := resyncScript.Run(ctx, c.client, []string{key}, seq, counterTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("resync invoice counter: %w", err)
	}
	return nil
}

func (c *RedisInvoiceCounter) ensureSeeded(ctx context.Context, latest appbilling.LatestNumberFinder, key string, tenantID uuid.UUID, year int) error {
	if latest == nil {
		return nil
	}
	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("check invoice counter: %w", err)
	}
	if exists > 0 {
		return nil
	}
	number, err := latest.FindLatestNumber(ctx, tenantID, billing.InvoiceNumberPrefix(c.prefix, year))
	if err != nil {
		return fmt.Errorf("seed invoice counter: %w", err)
	}
	var last int64
	if number != "" {
		last, _ = billing.ParseInvoiceSequence(number)
	}
	// SETNX: a concurrent seeder may have won, its value stands
	if err := c.client.SetNX(ctx, key, last, counterTTL).Err(); err != nil {
		return fmt.Errorf("seed invoice counter: %w", err)
	}
	return nil
}

func (c *RedisInvoiceCounter) key(tenantID uuid.UUID, year int) string {
	return fmt.Sprintf("%s%s:%s:%d", c.keyPrefix, tenantID, c.prefix, year)
}

var _ appbilling.InvoiceNumberingService = (*RedisInvoiceCounter)(nil)
