// Package cache keeps customer alert settings in Redis in front of a slower store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	interfaces "github.com/sheikh-saqib/balance-alerts/internal/interfaces"
	"github.com/sheikh-saqib/balance-alerts/internal/logger"
	"github.com/sheikh-saqib/balance-alerts/internal/models"
)

const (
	// keyPrefix namespaces cached profiles.
	keyPrefix = "alerts:settings:"
	// absentMarker is cached for customers without settings so they don't hit the store every time.
	absentMarker = "null"
)

// CachedSettingsStore is a read-through cache over another SettingsStore.
// Redis failures are logged and the wrapped store is used directly.
type CachedSettingsStore struct {
	client *redis.Client
	next   interfaces.SettingsStore
	ttl    time.Duration
	log    zerolog.Logger
}

func NewCachedSettingsStore(client *redis.Client, next interfaces.SettingsStore, ttl time.Duration) *CachedSettingsStore {
	return &CachedSettingsStore{
		client: client,
		next:   next,
		ttl:    ttl,
		log:    logger.WithComponent("settings-cache"),
	}
}

func cacheKey(customerID string) string {
	return keyPrefix + customerID
}

func (c *CachedSettingsStore) AlertSettings(ctx context.Context, customerID string) (*models.CustomerAlertProfile, error) {
	data, err := c.client.Get(ctx, cacheKey(customerID)).Bytes()
	switch {
	case err == nil:
		if string(data) == absentMarker {
			return nil, nil
		}
		var profile models.CustomerAlertProfile
		if jsonErr := json.Unmarshal(data, &profile); jsonErr == nil {
			return &profile, nil
		}
		c.log.Warn().Str("customer_id", customerID).Msg("discarding undecodable cached settings")
	case errors.Is(err, redis.Nil):
	default:
		c.log.Warn().Err(err).Str("customer_id", customerID).Msg("settings cache read failed")
	}

	profile, err := c.next.AlertSettings(ctx, customerID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, customerID, profile)
	return profile, nil
}

func (c *CachedSettingsStore) store(ctx context.Context, customerID string, profile *models.CustomerAlertProfile) {
	value := []byte(absentMarker)
	if profile != nil {
		data, err := json.Marshal(profile)
		if err != nil {
			return
		}
		value = data
	}
	if err := c.client.Set(ctx, cacheKey(customerID), value, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("customer_id", customerID).Msg("settings cache write failed")
	}
}

// Invalidate drops the cached profile so the next read goes to the store.
func (c *CachedSettingsStore) Invalidate(ctx context.Context, customerID string) error {
	return c.client.Del(ctx, cacheKey(customerID)).Err()
}

var _ interfaces.SettingsStore = (*CachedSettingsStore)(nil)
