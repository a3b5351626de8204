package database

import (
	"context"
	"encoding/json"
	"errors"
	"rmatrack/internal/logger"
	"time"

	"github.com/valkey-io/valkey-go"
)

var ErrCacheClientMissing = errors.New("cache client is not configured")

// CacheBuilder assembles a single valkey command. Values are stored as JSON.
type CacheBuilder struct {
	client CacheClient
	key    string
	value  any
	ttl    time.Duration
	ctx    context.Context
	log    logger.Logger
}

func NewCacheBuilder(client CacheClient, key string) *CacheBuilder {
	return &CacheBuilder{
		client: client,
		key:    key,
		ctx:    context.Background(),
		log:    logger.New("database").File("cache"),
	}
}

func (b *CacheBuilder) WithStruct(value any) *CacheBuilder {
	b.value = value
	return b
}

func (b *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	b.ttl = ttl
	return b
}

func (b *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	b.ctx = ctx
	return b
}

func (b *CacheBuilder) Set() error {
	log := b.log.Function("Set")

	if b.client == nil {
		return ErrCacheClientMissing
	}

	payload, err := json.Marshal(b.value)
	if err != nil {
		return log.Err("failed to marshal cache value", err, "key", b.key)
	}

	var cmd valkey.Completed
	if b.ttl > 0 {
		cmd = b.client.B().Set().Key(b.key).Value(string(payload)).
			ExSeconds(int64(b.ttl / time.Second)).Build()
	} else {
		cmd = b.client.B().Set().Key(b.key).Value(string(payload)).Build()
	}

	if err := b.client.Do(b.ctx, cmd).Error(); err != nil {
		return log.Err("failed to set cache value", err, "key", b.key)
	}

	return nil
}

// Get decodes the stored value into out. found is false on a miss.
func (b *CacheBuilder) Get(out any) (found bool, err error) {
	log := b.log.Function("Get")

	if b.client == nil {
		return false, ErrCacheClientMissing
	}

	raw, err := b.client.Do(b.ctx, b.client.B().Get().Key(b.key).Build()).ToString()
	if valkey.IsValkeyNil(err) {
		return false, nil
	}
	if err != nil {
		return false, log.Err("failed to get cache value", err, "key", b.key)
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false, log.Err("failed to unmarshal cache value", err, "key", b.key)
	}

	return true, nil
}

func (b *CacheBuilder) Delete() error {
	if b.client == nil {
		return ErrCacheClientMissing
	}

	if err := b.client.Do(b.ctx, b.client.B().Del().Key(b.key).Build()).Error(); err != nil {
		return b.log.Function("Delete").Err("failed to delete cache value", err, "key", b.key)
	}

	return nil
}
