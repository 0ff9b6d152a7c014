// redis.go
package store

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"secure.links/internal/models"
)

var _ Store = (*RedisStore)(nil)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(options *redis.Options) (*RedisStore, error) {
	client := redis.NewClient(options)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Save stores the record with a TTL matching the link's remaining lifetime,
// so Redis drops the key on its own once the link expires.
func (r *RedisStore) Save(ctx context.Context, record *models.LinkRecord) error {
	data, err := encode(record)
	if err != nil {
		return err
	}

	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return ErrExpired
	}

	return r.client.Set(ctx, linkKey(record.Token), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, token string) (*models.LinkRecord, error) {
	data, err := r.client.Get(ctx, linkKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	record, err := decode(data)
	if err != nil {
		return nil, err
	}

	// Key TTL has second granularity on some servers
	if !time.Now().Before(record.ExpiresAt) {
		_ = r.Delete(ctx, token)
		return nil, ErrExpired
	}

	return record, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.client.Del(ctx, linkKey(token)).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// Helpers

func linkKey(token string) string {
	return "link:" + token
}

func encode(record *models.LinkRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(record); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (*models.LinkRecord, error) {
	var record models.LinkRecord
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&record); err != nil {
		return nil, err
	}
	return &record, nil
}
