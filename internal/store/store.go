package store

import (
	"context"
	"errors"

	"secure.links/internal/models"
)

var (
	ErrNotFound = errors.New("link not found")
	ErrExpired  = errors.New("link has expired")
)

// Store indexes issued links by token so a download URL can be resolved.
type Store interface {
	Save(ctx context.Context, record *models.LinkRecord) error
	Get(ctx context.Context, token string) (*models.LinkRecord, error)
	Delete(ctx context.Context, token string) error
	Close() error
}
