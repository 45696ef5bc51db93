// Package session persists each visitor's cart lines between requests.
package session

import (
	"context"
	"errors"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

var ErrCartNotFound = errors.New("session cart not found")

// Store keeps cart lines per session id. Saving an empty cart removes it.
type Store interface {
	Load(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
