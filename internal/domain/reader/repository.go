package reader

import (
	"context"
)

// Repository defines the operations for persisting and retrieving Reader entities.
type Repository interface {
	Create(ctx context.Context, r *Reader) error
	GetByTelegramID(ctx context.Context, telegramID int64) (*Reader, error)
	Update(ctx context.Context, r *Reader) error // FirstName, Username, IsActive
	ListActive(ctx context.Context) ([]*Reader, error)
	ListAll(ctx context.Context) ([]*Reader, error)
}
