package publishers

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	All(ctx context.Context) ([]*types.Publisher, error)

	// Register creates the publisher node; a duplicate name comes back
	// as graph.DuplicateError.
	Register(ctx context.Context, name, uuid string) (*types.Publisher, error)

	// Update matches by uuid. A nonexistent uuid returns (nil, nil).
	Update(ctx context.Context, name, uuid string) (*types.Publisher, error)

	Delete(ctx context.Context, uuid string) error

	Find(ctx context.Context, uuid string) (*types.Publisher, error)
	FindByName(ctx context.Context, name string) (*types.Publisher, error)
}
