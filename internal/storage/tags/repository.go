package tags

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	All(ctx context.Context) ([]*types.Tag, error)

	// Register creates the tag node; a duplicate name comes back as
	// graph.DuplicateError.
	Register(ctx context.Context, name, uuid string) (*types.Tag, error)

	// Update matches by uuid. A nonexistent uuid returns (nil, nil).
	Update(ctx context.Context, name, uuid string) (*types.Tag, error)

	Delete(ctx context.Context, uuid string) error

	Find(ctx context.Context, uuid string) (*types.Tag, error)
	FindByName(ctx context.Context, name string) (*types.Tag, error)
}
