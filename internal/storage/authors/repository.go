package authors

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	// All returns every author sorted by name ascending.
	All(ctx context.Context) ([]*types.Author, error)

	// Register creates the author node; a duplicate name comes back as
	// graph.DuplicateError.
	Register(ctx context.Context, name, uuid string) (*types.Author, error)

	// Update matches by uuid. A nonexistent uuid returns (nil, nil).
	Update(ctx context.Context, name, uuid string) (*types.Author, error)

	// Delete detach-deletes; no error when the node does not exist.
	Delete(ctx context.Context, uuid string) error

	Find(ctx context.Context, uuid string) (*types.Author, error)
	FindByName(ctx context.Context, name string) (*types.Author, error)
}
