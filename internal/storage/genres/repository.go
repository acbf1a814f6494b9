package genres

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	All(ctx context.Context) ([]*types.Genre, error)

	// Register creates the genre node; a duplicate name or name_en
	// comes back as graph.DuplicateError naming the violated field.
	Register(ctx context.Context, name, nameEn, uuid string) (*types.Genre, error)

	// Update matches by uuid. A nonexistent uuid returns (nil, nil).
	Update(ctx context.Context, name, nameEn, uuid string) (*types.Genre, error)

	Delete(ctx context.Context, uuid string) error

	Find(ctx context.Context, uuid string) (*types.Genre, error)
	FindByName(ctx context.Context, name string) (*types.Genre, error)
	FindByNameEn(ctx context.Context, nameEn string) (*types.Genre, error)

	// BooksByGenre pages through the books attached to a genre, newest
	// first, each with its author names.
	BooksByGenre(ctx context.Context, nameEn string, skip, limit int) ([]types.BookWithAuthors, error)
	BooksByGenreCount(ctx context.Context, nameEn string) (int, error)
}
