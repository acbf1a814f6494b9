package books

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	// All pages through every book, newest first, with author names.
	All(ctx context.Context, skip, limit int) ([]types.BookWithAuthors, error)

	// Register creates the Book node and establishes all its edges in
	// one write: the named genre and publisher must already exist
	// (otherwise the write matches nothing past that point), tags and
	// authors are merged into existence. A duplicate book_id comes back
	// as graph.DuplicateError.
	Register(ctx context.Context, book types.Book, genre string, tags []string, publisher string, authors []string) (*types.Book, error)

	// Update replaces the scalar fields and detaches+reattaches all
	// four relationship kinds, matching by book_id. A nonexistent
	// book_id returns (nil, nil).
	Update(ctx context.Context, book types.Book, genre string, tags []string, publisher string, authors []string) (*types.Book, error)

	// Delete detach-deletes; no error when the book does not exist.
	Delete(ctx context.Context, bookID string) error

	// Latest returns the newest books with their author names.
	Latest(ctx context.Context, limit int) ([]types.BookWithAuthors, error)

	// Detail joins authors, genre, tags and publisher into one record
	// via optional matches; relations a book does not have come back
	// empty. Returns nil when the book does not exist.
	Detail(ctx context.Context, bookID string) (*types.BookDetail, error)

	// Relate finds other books sharing at least one tag, each with its
	// authors.
	Relate(ctx context.Context, bookID string) ([]types.BookWithAuthors, error)

	// Search matches word case-insensitively against title, sub_title,
	// book_id and author name. SearchCount counts the same predicate.
	Search(ctx context.Context, word string, skip, limit int) ([]types.BookWithAuthors, error)
	SearchCount(ctx context.Context, word string) (int, error)

	TotalCount(ctx context.Context) (int, error)
}
