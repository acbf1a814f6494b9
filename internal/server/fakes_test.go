package server

import (
	"context"
	"sort"
	"strings"

	"bookcat/internal/graph"
	"bookcat/internal/types"
)

// In-memory repositories backing the handler tests. They honor the same
// contracts as the real ones: duplicates come back as
// graph.DuplicateError, missing records as typed nils.

type fakeBooks struct {
	rows    []types.BookWithAuthors
	genres  map[string]bool
	pubs    map[string]bool
	related map[string][]types.BookWithAuthors
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{
		genres:  map[string]bool{},
		pubs:    map[string]bool{},
		related: map[string][]types.BookWithAuthors{},
	}
}

func (f *fakeBooks) add(book types.Book, authors ...string) {
	f.rows = append(f.rows, types.BookWithAuthors{Book: book, Authors: authors})
	sort.SliceStable(f.rows, func(i, j int) bool {
		return f.rows[i].Book.CreatedAt > f.rows[j].Book.CreatedAt
	})
}

func (f *fakeBooks) find(bookID string) int {
	for i := range f.rows {
		if f.rows[i].Book.BookID == bookID {
			return i
		}
	}
	return -1
}

func (f *fakeBooks) All(_ context.Context, skip, limit int) ([]types.BookWithAuthors, error) {
	if skip >= len(f.rows) {
		return nil, nil
	}
	end := skip + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[skip:end], nil
}

func (f *fakeBooks) Register(_ context.Context, book types.Book, genre string, _ []string, publisher string, authors []string) (*types.Book, error) {
	if f.find(book.BookID) >= 0 {
		return nil, &graph.DuplicateError{Field: "book_id", Message: "already exists"}
	}
	if !f.genres[genre] || !f.pubs[publisher] {
		return nil, nil
	}

	f.add(book, authors...)
	return &book, nil
}

func (f *fakeBooks) Update(_ context.Context, book types.Book, _ string, _ []string, _ string, authors []string) (*types.Book, error) {
	i := f.find(book.BookID)
	if i < 0 {
		return nil, nil
	}

	f.rows[i] = types.BookWithAuthors{Book: book, Authors: authors}
	return &book, nil
}

func (f *fakeBooks) Delete(_ context.Context, bookID string) error {
	if i := f.find(bookID); i >= 0 {
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
	}
	return nil
}

func (f *fakeBooks) Latest(_ context.Context, limit int) ([]types.BookWithAuthors, error) {
	if limit > len(f.rows) {
		limit = len(f.rows)
	}
	return f.rows[:limit], nil
}

func (f *fakeBooks) Detail(_ context.Context, bookID string) (*types.BookDetail, error) {
	i := f.find(bookID)
	if i < 0 {
		return nil, nil
	}
	return &types.BookDetail{Book: f.rows[i].Book, Authors: f.rows[i].Authors}, nil
}

func (f *fakeBooks) Relate(_ context.Context, bookID string) ([]types.BookWithAuthors, error) {
	return f.related[bookID], nil
}

func (f *fakeBooks) matches(word string) []types.BookWithAuthors {
	word = strings.ToLower(word)

	var out []types.BookWithAuthors
	for _, row := range f.rows {
		if strings.Contains(strings.ToLower(row.Book.Title), word) ||
			strings.Contains(strings.ToLower(row.Book.BookID), word) {
			out = append(out, row)
		}
	}
	return out
}

func (f *fakeBooks) Search(_ context.Context, word string, skip, limit int) ([]types.BookWithAuthors, error) {
	rows := f.matches(word)
	if skip >= len(rows) {
		return nil, nil
	}
	end := skip + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[skip:end], nil
}

func (f *fakeBooks) SearchCount(_ context.Context, word string) (int, error) {
	return len(f.matches(word)), nil
}

func (f *fakeBooks) TotalCount(_ context.Context) (int, error) {
	return len(f.rows), nil
}

type fakeNamed struct {
	byUUID map[string]string
}

func newFakeNamed() *fakeNamed {
	return &fakeNamed{byUUID: map[string]string{}}
}

func (f *fakeNamed) hasName(name string) bool {
	for _, n := range f.byUUID {
		if n == name {
			return true
		}
	}
	return false
}

type fakeAuthors struct{ *fakeNamed }

func (f fakeAuthors) All(context.Context) ([]*types.Author, error) {
	out := make([]*types.Author, 0, len(f.byUUID))
	for id, name := range f.byUUID {
		out = append(out, &types.Author{Name: name, UUID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeAuthors) Register(_ context.Context, name, uuid string) (*types.Author, error) {
	if f.hasName(name) {
		return nil, &graph.DuplicateError{Field: "name", Message: "already exists"}
	}
	f.byUUID[uuid] = name
	return &types.Author{Name: name, UUID: uuid}, nil
}

func (f fakeAuthors) Update(_ context.Context, name, uuid string) (*types.Author, error) {
	if _, ok := f.byUUID[uuid]; !ok {
		return nil, nil
	}
	f.byUUID[uuid] = name
	return &types.Author{Name: name, UUID: uuid}, nil
}

func (f fakeAuthors) Delete(_ context.Context, uuid string) error {
	delete(f.byUUID, uuid)
	return nil
}

func (f fakeAuthors) Find(_ context.Context, uuid string) (*types.Author, error) {
	name, ok := f.byUUID[uuid]
	if !ok {
		return nil, nil
	}
	return &types.Author{Name: name, UUID: uuid}, nil
}

func (f fakeAuthors) FindByName(_ context.Context, name string) (*types.Author, error) {
	for id, n := range f.byUUID {
		if n == name {
			return &types.Author{Name: n, UUID: id}, nil
		}
	}
	return nil, nil
}

type fakeTags struct{ *fakeNamed }

func (f fakeTags) All(context.Context) ([]*types.Tag, error) {
	out := make([]*types.Tag, 0, len(f.byUUID))
	for id, name := range f.byUUID {
		out = append(out, &types.Tag{Name: name, UUID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTags) Register(_ context.Context, name, uuid string) (*types.Tag, error) {
	if f.hasName(name) {
		return nil, &graph.DuplicateError{Field: "name", Message: "already exists"}
	}
	f.byUUID[uuid] = name
	return &types.Tag{Name: name, UUID: uuid}, nil
}

func (f fakeTags) Update(_ context.Context, name, uuid string) (*types.Tag, error) {
	if _, ok := f.byUUID[uuid]; !ok {
		return nil, nil
	}
	f.byUUID[uuid] = name
	return &types.Tag{Name: name, UUID: uuid}, nil
}

func (f fakeTags) Delete(_ context.Context, uuid string) error {
	delete(f.byUUID, uuid)
	return nil
}

func (f fakeTags) Find(_ context.Context, uuid string) (*types.Tag, error) {
	name, ok := f.byUUID[uuid]
	if !ok {
		return nil, nil
	}
	return &types.Tag{Name: name, UUID: uuid}, nil
}

func (f fakeTags) FindByName(_ context.Context, name string) (*types.Tag, error) {
	for id, n := range f.byUUID {
		if n == name {
			return &types.Tag{Name: n, UUID: id}, nil
		}
	}
	return nil, nil
}

type fakePublishers struct{ *fakeNamed }

func (f fakePublishers) All(context.Context) ([]*types.Publisher, error) {
	out := make([]*types.Publisher, 0, len(f.byUUID))
	for id, name := range f.byUUID {
		out = append(out, &types.Publisher{Name: name, UUID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakePublishers) Register(_ context.Context, name, uuid string) (*types.Publisher, error) {
	if f.hasName(name) {
		return nil, &graph.DuplicateError{Field: "name", Message: "already exists"}
	}
	f.byUUID[uuid] = name
	return &types.Publisher{Name: name, UUID: uuid}, nil
}

func (f fakePublishers) Update(_ context.Context, name, uuid string) (*types.Publisher, error) {
	if _, ok := f.byUUID[uuid]; !ok {
		return nil, nil
	}
	f.byUUID[uuid] = name
	return &types.Publisher{Name: name, UUID: uuid}, nil
}

func (f fakePublishers) Delete(_ context.Context, uuid string) error {
	delete(f.byUUID, uuid)
	return nil
}

func (f fakePublishers) Find(_ context.Context, uuid string) (*types.Publisher, error) {
	name, ok := f.byUUID[uuid]
	if !ok {
		return nil, nil
	}
	return &types.Publisher{Name: name, UUID: uuid}, nil
}

func (f fakePublishers) FindByName(_ context.Context, name string) (*types.Publisher, error) {
	for id, n := range f.byUUID {
		if n == name {
			return &types.Publisher{Name: n, UUID: id}, nil
		}
	}
	return nil, nil
}

type fakeGenres struct {
	items map[string]*types.Genre
	books *fakeBooks
}

func newFakeGenres(books *fakeBooks) *fakeGenres {
	return &fakeGenres{items: map[string]*types.Genre{}, books: books}
}

func (f *fakeGenres) All(context.Context) ([]*types.Genre, error) {
	out := make([]*types.Genre, 0, len(f.items))
	for _, g := range f.items {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeGenres) Register(_ context.Context, name, nameEn, uuid string) (*types.Genre, error) {
	for _, g := range f.items {
		if g.Name == name {
			return nil, &graph.DuplicateError{Field: "name", Message: "already exists"}
		}
		if g.NameEn == nameEn {
			return nil, &graph.DuplicateError{Field: "name_en", Message: "already exists"}
		}
	}

	g := &types.Genre{Name: name, NameEn: nameEn, UUID: uuid}
	f.items[uuid] = g
	return g, nil
}

func (f *fakeGenres) Update(_ context.Context, name, nameEn, uuid string) (*types.Genre, error) {
	g, ok := f.items[uuid]
	if !ok {
		return nil, nil
	}
	g.Name, g.NameEn = name, nameEn
	return g, nil
}

func (f *fakeGenres) Delete(_ context.Context, uuid string) error {
	delete(f.items, uuid)
	return nil
}

func (f *fakeGenres) Find(_ context.Context, uuid string) (*types.Genre, error) {
	return f.items[uuid], nil
}

func (f *fakeGenres) FindByName(_ context.Context, name string) (*types.Genre, error) {
	for _, g := range f.items {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGenres) FindByNameEn(_ context.Context, nameEn string) (*types.Genre, error) {
	for _, g := range f.items {
		if g.NameEn == nameEn {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGenres) BooksByGenre(ctx context.Context, _ string, skip, limit int) ([]types.BookWithAuthors, error) {
	return f.books.All(ctx, skip, limit)
}

func (f *fakeGenres) BooksByGenreCount(ctx context.Context, _ string) (int, error) {
	return f.books.TotalCount(ctx)
}

type fakeUsers struct {
	email    string
	password string
	name     string
}

func (f *fakeUsers) Register(_ context.Context, email, password, name string) (*types.User, error) {
	if email == f.email {
		return nil, &graph.DuplicateError{Field: "email", Message: "already exists"}
	}
	return &types.User{Email: email, Name: name}, nil
}

func (f *fakeUsers) Authenticate(_ context.Context, email, password string) (*types.User, error) {
	if email != f.email || password != f.password {
		return nil, nil
	}
	return &types.User{Email: f.email, Name: f.name}, nil
}

func (f *fakeUsers) Find(_ context.Context, email string) (*types.User, error) {
	if email != f.email {
		return nil, nil
	}
	return &types.User{Email: f.email, Name: f.name}, nil
}
