package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bookcat/internal/auth"
	"bookcat/internal/pagination"
	"bookcat/internal/response"
	"bookcat/internal/storage/authors"
	"bookcat/internal/storage/books"
	"bookcat/internal/storage/genres"
	"bookcat/internal/storage/publishers"
	"bookcat/internal/storage/tags"
	"bookcat/internal/storage/users"
	"bookcat/internal/types"
)

const latestOnHome = 6

// Deps carries everything the handlers touch. Repositories hold no
// state between calls; the only long-lived resource behind them is the
// driver's connection pool.
type Deps struct {
	Books      books.Repository
	Authors    authors.Repository
	Genres     genres.Repository
	Tags       tags.Repository
	Publishers publishers.Repository
	Users      users.Repository

	Sessions  *auth.Sessions
	Responder *response.Responder
	UploadDir string
}

// page wraps a listing with the numbers the pagination bar needs.
type page[T any] struct {
	Items     []T `json:"items"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	PageCount int `json:"page_count"`
	Limit     int `json:"limit"`
}

func pageOf[T any](items []T, total, pageNum, limit int) page[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return page[T]{
		Items:     items,
		Total:     total,
		Page:      pageNum,
		PageCount: pagination.PageCount(total, limit),
		Limit:     limit,
	}
}

func Handler(d *Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/", d.home)
	r.Get("/books", d.listBooks)
	r.Get("/books/{bookID}", d.bookDetail)
	r.Get("/search", d.search)
	r.Get("/genres", d.listGenres)
	r.Get("/genres/{nameEn}", d.booksByGenre)
	r.Get("/opds/catalog", d.opdsCatalog)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", d.login)

		r.Group(func(r chi.Router) {
			r.Use(requireSession(d.Sessions))

			r.Post("/logout", d.logout)

			r.Get("/books", d.adminListBooks)
			r.Post("/books", d.createBook)
			r.Put("/books/{bookID}", d.updateBook)
			r.Delete("/books/{bookID}", d.deleteBook)

			mountNamed(r, "/authors", d, named[*types.Author]{
				all:      d.Authors.All,
				register: d.Authors.Register,
				update:   d.Authors.Update,
				remove:   d.Authors.Delete,
			})
			mountNamed(r, "/tags", d, named[*types.Tag]{
				all:      d.Tags.All,
				register: d.Tags.Register,
				update:   d.Tags.Update,
				remove:   d.Tags.Delete,
			})
			mountNamed(r, "/publishers", d, named[*types.Publisher]{
				all:      d.Publishers.All,
				register: d.Publishers.Register,
				update:   d.Publishers.Update,
				remove:   d.Publishers.Delete,
			})

			r.Get("/genres", d.adminListGenres)
			r.Post("/genres", d.createGenre)
			r.Put("/genres/{uuid}", d.updateGenre)
			r.Delete("/genres/{uuid}", d.deleteGenre)
		})
	})

	return r
}

func (d *Deps) home(w http.ResponseWriter, r *http.Request) {
	rows, err := d.Books.Latest(r.Context(), latestOnHome)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if rows == nil {
		rows = make([]types.BookWithAuthors, 0)
	}

	d.Responder.SendJson(w, r.Context(), struct {
		Books []types.BookWithAuthors `json:"books"`
	}{Books: rows})
}

func (d *Deps) listBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageNum := pagination.PageNum(q)
	limit := clampLimit(pagination.Limit(q))
	skip := clampSkip(pagination.Skip(pageNum, limit))

	total, err := d.Books.TotalCount(r.Context())
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	rows, err := d.Books.All(r.Context(), skip, limit)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	d.Responder.SendJson(w, r.Context(), pageOf(rows, total, pageNum, limit))
}

func (d *Deps) bookDetail(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "bookID")

	detail, err := d.Books.Detail(r.Context(), bookID)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if detail == nil {
		d.Responder.RespondNotFound(w, r.Context())
		return
	}

	related, err := d.Books.Relate(r.Context(), bookID)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if related == nil {
		related = make([]types.BookWithAuthors, 0)
	}

	d.Responder.SendJson(w, r.Context(), struct {
		Book    *types.BookDetail       `json:"book"`
		Related []types.BookWithAuthors `json:"related"`
	}{Book: detail, Related: related})
}

func (d *Deps) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	word := q.Get("q")

	pageNum := pagination.PageNum(q)
	limit := clampLimit(pagination.Limit(q))
	skip := clampSkip(pagination.Skip(pageNum, limit))

	total, err := d.Books.SearchCount(r.Context(), word)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	rows, err := d.Books.Search(r.Context(), word, skip, limit)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	result := struct {
		Query string `json:"query"`
		page[types.BookWithAuthors]
	}{Query: word, page: pageOf(rows, total, pageNum, limit)}

	d.Responder.SendJson(w, r.Context(), result)
}

func (d *Deps) listGenres(w http.ResponseWriter, r *http.Request) {
	rows, err := d.Genres.All(r.Context())
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if rows == nil {
		rows = make([]*types.Genre, 0)
	}

	d.Responder.SendJson(w, r.Context(), struct {
		Genres []*types.Genre `json:"genres"`
	}{Genres: rows})
}

func (d *Deps) booksByGenre(w http.ResponseWriter, r *http.Request) {
	nameEn := chi.URLParam(r, "nameEn")
	q := r.URL.Query()

	genre, err := d.Genres.FindByNameEn(r.Context(), nameEn)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if genre == nil {
		d.Responder.RespondNotFound(w, r.Context())
		return
	}

	pageNum := pagination.PageNum(q)
	limit := clampLimit(pagination.Limit(q))
	skip := clampSkip(pagination.Skip(pageNum, limit))

	total, err := d.Genres.BooksByGenreCount(r.Context(), nameEn)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	rows, err := d.Genres.BooksByGenre(r.Context(), nameEn, skip, limit)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	result := struct {
		Genre *types.Genre `json:"genre"`
		page[types.BookWithAuthors]
	}{Genre: genre, page: pageOf(rows, total, pageNum, limit)}

	d.Responder.SendJson(w, r.Context(), result)
}
