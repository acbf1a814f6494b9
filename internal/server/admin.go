package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"bookcat/internal/graph"
	"bookcat/internal/pagination"
	"bookcat/internal/types"
)

const adminBooksPerPage = 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the json field name the client actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

func fieldErrors(err error) map[string]string {
	fields := make(map[string]string)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = "invalid value"
		}
	} else {
		fields["payload"] = err.Error()
	}

	return fields
}

// decodeValid unmarshals a JSON body and runs struct validation.
func decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}

	return validate.Struct(dst)
}

// respondWriteError routes a failed register/update to the right
// response: duplicates become field-level 422s, everything else is the
// generic 500.
func (d *Deps) respondWriteError(w http.ResponseWriter, ctx context.Context, err error, fallbackField string) {
	var dup *graph.DuplicateError
	if errors.As(err, &dup) {
		field := dup.Field
		if field == "" {
			field = fallbackField
		}

		d.Responder.RespondFieldErrors(w, ctx, map[string]string{field: "already exists"})
		return
	}

	d.Responder.RespondAndLogError(w, ctx, err)
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (d *Deps) login(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := decodeValid(r, &payload); err != nil {
		d.Responder.RespondFieldErrors(w, r.Context(), fieldErrors(err))
		return
	}

	user, err := d.Users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	if user == nil {
		// Unknown email and wrong password are indistinguishable here.
		respondUnauthorized(w)
		return
	}

	setSessionCookie(w, d.Sessions.Issue(user.Email, user.Name))

	d.Responder.SendJson(w, r.Context(), struct {
		User *types.User `json:"user"`
	}{User: user})
}

func (d *Deps) logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// named bundles the uniform CRUD surface shared by authors, tags and
// publishers.
type named[T any] struct {
	all      func(ctx context.Context) ([]T, error)
	register func(ctx context.Context, name, uuid string) (T, error)
	update   func(ctx context.Context, name, uuid string) (T, error)
	remove   func(ctx context.Context, uuid string) error
}

type namedPayload struct {
	Name string `json:"name" validate:"required"`
}

func mountNamed[T any](r chi.Router, prefix string, d *Deps, repo named[T]) {
	r.Route(prefix, func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			rows, err := repo.all(r.Context())
			if err != nil {
				d.Responder.RespondAndLogError(w, r.Context(), err)
				return
			}

			if rows == nil {
				rows = make([]T, 0)
			}

			d.Responder.SendJson(w, r.Context(), struct {
				Items []T `json:"items"`
			}{Items: rows})
		})

		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var payload namedPayload
			if err := decodeValid(r, &payload); err != nil {
				d.Responder.RespondFieldErrors(w, r.Context(), fieldErrors(err))
				return
			}

			created, err := repo.register(r.Context(), payload.Name, uuid.NewString())
			if err != nil {
				d.respondWriteError(w, r.Context(), err, "name")
				return
			}

			d.Responder.SendJson(w, r.Context(), created)
		})

		r.Put("/{uuid}", func(w http.ResponseWriter, r *http.Request) {
			var payload namedPayload
			if err := decodeValid(r, &payload); err != nil {
				d.Responder.RespondFieldErrors(w, r.Context(), fieldErrors(err))
				return
			}

			updated, err := repo.update(r.Context(), payload.Name, chi.URLParam(r, "uuid"))
			if err != nil {
				d.respondWriteError(w, r.Context(), err, "name")
				return
			}

			if isNil(updated) {
				d.Responder.RespondNotFound(w, r.Context())
				return
			}

			d.Responder.SendJson(w, r.Context(), updated)
		})

		r.Delete("/{uuid}", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.remove(r.Context(), chi.URLParam(r, "uuid")); err != nil {
				d.Responder.RespondAndLogError(w, r.Context(), err)
				return
			}

			w.WriteHeader(http.StatusNoContent)
		})
	})
}

type genrePayload struct {
	Name   string `json:"name" validate:"required"`
	NameEn string `json:"name_en" validate:"required"`
}

func (d *Deps) adminListGenres(w http.ResponseWriter, r *http.Request) {
	d.listGenres(w, r)
}

func (d *Deps) createGenre(w http.ResponseWriter, r *http.Request) {
	var payload genrePayload
	if err := decodeValid(r, &payload); err != nil {
		d.Responder.RespondFieldErrors(w, r.Context(), fieldErrors(err))
		return
	}

	created, err := d.Genres.Register(r.Context(), payload.Name, payload.NameEn, uuid.NewString())
	if err != nil {
		d.respondWriteError(w, r.Context(), err, "name")
		return
	}

	d.Responder.SendJson(w, r.Context(), created)
}

func (d *Deps) updateGenre(w http.ResponseWriter, r *http.Request) {
	var payload genrePayload
	if err := decodeValid(r, &payload); err != nil {
		d.Responder.RespondFieldErrors(w, r.Context(), fieldErrors(err))
		return
	}

	updated, err := d.Genres.Update(r.Context(), payload.Name, payload.NameEn, chi.URLParam(r, "uuid"))
	if err != nil {
		d.respondWriteError(w, r.Context(), err, "name")
		return
	}

	if updated == nil {
		d.Responder.RespondNotFound(w, r.Context())
		return
	}

	d.Responder.SendJson(w, r.Context(), updated)
}

func (d *Deps) deleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := d.Genres.Delete(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (d *Deps) adminListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageNum := pagination.PageNum(q)
	limit := adminBooksPerPage
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

// bookForm is what the admin create/update multipart form carries
// besides the optional image file.
type bookForm struct {
	book      types.Book
	genre     string
	tags      []string
	publisher string
	authors   []string
}

func parseBookForm(r *http.Request) (*bookForm, map[string]string) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, map[string]string{"form": "malformed multipart form"}
	}

	form := &bookForm{
		book: types.Book{
			BookID:   strings.TrimSpace(r.FormValue("book_id")),
			Title:    strings.TrimSpace(r.FormValue("title")),
			SubTitle: r.FormValue("sub_title"),
			Summary:  r.FormValue("summary"),
			URL:      r.FormValue("url"),
		},
		genre:     r.FormValue("genre"),
		tags:      getMulti("tags", r.MultipartForm.Value),
		publisher: r.FormValue("publisher"),
		authors:   getMulti("authors", r.MultipartForm.Value),
	}

	fields := make(map[string]string)

	if form.book.BookID == "" {
		fields["book_id"] = "required"
	}
	if form.book.Title == "" {
		fields["title"] = "required"
	}
	if form.genre == "" {
		fields["genre"] = "required"
	}
	if form.publisher == "" {
		fields["publisher"] = "required"
	}

	if raw := r.FormValue("publication_year"); raw != "" {
		year, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["publication_year"] = "must be a number"
		}
		form.book.PublicationYear = year
	}

	if raw := r.FormValue("edition"); raw != "" {
		edition, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			fields["edition"] = "must be a number"
		}
		form.book.Edition = edition
	}

	if len(fields) > 0 {
		return nil, fields
	}

	return form, nil
}

func (d *Deps) createBook(w http.ResponseWriter, r *http.Request) {
	form, fields := parseBookForm(r)
	if fields != nil {
		d.Responder.RespondFieldErrors(w, r.Context(), fields)
		return
	}

	form.book.CreatedAt = time.Now().Unix()

	filename, err := d.saveImage(r, form.book.BookID)
	if errors.Is(err, errUnsupportedImage) {
		d.Responder.RespondFieldErrors(w, r.Context(), map[string]string{"file": err.Error()})
		return
	}
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}
	form.book.Image = filename

	created, err := d.Books.Register(r.Context(), form.book, form.genre, form.tags, form.publisher, form.authors)
	if err != nil {
		d.respondWriteError(w, r.Context(), err, "book_id")
		return
	}

	if created == nil {
		// Genre or publisher did not exist, so the write matched
		// nothing past the create.
		d.Responder.RespondFieldErrors(w, r.Context(), map[string]string{
			"genre": "genre and publisher must exist",
		})
		return
	}

	d.Responder.SendJson(w, r.Context(), created)
}

func (d *Deps) updateBook(w http.ResponseWriter, r *http.Request) {
	form, fields := parseBookForm(r)
	if fields != nil {
		d.Responder.RespondFieldErrors(w, r.Context(), fields)
		return
	}

	form.book.BookID = chi.URLParam(r, "bookID")

	if raw := r.FormValue("created_at"); raw != "" {
		createdAt, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			d.Responder.RespondFieldErrors(w, r.Context(), map[string]string{"created_at": "must be a unix timestamp"})
			return
		}
		form.book.CreatedAt = createdAt
	}

	filename, err := d.saveImage(r, form.book.BookID)
	if errors.Is(err, errUnsupportedImage) {
		d.Responder.RespondFieldErrors(w, r.Context(), map[string]string{"file": err.Error()})
		return
	}
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}
	if filename == "" {
		filename = r.FormValue("image")
	}
	form.book.Image = filename

	updated, err := d.Books.Update(r.Context(), form.book, form.genre, form.tags, form.publisher, form.authors)
	if err != nil {
		d.respondWriteError(w, r.Context(), err, "book_id")
		return
	}

	if updated == nil {
		d.Responder.RespondNotFound(w, r.Context())
		return
	}

	d.Responder.SendJson(w, r.Context(), updated)
}

func (d *Deps) deleteBook(w http.ResponseWriter, r *http.Request) {
	if err := d.Books.Delete(r.Context(), chi.URLParam(r, "bookID")); err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
