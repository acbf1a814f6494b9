package server

import (
	"encoding/xml"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/opds-community/libopds2-go/opds1"

	"bookcat/internal/pagination"
	"bookcat/internal/types"
)

const (
	opdsPerPage     = 50
	opdsContentType = "application/atom+xml;profile=opds-catalog;kind=acquisition"

	linkRelSelf  = "self"
	linkRelNext  = "next"
	linkRelImage = "http://opds-spec.org/image"
	linkRelAlt   = "alternate"
)

// opdsCatalog renders the catalog as an OPDS 1.x acquisition feed, the
// format e-reader apps poll.
func (d *Deps) opdsCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageNum := pagination.PageNum(q)
	skip := clampSkip(pagination.Skip(pageNum, opdsPerPage))

	total, err := d.Books.TotalCount(r.Context())
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	rows, err := d.Books.All(r.Context(), skip, opdsPerPage)
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	now := time.Now().UTC()

	feed := opds1.Feed{
		ID:      "urn:bookcat:catalog",
		Title:   "Book catalog",
		Updated: now,
		Links: []opds1.Link{
			{
				Rel:      linkRelSelf,
				Href:     "/opds/catalog?page=" + strconv.Itoa(pageNum),
				TypeLink: opdsContentType,
			},
		},
	}

	if pageNum < pagination.PageCount(total, opdsPerPage) {
		feed.Links = append(feed.Links, opds1.Link{
			Rel:      linkRelNext,
			Href:     "/opds/catalog?page=" + strconv.Itoa(pageNum+1),
			TypeLink: opdsContentType,
		})
	}

	for i := range rows {
		feed.Entries = append(feed.Entries, opdsEntry(&rows[i]))
	}

	bs, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		d.Responder.RespondAndLogError(w, r.Context(), err)
		return
	}

	w.Header().Set("Content-Type", opdsContentType)
	_, _ = fmt.Fprint(w, xml.Header+string(bs))
}

func opdsEntry(row *types.BookWithAuthors) opds1.Entry {
	book := row.Book
	published := time.Unix(book.CreatedAt, 0).UTC()

	entry := opds1.Entry{
		ID:        "urn:bookcat:book:" + book.BookID,
		Title:     book.Title,
		Published: &published,
		Content: opds1.Content{
			Content:     book.Summary,
			ContentType: "text",
		},
		Links: []opds1.Link{
			{
				Rel:      linkRelAlt,
				Href:     "/books/" + book.BookID,
				TypeLink: "text/html",
			},
		},
	}

	for _, name := range row.Authors {
		entry.Author = append(entry.Author, opds1.Author{Name: name})
	}

	if book.Image != "" {
		entry.Links = append(entry.Links, opds1.Link{
			Rel:      linkRelImage,
			Href:     "/uploads/" + book.Image,
			TypeLink: mime.TypeByExtension(filepath.Ext(book.Image)),
		})
	}

	return entry
}
