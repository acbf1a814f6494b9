package types

// Book holds the scalar properties of a Book node. Relationship data
// (authors, genre, tags, publisher) travels separately, since most
// queries only need a subset of it.
type Book struct {
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	SubTitle        string `json:"sub_title"`
	Summary         string `json:"summary"`
	PublicationYear int64  `json:"publication_year"`
	Edition         int64  `json:"edition"`
	URL             string `json:"url"`
	Image           string `json:"image"`
	CreatedAt       int64  `json:"created_at"`
}

// BookWithAuthors is a listing row: the book plus its author names.
type BookWithAuthors struct {
	Book    Book     `json:"book"`
	Authors []string `json:"authors"`
}

// BookDetail joins everything reachable from one book. Relations are
// optional joins, so any of them may be empty for a book whose edges
// were never created.
type BookDetail struct {
	Book      Book     `json:"book"`
	Authors   []string `json:"authors"`
	Genre     string   `json:"genre"`
	Tags      []string `json:"tags"`
	Publisher string   `json:"publisher"`
}

type Author struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

type Genre struct {
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
	UUID   string `json:"uuid"`
}

type Tag struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

type Publisher struct {
	Name string `json:"name"`
	UUID string `json:"uuid"`
}

// User never carries the password hash; that stays inside the users
// storage package.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
