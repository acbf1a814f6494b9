package books

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"

	"bookcat/internal/graph"
	"bookcat/internal/types"
)

func NewNeo4jRepository(conn *graph.Conn, l *slog.Logger) Repository {
	return &neoRepo{db: conn, l: l}
}

type neoRepo struct {
	db *graph.Conn
	l  *slog.Logger
}

func fromNode(node neo4j.Node) types.Book {
	return types.Book{
		BookID:          graph.StringProp(node, "book_id"),
		Title:           graph.StringProp(node, "title"),
		SubTitle:        graph.StringProp(node, "sub_title"),
		Summary:         graph.StringProp(node, "summary"),
		PublicationYear: graph.Int64Prop(node, "publication_year"),
		Edition:         graph.Int64Prop(node, "edition"),
		URL:             graph.StringProp(node, "url"),
		Image:           graph.StringProp(node, "image"),
		CreatedAt:       graph.Int64Prop(node, "created_at"),
	}
}

func bookParams(book types.Book) map[string]any {
	return map[string]any{
		"book_id":          book.BookID,
		"title":            book.Title,
		"sub_title":        book.SubTitle,
		"summary":          book.Summary,
		"publication_year": book.PublicationYear,
		"edition":          book.Edition,
		"url":              book.URL,
		"image":            book.Image,
		"created_at":       book.CreatedAt,
	}
}

func withAuthorsRows(records []*db.Record) []types.BookWithAuthors {
	out := make([]types.BookWithAuthors, 0, len(records))
	for _, record := range records {
		node, ok := graph.NodeValue(record, "b")
		if !ok {
			continue
		}

		out = append(out, types.BookWithAuthors{
			Book:    fromNode(node),
			Authors: graph.NamesValue(record, "authors"),
		})
	}

	return out
}

// listQuery runs a query returning (b, authors) rows.
func (p *neoRepo) listQuery(ctx context.Context, query string, params map[string]any) ([]types.BookWithAuthors, error) {
	rows, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		return withAuthorsRows(records), nil
	})
	if err != nil {
		return nil, err
	}

	return rows.([]types.BookWithAuthors), nil
}

func (p *neoRepo) countQuery(ctx context.Context, query string, params map[string]any) (int, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		return graph.CountValue(record, "total"), nil
	})
	if err != nil {
		return 0, err
	}

	return int(row.(int64)), nil
}

func (p *neoRepo) All(ctx context.Context, skip, limit int) ([]types.BookWithAuthors, error) {
	return p.listQuery(ctx, `
		MATCH (a:Author)-[:WROTE]->(b:Book)
		WITH b, collect(a) AS authors
		RETURN b, authors
		ORDER BY b.created_at DESC
		SKIP $skip
		LIMIT $limit`,
		map[string]any{"skip": skip, "limit": limit})
}

func (p *neoRepo) Latest(ctx context.Context, limit int) ([]types.BookWithAuthors, error) {
	return p.listQuery(ctx, `
		MATCH (a:Author)-[:WROTE]->(b:Book)
		WITH b, collect(a) AS authors
		RETURN b, authors
		ORDER BY b.created_at DESC
		LIMIT $limit`,
		map[string]any{"limit": limit})
}

func (p *neoRepo) Register(ctx context.Context, book types.Book, genre string, tags []string, publisher string, authors []string) (*types.Book, error) {
	params := bookParams(book)
	params["genre"] = genre
	params["tags"] = tags
	params["publisher"] = publisher
	params["authors"] = authors

	// Explicit CREATE so a duplicate book_id violates the constraint
	// instead of silently matching. Genre and publisher must pre-exist;
	// a missing one stops the chain at its MATCH and the write returns
	// no row. Tags and authors are merged into existence.
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			CREATE (b:Book {
				book_id: $book_id,
				title: $title,
				sub_title: $sub_title,
				summary: $summary,
				publication_year: $publication_year,
				edition: $edition,
				url: $url,
				image: $image,
				created_at: $created_at
			})
			WITH b
			MATCH (g:Genre {name: $genre})
			MERGE (b)-[:IN_GENRE]->(g)
			WITH b
			MATCH (p:Publisher {name: $publisher})
			MERGE (p)-[:PUBLISHED]->(b)
			WITH b
			FOREACH (tagName IN $tags |
				MERGE (t:Tag {name: tagName})
				MERGE (b)-[:HAS_TAG]->(t))
			FOREACH (authorName IN $authors |
				MERGE (a:Author {name: authorName})
				MERGE (a)-[:WROTE]->(b))
			RETURN b`,
			params)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Book)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "b")
		created := fromNode(node)
		return &created, nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Book), nil
}

func (p *neoRepo) Update(ctx context.Context, book types.Book, genre string, tags []string, publisher string, authors []string) (*types.Book, error) {
	params := bookParams(book)
	params["genre"] = genre
	params["tags"] = tags
	params["publisher"] = publisher
	params["authors"] = authors

	// Replace scalars, drop all four edge kinds, reattach. One write
	// statement, so the whole replacement is atomic.
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (b:Book {book_id: $book_id})
			SET b.title = $title,
			    b.sub_title = $sub_title,
			    b.summary = $summary,
			    b.publication_year = $publication_year,
			    b.edition = $edition,
			    b.url = $url,
			    b.image = $image,
			    b.created_at = $created_at
			WITH b
			OPTIONAL MATCH (b)-[out:IN_GENRE|HAS_TAG]->()
			DELETE out
			WITH DISTINCT b
			OPTIONAL MATCH ()-[in:PUBLISHED|WROTE]->(b)
			DELETE in
			WITH DISTINCT b
			MATCH (g:Genre {name: $genre})
			MERGE (b)-[:IN_GENRE]->(g)
			WITH b
			MATCH (p:Publisher {name: $publisher})
			MERGE (p)-[:PUBLISHED]->(b)
			WITH b
			FOREACH (tagName IN $tags |
				MERGE (t:Tag {name: tagName})
				MERGE (b)-[:HAS_TAG]->(t))
			FOREACH (authorName IN $authors |
				MERGE (a:Author {name: authorName})
				MERGE (a)-[:WROTE]->(b))
			RETURN b`,
			params)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Book)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "b")
		updated := fromNode(node)
		return &updated, nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Book), nil
}

func (p *neoRepo) Delete(ctx context.Context, bookID string) error {
	_, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (b:Book {book_id: $book_id}) DETACH DELETE b",
			map[string]any{"book_id": bookID})
		if err != nil {
			return nil, err
		}

		_, err = result.Consume(ctx)
		return nil, err
	})

	return err
}

func (p *neoRepo) Detail(ctx context.Context, bookID string) (*types.BookDetail, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (b:Book {book_id: $book_id})
			OPTIONAL MATCH (a:Author)-[:WROTE]->(b)
			OPTIONAL MATCH (b)-[:IN_GENRE]->(g:Genre)
			OPTIONAL MATCH (b)-[:HAS_TAG]->(t:Tag)
			OPTIONAL MATCH (p:Publisher)-[:PUBLISHED]->(b)
			RETURN b,
			       collect(DISTINCT a.name) AS authors,
			       g.name AS genre,
			       collect(DISTINCT t.name) AS tags,
			       p.name AS publisher`,
			map[string]any{"book_id": bookID})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.BookDetail)(nil), err
		}

		record := records[0]
		node, _ := graph.NodeValue(record, "b")

		return &types.BookDetail{
			Book:      fromNode(node),
			Authors:   graph.StringsValue(record, "authors"),
			Genre:     graph.StringValue(record, "genre"),
			Tags:      graph.StringsValue(record, "tags"),
			Publisher: graph.StringValue(record, "publisher"),
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return row.(*types.BookDetail), nil
}

func (p *neoRepo) Relate(ctx context.Context, bookID string) ([]types.BookWithAuthors, error) {
	// The two HAS_TAG hops cannot bind the same relationship, so the
	// starting book never shows up in its own results.
	return p.listQuery(ctx, `
		MATCH (orig:Book {book_id: $book_id})-[:HAS_TAG]->(:Tag)<-[:HAS_TAG]-(b:Book)
		OPTIONAL MATCH (a:Author)-[:WROTE]->(b)
		WITH DISTINCT b, collect(DISTINCT a) AS authors
		RETURN b, authors`,
		map[string]any{"book_id": bookID})
}

const searchPredicate = `
	WHERE toLower(b.title) CONTAINS toLower($word)
	   OR toLower(b.sub_title) CONTAINS toLower($word)
	   OR toLower(b.book_id) CONTAINS toLower($word)
	   OR toLower(a.name) CONTAINS toLower($word)`

func (p *neoRepo) Search(ctx context.Context, word string, skip, limit int) ([]types.BookWithAuthors, error) {
	return p.listQuery(ctx, `
		MATCH (a:Author)-[:WROTE]->(b:Book)`+searchPredicate+`
		WITH b, collect(a) AS authors
		RETURN b, authors
		ORDER BY b.created_at DESC
		SKIP $skip
		LIMIT $limit`,
		map[string]any{"word": word, "skip": skip, "limit": limit})
}

func (p *neoRepo) SearchCount(ctx context.Context, word string) (int, error) {
	return p.countQuery(ctx, `
		MATCH (a:Author)-[:WROTE]->(b:Book)`+searchPredicate+`
		WITH DISTINCT b
		RETURN count(b) AS total`,
		map[string]any{"word": word})
}

func (p *neoRepo) TotalCount(ctx context.Context) (int, error) {
	return p.countQuery(ctx, "MATCH (b:Book) RETURN count(*) AS total", nil)
}
