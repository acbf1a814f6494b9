package genres

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"bookcat/internal/graph"
	"bookcat/internal/types"
)

func NewNeo4jRepository(db *graph.Conn, l *slog.Logger) Repository {
	return &neoRepo{db: db, l: l}
}

type neoRepo struct {
	db *graph.Conn
	l  *slog.Logger
}

func fromNode(node neo4j.Node) *types.Genre {
	return &types.Genre{
		Name:   graph.StringProp(node, "name"),
		NameEn: graph.StringProp(node, "name_en"),
		UUID:   graph.StringProp(node, "uuid"),
	}
}

func bookFromNode(node neo4j.Node) types.Book {
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

func (p *neoRepo) All(ctx context.Context) ([]*types.Genre, error) {
	rows, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "MATCH (g:Genre) RETURN g ORDER BY g.name ASC", nil)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]*types.Genre, 0, len(records))
		for _, record := range records {
			if node, ok := graph.NodeValue(record, "g"); ok {
				out = append(out, fromNode(node))
			}
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return rows.([]*types.Genre), nil
}

func (p *neoRepo) Register(ctx context.Context, name, nameEn, uuid string) (*types.Genre, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"CREATE (g:Genre {name: $name, name_en: $name_en, uuid: $uuid}) RETURN g",
			map[string]any{"name": name, "name_en": nameEn, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		node, _ := graph.NodeValue(record, "g")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Genre), nil
}

func (p *neoRepo) Update(ctx context.Context, name, nameEn, uuid string) (*types.Genre, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (g:Genre {uuid: $uuid}) SET g.name = $name, g.name_en = $name_en RETURN g",
			map[string]any{"name": name, "name_en": nameEn, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Genre)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "g")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Genre), nil
}

func (p *neoRepo) Delete(ctx context.Context, uuid string) error {
	_, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (g:Genre {uuid: $uuid}) DETACH DELETE g",
			map[string]any{"uuid": uuid})
		if err != nil {
			return nil, err
		}

		_, err = result.Consume(ctx)
		return nil, err
	})

	return err
}

func (p *neoRepo) Find(ctx context.Context, uuid string) (*types.Genre, error) {
	return p.findBy(ctx, "MATCH (g:Genre {uuid: $val}) RETURN g", uuid)
}

func (p *neoRepo) FindByName(ctx context.Context, name string) (*types.Genre, error) {
	return p.findBy(ctx, "MATCH (g:Genre {name: $val}) RETURN g", name)
}

func (p *neoRepo) FindByNameEn(ctx context.Context, nameEn string) (*types.Genre, error) {
	return p.findBy(ctx, "MATCH (g:Genre {name_en: $val}) RETURN g", nameEn)
}

func (p *neoRepo) findBy(ctx context.Context, query, val string) (*types.Genre, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"val": val})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Genre)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "g")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, err
	}

	return row.(*types.Genre), nil
}

func (p *neoRepo) BooksByGenre(ctx context.Context, nameEn string, skip, limit int) ([]types.BookWithAuthors, error) {
	rows, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (b:Book)-[:IN_GENRE]->(g:Genre {name_en: $name_en})
			MATCH (a:Author)-[:WROTE]->(b)
			WITH b, collect(a) AS authors
			RETURN b, authors
			ORDER BY b.created_at DESC
			SKIP $skip
			LIMIT $limit`,
			map[string]any{"name_en": nameEn, "skip": skip, "limit": limit})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]types.BookWithAuthors, 0, len(records))
		for _, record := range records {
			node, ok := graph.NodeValue(record, "b")
			if !ok {
				continue
			}

			out = append(out, types.BookWithAuthors{
				Book:    bookFromNode(node),
				Authors: graph.NamesValue(record, "authors"),
			})
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return rows.([]types.BookWithAuthors), nil
}

func (p *neoRepo) BooksByGenreCount(ctx context.Context, nameEn string) (int, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (b:Book)-[:IN_GENRE]->(g:Genre {name_en: $name_en}) RETURN count(*) AS total",
			map[string]any{"name_en": nameEn})
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
