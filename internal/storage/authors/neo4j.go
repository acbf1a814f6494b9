package authors

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

func fromNode(node neo4j.Node) *types.Author {
	return &types.Author{
		Name: graph.StringProp(node, "name"),
		UUID: graph.StringProp(node, "uuid"),
	}
}

func (p *neoRepo) All(ctx context.Context) ([]*types.Author, error) {
	rows, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "MATCH (a:Author) RETURN a ORDER BY a.name ASC", nil)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]*types.Author, 0, len(records))
		for _, record := range records {
			if node, ok := graph.NodeValue(record, "a"); ok {
				out = append(out, fromNode(node))
			}
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return rows.([]*types.Author), nil
}

func (p *neoRepo) Register(ctx context.Context, name, uuid string) (*types.Author, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"CREATE (a:Author {name: $name, uuid: $uuid}) RETURN a",
			map[string]any{"name": name, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		node, _ := graph.NodeValue(record, "a")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Author), nil
}

func (p *neoRepo) Update(ctx context.Context, name, uuid string) (*types.Author, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (a:Author {uuid: $uuid}) SET a.name = $name RETURN a",
			map[string]any{"name": name, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Author)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "a")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Author), nil
}

func (p *neoRepo) Delete(ctx context.Context, uuid string) error {
	_, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (a:Author {uuid: $uuid}) DETACH DELETE a",
			map[string]any{"uuid": uuid})
		if err != nil {
			return nil, err
		}

		_, err = result.Consume(ctx)
		return nil, err
	})

	return err
}

func (p *neoRepo) Find(ctx context.Context, uuid string) (*types.Author, error) {
	return p.findBy(ctx, "MATCH (a:Author {uuid: $val}) RETURN a", uuid)
}

func (p *neoRepo) FindByName(ctx context.Context, name string) (*types.Author, error) {
	return p.findBy(ctx, "MATCH (a:Author {name: $val}) RETURN a", name)
}

func (p *neoRepo) findBy(ctx context.Context, query, val string) (*types.Author, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"val": val})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Author)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "a")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, err
	}

	return row.(*types.Author), nil
}
