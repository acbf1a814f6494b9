package publishers

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

func fromNode(node neo4j.Node) *types.Publisher {
	return &types.Publisher{
		Name: graph.StringProp(node, "name"),
		UUID: graph.StringProp(node, "uuid"),
	}
}

func (p *neoRepo) All(ctx context.Context) ([]*types.Publisher, error) {
	rows, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, "MATCH (p:Publisher) RETURN p ORDER BY p.name ASC", nil)
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}

		out := make([]*types.Publisher, 0, len(records))
		for _, record := range records {
			if node, ok := graph.NodeValue(record, "p"); ok {
				out = append(out, fromNode(node))
			}
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	return rows.([]*types.Publisher), nil
}

func (p *neoRepo) Register(ctx context.Context, name, uuid string) (*types.Publisher, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"CREATE (p:Publisher {name: $name, uuid: $uuid}) RETURN p",
			map[string]any{"name": name, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		node, _ := graph.NodeValue(record, "p")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Publisher), nil
}

func (p *neoRepo) Update(ctx context.Context, name, uuid string) (*types.Publisher, error) {
	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (p:Publisher {uuid: $uuid}) SET p.name = $name RETURN p",
			map[string]any{"name": name, "uuid": uuid})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Publisher)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "p")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.Publisher), nil
}

func (p *neoRepo) Delete(ctx context.Context, uuid string) error {
	_, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (p:Publisher {uuid: $uuid}) DETACH DELETE p",
			map[string]any{"uuid": uuid})
		if err != nil {
			return nil, err
		}

		_, err = result.Consume(ctx)
		return nil, err
	})

	return err
}

func (p *neoRepo) Find(ctx context.Context, uuid string) (*types.Publisher, error) {
	return p.findBy(ctx, "MATCH (p:Publisher {uuid: $val}) RETURN p", uuid)
}

func (p *neoRepo) FindByName(ctx context.Context, name string) (*types.Publisher, error) {
	return p.findBy(ctx, "MATCH (p:Publisher {name: $val}) RETURN p", name)
}

func (p *neoRepo) findBy(ctx context.Context, query, val string) (*types.Publisher, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, map[string]any{"val": val})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.Publisher)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "p")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, err
	}

	return row.(*types.Publisher), nil
}
