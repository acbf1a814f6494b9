package users

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"bookcat/internal/auth"
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

func fromNode(node neo4j.Node) *types.User {
	return &types.User{
		Email: graph.StringProp(node, "email"),
		Name:  graph.StringProp(node, "name"),
	}
}

func (p *neoRepo) Register(ctx context.Context, email, plainPassword, name string) (*types.User, error) {
	encrypted, err := auth.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	row, err := p.db.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			CREATE (u:User {
				userId: randomUuid(),
				email: $email,
				password: $encrypted,
				name: $name
			})
			RETURN u`,
			map[string]any{"email": email, "encrypted": encrypted, "name": name})
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		node, _ := graph.NodeValue(record, "u")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, graph.TranslateConstraintError(err)
	}

	return row.(*types.User), nil
}

func (p *neoRepo) Authenticate(ctx context.Context, email, plainPassword string) (*types.User, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (u:User {email: $email}) RETURN u",
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.User)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "u")
		return node, nil
	})
	if err != nil {
		return nil, err
	}

	node, ok := row.(neo4j.Node)
	if !ok {
		// Unknown email and bad password are the same outcome.
		return nil, nil
	}

	if !auth.VerifyPassword(graph.StringProp(node, "password"), plainPassword) {
		return nil, nil
	}

	return fromNode(node), nil
}

func (p *neoRepo) Find(ctx context.Context, email string) (*types.User, error) {
	row, err := p.db.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx,
			"MATCH (u:User {email: $email}) RETURN u",
			map[string]any{"email": email})
		if err != nil {
			return nil, err
		}

		records, err := result.Collect(ctx)
		if err != nil || len(records) == 0 {
			return (*types.User)(nil), err
		}

		node, _ := graph.NodeValue(records[0], "u")
		return fromNode(node), nil
	})
	if err != nil {
		return nil, err
	}

	return row.(*types.User), nil
}
