package users

import (
	"context"

	"bookcat/internal/types"
)

type Repository interface {
	// Register hashes the password and creates the user; a duplicate
	// email comes back as graph.DuplicateError.
	Register(ctx context.Context, email, plainPassword, name string) (*types.User, error)

	// Authenticate returns (nil, nil) both when no user exists for the
	// email and when the password does not verify, so callers cannot
	// tell which emails are registered. The user record comes back only
	// on success.
	Authenticate(ctx context.Context, email, plainPassword string) (*types.User, error)

	Find(ctx context.Context, email string) (*types.User, error)
}
