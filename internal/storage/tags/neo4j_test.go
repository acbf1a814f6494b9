package tags

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcat/internal/graph"
)

// Integration tests against a running neo4j; skipped without NEO4J_URI.

func testRepo(t *testing.T) Repository {
	t.Helper()

	uri := os.Getenv("NEO4J_URI")
	if uri == "" {
		t.Skip("NEO4J_URI not set")
	}

	conn, err := graph.Connect(graph.Config{
		URI:      uri,
		Username: os.Getenv("NEO4J_USERNAME"),
		Password: os.Getenv("NEO4J_PASSWORD"),
	}, slog.Default())
	require.NoError(t, err)

	t.Cleanup(func() { _ = conn.Close(context.Background()) })

	return NewNeo4jRepository(conn, slog.Default())
}

func TestTagLifecycle(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id := uuid.NewString()
	name := "tag-" + id

	t.Cleanup(func() { _ = repo.Delete(ctx, id) })

	created, err := repo.Register(ctx, name, id)
	require.NoError(t, err)
	assert.Equal(t, name, created.Name)
	assert.Equal(t, id, created.UUID)

	found, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, name, found.Name)

	byName, err := repo.FindByName(ctx, name)
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, id, byName.UUID)

	updated, err := repo.Update(ctx, name+"-renamed", id)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, name+"-renamed", updated.Name)

	require.NoError(t, repo.Delete(ctx, id))

	gone, err := repo.Find(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRegisterDuplicateName(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	id := uuid.NewString()
	name := "tag-" + id

	t.Cleanup(func() { _ = repo.Delete(ctx, id) })

	_, err := repo.Register(ctx, name, id)
	require.NoError(t, err)

	_, err = repo.Register(ctx, name, uuid.NewString())
	require.Error(t, err)
	assert.True(t, graph.IsDuplicate(err))

	var dup *graph.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "name", dup.Field)

	// The first tag is untouched.
	first, err := repo.Find(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, name, first.Name)
}

func TestUpdateMissingTag(t *testing.T) {
	repo := testRepo(t)

	updated, err := repo.Update(context.Background(), "whatever", uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteMissingTag(t *testing.T) {
	repo := testRepo(t)

	assert.NoError(t, repo.Delete(context.Background(), uuid.NewString()))
}
