package books

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcat/internal/graph"
	"bookcat/internal/types"
)

// Integration tests against a running neo4j; skipped without NEO4J_URI.
// Every node a test creates carries a uuid-derived name so parallel
// runs against a shared database cannot collide.

func testConn(t *testing.T) (*graph.Conn, Repository) {
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

	return conn, NewNeo4jRepository(conn, slog.Default())
}

func run(t *testing.T, conn *graph.Conn, cypher string, params map[string]any) {
	t.Helper()

	_, err := conn.ExecuteWrite(context.Background(), func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(context.Background(), cypher, params)
		if err != nil {
			return nil, err
		}
		_, err = result.Consume(context.Background())
		return nil, err
	})
	require.NoError(t, err)
}

// seedTaxonomy creates the genre and publisher a register needs and
// registers cleanup for them plus any tags/authors named after the run
// id.
func seedTaxonomy(t *testing.T, conn *graph.Conn, runID string) (genre, publisher string) {
	t.Helper()

	genre = "genre-" + runID
	publisher = "publisher-" + runID

	run(t, conn, "CREATE (:Genre {name: $name, name_en: $name, uuid: $uuid})",
		map[string]any{"name": genre, "uuid": uuid.NewString()})
	run(t, conn, "CREATE (:Publisher {name: $name, uuid: $uuid})",
		map[string]any{"name": publisher, "uuid": uuid.NewString()})

	t.Cleanup(func() {
		run(t, conn, `
			MATCH (n)
			WHERE (n:Genre OR n:Publisher OR n:Tag OR n:Author)
			  AND n.name CONTAINS $runID
			DETACH DELETE n`,
			map[string]any{"runID": runID})
	})

	return genre, publisher
}

func TestBookLifecycle(t *testing.T) {
	conn, repo := testConn(t)
	ctx := context.Background()

	runID := uuid.NewString()
	genre, publisher := seedTaxonomy(t, conn, runID)

	bookID := "book-" + runID
	tag := "tag-" + runID
	author := "author-" + runID

	t.Cleanup(func() { _ = repo.Delete(ctx, bookID) })

	created, err := repo.Register(ctx, types.Book{
		BookID:          bookID,
		Title:           "Таис Афинская " + runID,
		SubTitle:        "роман",
		PublicationYear: 1972,
		CreatedAt:       100,
	}, genre, []string{tag}, publisher, []string{author})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, bookID, created.BookID)

	detail, err := repo.Detail(ctx, bookID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, genre, detail.Genre)
	assert.Equal(t, publisher, detail.Publisher)
	assert.Equal(t, []string{tag}, detail.Tags)
	assert.Equal(t, []string{author}, detail.Authors)
	assert.EqualValues(t, 1972, detail.Book.PublicationYear)

	total, err := repo.SearchCount(ctx, bookID)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	rows, err := repo.Search(ctx, runID, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{author}, rows[0].Authors)

	updated, err := repo.Update(ctx, types.Book{
		BookID:    bookID,
		Title:     "Час Быка " + runID,
		CreatedAt: 100,
	}, genre, nil, publisher, []string{author})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Час Быка "+runID, updated.Title)

	detail, err = repo.Detail(ctx, bookID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Empty(t, detail.Tags, "update detached the old tags")

	require.NoError(t, repo.Delete(ctx, bookID))

	detail, err = repo.Detail(ctx, bookID)
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestRelateSharesTags(t *testing.T) {
	conn, repo := testConn(t)
	ctx := context.Background()

	runID := uuid.NewString()
	genre, publisher := seedTaxonomy(t, conn, runID)

	tag := "tag-" + runID
	first := "book-a-" + runID
	second := "book-b-" + runID

	t.Cleanup(func() {
		_ = repo.Delete(ctx, first)
		_ = repo.Delete(ctx, second)
	})

	for _, id := range []string{first, second} {
		_, err := repo.Register(ctx, types.Book{BookID: id, Title: id},
			genre, []string{tag}, publisher, []string{"author-" + runID})
		require.NoError(t, err)
	}

	related, err := repo.Relate(ctx, first)
	require.NoError(t, err)
	require.Len(t, related, 1, "the book itself must not show up")
	assert.Equal(t, second, related[0].Book.BookID)
}

func TestRegisterMissingGenre(t *testing.T) {
	conn, repo := testConn(t)
	ctx := context.Background()

	runID := uuid.NewString()
	_, publisher := seedTaxonomy(t, conn, runID)

	bookID := "book-" + runID
	t.Cleanup(func() { _ = repo.Delete(ctx, bookID) })

	created, err := repo.Register(ctx, types.Book{BookID: bookID, Title: "x"},
		"no-such-genre-"+runID, nil, publisher, nil)
	require.NoError(t, err)
	assert.Nil(t, created, "genre must pre-exist")
}

func TestRegisterDuplicateBookID(t *testing.T) {
	conn, repo := testConn(t)
	ctx := context.Background()

	runID := uuid.NewString()
	genre, publisher := seedTaxonomy(t, conn, runID)

	bookID := "book-" + runID
	t.Cleanup(func() { _ = repo.Delete(ctx, bookID) })

	_, err := repo.Register(ctx, types.Book{BookID: bookID, Title: "first"},
		genre, nil, publisher, nil)
	require.NoError(t, err)

	_, err = repo.Register(ctx, types.Book{BookID: bookID, Title: "second"},
		genre, nil, publisher, nil)
	require.Error(t, err)
	assert.True(t, graph.IsDuplicate(err))
}

func TestUpdateMissingBook(t *testing.T) {
	_, repo := testConn(t)

	updated, err := repo.Update(context.Background(),
		types.Book{BookID: "no-such-" + uuid.NewString(), Title: "x"},
		"g", nil, "p", nil)
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestDeleteMissingBook(t *testing.T) {
	_, repo := testConn(t)

	assert.NoError(t, repo.Delete(context.Background(), "no-such-"+uuid.NewString()))
}
