package main

import (
	"context"
	"log/slog"
	"os"
	"path"
	"runtime"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"bookcat/internal/graph"
	"bookcat/internal/logger"
	"bookcat/internal/storage/users"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

var (
	logLevel  = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	neo4jUri  = getEnvOrDefault("NEO4J_URI", "bolt://localhost:7687")
	neo4jUser = getEnvOrDefault("NEO4J_USERNAME", "neo4j")
	neo4jPass = os.Getenv("NEO4J_PASSWORD")

	adminEmail    = os.Getenv("ADMIN_EMAIL")
	adminPassword = os.Getenv("ADMIN_PASSWORD")
	adminName     = getEnvOrDefault("ADMIN_NAME", "Administrator")
)

// Uniqueness constraints the repositories rely on: without them a
// concurrent register could slip in a duplicate, and constraint
// violations would never surface as validation errors.
var constraints = []string{
	"CREATE CONSTRAINT book_id_unique IF NOT EXISTS FOR (b:Book) REQUIRE b.book_id IS UNIQUE",
	"CREATE CONSTRAINT author_name_unique IF NOT EXISTS FOR (a:Author) REQUIRE a.name IS UNIQUE",
	"CREATE CONSTRAINT author_uuid_unique IF NOT EXISTS FOR (a:Author) REQUIRE a.uuid IS UNIQUE",
	"CREATE CONSTRAINT genre_name_unique IF NOT EXISTS FOR (g:Genre) REQUIRE g.name IS UNIQUE",
	"CREATE CONSTRAINT genre_name_en_unique IF NOT EXISTS FOR (g:Genre) REQUIRE g.name_en IS UNIQUE",
	"CREATE CONSTRAINT genre_uuid_unique IF NOT EXISTS FOR (g:Genre) REQUIRE g.uuid IS UNIQUE",
	"CREATE CONSTRAINT tag_name_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE",
	"CREATE CONSTRAINT tag_uuid_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.uuid IS UNIQUE",
	"CREATE CONSTRAINT publisher_name_unique IF NOT EXISTS FOR (p:Publisher) REQUIRE p.name IS UNIQUE",
	"CREATE CONSTRAINT publisher_uuid_unique IF NOT EXISTS FOR (p:Publisher) REQUIRE p.uuid IS UNIQUE",
	"CREATE CONSTRAINT user_email_unique IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE",
}

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelDebug
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), struct{}{})

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	conn, err := graph.Connect(graph.Config{
		URI:      neo4jUri,
		Username: neo4jUser,
		Password: neo4jPass,
		Log:      logger.NewNeo4jLogger(),
	}, slog.Default())
	if err != nil {
		slog.Error("Failed to create neo4j driver: " + err.Error())
		os.Exit(1)
	}

	ctx := context.Background()
	defer func() {
		if err := conn.Close(ctx); err != nil {
			slog.Error("Failed to close neo4j driver: " + err.Error())
		}
	}()

	if err = conn.VerifyConnectivity(ctx); err != nil {
		slog.Error("Failed to reach neo4j: " + err.Error())
		os.Exit(1)
	}

	if err := conn.EnsureConstraints(ctx, constraints); err != nil {
		slog.Error("Failed to create constraints: " + err.Error())
		os.Exit(1)
	}

	slog.Info("Constraints in place")

	if adminEmail == "" || adminPassword == "" {
		slog.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin user")
		return
	}

	repo := users.NewNeo4jRepository(conn, slog.Default())

	if existing, err := repo.Find(ctx, adminEmail); err != nil {
		slog.Error("Failed to look up admin user: " + err.Error())
		os.Exit(1)
	} else if existing != nil {
		slog.Info("Admin user already registered: " + adminEmail)
		return
	}

	if _, err := repo.Register(ctx, adminEmail, adminPassword, adminName); err != nil {
		slog.Error("Failed to register admin user: " + err.Error())
		os.Exit(1)
	}

	slog.Info("Registered admin user " + adminEmail)
}
