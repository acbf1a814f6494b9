package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/joho/godotenv/autoload"

	"bookcat/internal/auth"
	"bookcat/internal/graph"
	"bookcat/internal/logger"
	"bookcat/internal/response"
	"bookcat/internal/server"
	"bookcat/internal/storage/authors"
	"bookcat/internal/storage/books"
	"bookcat/internal/storage/genres"
	"bookcat/internal/storage/publishers"
	"bookcat/internal/storage/tags"
	"bookcat/internal/storage/users"
)

func getEnvOrDefault(key, default_ string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}

	return default_
}

func getBoolEnv(key string) bool {
	if val := strings.ToLower(os.Getenv(key)); val == "yes" || val == "on" || val == "true" {
		return true
	}

	return false
}

var (
	logLevel   = strings.ToLower(getEnvOrDefault("LOG_LEVEL", "debug"))
	neo4jUri   = getEnvOrDefault("NEO4J_URI", "bolt://localhost:7687")
	neo4jUser  = getEnvOrDefault("NEO4J_USERNAME", "neo4j")
	neo4jPass  = os.Getenv("NEO4J_PASSWORD")
	bindAddr   = getEnvOrDefault("BIND_ADDR", ":8080")
	debugMode  = getBoolEnv("DEBUG_MODE")
	sessionKey = os.Getenv("SESSION_KEY")
	uploadDir  = getEnvOrDefault("UPLOAD_DIR", "uploads")
)

func main() {
	_, thisFile, _, _ := runtime.Caller(0)

	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(logLevel))
	if err != nil {
		lvl = slog.LevelDebug
	}
	logger.SetupSLog(lvl, path.Dir(path.Dir(path.Dir(thisFile))), middleware.RequestIDKey)

	if err != nil {
		slog.Error("Invalid log level specified in LOG_LEVEL, one of debug, info, warn or error expected")
		os.Exit(1)
	}

	sessions, err := auth.NewSessions(sessionKey)
	if err != nil {
		slog.Error("Invalid SESSION_KEY: " + err.Error())
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = conn.VerifyConnectivity(ctx); err != nil {
		slog.Error("Failed to reach neo4j: " + err.Error())
		os.Exit(1)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir)))
	r.Get("/uploads/*", fileServer.ServeHTTP)

	r.Mount("/api", server.Handler(&server.Deps{
		Books:      books.NewNeo4jRepository(conn, slog.Default()),
		Authors:    authors.NewNeo4jRepository(conn, slog.Default()),
		Genres:     genres.NewNeo4jRepository(conn, slog.Default()),
		Tags:       tags.NewNeo4jRepository(conn, slog.Default()),
		Publishers: publishers.NewNeo4jRepository(conn, slog.Default()),
		Users:      users.NewNeo4jRepository(conn, slog.Default()),
		Sessions:   sessions,
		Responder:  &response.Responder{DebugMode: debugMode},
		UploadDir:  uploadDir,
	}))

	srv := &http.Server{Addr: bindAddr, Handler: r}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed graceful shutdown: " + err.Error())
		}

		if err := conn.Close(shutdownCtx); err != nil {
			slog.Error("Failed to close neo4j driver: " + err.Error())
		}
	}()

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		slog.Error("aborting: " + err.Error())
		os.Exit(1)
	}
}
