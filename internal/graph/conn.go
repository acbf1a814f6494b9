package graph

import (
	"context"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	neoconfig "github.com/neo4j/neo4j-go-driver/v5/neo4j/config"
	neolog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

type Config struct {
	URI      string
	Username string
	Password string

	// Log receives the driver's own chatter; nil leaves the driver
	// silent (its default).
	Log neolog.Logger
}

// Conn owns the driver (and with it the connection pool). It is created
// once at startup, passed to the repositories, and closed at shutdown.
type Conn struct {
	driver neo4j.DriverWithContext
	l      *slog.Logger
}

// Connect builds the driver without touching the network; a bad URI
// fails here, missing credentials only fail on first use.
func Connect(cfg Config, l *slog.Logger) (*Conn, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
		func(c *neoconfig.Config) {
			if cfg.Log != nil {
				c.Log = cfg.Log
			}
		})
	if err != nil {
		return nil, err
	}

	return &Conn{driver: driver, l: l}, nil
}

func (c *Conn) VerifyConnectivity(ctx context.Context) error {
	return c.driver.VerifyConnectivity(ctx)
}

func (c *Conn) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// ExecuteRead runs work in a managed read transaction on a session
// scoped to this call. Commit, rollback and retries are the driver's
// business; errors come back untranslated.
func (c *Conn) ExecuteRead(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, work)
}

// ExecuteWrite runs work in a managed write transaction, session scoped
// to this call.
func (c *Conn) ExecuteWrite(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, work)
}

// EnsureConstraints applies schema statements one by one. Statements are
// expected to carry IF NOT EXISTS so reruns are harmless.
func (c *Conn) EnsureConstraints(ctx context.Context, statements []string) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range statements {
		c.l.Debug("Applying schema statement", slog.String("cypher", stmt))

		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return err
		}
	}

	return nil
}
