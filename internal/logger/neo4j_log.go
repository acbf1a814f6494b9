package logger

import (
	"context"
	"fmt"
	"log/slog"

	neolog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

// NewNeo4jLogger bridges the Neo4j driver's logging interface into
// slog. Driver info/debug chatter lands on debug level, warnings and
// errors keep theirs.
func NewNeo4jLogger() neolog.Logger {
	return &neoLogger{l: slog.Default()}
}

type neoLogger struct {
	l *slog.Logger
}

func (n *neoLogger) Error(name string, id string, err error) {
	n.log(slog.LevelError, name, id, err.Error())
}

func (n *neoLogger) Warnf(name string, id string, msg string, args ...any) {
	n.log(slog.LevelWarn, name, id, fmt.Sprintf(msg, args...))
}

func (n *neoLogger) Infof(name string, id string, msg string, args ...any) {
	n.log(slog.LevelDebug, name, id, fmt.Sprintf(msg, args...))
}

func (n *neoLogger) Debugf(name string, id string, msg string, args ...any) {
	n.log(slog.LevelDebug, name, id, fmt.Sprintf(msg, args...))
}

func (n *neoLogger) log(lvl slog.Level, name, id, msg string) {
	ctx := context.Background()

	if !n.l.Enabled(ctx, lvl) {
		return
	}

	n.l.LogAttrs(ctx, lvl, msg,
		slog.String("component", name),
		slog.String("conn_id", id),
	)
}
