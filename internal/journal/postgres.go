package journal

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	u "zplemu/internal/utils"
)

// PostgresRecorder stores entries in the prints table.
type PostgresRecorder struct {
	db *sql.DB
}

func postgresPort(cfg u.PostgresConfig) int {
	if cfg.Port != 0 {
		return cfg.Port
	}
	return 5432
}

func postgresDSN(cfg u.PostgresConfig) (string, error) {
	if strings.HasPrefix(cfg.Host, "postgres://") || strings.HasPrefix(cfg.Host, "postgresql://") {
		return cfg.Host, nil
	}
	if cfg.Host == "" {
		return "", fmt.Errorf("postgres host is empty")
	}
	if cfg.Database == "" {
		return "", fmt.Errorf("postgres database is empty")
	}
	if cfg.User == "" {
		return "", fmt.Errorf("postgres user is empty")
	}

	hostPort := cfg.Host
	port := postgresPort(cfg)
	// Handle IPv6 or explicit host:port strings.
	if strings.HasPrefix(hostPort, "[") {
		if !strings.Contains(hostPort, "]:") {
			hostPort = fmt.Sprintf("%s:%d", hostPort, port)
		}
	} else if strings.Count(hostPort, ":") >= 2 {
		hostPort = fmt.Sprintf("[%s]:%d", hostPort, port)
	} else if !strings.Contains(hostPort, ":") {
		hostPort = fmt.Sprintf("%s:%d", hostPort, port)
	}

	dsn := &url.URL{Scheme: "postgres", Host: hostPort, Path: "/" + cfg.Database}
	if cfg.Password != "" {
		dsn.User = url.UserPassword(cfg.User, cfg.Password)
	} else {
		dsn.User = url.User(cfg.User)
	}
	q := dsn.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	dsn.RawQuery = q.Encode()
	return dsn.String(), nil
}

// OpenPostgres connects to the journal database and creates the prints table
// when missing.
func OpenPostgres(ctx context.Context, cfg u.PostgresConfig) (*PostgresRecorder, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// One row per printed label; low write volume.
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	r := &PostgresRecorder{db: db}
	if err := r.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *PostgresRecorder) ensureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ddl1 := `CREATE TABLE IF NOT EXISTS prints (
		id BIGSERIAL PRIMARY KEY,
		path TEXT NOT NULL,
		payload_bytes INTEGER NOT NULL,
		request_id TEXT NOT NULL DEFAULT '',
		printed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);`
	ddl2 := `CREATE INDEX IF NOT EXISTS idx_prints_printed_at ON prints (printed_at);`
	if _, err := r.db.ExecContext(ctx, ddl1); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, ddl2); err != nil {
		return err
	}
	return nil
}

func (r *PostgresRecorder) Record(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO prints (path, payload_bytes, request_id, printed_at) VALUES ($1, $2, $3, $4);`,
		e.Path, e.PayloadBytes, e.RequestID, e.PrintedAt)
	return err
}

func (r *PostgresRecorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT path, payload_bytes, request_id, printed_at FROM prints ORDER BY printed_at DESC, id DESC LIMIT $1;`,
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.PayloadBytes, &e.RequestID, &e.PrintedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
