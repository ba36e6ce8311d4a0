package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// querier is the subset of pgx shared by pgxpool.Pool and pgx.Tx, so the same
// store code serves both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres is the durable Store. Records live in a single table keyed by
// (kind, id) with a jsonb value; every write refreshes the expiry horizon
// when a TTL is configured, and PurgeExpired drops rows past it.
type Postgres struct {
	db   querier
	pool *pgxpool.Pool // nil when this instance wraps an open transaction
	log  zerolog.Logger
	ttl  time.Duration // zero disables expiry
}

// NewPostgres wraps a pgx pool. ttl <= 0 stores records without expiry.
func NewPostgres(pool *pgxpool.Pool, log zerolog.Logger, ttl time.Duration) *Postgres {
	return &Postgres{db: pool, pool: pool, log: log, ttl: ttl}
}

// EnsureSchema creates the records table when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.exec(ctx, qEnsureSchema)
	return err
}

func (p *Postgres) Get(ctx context.Context, key Key, dest any) error {
	row, err := p.queryRow(ctx, qGetRecord, string(key.Kind), key.ID())
	if err != nil {
		return err
	}
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNoRecord
		}
		return fmt.Errorf("get %s record: %w", key.Kind, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode %s record: %w", key.Kind, err)
	}
	return nil
}

func (p *Postgres) Set(ctx context.Context, key Key, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", key.Kind, err)
	}
	var expires *time.Time
	if p.ttl > 0 {
		t := time.Now().Add(p.ttl)
		expires = &t
	}
	if _, err := p.exec(ctx, qSetRecord, string(key.Kind), key.ID(), raw, expires); err != nil {
		return fmt.Errorf("set %s record: %w", key.Kind, err)
	}
	return nil
}

func (p *Postgres) Has(ctx context.Context, key Key) (bool, error) {
	row, err := p.queryRow(ctx, qHasRecord, string(key.Kind), key.ID())
	if err != nil {
		return false, err
	}
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s record: %w", key.Kind, err)
	}
	return exists, nil
}

func (p *Postgres) Remove(ctx context.Context, key Key) error {
	if _, err := p.exec(ctx, qRemoveRecord, string(key.Kind), key.ID()); err != nil {
		return fmt.Errorf("remove %s record: %w", key.Kind, err)
	}
	return nil
}

func (p *Postgres) ListKeys(ctx context.Context, kind Kind) ([]Key, error) {
	marker, sql, err := extractMarker(qListRecordIDs)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Msgf("sql[%s] query", marker)
	rows, err := p.db.Query(ctx, sql, string(kind))
	if err != nil {
		p.log.Error().Err(err).Msgf("sql[%s] error", marker)
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	defer rows.Close()

	var keys []Key
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list %s records: %w", kind, err)
		}
		key := Key{Kind: kind}
		if id != "" {
			key.Parts = strings.Split(id, "\x1f")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s records: %w", kind, err)
	}
	return keys, nil
}

// Atomic runs fn inside one database transaction. Nested calls reuse the
// transaction already in flight.
func (p *Postgres) Atomic(ctx context.Context, fn func(Store) error) error {
	if p.pool == nil {
		return fn(p)
	}
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	scoped := &Postgres{db: tx, log: p.log, ttl: p.ttl}
	if err := fn(scoped); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// PurgeExpired removes records whose lifetime was never extended. Returns the
// number of rows dropped.
func (p *Postgres) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := p.exec(ctx, qPurgeExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, sql, err := extractMarker(query)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	p.log.Debug().Msgf("sql[%s] exec", marker)
	tag, err := p.db.Exec(ctx, sql, args...)
	if err != nil {
		p.log.Error().Err(err).Msgf("sql[%s] error", marker)
	}
	return tag, err
}

func (p *Postgres) queryRow(ctx context.Context, query string, args ...any) (pgx.Row, error) {
	marker, sql, err := extractMarker(query)
	if err != nil {
		return nil, err
	}
	p.log.Debug().Msgf("sql[%s] query_row", marker)
	return p.db.QueryRow(ctx, sql, args...), nil
}

// extractMarker splits the "--sql <uuid>" first line off an inline query.
func extractMarker(query string) (string, string, error) {
	trimmed := strings.TrimSpace(query)
	line, rest, ok := strings.Cut(trimmed, "\n")
	if !ok || !strings.HasPrefix(line, "--sql ") {
		return "", "", errors.New("sql marker missing")
	}
	return strings.TrimPrefix(strings.TrimSpace(line), "--sql "), rest, nil
}

var _ Store = (*Postgres)(nil)
var _ Store = (*Memory)(nil)
