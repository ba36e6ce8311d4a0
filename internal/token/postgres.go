package token

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgresLedger keeps account balances in Postgres. A transfer debits and
// credits inside one transaction; the debit carries the balance check, so a
// short account rolls the whole move back.
type PostgresLedger struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewPostgresLedger(pool *pgxpool.Pool, log zerolog.Logger) *PostgresLedger {
	return &PostgresLedger{pool: pool, log: log}
}

// EnsureSchema creates the accounts table when missing.
func (l *PostgresLedger) EnsureSchema(ctx context.Context) error {
	_, err := l.pool.Exec(ctx, stripMarker(qEnsureSchema))
	return err
}

// Credit funds an account out of band (deposits, fixtures).
func (l *PostgresLedger) Credit(ctx context.Context, account string, amount int64) error {
	if account == "" || amount <= 0 {
		return ErrInvalidTransfer
	}
	_, err := l.pool.Exec(ctx, stripMarker(qCreditAccount), account, amount)
	if err != nil {
		return fmt.Errorf("credit %s: %w", account, err)
	}
	return nil
}

func (l *PostgresLedger) Balance(ctx context.Context, account string) (int64, error) {
	var balance int64
	err := l.pool.QueryRow(ctx, stripMarker(qSelectBalance), account).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("balance %s: %w", account, err)
	}
	return balance, nil
}

func (l *PostgresLedger) Transfer(ctx context.Context, from, to string, amount int64) error {
	if from == "" || to == "" || amount <= 0 {
		return ErrInvalidTransfer
	}
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, stripMarker(qDebitAccount), from, amount)
	if err != nil {
		return fmt.Errorf("debit %s: %w", from, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientBalance
	}
	if _, err := tx.Exec(ctx, stripMarker(qCreditAccount), to, amount); err != nil {
		return fmt.Errorf("credit %s: %w", to, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transfer: %w", err)
	}
	l.log.Debug().Str("from", from).Str("to", to).Int64("amount", amount).Msg("transfer")
	return nil
}

func stripMarker(query string) string {
	trimmed := strings.TrimSpace(query)
	if _, rest, ok := strings.Cut(trimmed, "\n"); ok && strings.HasPrefix(trimmed, "--sql ") {
		return rest
	}
	return trimmed
}

var _ Transfer = (*PostgresLedger)(nil)
