package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `CREATE TABLE IF NOT EXISTS player_stats (
	player_id  TEXT PRIMARY KEY,
	wins       INTEGER NOT NULL DEFAULT 0,
	losses     INTEGER NOT NULL DEFAULT 0,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps records in the player_stats table.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to dsn, checks the connection and makes sure the
// table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("stats: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("stats: ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("stats: schema: %w", err)
	}
	return &PostgresStore{Pool: pool}, nil
}

// RecordResult bumps the winner's wins and the loser's losses in one
// transaction.
func (s *PostgresStore) RecordResult(ctx context.Context, winnerID, loserID string) error {
	if err := validatePair(winnerID, loserID); err != nil {
		return err
	}
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, upsertSQL("wins"), winnerID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, upsertSQL("losses"), loserID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Stats loads the tally for id. Unknown players have an empty record.
func (s *PostgresStore) Stats(ctx context.Context, id string) (Record, error) {
	r := Record{PlayerID: id}
	err := s.Pool.QueryRow(ctx,
		`SELECT wins, losses FROM player_stats WHERE player_id = $1`, id,
	).Scan(&r.Wins, &r.Losses)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, nil
	}
	return r, err
}

func (s *PostgresStore) Close() {
	s.Pool.Close()
}

// upsertSQL increments column for the player in $1, creating the row.
func upsertSQL(column string) string {
	return fmt.Sprintf(`INSERT INTO player_stats (player_id, %[1]s) VALUES ($1, 1)
		 ON CONFLICT (player_id) DO UPDATE SET %[1]s = player_stats.%[1]s + 1, updated_at = now()`, column)
}
