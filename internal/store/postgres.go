package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	db, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// ResearchRecord is one completed question/answer pair. Intermediate
// evidence blocks are never stored.
type ResearchRecord struct {
	ID        string
	Query     string
	Answer    string
	CreatedAt time.Time
}

func (s *PostgresStore) SaveResearch(ctx context.Context, query, answer string) (string, error) {
	sql := `
        INSERT INTO research_history (query, answer)
        VALUES ($1, $2)
        RETURNING id;
    `
	var id string
	if err := s.db.QueryRow(ctx, sql, query, answer).Scan(&id); err != nil {
		return "", fmt.Errorf("failed to save research record: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) RecentResearch(ctx context.Context, limit int) ([]ResearchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	sql := `
        SELECT id, query, answer, created_at
        FROM research_history
        ORDER BY created_at DESC
        LIMIT $1;
    `
	rows, err := s.db.Query(ctx, sql, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list research records: %w", err)
	}
	defer rows.Close()

	var records []ResearchRecord
	for rows.Next() {
		var rec ResearchRecord
		if err := rows.Scan(&rec.ID, &rec.Query, &rec.Answer, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan research record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
