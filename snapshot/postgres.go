package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mentai-server/models"
)

// PostgresStore keeps one snapshot row per owner in a course_snapshots table.
// Saves are upserts so every write replaces the whole object.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// InitDB initializes the PostgreSQL database connection pool
func InitDB(connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Ping the database to verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// NewPostgresStore creates the snapshot table if needed and returns the store.
// In a production environment, use a proper migration tool (e.g., golang-migrate).
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS course_snapshots (
		owner VARCHAR(255) PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := pool.Exec(context.Background(), schemaSQL); err != nil {
		return nil, fmt.Errorf("error executing snapshot schema SQL: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Save(ctx context.Context, owner string, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return fmt.Errorf("failed to serialize course snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO course_snapshots (owner, data, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (owner) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at
	`, owner, data)
	if err != nil {
		return fmt.Errorf("failed to save course snapshot for %s: %w", owner, err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, owner string) (*models.Course, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT data FROM course_snapshots WHERE owner = $1
	`, owner).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course snapshot for %s: %w", owner, err)
	}

	var course models.Course
	if err := json.Unmarshal(data, &course); err != nil {
		// Corrupt snapshot reads as absence.
		return nil, ErrNotFound
	}
	return &course, nil
}

func (s *PostgresStore) Clear(ctx context.Context, owner string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM course_snapshots WHERE owner = $1`, owner)
	if err != nil {
		return fmt.Errorf("failed to clear course snapshot for %s: %w", owner, err)
	}
	return nil
}
