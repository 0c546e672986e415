package library

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation   = "23505"
	pgInvalidTextFormat = "22P02"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const entryColumns = `id::text, user_id, kitsu_id, title, genres, status, rating, synopsis, cover_image, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e      Entry
		status string
		rating *int16
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.KitsuID, &e.Title, &e.Genres, &status, &rating,
		&e.Synopsis, &e.CoverImage, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return Entry{}, err
	}
	e.Status = Status(status)
	if rating != nil {
		v := int(*rating)
		e.Rating = &v
	}
	return e, nil
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrAlreadyOwned
		case pgInvalidTextFormat:
			// malformed uuid in the path
			return ErrNotFound
		}
	}
	return err
}

func (r *PostgresRepo) List(ctx context.Context, userID string) ([]Entry, error) {
	const listSQL = `SELECT ` + entryColumns + ` FROM library_entries WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, listSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepo) Get(ctx context.Context, id string) (Entry, error) {
	const getSQL = `SELECT ` + entryColumns + ` FROM library_entries WHERE id = $1`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	e, err := scanEntry(r.db.QueryRow(timeoutCtx, getSQL, id))
	if err != nil {
		return Entry{}, mapPgError(err)
	}
	return e, nil
}

func (r *PostgresRepo) Create(ctx context.Context, e *Entry) error {
	const insertSQL = `
		INSERT INTO library_entries (user_id, kitsu_id, title, genres, status, rating, synopsis, cover_image)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id::text, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, insertSQL,
		e.UserID, e.KitsuID, e.Title, e.Genres, string(e.Status), e.Rating, e.Synopsis, e.CoverImage,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	return mapPgError(err)
}

func (r *PostgresRepo) UpdateProgress(ctx context.Context, id string, status Status, rating *int) (Entry, error) {
	const updateSQL = `
		UPDATE library_entries SET status = $2, rating = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + entryColumns

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	e, err := scanEntry(r.db.QueryRow(timeoutCtx, updateSQL, id, string(status), rating))
	if err != nil {
		return Entry{}, mapPgError(err)
	}
	return e, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM library_entries WHERE id = $1`, id)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
