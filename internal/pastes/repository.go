package pastes

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/PabloPavan/pastebox/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlPasteInsert = `INSERT INTO pastes (id, title, content, language, is_private, password_hash, expires_at, view_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING created_at;`

	sqlPasteSelectByID = `SELECT id, title, content, language, is_private, password_hash, view_count, created_at, expires_at
		FROM pastes
		WHERE id = $1
		LIMIT 1;`

	sqlPasteIncrementViews = `UPDATE pastes
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count;`

	sqlPasteListRecent = `SELECT id, title, language, view_count, created_at
		FROM pastes
		WHERE is_private = false AND (expires_at IS NULL OR expires_at > now())
		ORDER BY created_at DESC
		LIMIT $1;`

	sqlPasteDeleteExpired = `DELETE FROM pastes
		WHERE expires_at IS NOT NULL AND expires_at < now();`
)

func (r *Repository) Create(ctx context.Context, p *Paste) error {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	return r.base.Q().QueryRow(ctx, sqlPasteInsert,
		p.ID,
		nullIfEmpty(p.Title),
		p.Content,
		p.Language,
		p.IsPrivate,
		nullIfEmpty(p.PasswordHash),
		p.ExpiresAt,
	).Scan(&p.CreatedAt)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*Paste, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	var p Paste
	var title, passwordHash sql.NullString
	err := r.base.Q().QueryRow(ctx, sqlPasteSelectByID, id).Scan(
		&p.ID,
		&title,
		&p.Content,
		&p.Language,
		&p.IsPrivate,
		&passwordHash,
		&p.ViewCount,
		&p.CreatedAt,
		&p.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Title = title.String
	p.PasswordHash = passwordHash.String
	p.HasPassword = passwordHash.String != ""
	return &p, nil
}

// IncrementViews bumps the counter in a single statement so concurrent
// fetches cannot lose updates. Returns the new count.
func (r *Repository) IncrementViews(ctx context.Context, id string) (int64, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	var count int64
	if err := r.base.Q().QueryRow(ctx, sqlPasteIncrementViews, id).Scan(&count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return count, nil
}

func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlPasteListRecent, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]Summary, 0, limit)
	for rows.Next() {
		var s Summary
		var title sql.NullString
		if err := rows.Scan(
			&s.ID,
			&title,
			&s.Language,
			&s.ViewCount,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}
		s.Title = title.String
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteExpired reclaims storage for pastes past their expiry. Fetch-time
// checks remain authoritative, so missing a sweep never exposes content.
func (r *Repository) DeleteExpired(ctx context.Context) (int64, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	tag, err := r.base.Q().Exec(ctx, sqlPasteDeleteExpired)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
