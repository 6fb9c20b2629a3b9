package fast

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const fastColumns = "id, user_id, media_url, content_type, created_at, expires_at"

type FastRepo struct {
	db *sql.DB
}

func NewFastRepo(db *sql.DB) *FastRepo {
	return &FastRepo{
		db: db,
	}
}

// Add stores f. Missing id and creation time are filled in and the expiry is
// always Created + 24h.
func (r *FastRepo) Add(ctx context.Context, f *Fast) (string, error) {
	if f.Id == "" {
		f.Id = uuid.NewString()
	}
	if f.Created.IsZero() {
		f.Created = time.Now()
	}
	f.ExpiresAt = f.Created.Add(Lifetime)

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO fasts(id, user_id, media_url, content_type, created_at, expires_at) VALUES($1, $2, $3, $4, $5, $6)",
		f.Id, f.UserId, f.MediaURL, f.ContentType, f.Created, f.ExpiresAt,
	)
	if err != nil {
		return ``, fmt.Errorf("fast/repo: fast wasn't added: %w", err)
	}
	return f.Id, nil
}

// ListActive returns fasts not yet expired at now, newest first.
func (r *FastRepo) ListActive(ctx context.Context, now time.Time) ([]*Fast, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+fastColumns+" FROM fasts WHERE expires_at > $1 ORDER BY created_at DESC", now)
	if err != nil {
		return nil, fmt.Errorf("fast/repo: failed executing query for active fasts: %w", err)
	}
	defer rows.Close()

	fasts := []*Fast{}
	for rows.Next() {
		f := new(Fast)
		if err := rows.Scan(&f.Id, &f.UserId, &f.MediaURL, &f.ContentType, &f.Created, &f.ExpiresAt); err != nil {
			return nil, fmt.Errorf("fast/repo: could not scan row: %w", err)
		}
		fasts = append(fasts, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fast/repo: rows iteration failed: %w", err)
	}
	return fasts, nil
}

// DeleteExpired removes every fast expired at now and reports how many.
func (r *FastRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM fasts WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("fast/repo: failed deleting expired fasts: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("fast/repo: can't count deleted fasts: %w", err)
	}
	return n, nil
}
