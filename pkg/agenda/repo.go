package agenda

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const agendaColumns = "id, title, slug, polit_score, is_trending, created_at"

type AgendaRepo struct {
	db *sql.DB
}

func NewAgendaRepo(db *sql.DB) *AgendaRepo {
	return &AgendaRepo{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAgenda(row rowScanner) (*Agenda, error) {
	a := new(Agenda)
	err := row.Scan(&a.Id, &a.Title, &a.Slug, &a.PolitScore, &a.IsTrending, &a.Created)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AgendaRepo) query(ctx context.Context, q string, args ...interface{}) ([]*Agenda, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("agenda/repo: query failed: %w", err)
	}
	defer rows.Close()

	agendas := []*Agenda{}
	for rows.Next() {
		a, err := scanAgenda(rows)
		if err != nil {
			return nil, fmt.Errorf("agenda/repo: could not scan row: %w", err)
		}
		agendas = append(agendas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("agenda/repo: rows iteration failed: %w", err)
	}
	return agendas, nil
}

// List returns up to limit agendas, highest Polit Score first.
func (r *AgendaRepo) List(ctx context.Context, limit int) ([]*Agenda, error) {
	return r.query(ctx,
		"SELECT "+agendaColumns+" FROM agendas ORDER BY polit_score DESC, created_at DESC LIMIT $1", limit)
}

// Trending is List restricted to agendas flagged as trending.
func (r *AgendaRepo) Trending(ctx context.Context, limit int) ([]*Agenda, error) {
	return r.query(ctx,
		"SELECT "+agendaColumns+" FROM agendas WHERE is_trending ORDER BY polit_score DESC, created_at DESC LIMIT $1", limit)
}

func (r *AgendaRepo) GetBySlug(ctx context.Context, slug string) (*Agenda, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+agendaColumns+" FROM agendas WHERE slug=$1", slug)
	a, err := scanAgenda(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("agenda/repo: could not scan row: %w", err)
	}
	return a, nil
}

// Add stores a and fills in its id and creation time.
func (r *AgendaRepo) Add(ctx context.Context, a *Agenda) (string, error) {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO agendas(title, slug, polit_score, is_trending) VALUES($1, $2, $3, $4) RETURNING id, created_at",
		a.Title, a.Slug, a.PolitScore, a.IsTrending,
	).Scan(&a.Id, &a.Created)
	if err != nil {
		return ``, fmt.Errorf("agenda/repo: agenda wasn't added: %w", err)
	}
	return a.Id, nil
}
