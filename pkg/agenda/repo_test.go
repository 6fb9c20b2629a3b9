package agenda

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	agendaCols = []string{"id", "title", "slug", "polit_score", "is_trending", "created_at"}
	created    = time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
)

func TestList(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewAgendaRepo(db)

	t.Run("should return agendas", func(t *testing.T) {
		rows := sqlmock.NewRows(agendaCols).
			AddRow("1", "Ekonomi", "ekonomi", 940.5, true, created).
			AddRow("2", "Eğitim", "egitim", 310.0, false, created)
		mock.
			ExpectQuery("SELECT (.+) FROM agendas ORDER BY polit_score DESC").
			WithArgs(5).
			WillReturnRows(rows)

		got, err := r.List(context.TODO(), 5)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, &Agenda{Id: "1", Title: "Ekonomi", Slug: "ekonomi", PolitScore: 940.5, IsTrending: true, Created: created}, got[0])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return empty slice", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT (.+) FROM agendas WHERE is_trending").
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(agendaCols))

		got, err := r.Trending(context.TODO(), 3)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT (.+) FROM agendas").
			WithArgs(5).
			WillReturnError(expectedErr)

		_, err := r.List(context.TODO(), 5)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewAgendaRepo(db)

	mock.
		ExpectQuery("SELECT (.+) FROM agendas WHERE slug").
		WithArgs("ekonomi").
		WillReturnRows(sqlmock.NewRows(agendaCols).AddRow("1", "Ekonomi", "ekonomi", 940.5, true, created))
	a, err := r.GetBySlug(context.TODO(), "ekonomi")
	require.NoError(t, err)
	assert.Equal(t, "Ekonomi", a.Title)

	mock.
		ExpectQuery("SELECT (.+) FROM agendas WHERE slug").
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	_, err = r.GetBySlug(context.TODO(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewAgendaRepo(db)
	a := &Agenda{Title: "Ekonomi", Slug: "ekonomi", PolitScore: 12}

	mock.
		ExpectQuery("INSERT INTO agendas").
		WithArgs("Ekonomi", "ekonomi", 12.0, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("7", created))

	id, err := r.Add(context.TODO(), a)
	require.NoError(t, err)
	assert.Equal(t, "7", id)
	assert.Equal(t, "7", a.Id)
	assert.Equal(t, created, a.Created)
	assert.NoError(t, mock.ExpectationsWereMet())
}
