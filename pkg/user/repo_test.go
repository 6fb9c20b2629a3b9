package user

import (
	"context"
	"fmt"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"

	. "polithane/pkg/common"
)

var (
	userID     = "1"
	username   = "pike"
	password   = "sdfsdfsdf"
	salt       = "12345678"
	hashedPass = HashPass(password, salt)

	userCols = []string{"id", "username", "full_name", "user_type", "party_id", "avatar_url", "is_verified"}
)

func TestGetById(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewUserRepo(db)

	t.Run("should return user", func(t *testing.T) {
		expect := &User{Id: userID, Username: username, FullName: "Rob Pike", UserType: TypeMP, PartyID: "p1"}

		rows := sqlmock.NewRows(userCols).
			AddRow(expect.Id, expect.Username, expect.FullName, "mp", "p1", nil, false)

		mock.
			ExpectQuery("SELECT (.+) FROM users where id").
			WithArgs(userID).
			WillReturnRows(rows)

		gotUser, err := r.GetById(context.TODO(), userID)
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expect, gotUser)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT (.+) FROM users where id").
			WithArgs(userID).
			WillReturnError(expectedErr)
		_, err = r.GetById(context.TODO(), userID)
		assert.ErrorIs(t, err, expectedErr)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})
}

func TestRepoAdd(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	repo := NewUserRepo(db)

	t.Run("should add new user as citizen by default", func(t *testing.T) {
		testUser := &User{Username: username, Password: hashedPass, FullName: "Rob Pike"}
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(username, hashedPass, "Rob Pike", TypeCitizen).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(userID))

		addedUserId, err := repo.Add(context.TODO(), testUser)
		if err != nil {
			t.Errorf("unexpected error %s", err)
			return
		}
		assert.Equal(t, userID, addedUserId)
		assert.Equal(t, TypeCitizen, testUser.UserType)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return query error", func(t *testing.T) {
		testUser := &User{Username: username, Password: hashedPass, UserType: TypeMedia}
		expectedErr := fmt.Errorf("bad query")
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(username, hashedPass, "", TypeMedia).
			WillReturnError(expectedErr)
		_, err = repo.Add(context.TODO(), testUser)
		assert.ErrorIs(t, err, expectedErr)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should report a taken username", func(t *testing.T) {
		testUser := &User{Username: username, Password: hashedPass, UserType: TypeMedia}
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(username, hashedPass, "", TypeMedia).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})
		_, err = repo.Add(context.TODO(), testUser)
		assert.ErrorIs(t, err, ErrUserExists)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return empty id error", func(t *testing.T) {
		testUser := &User{Username: username, Password: hashedPass, UserType: TypeMedia}
		mock.
			ExpectQuery("INSERT INTO users").
			WithArgs(username, hashedPass, "", TypeMedia).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(""))
		_, err = repo.Add(context.TODO(), testUser)
		assert.ErrorContains(t, err, "user wasn't added")
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})
}

func TestGetByUsernameAndPass(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)
	expect := &User{Id: userID, Username: username, UserType: TypeCitizen, Password: hashedPass}

	rowsWithPass := func(pass []byte) *sqlmock.Rows {
		return sqlmock.NewRows(append(userCols, "password")).
			AddRow(expect.Id, expect.Username, "", "citizen", nil, nil, false, pass)
	}

	t.Run("should return user", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT (.+) FROM users where username").
			WithArgs(username).
			WillReturnRows(rowsWithPass(hashedPass))

		gotUser, err := r.GetByUsernameAndPass(context.TODO(), username, password)
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expect, gotUser)
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations unfulfilled: %s", err)
			return
		}
	})

	t.Run("should return error: bad password", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT (.+) FROM users where username").
			WithArgs(username).
			WillReturnRows(rowsWithPass(hashedPass))
		_, err := r.GetByUsernameAndPass(context.TODO(), username, "badpassword")
		assert.ErrorContains(t, err, "password is invalid")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return error: malformed hash", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT (.+) FROM users where username").
			WithArgs(username).
			WillReturnRows(rowsWithPass([]byte("abc")))
		_, err := r.GetByUsernameAndPass(context.TODO(), username, password)
		assert.ErrorContains(t, err, "malformed")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return error: DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT (.+) FROM users where username").
			WithArgs(username).
			WillReturnError(expectedErr)
		_, err = r.GetByUsernameAndPass(context.TODO(), username, password)
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	t.Run("should return true", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow(userID)
		mock.
			ExpectQuery("SELECT id FROM users where").
			WithArgs(username).
			WillReturnRows(rows)
		assert.True(t, r.UserExists(context.TODO(), username))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return false", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT id FROM users where").
			WithArgs(username).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		assert.False(t, r.UserExists(context.TODO(), username))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	t.Run("should return users", func(t *testing.T) {
		rows := sqlmock.NewRows(userCols)
		expectedUsers := []*User{
			{Id: "1", Username: "user1", UserType: TypeMP},
			{Id: "2", Username: "user2", UserType: TypeMedia, Avatar: "https://cdn/a.png"},
			{Id: "3", Username: "user3", UserType: TypeCitizen, Verified: true},
		}
		for _, u := range expectedUsers {
			var avatar interface{}
			if u.Avatar != "" {
				avatar = u.Avatar
			}
			rows.AddRow(u.Id, u.Username, "", string(u.UserType), nil, avatar, u.Verified)
		}
		mock.
			ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(rows)
		gotUsers, err := r.GetAll(context.TODO())
		if err != nil {
			t.Errorf("unexpected err: %s", err)
			return
		}
		assert.Equal(t, expectedUsers, gotUsers)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return DB error", func(t *testing.T) {
		expectedErr := fmt.Errorf("mock_db_error")
		mock.
			ExpectQuery("SELECT (.+) FROM users").
			WillReturnError(expectedErr)
		_, err = r.GetAll(context.TODO())
		assert.ErrorIs(t, err, expectedErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should return scan rows error", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id"}).AddRow("2")
		mock.
			ExpectQuery("SELECT (.+) FROM users").
			WillReturnRows(rows)
		_, err = r.GetAll(context.TODO())
		assert.ErrorContains(t, err, "scan")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFollow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()
	r := NewUserRepo(db)

	t.Run("should insert follow", func(t *testing.T) {
		mock.
			ExpectExec("INSERT INTO follows").
			WithArgs("1", "2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, r.Follow(context.TODO(), "1", "2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should reject self follow", func(t *testing.T) {
		assert.ErrorIs(t, r.Follow(context.TODO(), "1", "1"), ErrSelfFollow)
	})

	t.Run("should delete follow", func(t *testing.T) {
		mock.
			ExpectExec("DELETE FROM follows").
			WithArgs("1", "2").
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, r.Unfollow(context.TODO(), "1", "2"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("should count follows", func(t *testing.T) {
		mock.
			ExpectQuery("SELECT").
			WithArgs("1").
			WillReturnRows(sqlmock.NewRows([]string{"followers", "following"}).AddRow(10, 3))
		followers, following, err := r.FollowCounts(context.TODO(), "1")
		assert.NoError(t, err)
		assert.Equal(t, 10, followers)
		assert.Equal(t, 3, following)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("cant create mock: %s", err)
	}
	defer db.Close()

	r := NewUserRepo(db)

	mock.
		ExpectQuery("SELECT (.+) FROM users where username").
		WithArgs(username).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(userID, username, "Rob Pike", "media", nil, "https://cdn/p.png", true))
	u, err := r.GetByUsername(context.TODO(), username)
	assert.NoError(t, err)
	assert.Equal(t, TypeMedia, u.UserType)
	assert.Equal(t, "https://cdn/p.png", u.Avatar)
	assert.True(t, u.Verified)

	mock.
		ExpectQuery("SELECT (.+) FROM users where username").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))
	_, err = r.GetByUsername(context.TODO(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations unfulfilled: %s", err)
	}
}
