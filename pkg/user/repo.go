package user

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	_ "github.com/jackc/pgx/v4/stdlib"

	"polithane/pkg/common"
	"polithane/pkg/logger"
)

const uniqueViolation = "23505"

var (
	ErrNotFound   = errors.New("user/repo: user not found")
	ErrUserExists = errors.New("user/repo: username is taken")
	ErrSelfFollow = errors.New("user/repo: users can't follow themselves")
)

const userColumns = "id, username, full_name, user_type, party_id, avatar_url, is_verified"

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner, extra ...interface{}) (*User, error) {
	u := new(User)
	var partyID, avatar sql.NullString
	dest := []interface{}{&u.Id, &u.Username, &u.FullName, &u.UserType, &partyID, &avatar, &u.Verified}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	u.PartyID = partyID.String
	u.Avatar = avatar.String
	return u, nil
}

func (r *UserRepo) Add(ctx context.Context, u *User) (string, error) {
	if u.UserType == "" {
		u.UserType = TypeCitizen
	}
	var id string
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users(username, password, full_name, user_type) VALUES($1, $2, $3, $4) RETURNING id",
		u.Username, u.Password, u.FullName, u.UserType,
	).Scan(&id)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ``, fmt.Errorf("%w: %s", ErrUserExists, u.Username)
	}
	if err != nil {
		return ``, fmt.Errorf("user/repo: user wasn't added: %w", err)
	}
	if id == "" {
		return ``, fmt.Errorf("user/repo: user wasn't added, empty id returned")
	}
	return id, nil
}

func (r *UserRepo) GetByUsernameAndPass(ctx context.Context, uname string, pass string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+", password FROM users where username=$1", uname)
	var hashed []byte
	u, err := scanUser(row, &hashed)
	if err != nil {
		return nil, fmt.Errorf("user/repo: row scan failed: %w", err)
	}
	if len(hashed) < common.SaltLen {
		return nil, errors.New("user/repo: stored password is malformed")
	}
	// User found by username, now check if passwords are the same
	salt := string(hashed[:common.SaltLen])
	if subtle.ConstantTimeCompare(common.HashPass(pass, salt), hashed) != 1 {
		return nil, errors.New("user/repo: password is invalid")
	}
	u.Password = hashed
	return u, nil
}

func (r *UserRepo) UserExists(ctx context.Context, uname string) bool {
	row := r.db.QueryRowContext(ctx, "SELECT id FROM users where username=$1", uname)
	var id string
	if err := row.Scan(&id); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Log(ctx).Errorf("user/repo: could not scan row: %v", err)
		}
		return false
	}
	return true
}

func (r *UserRepo) GetById(ctx context.Context, uid string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users where id=$1", uid)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, uname string) (*User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users where username=$1", uname)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
	}
	return u, nil
}

// Returns all users. Used for seeding the DB.
func (r *UserRepo) GetAll(ctx context.Context) ([]*User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users")
	if err != nil {
		return nil, fmt.Errorf("user/repo: failed executing query for getting all users: %w", err)
	}
	defer rows.Close()

	users := []*User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("user/repo: could not scan row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user/repo: rows iteration failed: %w", err)
	}

	return users, nil
}

// Follow is idempotent: following twice keeps a single row.
func (r *UserRepo) Follow(ctx context.Context, followerId, followingId string) error {
	if followerId == followingId {
		return ErrSelfFollow
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO follows(follower_id, following_id) VALUES($1, $2) ON CONFLICT DO NOTHING",
		followerId, followingId)
	if err != nil {
		return fmt.Errorf("user/repo: failed following user: %w", err)
	}
	return nil
}

func (r *UserRepo) Unfollow(ctx context.Context, followerId, followingId string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM follows WHERE follower_id=$1 AND following_id=$2",
		followerId, followingId)
	if err != nil {
		return fmt.Errorf("user/repo: failed unfollowing user: %w", err)
	}
	return nil
}

func (r *UserRepo) FollowCounts(ctx context.Context, uid string) (followers int, following int, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT
		(SELECT count(*) FROM follows WHERE following_id=$1),
		(SELECT count(*) FROM follows WHERE follower_id=$1)`, uid)
	if err := row.Scan(&followers, &following); err != nil {
		return 0, 0, fmt.Errorf("user/repo: failed counting follows: %w", err)
	}
	return followers, following, nil
}
