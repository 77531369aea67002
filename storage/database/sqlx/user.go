package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/edutrack/core/user"
)

const uniqueViolation = "23505"

type userRow struct {
	ID           int        `db:"id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	Role         string     `db:"role"`
	PasswordHash null.Bytes `db:"password_hash"`
	CreatedAt    time.Time  `db:"created_at"`
}

func (row userRow) user() user.User {
	return user.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		Role:         user.Role(row.Role),
		PasswordHash: row.PasswordHash.Bytes,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	createdAt := usr.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	const q = `INSERT INTO users (name, email, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &usr.ID, q,
		usr.Name, usr.Email, string(usr.Role), null.BytesFrom(usr.PasswordHash), createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	usr.CreatedAt = createdAt.UTC()
	return usr, nil
}

func (repo *userRepository) get(ctx context.Context, q string, arg interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, q, arg); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.user(), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.get(ctx, "SELECT * FROM users WHERE id = $1", id)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.get(ctx, "SELECT * FROM users WHERE email = $1", email)
}

// QueryUsers lists the users with the role, every user when role is empty.
func (repo *userRepository) QueryUsers(ctx context.Context, role user.Role) ([]user.User, error) {
	var rows []userRow
	const q = "SELECT * FROM users WHERE $1 = '' OR role = $1 ORDER BY id"
	if err := repo.db.SelectContext(ctx, &rows, q, string(role)); err != nil {
		return nil, errors.Wrap(err, "selecting users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.user())
	}
	return users, nil
}

// UpdateUser only saves the set fields.
func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			role = COALESCE(NULLIF($3, ''), role),
			password_hash = COALESCE($4, password_hash)
		WHERE id = $1 RETURNING *`
	var row userRow
	err := repo.db.GetContext(ctx, &row, q, usr.ID, usr.Name, string(usr.Role), null.BytesFrom(usr.PasswordHash))
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "updating user")
	}
	return row.user(), nil
}
