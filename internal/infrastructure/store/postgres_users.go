package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/BoostersSCM/barcode-inventory/internal/auth"
)

// PostgresUserStore persists operator accounts in PostgreSQL.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return s.getBy(ctx, "email", email)
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (*auth.User, error) {
	return s.getBy(ctx, "id", id)
}

func (s *PostgresUserStore) getBy(ctx context.Context, column, value string) (*auth.User, error) {
	var u auth.User
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, role FROM operators WHERE `+column+` = $1`,
		value,
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, user *auth.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO operators (id, email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.ID, user.Email, user.Name, user.PasswordHash, user.Role,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("operator %s already exists", user.Email)
		}
		return storeErr(err)
	}
	return nil
}
