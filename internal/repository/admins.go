package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schoolcms/internal/database"
	"schoolcms/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown username or a wrong
// password; the two cases are deliberately indistinguishable.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminRepository struct {
	db *database.DB
}

func NewAdminRepository(db *database.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	a := &models.Admin{}
	err := r.db.Get(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username).
		Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Get(ctx, `SELECT COUNT(*) FROM admins`).Scan(&count)
	return count, err
}

func (r *AdminRepository) Create(ctx context.Context, username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := r.db.Run(ctx, `INSERT INTO admins (username, password_hash) VALUES (?, ?)`, username, string(hash)); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// VerifyPassword checks username/password against the stored bcrypt hash.
func (r *AdminRepository) VerifyPassword(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := r.GetByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return admin, nil
}
