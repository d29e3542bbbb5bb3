package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

// identityMaxLen bounds each display field to keep the UI clean.
const identityMaxLen = 150

type IdentityRepository struct {
	db *database.DB
}

func NewIdentityRepository(db *database.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// Get returns the singleton identity row, falling back to the seeded
// defaults when the table is empty.
func (r *IdentityRepository) Get(ctx context.Context) (*models.IdentitySettings, error) {
	s := &models.IdentitySettings{}
	err := r.db.Get(ctx, `SELECT school_name, platform_label, admin_name, admin_role FROM identity_settings LIMIT 1`).
		Scan(&s.SchoolName, &s.PlatformLabel, &s.AdminName, &s.AdminRole)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.IdentitySettings{
			SchoolName:    database.DefaultSchoolName,
			PlatformLabel: database.DefaultPlatformLabel,
			AdminName:     database.DefaultAdminName,
			AdminRole:     database.DefaultAdminRole,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update writes the singleton in place, inserting it if absent (first row
// wins).
func (r *IdentityRepository) Update(ctx context.Context, in models.IdentitySettings) (*models.IdentitySettings, error) {
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.PlatformLabel = strings.TrimSpace(in.PlatformLabel)
	in.AdminName = strings.TrimSpace(in.AdminName)
	in.AdminRole = strings.TrimSpace(in.AdminRole)

	if in.SchoolName == "" || in.PlatformLabel == "" || in.AdminName == "" || in.AdminRole == "" {
		return nil, &ValidationError{Message: "جميع الحقول مطلوبة: اسم المدرسة، اسم المنصة، جهة الإدارة، وصف جهة الإدارة"}
	}
	for _, v := range []string{in.SchoolName, in.PlatformLabel, in.AdminName, in.AdminRole} {
		if len([]rune(v)) > identityMaxLen {
			return nil, &ValidationError{Message: fmt.Sprintf("يجب ألا يتجاوز كل حقل %d حرفًا", identityMaxLen)}
		}
	}

	var id int64
	err := r.db.Get(ctx, `SELECT id FROM identity_settings LIMIT 1`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := r.db.Run(ctx, `INSERT INTO identity_settings (school_name, platform_label, admin_name, admin_role) VALUES (?, ?, ?, ?)`,
			in.SchoolName, in.PlatformLabel, in.AdminName, in.AdminRole); err != nil {
			return nil, fmt.Errorf("insert identity settings: %w", err)
		}
	case err != nil:
		return nil, err
	default:
		if _, err := r.db.Run(ctx, `UPDATE identity_settings SET school_name = ?, platform_label = ?, admin_name = ?, admin_role = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			in.SchoolName, in.PlatformLabel, in.AdminName, in.AdminRole, id); err != nil {
			return nil, fmt.Errorf("update identity settings: %w", err)
		}
	}
	return &in, nil
}
