package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seed bootstraps the first admin account from environment-supplied
// credentials and inserts the default school identity row. Both steps are
// first-row-wins: existing rows are left untouched.
func (d *DB) Seed(ctx context.Context, adminUsername, adminPassword string) error {
	var id int64
	err := d.Get(ctx, `SELECT id FROM admins LIMIT 1`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		if _, err := d.Run(ctx, `INSERT INTO admins (username, password_hash) VALUES (?, ?)`,
			adminUsername, string(hash)); err != nil {
			return fmt.Errorf("create default admin: %w", err)
		}
		d.log.Info("default admin account created", zap.String("username", adminUsername))
	case err != nil:
		return fmt.Errorf("check admin account: %w", err)
	}

	err = d.Get(ctx, `SELECT id FROM identity_settings LIMIT 1`).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := d.Run(ctx, `INSERT INTO identity_settings (school_name, platform_label, admin_name, admin_role) VALUES (?, ?, ?, ?)`,
			DefaultSchoolName, DefaultPlatformLabel, DefaultAdminName, DefaultAdminRole); err != nil {
			return fmt.Errorf("create default identity settings: %w", err)
		}
		d.log.Info("default identity settings created")
	case err != nil:
		return fmt.Errorf("check identity settings: %w", err)
	}

	return nil
}

// Defaults for the singleton identity row, mirrored by the frontends.
const (
	DefaultSchoolName    = "مدرسة أبو فراس الحمداني للتعليم الأساسي"
	DefaultPlatformLabel = "المنصة التعليمية"
	DefaultAdminName     = "إدارة المدرسة"
	DefaultAdminRole     = "مسؤول النظام التعليمي"
)
