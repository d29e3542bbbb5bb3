package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

func TestIdentityGetFallsBackToDefaults(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdentityRepository(db)

	s, err := repo.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.SchoolName != database.DefaultSchoolName {
		t.Errorf("schoolName = %q, want default", s.SchoolName)
	}
	if s.PlatformLabel != database.DefaultPlatformLabel {
		t.Errorf("platformLabel = %q, want default", s.PlatformLabel)
	}
}

func TestIdentityUpdateRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	in := models.IdentitySettings{
		SchoolName:    "  مدرسة النور  ",
		PlatformLabel: "منصة النور",
		AdminName:     "إدارة النور",
		AdminRole:     "مدير المنصة",
	}
	updated, err := repo.Update(ctx, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.SchoolName != "مدرسة النور" {
		t.Errorf("schoolName not trimmed: %q", updated.SchoolName)
	}

	got, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SchoolName != "مدرسة النور" || got.AdminRole != "مدير المنصة" {
		t.Errorf("persisted values wrong: %+v", got)
	}

	// A second update overwrites the same row.
	in.SchoolName = "مدرسة الأمل"
	if _, err := repo.Update(ctx, in); err != nil {
		t.Fatalf("second update: %v", err)
	}
	var count int
	if err := db.Get(ctx, `SELECT COUNT(*) FROM identity_settings`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("identity rows = %d, want singleton", count)
	}
}

func TestIdentityUpdateValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewIdentityRepository(db)
	ctx := context.Background()

	_, err := repo.Update(ctx, models.IdentitySettings{
		SchoolName:    "مدرسة",
		PlatformLabel: "   ",
		AdminName:     "إدارة",
		AdminRole:     "مدير",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("blank field: error = %v, want ValidationError", err)
	}

	_, err = repo.Update(ctx, models.IdentitySettings{
		SchoolName:    strings.Repeat("م", 151),
		PlatformLabel: "منصة",
		AdminName:     "إدارة",
		AdminRole:     "مدير",
	})
	if !errors.As(err, &verr) {
		t.Fatalf("overlong field: error = %v, want ValidationError", err)
	}

	// Exactly at the limit passes.
	_, err = repo.Update(ctx, models.IdentitySettings{
		SchoolName:    strings.Repeat("م", 150),
		PlatformLabel: "منصة",
		AdminName:     "إدارة",
		AdminRole:     "مدير",
	})
	if err != nil {
		t.Errorf("150-rune field rejected: %v", err)
	}
}
