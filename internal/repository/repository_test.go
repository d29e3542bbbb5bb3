package repository

import (
	"context"
	"testing"

	"schoolcms/internal/database"
	"schoolcms/internal/models"

	"go.uber.org/zap"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func mustClass(t *testing.T, r *ClassRepository, name string) *models.Class {
	t.Helper()
	c, err := r.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("create class %q: %v", name, err)
	}
	return c
}

func mustUnit(t *testing.T, r *UnitRepository, in UnitInput) *models.Unit {
	t.Helper()
	u, err := r.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create unit %q: %v", in.Title, err)
	}
	return u
}

func mustLesson(t *testing.T, r *LessonRepository, in LessonInput) *models.Lesson {
	t.Helper()
	l, err := r.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create lesson %q: %v", in.Title, err)
	}
	return l
}

func strPtr(s string) *string { return &s }
