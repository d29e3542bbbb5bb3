package repository

import (
	"context"
	"errors"
	"testing"
)

func TestClassCreate(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	c, err := repo.Create(ctx, "  الصف الأول  ")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if c.Name != "الصف الأول" {
		t.Errorf("name not trimmed: %q", c.Name)
	}
	if c.DisplayOrder != 0 {
		t.Errorf("display_order = %d, want 0", c.DisplayOrder)
	}
}

func TestClassCreateValidation(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		wantCode string
	}{
		{"empty", "", CodeNameRequired},
		{"whitespace only", "   ", CodeNameRequired},
		{"latin letters", "Grade One", CodeInvalidCharacters},
		{"mixed", "الصف 1", CodeInvalidCharacters},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Create(ctx, tt.input)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", verr.Code, tt.wantCode)
			}
		})
	}
}

func TestClassCreateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	mustClass(t, repo, "الصف الأول")
	_, err := repo.Create(ctx, "الصف الأول")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
	if cerr.Code != CodeDuplicateClassName {
		t.Errorf("code = %q, want %q", cerr.Code, CodeDuplicateClassName)
	}
}

func TestClassUpdate(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	c := mustClass(t, repo, "الصف الأول")
	updated, err := repo.Update(ctx, c.ID, "الصف المعدل")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "الصف المعدل" {
		t.Errorf("name = %q", updated.Name)
	}

	_, err = repo.Update(ctx, 9999, "الصف الجديد")
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("missing id: error = %v, want NotFoundError", err)
	}
}

func TestClassUpdateDuplicate(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	mustClass(t, repo, "الصف الأول")
	c2 := mustClass(t, repo, "الصف الثاني")

	_, err := repo.Update(ctx, c2.ID, "الصف الأول")
	var cerr *ConflictError
	if !errors.As(err, &cerr) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
}

func TestClassDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	units := NewUnitRepository(db)
	lessons := NewLessonRepository(db)
	ctx := context.Background()

	c := mustClass(t, classes, "الصف الأول")
	u := mustUnit(t, units, UnitInput{Title: "الوحدة الأولى", ClassID: c.ID})
	l := mustLesson(t, lessons, LessonInput{
		Title:  "الدرس الأول",
		UnitID: u.ID,
		Videos: []VideoInput{{VideoURL: "https://example.com/v.mp4"}},
	})

	if err := classes.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	for _, table := range []string{"units", "lessons", "videos"} {
		var count int
		if err := db.Get(ctx, `SELECT COUNT(*) FROM `+table).Scan(&count); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Errorf("%s left %d orphan rows", table, count)
		}
	}

	if _, err := lessons.Get(ctx, l.ID); err == nil {
		t.Error("lesson survived class delete")
	}
}

func TestClassDeleteMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)

	err := repo.Delete(context.Background(), 123)
	var nferr *NotFoundError
	if !errors.As(err, &nferr) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
}

func TestClassReorder(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	a := mustClass(t, repo, "الصف الأول")
	b := mustClass(t, repo, "الصف الثاني")
	c := mustClass(t, repo, "الصف الثالث")

	if err := repo.Reorder(ctx, []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	wantIDs := []int64{c.ID, a.ID, b.ID}
	if len(list) != 3 {
		t.Fatalf("list length = %d", len(list))
	}
	for i, cl := range list {
		if cl.ID != wantIDs[i] {
			t.Errorf("position %d: id = %d, want %d", i, cl.ID, wantIDs[i])
		}
		if cl.DisplayOrder != i {
			t.Errorf("position %d: display_order = %d, want %d", i, cl.DisplayOrder, i)
		}
	}

	// Applying the same order again must be a no-op.
	if err := repo.Reorder(ctx, wantIDs); err != nil {
		t.Fatalf("idempotent reorder: %v", err)
	}
	again, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	for i, cl := range again {
		if cl.ID != wantIDs[i] {
			t.Errorf("after repeat, position %d: id = %d, want %d", i, cl.ID, wantIDs[i])
		}
	}
}

func TestClassReorderRejectsUnknownID(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)
	ctx := context.Background()

	a := mustClass(t, repo, "الصف الأول")
	b := mustClass(t, repo, "الصف الثاني")
	if err := repo.Reorder(ctx, []int64{b.ID, a.ID}); err != nil {
		t.Fatalf("initial reorder: %v", err)
	}

	err := repo.Reorder(ctx, []int64{a.ID, 9999, b.ID})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if verr.Code != CodeInvalidOrder {
		t.Errorf("code = %q, want %q", verr.Code, CodeInvalidOrder)
	}

	// The whole batch must roll back: b stays first.
	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list[0].ID != b.ID {
		t.Errorf("partial reorder applied: first id = %d, want %d", list[0].ID, b.ID)
	}
}

func TestClassReorderEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewClassRepository(db)

	err := repo.Reorder(context.Background(), nil)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestClassDashboard(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	units := NewUnitRepository(db)
	ctx := context.Background()

	c := mustClass(t, classes, "الصف الأول")
	mustUnit(t, units, UnitInput{Title: "الوحدة الأولى", ClassID: c.ID})
	mustUnit(t, units, UnitInput{Title: "الوحدة الثانية", ClassID: c.ID})

	data, err := classes.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(data.Classes) != 1 {
		t.Errorf("classes = %d, want 1", len(data.Classes))
	}
	if len(data.Units) != 2 {
		t.Errorf("units = %d, want 2", len(data.Units))
	}
	for _, u := range data.Units {
		if u.ClassID != c.ID {
			t.Errorf("unit ref class_id = %d, want %d", u.ClassID, c.ID)
		}
	}
}
