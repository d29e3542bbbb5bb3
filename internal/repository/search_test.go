package repository

import (
	"context"
	"testing"
)

func TestSearchShortQueryReturnsEmptyBuckets(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	search := NewSearchRepository(db)
	ctx := context.Background()

	mustClass(t, classes, "الصف الأول")

	for _, q := range []string{"", " ", "ا", "  ا  "} {
		results, err := search.Search(ctx, q)
		if err != nil {
			t.Fatalf("search %q: %v", q, err)
		}
		if len(results.Classes)+len(results.Units)+len(results.Lessons) != 0 {
			t.Errorf("query %q returned results", q)
		}
		if results.Classes == nil || results.Units == nil || results.Lessons == nil {
			t.Errorf("query %q returned nil bucket", q)
		}
	}
}

func TestSearchMatchesAllBuckets(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	units := NewUnitRepository(db)
	lessons := NewLessonRepository(db)
	search := NewSearchRepository(db)
	ctx := context.Background()

	c := mustClass(t, classes, "الصف الأول")
	u := mustUnit(t, units, UnitInput{Title: "وحدة الجبر", ClassID: c.ID})
	mustLesson(t, lessons, LessonInput{Title: "درس المعادلات", UnitID: u.ID})

	results, err := search.Search(ctx, "الجبر")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results.Units) != 1 {
		t.Errorf("units = %d, want 1", len(results.Units))
	}
	// The lesson matches through its ancestor unit title.
	if len(results.Lessons) != 1 {
		t.Errorf("lessons = %d, want 1", len(results.Lessons))
	}
	if len(results.Classes) != 0 {
		t.Errorf("classes = %d, want 0", len(results.Classes))
	}

	results, err = search.Search(ctx, "الصف")
	if err != nil {
		t.Fatalf("search class: %v", err)
	}
	if len(results.Classes) != 1 {
		t.Errorf("classes = %d, want 1", len(results.Classes))
	}
	// Units and lessons under the matching class surface too.
	if len(results.Units) != 1 || len(results.Lessons) != 1 {
		t.Errorf("ancestor match: units = %d, lessons = %d", len(results.Units), len(results.Lessons))
	}
}

func TestSearchNoMatches(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	search := NewSearchRepository(db)
	ctx := context.Background()

	mustClass(t, classes, "الصف الأول")

	results, err := search.Search(ctx, "غير موجود إطلاقاً")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results.Classes)+len(results.Units)+len(results.Lessons) != 0 {
		t.Error("unexpected matches")
	}
}

func TestSearchJoinedFields(t *testing.T) {
	db := newTestDB(t)
	classes := NewClassRepository(db)
	units := NewUnitRepository(db)
	lessons := NewLessonRepository(db)
	search := NewSearchRepository(db)
	ctx := context.Background()

	c := mustClass(t, classes, "الصف الأول")
	u := mustUnit(t, units, UnitInput{Title: "وحدة الجبر", ClassID: c.ID, Term: "2"})
	mustLesson(t, lessons, LessonInput{Title: "درس المعادلات", UnitID: u.ID})

	results, err := search.Search(ctx, "المعادلات")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results.Lessons) != 1 {
		t.Fatalf("lessons = %d, want 1", len(results.Lessons))
	}
	l := results.Lessons[0]
	if l.UnitTitle != "وحدة الجبر" || l.ClassName != "الصف الأول" || l.Term != "2" {
		t.Errorf("joined fields wrong: %+v", l)
	}
}
