package repository

import (
	"context"
	"strings"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

type SearchRepository struct {
	db *database.DB
}

func NewSearchRepository(db *database.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Search runs a case-insensitive substring match across class names, unit
// titles, and lesson titles (units and lessons also match on their ancestor
// names), capped at 20 rows per bucket. Queries shorter than two characters
// return empty buckets.
func (r *SearchRepository) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	results := &models.SearchResults{
		Classes: []models.Class{},
		Units:   []models.Unit{},
		Lessons: []models.Lesson{},
	}

	trimmed := strings.TrimSpace(query)
	if len([]rune(trimmed)) < 2 {
		return results, nil
	}
	like := "%" + strings.ToLower(trimmed) + "%"

	if err := r.searchClasses(ctx, like, results); err != nil {
		return nil, err
	}
	if err := r.searchUnits(ctx, like, results); err != nil {
		return nil, err
	}
	if err := r.searchLessons(ctx, like, results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *SearchRepository) searchClasses(ctx context.Context, like string, results *models.SearchResults) error {
	rows, err := r.db.All(ctx, `
		SELECT id, name, display_order, created_at
		FROM classes
		WHERE LOWER(name) LIKE ?
		ORDER BY display_order ASC, created_at DESC
		LIMIT 20`, like)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return err
		}
		results.Classes = append(results.Classes, c)
	}
	return rows.Err()
}

func (r *SearchRepository) searchUnits(ctx context.Context, like string, results *models.SearchResults) error {
	rows, err := r.db.All(ctx, `
		SELECT u.id, u.class_id, u.title, u.category, u.term, u.display_order, u.created_at, c.name
		FROM units u
		JOIN classes c ON u.class_id = c.id
		WHERE LOWER(u.title) LIKE ? OR LOWER(c.name) LIKE ?
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT 20`, like, like)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.ClassID, &u.Title, &u.Category, &u.Term, &u.DisplayOrder, &u.CreatedAt, &u.ClassName); err != nil {
			return err
		}
		results.Units = append(results.Units, u)
	}
	return rows.Err()
}

func (r *SearchRepository) searchLessons(ctx context.Context, like string, results *models.SearchResults) error {
	rows, err := r.db.All(ctx, `
		SELECT l.id, l.unit_id, l.title, l.created_at, u.title, u.term, u.class_id, c.name
		FROM lessons l
		JOIN units u ON l.unit_id = u.id
		JOIN classes c ON u.class_id = c.id
		WHERE LOWER(l.title) LIKE ? OR LOWER(u.title) LIKE ? OR LOWER(c.name) LIKE ?
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT 20`, like, like, like)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.CreatedAt, &l.UnitTitle, &l.Term, &l.ClassID, &l.ClassName); err != nil {
			return err
		}
		results.Lessons = append(results.Lessons, l)
	}
	return rows.Err()
}
