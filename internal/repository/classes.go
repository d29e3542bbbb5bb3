package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

type ClassRepository struct {
	db *database.DB
}

func NewClassRepository(db *database.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns all classes ordered by rank, newest-first within a rank.
func (r *ClassRepository) List(ctx context.Context) ([]models.Class, error) {
	rows, err := r.db.All(ctx, `SELECT id, name, display_order, created_at FROM classes ORDER BY display_order ASC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []models.Class{}
	for rows.Next() {
		var c models.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// Dashboard returns the classes plus slim unit references in one shape for
// the student home page.
func (r *ClassRepository) Dashboard(ctx context.Context) (*models.DashboardData, error) {
	classes, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.All(ctx, `SELECT id, class_id FROM units ORDER BY display_order ASC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []models.UnitRef{}
	for rows.Next() {
		var u models.UnitRef
		if err := rows.Scan(&u.ID, &u.ClassID); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &models.DashboardData{Classes: classes, Units: units}, nil
}

func (r *ClassRepository) GetByID(ctx context.Context, id int64) (*models.Class, error) {
	c := &models.Class{}
	err := r.db.Get(ctx, `SELECT id, name, display_order, created_at FROM classes WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.DisplayOrder, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Code: CodeClassNotFound, Message: "الصف غير موجود"}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClassRepository) Create(ctx context.Context, name string) (*models.Class, error) {
	trimmed, err := validateTitle(name, CodeNameRequired,
		"اسم الصف مطلوب",
		"اسم الصف يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}

	res, err := r.db.Run(ctx, `INSERT INTO classes (name) VALUES (?)`, trimmed)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, &ConflictError{Code: CodeDuplicateClassName, Message: "هذا الاسم موجود بالفعل. يرجى اختيار اسم آخر"}
		}
		return nil, fmt.Errorf("insert class: %w", err)
	}
	return r.GetByID(ctx, res.ID)
}

func (r *ClassRepository) Update(ctx context.Context, id int64, name string) (*models.Class, error) {
	trimmed, err := validateTitle(name, CodeNameRequired,
		"اسم الصف مطلوب",
		"اسم الصف يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}

	res, err := r.db.Run(ctx, `UPDATE classes SET name = ? WHERE id = ?`, trimmed, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, &ConflictError{Code: CodeDuplicateClassName, Message: "هذا الاسم موجود بالفعل. يرجى اختيار اسم آخر"}
		}
		return nil, fmt.Errorf("update class: %w", err)
	}
	if res.Changes == 0 {
		return nil, &NotFoundError{Code: CodeClassNotFound, Message: "الصف غير موجود"}
	}
	return r.GetByID(ctx, id)
}

// Delete removes a class; dependent units, lessons, media, and questions go
// with it via the engine's cascade.
func (r *ClassRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Run(ctx, `DELETE FROM classes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	if res.Changes == 0 {
		return &NotFoundError{Code: CodeClassNotFound, Message: "الصف غير موجود"}
	}
	return nil
}

// Reorder assigns each class in order its position as display_order, in one
// transaction. Ids that do not name an existing class reject the whole batch.
func (r *ClassRepository) Reorder(ctx context.Context, order []int64) error {
	if len(order) == 0 {
		return &ValidationError{Code: CodeInvalidOrder, Message: "بيانات الترتيب غير صالحة"}
	}
	return r.db.InTx(ctx, func(q database.Querier) error {
		for i, id := range order {
			res, err := q.Run(ctx, `UPDATE classes SET display_order = ? WHERE id = ?`, i, id)
			if err != nil {
				return fmt.Errorf("reorder class %d: %w", id, err)
			}
			if res.Changes == 0 {
				return &ValidationError{Code: CodeInvalidOrder, Message: "بيانات الترتيب غير صالحة"}
			}
		}
		return nil
	})
}
