package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

type UnitRepository struct {
	db *database.DB
}

func NewUnitRepository(db *database.DB) *UnitRepository {
	return &UnitRepository{db: db}
}

// UnitInput is the write shape for create and update. Category defaults to
// primary, term to the first term.
type UnitInput struct {
	Title    string
	ClassID  int64
	Category string
	Term     string
}

func (in *UnitInput) normalize() {
	if in.Category != "Z" {
		in.Category = "P"
	}
	if in.Term != "2" {
		in.Term = "1"
	}
}

const unitColumns = `id, class_id, title, category, term, display_order, created_at`

func scanUnit(rows *sql.Rows, u *models.Unit) error {
	return rows.Scan(&u.ID, &u.ClassID, &u.Title, &u.Category, &u.Term, &u.DisplayOrder, &u.CreatedAt)
}

// ListByClass returns a class's units ordered by rank, oldest-first within a
// rank.
func (r *UnitRepository) ListByClass(ctx context.Context, classID int64) ([]models.Unit, error) {
	rows, err := r.db.All(ctx, `SELECT `+unitColumns+` FROM units WHERE class_id = ? ORDER BY display_order ASC, created_at ASC`, classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		if err := scanUnit(rows, &u); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ListRefs returns id/class_id pairs for every unit, for the student
// dashboard.
func (r *UnitRepository) ListRefs(ctx context.Context) ([]models.UnitRef, error) {
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
	return units, rows.Err()
}

// ListAll returns every unit joined with its class name, ordered for the
// admin panel.
func (r *UnitRepository) ListAll(ctx context.Context) ([]models.Unit, error) {
	rows, err := r.db.All(ctx, `
		SELECT u.id, u.class_id, u.title, u.category, u.term, u.display_order, u.created_at, c.name
		FROM units u
		JOIN classes c ON u.class_id = c.id
		ORDER BY c.display_order ASC, u.display_order ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	units := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.ClassID, &u.Title, &u.Category, &u.Term, &u.DisplayOrder, &u.CreatedAt, &u.ClassName); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

func (r *UnitRepository) GetByID(ctx context.Context, id int64) (*models.Unit, error) {
	u := &models.Unit{}
	err := r.db.Get(ctx, `SELECT `+unitColumns+` FROM units WHERE id = ?`, id).
		Scan(&u.ID, &u.ClassID, &u.Title, &u.Category, &u.Term, &u.DisplayOrder, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Code: CodeUnitNotFound, Message: "الوحدة غير موجودة"}
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UnitRepository) Create(ctx context.Context, in UnitInput) (*models.Unit, error) {
	trimmed, err := validateTitle(in.Title, CodeTitleRequired,
		"عنوان الوحدة مطلوب",
		"عنوان الوحدة يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}
	in.normalize()

	// The lightweight engine's foreign-key enforcement is pragma-gated, so
	// parent existence is checked explicitly.
	if err := r.classExists(ctx, in.ClassID); err != nil {
		return nil, err
	}

	res, err := r.db.Run(ctx, `INSERT INTO units (title, class_id, category, term) VALUES (?, ?, ?, ?)`,
		trimmed, in.ClassID, in.Category, in.Term)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, duplicateUnitError(in.Term)
		}
		return nil, fmt.Errorf("insert unit: %w", err)
	}
	return r.GetByID(ctx, res.ID)
}

func (r *UnitRepository) Update(ctx context.Context, id int64, in UnitInput) (*models.Unit, error) {
	trimmed, err := validateTitle(in.Title, CodeTitleRequired,
		"عنوان الوحدة مطلوب",
		"عنوان الوحدة يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}
	in.normalize()

	if err := r.classExists(ctx, in.ClassID); err != nil {
		return nil, err
	}

	res, err := r.db.Run(ctx, `UPDATE units SET title = ?, class_id = ?, category = ?, term = ? WHERE id = ?`,
		trimmed, in.ClassID, in.Category, in.Term, id)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, duplicateUnitError(in.Term)
		}
		return nil, fmt.Errorf("update unit: %w", err)
	}
	if res.Changes == 0 {
		return nil, &NotFoundError{Code: CodeUnitNotFound, Message: "الوحدة غير موجودة"}
	}
	return r.GetByID(ctx, id)
}

func (r *UnitRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Run(ctx, `DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
	}
	if res.Changes == 0 {
		return &NotFoundError{Code: CodeUnitNotFound, Message: "الوحدة غير موجودة"}
	}
	return nil
}

// Reorder assigns dense zero-based ranks to the submitted id list in one
// transaction; unknown ids reject the whole batch.
func (r *UnitRepository) Reorder(ctx context.Context, order []int64) error {
	if len(order) == 0 {
		return &ValidationError{Code: CodeInvalidOrder, Message: "بيانات الترتيب غير صالحة"}
	}
	return r.db.InTx(ctx, func(q database.Querier) error {
		for i, id := range order {
			res, err := q.Run(ctx, `UPDATE units SET display_order = ? WHERE id = ?`, i, id)
			if err != nil {
				return fmt.Errorf("reorder unit %d: %w", id, err)
			}
			if res.Changes == 0 {
				return &ValidationError{Code: CodeInvalidOrder, Message: "بيانات الترتيب غير صالحة"}
			}
		}
		return nil
	})
}

func (r *UnitRepository) classExists(ctx context.Context, classID int64) error {
	var id int64
	err := r.db.Get(ctx, `SELECT id FROM classes WHERE id = ?`, classID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Code: CodeClassNotFound, Message: "الصف الدراسي غير موجود"}
	}
	return err
}

func duplicateUnitError(term string) *ConflictError {
	termName := "الفصل الدراسي الأول"
	if term == "2" {
		termName = "الفصل الدراسي الثاني"
	}
	return &ConflictError{
		Code:    CodeDuplicateUnitTitle,
		Message: "هذا العنوان موجود بالفعل في " + termName + " لهذا الصف.",
	}
}
