package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"schoolcms/internal/database"
	"schoolcms/internal/models"
)

type LessonRepository struct {
	db *database.DB
}

func NewLessonRepository(db *database.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// VideoInput and ImageInput carry the media payload shapes submitted by the
// admin editor. Entries without a URL/path are skipped on write.
type VideoInput struct {
	VideoURL    string  `json:"video_url"`
	Position    string  `json:"video_position"`
	Size        string  `json:"video_size"`
	Explanation *string `json:"video_explanation"`
}

type ImageInput struct {
	ImagePath string  `json:"image_path"`
	Position  string  `json:"image_position"`
	Size      string  `json:"image_size"`
	Caption   *string `json:"image_caption"`
}

type LessonInput struct {
	Title   string
	UnitID  int64
	Content string
	Videos  []VideoInput
	Images  []ImageInput
}

// ListByUnit returns the slim lesson rows shown in the student unit view.
func (r *LessonRepository) ListByUnit(ctx context.Context, unitID int64) ([]models.Lesson, error) {
	rows, err := r.db.All(ctx, `SELECT id, unit_id, title, created_at FROM lessons WHERE unit_id = ? ORDER BY created_at ASC`, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.CreatedAt); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// Get returns one lesson with its full content plus attached videos and
// images in display order.
func (r *LessonRepository) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	l := &models.Lesson{}
	err := r.db.Get(ctx, `SELECT id, unit_id, title, content, created_at FROM lessons WHERE id = ?`, id).
		Scan(&l.ID, &l.UnitID, &l.Title, &l.Content, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "الدرس غير موجود"}
	}
	if err != nil {
		return nil, err
	}

	if l.Videos, err = r.videosFor(ctx, id); err != nil {
		return nil, err
	}
	if l.Images, err = r.imagesFor(ctx, id); err != nil {
		return nil, err
	}
	return l, nil
}

// ListAll returns every lesson joined with unit and class context for the
// admin panel.
func (r *LessonRepository) ListAll(ctx context.Context) ([]models.Lesson, error) {
	rows, err := r.db.All(ctx, `
		SELECT l.id, l.unit_id, l.title, l.content, l.created_at, u.title, u.term, u.class_id, c.name
		FROM lessons l
		JOIN units u ON l.unit_id = u.id
		JOIN classes c ON u.class_id = c.id
		ORDER BY c.display_order ASC, u.display_order ASC, l.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lessons := []models.Lesson{}
	for rows.Next() {
		var l models.Lesson
		if err := rows.Scan(&l.ID, &l.UnitID, &l.Title, &l.Content, &l.CreatedAt,
			&l.UnitTitle, &l.Term, &l.ClassID, &l.ClassName); err != nil {
			return nil, err
		}
		lessons = append(lessons, l)
	}
	return lessons, rows.Err()
}

// Create inserts the lesson and its media in one transaction, assigning
// media display order by array position.
func (r *LessonRepository) Create(ctx context.Context, in LessonInput) (*models.Lesson, error) {
	trimmed, err := validateTitle(in.Title, CodeTitleRequired,
		"عنوان الدرس مطلوب",
		"عنوان الدرس يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}

	if err := r.unitExists(ctx, in.UnitID); err != nil {
		return nil, err
	}

	var lessonID int64
	err = r.db.InTx(ctx, func(q database.Querier) error {
		res, err := q.Run(ctx, `INSERT INTO lessons (title, unit_id, content) VALUES (?, ?, ?)`,
			trimmed, in.UnitID, in.Content)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return &ConflictError{Code: CodeDuplicateLessonTitle, Message: "هذا العنوان موجود بالفعل في هذه الوحدة. يرجى اختيار عنوان آخر"}
			}
			return fmt.Errorf("insert lesson: %w", err)
		}
		lessonID = res.ID
		if err := insertVideos(ctx, q, lessonID, in.Videos); err != nil {
			return err
		}
		return insertImages(ctx, q, lessonID, in.Images)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, lessonID)
}

// Update rewrites the lesson row and, when media arrays are submitted,
// replaces the whole child collection: prior rows are deleted and the
// submitted set reinserted. No diffing. Everything runs in one transaction.
func (r *LessonRepository) Update(ctx context.Context, id int64, in LessonInput) (*models.Lesson, error) {
	trimmed, err := validateTitle(in.Title, CodeTitleRequired,
		"اسم الدرس مطلوب",
		"يجب أن يحتوي على أحرف عربية فقط")
	if err != nil {
		return nil, err
	}

	if err := r.unitExists(ctx, in.UnitID); err != nil {
		return nil, err
	}

	err = r.db.InTx(ctx, func(q database.Querier) error {
		res, err := q.Run(ctx, `UPDATE lessons SET title = ?, unit_id = ?, content = ? WHERE id = ?`,
			trimmed, in.UnitID, in.Content, id)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return &ConflictError{Code: CodeDuplicateLessonTitle, Message: "هذا الاسم موجود بالفعل"}
			}
			return fmt.Errorf("update lesson: %w", err)
		}
		if res.Changes == 0 {
			return &NotFoundError{Message: "الدرس غير موجود"}
		}

		if len(in.Videos) > 0 {
			if _, err := q.Run(ctx, `DELETE FROM videos WHERE lesson_id = ?`, id); err != nil {
				return fmt.Errorf("clear videos: %w", err)
			}
			if err := insertVideos(ctx, q, id, in.Videos); err != nil {
				return err
			}
		}
		if len(in.Images) > 0 {
			if _, err := q.Run(ctx, `DELETE FROM images WHERE lesson_id = ?`, id); err != nil {
				return fmt.Errorf("clear images: %w", err)
			}
			if err := insertImages(ctx, q, id, in.Images); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Run(ctx, `DELETE FROM lessons WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	if res.Changes == 0 {
		return &NotFoundError{Message: "الدرس غير موجود"}
	}
	return nil
}

func (r *LessonRepository) unitExists(ctx context.Context, unitID int64) error {
	var id int64
	err := r.db.Get(ctx, `SELECT id FROM units WHERE id = ?`, unitID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return &NotFoundError{Code: CodeUnitNotFound, Message: "الوحدة الدراسية غير موجودة"}
	}
	return err
}

func (r *LessonRepository) videosFor(ctx context.Context, lessonID int64) ([]models.Video, error) {
	rows, err := r.db.All(ctx, `SELECT id, lesson_id, video_url, position, size, explanation FROM videos WHERE lesson_id = ? ORDER BY display_order ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	videos := []models.Video{}
	for rows.Next() {
		var v models.Video
		if err := rows.Scan(&v.ID, &v.LessonID, &v.VideoURL, &v.Position, &v.Size, &v.Explanation); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (r *LessonRepository) imagesFor(ctx context.Context, lessonID int64) ([]models.Image, error) {
	rows, err := r.db.All(ctx, `SELECT id, lesson_id, image_path, position, size, caption FROM images WHERE lesson_id = ? ORDER BY display_order ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	images := []models.Image{}
	for rows.Next() {
		var img models.Image
		if err := rows.Scan(&img.ID, &img.LessonID, &img.ImagePath, &img.Position, &img.Size, &img.Caption); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func insertVideos(ctx context.Context, q database.Querier, lessonID int64, videos []VideoInput) error {
	for i, v := range videos {
		if v.VideoURL == "" {
			continue
		}
		position := v.Position
		if position == "" {
			position = "bottom"
		}
		size := v.Size
		if size == "" {
			size = "large"
		}
		if _, err := q.Run(ctx, `INSERT INTO videos (lesson_id, video_url, position, size, explanation, display_order) VALUES (?, ?, ?, ?, ?, ?)`,
			lessonID, v.VideoURL, position, size, v.Explanation, i); err != nil {
			return fmt.Errorf("insert video: %w", err)
		}
	}
	return nil
}

func insertImages(ctx context.Context, q database.Querier, lessonID int64, images []ImageInput) error {
	for i, img := range images {
		if img.ImagePath == "" {
			continue
		}
		position := img.Position
		if position == "" {
			position = "bottom"
		}
		size := img.Size
		if size == "" {
			size = "medium"
		}
		if _, err := q.Run(ctx, `INSERT INTO images (lesson_id, image_path, position, size, caption, display_order) VALUES (?, ?, ?, ?, ?, ?)`,
			lessonID, img.ImagePath, position, size, img.Caption, i); err != nil {
			return fmt.Errorf("insert image: %w", err)
		}
	}
	return nil
}
