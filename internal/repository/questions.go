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

type QuestionRepository struct {
	db *database.DB
}

func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

type QuestionInput struct {
	QuestionText  string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectAnswer string
}

func (in *QuestionInput) validate() error {
	if in.QuestionText == "" || in.OptionA == "" || in.OptionB == "" || in.OptionC == "" || in.OptionD == "" || in.CorrectAnswer == "" {
		return &ValidationError{Message: "جميع الحقول مطلوبة"}
	}
	in.CorrectAnswer = strings.ToUpper(in.CorrectAnswer)
	switch in.CorrectAnswer {
	case "A", "B", "C", "D":
		return nil
	}
	return &ValidationError{Message: "الإجابة الصحيحة يجب أن تكون A أو B أو C أو D"}
}

// ListPublic returns a lesson's questions without the correct answer.
func (r *QuestionRepository) ListPublic(ctx context.Context, lessonID int64) ([]models.Question, error) {
	rows, err := r.db.All(ctx, `SELECT id, lesson_id, question_text, option_a, option_b, option_c, option_d, display_order
		FROM questions WHERE lesson_id = ? ORDER BY display_order ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.LessonID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.DisplayOrder); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ListAdmin returns questions including the correct answers.
func (r *QuestionRepository) ListAdmin(ctx context.Context, lessonID int64) ([]models.Question, error) {
	rows, err := r.db.All(ctx, `SELECT id, lesson_id, question_text, option_a, option_b, option_c, option_d, correct_answer, display_order
		FROM questions WHERE lesson_id = ? ORDER BY display_order ASC`, lessonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.LessonID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer, &q.DisplayOrder); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CheckAnswer grades one submitted answer and reveals the correct letter.
func (r *QuestionRepository) CheckAnswer(ctx context.Context, questionID int64, answer string) (bool, string, error) {
	var correct string
	err := r.db.Get(ctx, `SELECT correct_answer FROM questions WHERE id = ?`, questionID).Scan(&correct)
	if errors.Is(err, sql.ErrNoRows) {
		return false, "", &NotFoundError{Message: "السؤال غير موجود"}
	}
	if err != nil {
		return false, "", err
	}
	ok := strings.EqualFold(strings.TrimSpace(answer), correct)
	return ok, correct, nil
}

// Create appends a question at the end of the lesson's quiz:
// display_order = max + 1.
func (r *QuestionRepository) Create(ctx context.Context, lessonID int64, in QuestionInput) (*models.Question, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var res database.Result
	err := r.db.InTx(ctx, func(q database.Querier) error {
		var maxOrder int
		if err := q.Get(ctx, `SELECT COALESCE(MAX(display_order), 0) FROM questions WHERE lesson_id = ?`, lessonID).Scan(&maxOrder); err != nil {
			return fmt.Errorf("next question order: %w", err)
		}
		var err error
		res, err = q.Run(ctx, `INSERT INTO questions (lesson_id, question_text, option_a, option_b, option_c, option_d, correct_answer, display_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			lessonID, in.QuestionText, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.CorrectAnswer, maxOrder+1)
		if err != nil {
			return fmt.Errorf("insert question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, res.ID)
}

func (r *QuestionRepository) Update(ctx context.Context, questionID int64, in QuestionInput) (*models.Question, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	res, err := r.db.Run(ctx, `UPDATE questions SET question_text = ?, option_a = ?, option_b = ?, option_c = ?, option_d = ?, correct_answer = ? WHERE id = ?`,
		in.QuestionText, in.OptionA, in.OptionB, in.OptionC, in.OptionD, in.CorrectAnswer, questionID)
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	if res.Changes == 0 {
		return nil, &NotFoundError{Message: "السؤال غير موجود"}
	}
	return r.getByID(ctx, questionID)
}

func (r *QuestionRepository) Delete(ctx context.Context, questionID int64) error {
	res, err := r.db.Run(ctx, `DELETE FROM questions WHERE id = ?`, questionID)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.Changes == 0 {
		return &NotFoundError{Message: "السؤال غير موجود"}
	}
	return nil
}

func (r *QuestionRepository) getByID(ctx context.Context, id int64) (*models.Question, error) {
	q := &models.Question{}
	err := r.db.Get(ctx, `SELECT id, lesson_id, question_text, option_a, option_b, option_c, option_d, correct_answer, display_order
		FROM questions WHERE id = ?`, id).
		Scan(&q.ID, &q.LessonID, &q.QuestionText, &q.OptionA, &q.OptionB, &q.OptionC, &q.OptionD, &q.CorrectAnswer, &q.DisplayOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Message: "السؤال غير موجود"}
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}
