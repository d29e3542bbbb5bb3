package models

import "time"

type Admin struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// IdentitySettings is a singleton row of display strings shown in both the
// admin and student UIs.
type IdentitySettings struct {
	SchoolName    string `json:"schoolName"`
	PlatformLabel string `json:"platformLabel"`
	AdminName     string `json:"adminName"`
	AdminRole     string `json:"adminRole"`
}

type Class struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

type Unit struct {
	ID           int64     `json:"id"`
	ClassID      int64     `json:"class_id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Term         string    `json:"term"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`

	// Joined field for the admin listing.
	ClassName string `json:"class_name,omitempty"`
}

// UnitRef is the slim shape used by the student dashboard.
type UnitRef struct {
	ID      int64 `json:"id"`
	ClassID int64 `json:"class_id"`
}

type Lesson struct {
	ID        int64     `json:"id"`
	UnitID    int64     `json:"unit_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields for the admin listing.
	UnitTitle string `json:"unit_title,omitempty"`
	Term      string `json:"term,omitempty"`
	ClassID   int64  `json:"class_id,omitempty"`
	ClassName string `json:"class_name,omitempty"`

	Videos []Video `json:"videos,omitempty"`
	Images []Image `json:"images,omitempty"`
}

type Video struct {
	ID           int64   `json:"id"`
	LessonID     int64   `json:"lesson_id"`
	VideoURL     string  `json:"video_url"`
	Position     string  `json:"position"`
	Size         string  `json:"size"`
	Explanation  *string `json:"explanation"`
	DisplayOrder int     `json:"display_order,omitempty"`
}

type Image struct {
	ID           int64   `json:"id"`
	LessonID     int64   `json:"lesson_id"`
	ImagePath    string  `json:"image_path"`
	Position     string  `json:"position"`
	Size         string  `json:"size"`
	Caption      *string `json:"caption"`
	DisplayOrder int     `json:"display_order,omitempty"`
}

// Question carries the correct answer only in admin responses; public
// queries never select it.
type Question struct {
	ID            int64  `json:"id"`
	LessonID      int64  `json:"lesson_id"`
	QuestionText  string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	DisplayOrder  int    `json:"display_order"`
}

type DashboardData struct {
	Classes []Class   `json:"classes"`
	Units   []UnitRef `json:"units"`
}

type SearchResults struct {
	Classes []Class  `json:"classes"`
	Units   []Unit   `json:"units"`
	Lessons []Lesson `json:"lessons"`
}
