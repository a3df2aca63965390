package domain

import "time"

type Story struct {
	ID            int64     `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Genre         string    `json:"genre" db:"genre"`
	AIName        string    `json:"ai_name" db:"ai_name"`
	CoverImageURL *string   `json:"cover_image_url" db:"cover_image_url"`
	UserID        *int64    `json:"-" db:"user_id"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
	UpdatedAt     time.Time `json:"-" db:"updated_at"`

	// Chapters are loaded with the story; the inverse direction is the
	// story_id column only.
	Chapters []Chapter `json:"chapters" db:"-"`
}

type Chapter struct {
	ID            int64     `json:"id" db:"id"`
	StoryID       int64     `json:"-" db:"story_id"`
	ChapterNumber int       `json:"chapter_number" db:"chapter_number"`
	Title         string    `json:"title" db:"title"`
	Content       string    `json:"content" db:"content"`
	CreatedAt     time.Time `json:"-" db:"created_at"`
}

type ChapterCreateRequest struct {
	ChapterNumber int    `json:"chapter_number"`
	Title         string `json:"title"`
	Content       string `json:"content" validate:"required"`
}

type StoryCreateRequest struct {
	Title    string                 `json:"title" validate:"required"`
	Genre    string                 `json:"genre" validate:"required"`
	AIName   string                 `json:"ai_name" validate:"required"`
	Chapters []ChapterCreateRequest `json:"chapters" validate:"dive"`
}
