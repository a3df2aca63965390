package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/scrybe/scrybe-backend/internal/domain"
)

// StoryRepo provides typed Postgres operations for stories and their chapters.
type StoryRepo struct {
	db *sqlx.DB
}

func NewStoryRepo(db *sqlx.DB) *StoryRepo {
	return &StoryRepo{db: db}
}

const storyColumns = `id, title, genre, ai_name, cover_image_url, user_id, created_at, updated_at`
const chapterColumns = `id, story_id, chapter_number, title, content, created_at`

// Create inserts the story and its chapters in one transaction and fills in
// the DB-assigned ids.
func (r *StoryRepo) Create(ctx context.Context, s *domain.Story) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	err = tx.QueryRowContext(ctx, `
		INSERT INTO stories (title, genre, ai_name, cover_image_url, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, s.Title, s.Genre, s.AIName, s.CoverImageURL, s.UserID, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
	if err != nil {
		return fmt.Errorf("insert story: %w", err)
	}

	for i := range s.Chapters {
		ch := &s.Chapters[i]
		ch.StoryID = s.ID
		ch.CreatedAt = now
		err = tx.QueryRowContext(ctx, `
			INSERT INTO chapters (story_id, chapter_number, title, content, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, ch.StoryID, ch.ChapterNumber, ch.Title, ch.Content, ch.CreatedAt).Scan(&ch.ID)
		if err != nil {
			return fmt.Errorf("insert chapter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Get loads a story with its chapters ordered by chapter_number. The ordering
// key is caller-supplied and not validated for uniqueness.
func (r *StoryRepo) Get(ctx context.Context, storyID int64) (*domain.Story, error) {
	var s domain.Story
	query := fmt.Sprintf(`SELECT %s FROM stories WHERE id = $1`, storyColumns)
	if err := r.db.GetContext(ctx, &s, query, storyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("story not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get story: %w", err)
	}
	chapters, err := r.chaptersFor(ctx, storyID)
	if err != nil {
		return nil, err
	}
	s.Chapters = chapters
	return &s, nil
}

// ListByUser returns all of a user's stories with chapters loaded.
func (r *StoryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Story, error) {
	var stories []domain.Story
	query := fmt.Sprintf(`SELECT %s FROM stories WHERE user_id = $1 ORDER BY id`, storyColumns)
	if err := r.db.SelectContext(ctx, &stories, query, userID); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	for i := range stories {
		chapters, err := r.chaptersFor(ctx, stories[i].ID)
		if err != nil {
			return nil, err
		}
		stories[i].Chapters = chapters
	}
	return stories, nil
}

// SetCoverURL records the generated cover location on the story.
func (r *StoryRepo) SetCoverURL(ctx context.Context, storyID int64, url string) error {
	query := `UPDATE stories SET cover_image_url = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, storyID, url, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set cover url: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("story not found: %w", domain.ErrNotFound)
	}
	return nil
}

// StatsByUser aggregates the caller's writing activity. Word counts are
// computed in SQL by splitting chapter content on whitespace.
func (r *StoryRepo) StatsByUser(ctx context.Context, userID int64) (*domain.ProfileStats, error) {
	stats := &domain.ProfileStats{MostCommonGenre: "N/A"}

	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT s.id),
		       COALESCE(SUM(array_length(regexp_split_to_array(trim(c.content), '\s+'), 1)), 0)
		FROM stories s
		LEFT JOIN chapters c ON c.story_id = s.id
		WHERE s.user_id = $1
	`, userID).Scan(&stats.StoriesCreated, &stats.TotalWords)
	if err != nil {
		return nil, fmt.Errorf("aggregate story stats: %w", err)
	}

	var genre string
	err = r.db.QueryRowContext(ctx, `
		SELECT genre FROM stories
		WHERE user_id = $1
		GROUP BY genre
		ORDER BY COUNT(*) DESC, genre
		LIMIT 1
	`, userID).Scan(&genre)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// no stories yet, keep the N/A default
	case err != nil:
		return nil, fmt.Errorf("most common genre: %w", err)
	default:
		stats.MostCommonGenre = genre
	}
	return stats, nil
}

func (r *StoryRepo) chaptersFor(ctx context.Context, storyID int64) ([]domain.Chapter, error) {
	chapters := []domain.Chapter{}
	query := fmt.Sprintf(`SELECT %s FROM chapters WHERE story_id = $1 ORDER BY chapter_number, id`, chapterColumns)
	if err := r.db.SelectContext(ctx, &chapters, query, storyID); err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return chapters, nil
}
