package repository

import (
	"database/sql"
	"fmt"

	"movieflix/internal/models"
)

// ReviewRepository handles database operations for reviews. The
// (user_id, content_id) unique constraint keeps concurrent submits from
// creating duplicate records.
type ReviewRepository struct {
	db *sql.DB
}

// NewReviewRepository creates a new ReviewRepository.
func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Upsert creates or replaces the single review for a (user, content) pair.
func (r *ReviewRepository) Upsert(userID, contentID, rating int, comment string) (*models.Review, error) {
	var review models.Review
	err := r.db.QueryRow(`
		INSERT INTO reviews (user_id, content_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, content_id) DO UPDATE SET
			rating = EXCLUDED.rating,
			comment = EXCLUDED.comment,
			updated_at = NOW()
		RETURNING id, user_id, content_id, rating, comment, created_at, updated_at
	`, userID, contentID, rating, comment).Scan(
		&review.ID, &review.UserID, &review.ContentID,
		&review.Rating, &review.Comment, &review.CreatedAt, &review.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert review: %w", err)
	}
	return &review, nil
}

// Delete removes the review a user left for a content id. Deleting an absent
// review is a no-op.
func (r *ReviewRepository) Delete(userID, contentID int) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE user_id = $1 AND content_id = $2`, userID, contentID)
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	return nil
}

// ListByContent returns one page of reviews for a content id, newest first,
// with reviewer usernames, plus the total review count for the content id.
func (r *ReviewRepository) ListByContent(contentID, page, limit int) ([]models.ReviewWithUser, int, error) {
	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE content_id = $1`, contentID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count query failed: %w", err)
	}

	offset := (page - 1) * limit
	rows, err := r.db.Query(`
		SELECT r.id, r.user_id, r.content_id, r.rating, r.comment,
			r.created_at, r.updated_at, u.username
		FROM reviews r
		INNER JOIN users u ON u.id = r.user_id
		WHERE r.content_id = $1
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, contentID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list query failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.ReviewWithUser, 0)
	for rows.Next() {
		var rv models.ReviewWithUser
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.ContentID, &rv.Rating, &rv.Comment,
			&rv.CreatedAt, &rv.UpdatedAt, &rv.Username,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, total, rows.Err()
}

// RecentByUser returns the most recent reviews a user has written.
func (r *ReviewRepository) RecentByUser(userID, limit int) ([]models.Review, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, content_id, rating, comment, created_at, updated_at
		FROM reviews
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reviews query failed: %w", err)
	}
	defer rows.Close()

	reviews := make([]models.Review, 0)
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.UserID, &rv.ContentID, &rv.Rating, &rv.Comment,
			&rv.CreatedAt, &rv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// CountByUser returns the total number of reviews a user has written.
func (r *ReviewRepository) CountByUser(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
