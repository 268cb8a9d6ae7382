package service

import (
	"fmt"
	"unicode/utf8"

	"movieflix/internal/models"
)

const (
	maxCommentLength   = 1000
	defaultReviewLimit = 10
)

// ReviewService handles review submission, deletion and listing.
type ReviewService struct {
	reviews ReviewStore
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews ReviewStore) *ReviewService {
	return &ReviewService{reviews: reviews}
}

// Submit creates or replaces the caller's review for a content id.
func (s *ReviewService) Submit(userID, contentID int, req models.ReviewRequest) (*models.Review, error) {
	if contentID <= 0 {
		return nil, ErrInvalidContentID
	}
	if req.Rating < 1 || req.Rating > 10 {
		return nil, &ValidationError{Message: "rating must be between 1 and 10"}
	}
	if utf8.RuneCountInString(req.Comment) > maxCommentLength {
		return nil, &ValidationError{Message: "comment cannot exceed 1000 characters"}
	}
	return s.reviews.Upsert(userID, contentID, req.Rating, req.Comment)
}

// Delete removes the caller's review for a content id. Deleting a review
// that does not exist succeeds.
func (s *ReviewService) Delete(userID, contentID int) error {
	if contentID <= 0 {
		return ErrInvalidContentID
	}
	return s.reviews.Delete(userID, contentID)
}

// ListByContent returns one page of reviews for a content id, newest first.
// The average rating is computed over the returned page only, not over all
// reviews for the content id, and is rounded to one decimal.
func (s *ReviewService) ListByContent(contentID, page, limit int) (*models.ReviewPage, error) {
	if contentID <= 0 {
		return nil, ErrInvalidContentID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = defaultReviewLimit
	}

	reviews, total, err := s.reviews.ListByContent(contentID, page, limit)
	if err != nil {
		return nil, err
	}

	average := 0.0
	if len(reviews) > 0 {
		sum := 0
		for _, r := range reviews {
			sum += r.Rating
		}
		average = float64(sum) / float64(len(reviews))
	}

	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}

	return &models.ReviewPage{
		Reviews: reviews,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
		AverageRating: fmt.Sprintf("%.1f", average),
	}, nil
}
