package service

import (
	"context"
	"errors"

	"movieflix/internal/models"
)

// UserStore is the persistence surface the services need for user accounts.
// *repository.UserRepository implements it.
type UserStore interface {
	Create(username, email, passwordHash string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	UpdateList(userID int, kind models.ContentKind, list models.ListName, ids []int) error
	UpdatePreferences(userID int, prefs models.Preferences) error
}

// ReviewStore is the persistence surface for reviews.
// *repository.ReviewRepository implements it.
type ReviewStore interface {
	Upsert(userID, contentID, rating int, comment string) (*models.Review, error)
	Delete(userID, contentID int) error
	ListByContent(contentID, page, limit int) ([]models.ReviewWithUser, int, error)
	RecentByUser(userID, limit int) ([]models.Review, error)
	CountByUser(userID int) (int, error)
}

// SummaryResolver resolves stored content ids against the upstream catalog.
// *tmdb.Client implements it.
type SummaryResolver interface {
	ResolveSummary(ctx context.Context, kind models.ContentKind, id int) (*models.ResolvedSummary, error)
}

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidContentID   = errors.New("invalid content id")
	ErrContentNotFound    = errors.New("content not found")
)

// ValidationError carries a user-facing message for malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
