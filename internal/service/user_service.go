package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"movieflix/internal/models"
)

const (
	recentReviewLimit  = 10
	resolveConcurrency = 8
)

// UserService owns the profile aggregation and the four content id lists.
type UserService struct {
	users    UserStore
	reviews  ReviewStore
	resolver SummaryResolver
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore, reviews ReviewStore, resolver SummaryResolver) *UserService {
	return &UserService{users: users, reviews: reviews, resolver: resolver}
}

// Profile composes the profile view for a user: public account fields, the
// four id lists resolved to display-ready summaries, the total review count
// and the most recent reviews.
//
// Resolution is best effort. The four lists resolve concurrently, ids inside
// each list resolve concurrently, and any id the upstream cannot resolve is
// dropped from the result. Only a missing user record or a store failure
// fails the whole call.
func (s *UserService) Profile(ctx context.Context, userID int) (*models.ProfileResponse, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	recent, err := s.reviews.RecentByUser(userID, recentReviewLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent reviews: %w", err)
	}
	reviewCount, err := s.reviews.CountByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count reviews: %w", err)
	}

	var watchlist, favorites, watchlistTV, favoritesTV []models.ResolvedSummary
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		watchlist = s.resolveList(gctx, models.KindMovie, user.Watchlist)
		return nil
	})
	g.Go(func() error {
		favorites = s.resolveList(gctx, models.KindMovie, user.Favorites)
		return nil
	})
	g.Go(func() error {
		watchlistTV = s.resolveList(gctx, models.KindTV, user.WatchlistTV)
		return nil
	})
	g.Go(func() error {
		favoritesTV = s.resolveList(gctx, models.KindTV, user.FavoritesTV)
		return nil
	})
	_ = g.Wait()

	return &models.ProfileResponse{
		User: models.ProfileUser{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			Watchlist:   watchlist,
			Favorites:   favorites,
			WatchlistTV: watchlistTV,
			FavoritesTV: favoritesTV,
			Preferences: user.Preferences,
			ReviewCount: reviewCount,
			CreatedAt:   user.CreatedAt,
		},
		RecentReviews: recent,
	}, nil
}

// resolveList fans out to the upstream for every id in a list, then keeps the
// resolved summaries and discards the failures. The drop policy is an
// explicit gather/partition step, not error suppression.
func (s *UserService) resolveList(ctx context.Context, kind models.ContentKind, ids []int) []models.ResolvedSummary {
	results := make([]*models.ResolvedSummary, len(ids))

	var g errgroup.Group
	g.SetLimit(resolveConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			summary, err := s.resolver.ResolveSummary(ctx, kind, id)
			if err != nil {
				slog.Debug("dropping unresolvable content id", "kind", kind, "id", id, "error", err)
				return nil
			}
			results[i] = summary
			return nil
		})
	}
	_ = g.Wait()

	resolved := make([]models.ResolvedSummary, 0, len(ids))
	for _, r := range results {
		if r != nil {
			resolved = append(resolved, *r)
		}
	}
	return resolved
}

// AddToList adds a content id to one of the user's lists. Adding an id that
// is already present is a no-op that still succeeds. Returns the updated list.
func (s *UserService) AddToList(userID int, kind models.ContentKind, list models.ListName, contentID int) ([]int, error) {
	if contentID <= 0 {
		return nil, ErrInvalidContentID
	}
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	ids := user.List(kind, list)
	if !slices.Contains(ids, contentID) {
		ids = append(ids, contentID)
		if err := s.users.UpdateList(userID, kind, list, ids); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// RemoveFromList removes a content id from one of the user's lists. Removing
// an absent id is a no-op that still succeeds. Returns the updated list.
func (s *UserService) RemoveFromList(userID int, kind models.ContentKind, list models.ListName, contentID int) ([]int, error) {
	if contentID <= 0 {
		return nil, ErrInvalidContentID
	}
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	ids := user.List(kind, list)
	filtered := slices.DeleteFunc(slices.Clone(ids), func(id int) bool { return id == contentID })
	if len(filtered) != len(ids) {
		if err := s.users.UpdateList(userID, kind, list, filtered); err != nil {
			return nil, err
		}
	}
	return filtered, nil
}

// UpdatePreferences applies a partial preferences update: nil fields in the
// request leave the stored value unchanged.
func (s *UserService) UpdatePreferences(userID int, req models.PreferencesRequest) (*models.Preferences, error) {
	user, err := s.loadUser(userID)
	if err != nil {
		return nil, err
	}

	prefs := user.Preferences
	if req.FavoriteGenres != nil {
		prefs.FavoriteGenres = req.FavoriteGenres
	}
	if req.FavoriteActors != nil {
		prefs.FavoriteActors = req.FavoriteActors
	}

	if err := s.users.UpdatePreferences(userID, prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

func (s *UserService) loadUser(userID int) (*models.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}
