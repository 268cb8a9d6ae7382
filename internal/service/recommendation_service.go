package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"movieflix/internal/tmdb"
)

const recommendationLimit = 10

// RecommendationService builds movie recommendations from the user's
// favorite genres, falling back to trending for anonymous users or users
// without preferences.
type RecommendationService struct {
	users UserStore
	tmdb  *tmdb.Client
}

// NewRecommendationService creates a new RecommendationService.
func NewRecommendationService(users UserStore, client *tmdb.Client) *RecommendationService {
	return &RecommendationService{users: users, tmdb: client}
}

// ForUser returns up to 10 recommended movies. userID 0 means anonymous.
func (s *RecommendationService) ForUser(ctx context.Context, userID int) ([]json.RawMessage, error) {
	if userID > 0 {
		user, err := s.users.GetByID(userID)
		if err != nil {
			slog.Debug("falling back to trending recommendations", "user_id", userID, "error", err)
		} else if len(user.Preferences.FavoriteGenres) > 0 {
			genreID := user.Preferences.FavoriteGenres[0]
			results, err := s.fetchResults(ctx, "/discover/movie", url.Values{
				"with_genres": {strconv.Itoa(genreID)},
				"sort_by":     {"popularity.desc"},
				"page":        {"1"},
			})
			if err != nil {
				return nil, err
			}
			if len(results) > 0 {
				return results, nil
			}
		}
	}

	return s.fetchResults(ctx, "/trending/movie/day", nil)
}

// Similar returns up to 10 movies similar to the given one.
func (s *RecommendationService) Similar(ctx context.Context, movieID int) ([]json.RawMessage, error) {
	if movieID <= 0 {
		return nil, ErrInvalidContentID
	}
	return s.fetchResults(ctx, fmt.Sprintf("/movie/%d/similar", movieID), nil)
}

func (s *RecommendationService) fetchResults(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	body, err := s.tmdb.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}

	results := payload.Results
	if len(results) > recommendationLimit {
		results = results[:recommendationLimit]
	}
	if results == nil {
		results = []json.RawMessage{}
	}
	return results, nil
}
