package service_test

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"movieflix/internal/models"
	"movieflix/internal/repository"
)

// memUserStore is an in-memory service.UserStore.
type memUserStore struct {
	mu    sync.Mutex
	seq   int
	users map[int]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[int]*models.User)}
}

func (s *memUserStore) Create(username, email, passwordHash string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username || u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	s.seq++
	user := &models.User{
		ID:           s.seq,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Watchlist:    []int{},
		Favorites:    []int{},
		WatchlistTV:  []int{},
		FavoritesTV:  []int{},
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return copyUser(user), nil
}

func (s *memUserStore) GetByID(id int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyUser(user), nil
}

func (s *memUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *memUserStore) UpdateList(userID int, kind models.ContentKind, list models.ListName, ids []int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	switch {
	case kind == models.KindMovie && list == models.ListWatchlist:
		user.Watchlist = ids
	case kind == models.KindMovie && list == models.ListFavorites:
		user.Favorites = ids
	case kind == models.KindTV && list == models.ListWatchlist:
		user.WatchlistTV = ids
	default:
		user.FavoritesTV = ids
	}
	return nil
}

func (s *memUserStore) UpdatePreferences(userID int, prefs models.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[userID]
	if !ok {
		return sql.ErrNoRows
	}
	user.Preferences = prefs
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

// memReviewStore is an in-memory service.ReviewStore.
type memReviewStore struct {
	mu      sync.Mutex
	seq     int
	reviews map[[2]int]*models.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{reviews: make(map[[2]int]*models.Review)}
}

func (s *memReviewStore) Upsert(userID, contentID, rating int, comment string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int{userID, contentID}
	if existing, ok := s.reviews[key]; ok {
		existing.Rating = rating
		existing.Comment = comment
		existing.UpdatedAt = time.Now()
		c := *existing
		return &c, nil
	}
	s.seq++
	review := &models.Review{
		ID:        s.seq,
		UserID:    userID,
		ContentID: contentID,
		Rating:    rating,
		Comment:   comment,
		// Monotonic timestamps keep newest-first ordering deterministic.
		CreatedAt: time.Unix(int64(1700000000+s.seq), 0),
		UpdatedAt: time.Unix(int64(1700000000+s.seq), 0),
	}
	s.reviews[key] = review
	c := *review
	return &c, nil
}

func (s *memReviewStore) Delete(userID, contentID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reviews, [2]int{userID, contentID})
	return nil
}

func (s *memReviewStore) ListByContent(contentID, page, limit int) ([]models.ReviewWithUser, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.ReviewWithUser, 0)
	for _, r := range s.reviews {
		if r.ContentID == contentID {
			all = append(all, models.ReviewWithUser{
				Review:   *r,
				Username: fmt.Sprintf("user%d", r.UserID),
			})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (s *memReviewStore) RecentByUser(userID, limit int) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Review, 0)
	for _, r := range s.reviews {
		if r.UserID == userID {
			all = append(all, *r)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *memReviewStore) CountByUser(userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, r := range s.reviews {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

// fakeResolver resolves every id except the ones marked failing.
type fakeResolver struct {
	failing map[int]bool
}

func (r *fakeResolver) ResolveSummary(ctx context.Context, kind models.ContentKind, id int) (*models.ResolvedSummary, error) {
	if r.failing[id] {
		return nil, fmt.Errorf("upstream returned status 500")
	}
	return &models.ResolvedSummary{
		ID:         id,
		Title:      fmt.Sprintf("%s %d", kind, id),
		PosterPath: fmt.Sprintf("/poster-%d.jpg", id),
	}, nil
}
