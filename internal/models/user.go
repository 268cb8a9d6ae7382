package models

import "time"

// User represents a user account stored in our database. PasswordHash never
// leaves the repository layer in responses.
type User struct {
	ID           int         `json:"id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Watchlist    []int       `json:"watchlist"`
	Favorites    []int       `json:"favorites"`
	WatchlistTV  []int       `json:"watchlistTV"`
	FavoritesTV  []int       `json:"favoritesTV"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Preferences holds the optional favorite genre/actor id lists.
type Preferences struct {
	FavoriteGenres []int `json:"favoriteGenres"`
	FavoriteActors []int `json:"favoriteActors"`
}

// List returns the id list selected by kind and name.
func (u *User) List(kind ContentKind, list ListName) []int {
	switch {
	case kind == KindMovie && list == ListWatchlist:
		return u.Watchlist
	case kind == KindMovie && list == ListFavorites:
		return u.Favorites
	case kind == KindTV && list == ListWatchlist:
		return u.WatchlistTV
	default:
		return u.FavoritesTV
	}
}

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string     `json:"token"`
	User  PublicUser `json:"user"`
}

// PublicUser is the response shape for user identity.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// PreferencesRequest is the payload for PUT /users/preferences. Nil slices
// mean "leave unchanged".
type PreferencesRequest struct {
	FavoriteGenres []int `json:"favoriteGenres"`
	FavoriteActors []int `json:"favoriteActors"`
}

// ProfileUser is the user block of the profile response: public fields plus
// the four resolved lists.
type ProfileUser struct {
	ID          int               `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Watchlist   []ResolvedSummary `json:"watchlist"`
	Favorites   []ResolvedSummary `json:"favorites"`
	WatchlistTV []ResolvedSummary `json:"watchlistTV"`
	FavoritesTV []ResolvedSummary `json:"favoritesTV"`
	Preferences Preferences       `json:"preferences"`
	ReviewCount int               `json:"reviewCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// ProfileResponse is the composed profile view.
type ProfileResponse struct {
	User          ProfileUser `json:"user"`
	RecentReviews []Review    `json:"recentReviews"`
}
