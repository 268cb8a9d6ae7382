package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"movieflix/internal/models"
)

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// UserRepository handles database operations for user accounts and their
// content id lists.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, email, password_hash,
	watchlist, favorites, watchlist_tv, favorites_tv,
	favorite_genres, favorite_actors, created_at, updated_at`

// Create inserts a new user with empty lists.
func (r *UserRepository) Create(username, email, passwordHash string) (*models.User, error) {
	row := r.db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns, username, email, passwordHash)

	user, err := scanUser(row)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// UpdateList replaces one of the four content id lists. The whole array is
// written in one statement, so concurrent mutations resolve last-write-wins.
func (r *UserRepository) UpdateList(userID int, kind models.ContentKind, list models.ListName, ids []int) error {
	column := listColumn(kind, list)
	_, err := r.db.Exec(
		fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2`, column),
		pq.Array(ids), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	return nil
}

// UpdatePreferences replaces both preference lists.
func (r *UserRepository) UpdatePreferences(userID int, prefs models.Preferences) error {
	_, err := r.db.Exec(`
		UPDATE users SET favorite_genres = $1, favorite_actors = $2, updated_at = NOW()
		WHERE id = $3
	`, pq.Array(prefs.FavoriteGenres), pq.Array(prefs.FavoriteActors), userID)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	return nil
}

// listColumn maps a (kind, list) pair to its users table column. The four
// lists are entirely separate sets.
func listColumn(kind models.ContentKind, list models.ListName) string {
	switch {
	case kind == models.KindMovie && list == models.ListWatchlist:
		return "watchlist"
	case kind == models.KindMovie && list == models.ListFavorites:
		return "favorites"
	case kind == models.KindTV && list == models.ListWatchlist:
		return "watchlist_tv"
	default:
		return "favorites_tv"
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	watchlist := pq.Int64Array{}
	favorites := pq.Int64Array{}
	watchlistTV := pq.Int64Array{}
	favoritesTV := pq.Int64Array{}
	favoriteGenres := pq.Int64Array{}
	favoriteActors := pq.Int64Array{}

	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&watchlist, &favorites, &watchlistTV, &favoritesTV,
		&favoriteGenres, &favoriteActors, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Watchlist = toIntSlice(watchlist)
	user.Favorites = toIntSlice(favorites)
	user.WatchlistTV = toIntSlice(watchlistTV)
	user.FavoritesTV = toIntSlice(favoritesTV)
	user.Preferences = models.Preferences{
		FavoriteGenres: toIntSlice(favoriteGenres),
		FavoriteActors: toIntSlice(favoriteActors),
	}
	return &user, nil
}

func toIntSlice(arr pq.Int64Array) []int {
	out := make([]int, len(arr))
	for i, v := range arr {
		out[i] = int(v)
	}
	return out
}
