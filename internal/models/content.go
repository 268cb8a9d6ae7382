package models

// ContentKind discriminates movie content from TV content. It selects both
// the TMDB URL namespace and the user list namespace.
type ContentKind string

const (
	KindMovie ContentKind = "movie"
	KindTV    ContentKind = "tv"
)

// PathSegment returns the TMDB API path segment for the kind.
func (k ContentKind) PathSegment() string {
	return string(k)
}

// ListName identifies one of the two per-kind user lists.
type ListName string

const (
	ListWatchlist ListName = "watchlist"
	ListFavorites ListName = "favorites"
)

// ResolvedSummary is the display-ready view of a stored content id, produced
// by resolving the id against TMDB at read time. It is never persisted.
type ResolvedSummary struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	PosterPath string `json:"poster_path"`
}

// CastMember is a trimmed credits entry.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
	Character   string `json:"character"`
}

// ContentTag is an id/name pair as TMDB returns genres.
type ContentTag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
