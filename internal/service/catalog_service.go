package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"sort"

	"golang.org/x/sync/errgroup"

	"movieflix/internal/models"
	"movieflix/internal/tmdb"
)

// CatalogService proxies browse, search and detail reads to TMDB. Browse and
// search responses pass through unmodified; detail responses are composed
// from several upstream lookups with per-part failures swallowed.
type CatalogService struct {
	tmdb *tmdb.Client
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(client *tmdb.Client) *CatalogService {
	return &CatalogService{tmdb: client}
}

// Search searches for content of one kind by name.
func (s *CatalogService) Search(ctx context.Context, kind models.ContentKind, query, page string) (json.RawMessage, error) {
	if query == "" {
		return nil, &ValidationError{Message: "query is required"}
	}
	return s.tmdb.Get(ctx, "/search/"+kind.PathSegment(), url.Values{
		"query": {query},
		"page":  {defaultPage(page)},
	})
}

// Trending returns the daily trending movies.
func (s *CatalogService) Trending(ctx context.Context, page string) (json.RawMessage, error) {
	return s.tmdb.Get(ctx, "/trending/movie/day", url.Values{"page": {defaultPage(page)}})
}

// Popular returns popular content of one kind.
func (s *CatalogService) Popular(ctx context.Context, kind models.ContentKind, page string) (json.RawMessage, error) {
	return s.tmdb.Get(ctx, "/"+kind.PathSegment()+"/popular", url.Values{
		"language": {"en-US"},
		"page":     {defaultPage(page)},
	})
}

// TopRated returns top rated content of one kind.
func (s *CatalogService) TopRated(ctx context.Context, kind models.ContentKind, page string) (json.RawMessage, error) {
	return s.tmdb.Get(ctx, "/"+kind.PathSegment()+"/top_rated", url.Values{
		"language": {"en-US"},
		"page":     {defaultPage(page)},
	})
}

// Indian returns movies from India sorted by popularity.
func (s *CatalogService) Indian(ctx context.Context, page string) (json.RawMessage, error) {
	return s.tmdb.Get(ctx, "/discover/movie", url.Values{
		"with_origin_country": {"IN"},
		"sort_by":             {"popularity.desc"},
		"page":                {defaultPage(page)},
	})
}

// MultiSearch searches movies and TV shows together. Person results are
// filtered out and the rest are ordered by popularity.
func (s *CatalogService) MultiSearch(ctx context.Context, query, page string) (map[string]any, error) {
	if query == "" {
		return nil, &ValidationError{Message: "query is required"}
	}
	body, err := s.tmdb.Get(ctx, "/search/multi", url.Values{
		"query":         {query},
		"page":          {defaultPage(page)},
		"include_adult": {"false"},
	})
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode multi search: %w", err)
	}

	raw, _ := payload["results"].([]any)
	results := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if mt, _ := entry["media_type"].(string); mt == "movie" || mt == "tv" {
			results = append(results, entry)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return popularityOf(results[i]) > popularityOf(results[j])
	})

	payload["results"] = results
	return payload, nil
}

// ContentDetails returns the full detail object for a content id with top
// cast and regional streaming availability merged in. Credits and provider
// failures degrade the response instead of failing it.
func (s *CatalogService) ContentDetails(ctx context.Context, kind models.ContentKind, id int) (map[string]any, error) {
	details, err := s.tmdb.Details(ctx, kind, id)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}

	cast, err := s.tmdb.Credits(ctx, kind, id)
	if err != nil {
		slog.Debug("credits unavailable", "kind", kind, "id", id, "error", err)
		cast = []models.CastMember{}
	}
	details["cast"] = cast

	if providers, err := s.tmdb.WatchProviders(ctx, kind, id); err == nil {
		details["stream"] = providers
	}

	return details, nil
}

// Hover returns the lightweight preview payload: trailer key plus a few
// detail fields. The two upstream lookups run concurrently and each failure
// only blanks its part of the payload.
func (s *CatalogService) Hover(ctx context.Context, kind models.ContentKind, id int) (map[string]any, error) {
	var (
		key     string
		details hoverDetails
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		k, err := s.tmdb.TrailerKey(gctx, kind, id)
		if err != nil {
			return err
		}
		key = k
		return nil
	})
	g.Go(func() error {
		body, err := s.tmdb.Get(gctx, fmt.Sprintf("/%s/%d", kind.PathSegment(), id), nil)
		if err != nil {
			slog.Debug("hover details unavailable", "kind", kind, "id", id, "error", err)
			return nil
		}
		return json.Unmarshal(body, &details)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	genres := details.Genres
	if genres == nil {
		genres = []models.ContentTag{}
	}
	payload := map[string]any{
		"key":    nullableKey(key),
		"genres": genres,
	}
	if kind == models.KindTV {
		runtime := 0
		if len(details.EpisodeRunTime) > 0 {
			runtime = details.EpisodeRunTime[0]
		}
		payload["runtime"] = runtime
		payload["first_air_date"] = details.FirstAirDate
		payload["seasons"] = details.NumberOfSeasons
	} else {
		payload["runtime"] = details.Runtime
		payload["release_date"] = details.ReleaseDate
	}
	return payload, nil
}

// Trailer returns the trailer key for a content id, empty when none exists.
func (s *CatalogService) Trailer(ctx context.Context, kind models.ContentKind, id int) (string, error) {
	return s.tmdb.TrailerKey(ctx, kind, id)
}

// Season returns the episode list for one season of a TV show.
func (s *CatalogService) Season(ctx context.Context, tvID, seasonNumber int) (json.RawMessage, error) {
	body, err := s.tmdb.Season(ctx, tvID, seasonNumber)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, err
	}
	return body, nil
}

// Random picks a random movie from today's trending list and returns its
// composed detail view. The stream field is always present, empty when no
// providers are known.
func (s *CatalogService) Random(ctx context.Context) (map[string]any, error) {
	ids, err := s.trendingIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, ErrContentNotFound
	}

	details, err := s.ContentDetails(ctx, models.KindMovie, ids[rand.Intn(len(ids))])
	if err != nil {
		return nil, err
	}
	if _, ok := details["stream"]; !ok {
		details["stream"] = json.RawMessage(`{}`)
	}
	return details, nil
}

const liveMovieCount = 10

// Live returns today's top trending movies with their top cast attached.
// Credit lookups run concurrently; a failed lookup leaves an empty cast.
func (s *CatalogService) Live(ctx context.Context) ([]map[string]any, error) {
	body, err := s.tmdb.Get(ctx, "/trending/movie/day", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode trending: %w", err)
	}

	movies := payload.Results
	if len(movies) > liveMovieCount {
		movies = movies[:liveMovieCount]
	}

	var g errgroup.Group
	for _, movie := range movies {
		g.Go(func() error {
			id, ok := movie["id"].(float64)
			if !ok {
				movie["cast"] = []models.CastMember{}
				return nil
			}
			cast, err := s.tmdb.Credits(ctx, models.KindMovie, int(id))
			if err != nil {
				cast = []models.CastMember{}
			}
			movie["cast"] = cast
			return nil
		})
	}
	_ = g.Wait()

	return movies, nil
}

func (s *CatalogService) trendingIDs(ctx context.Context) ([]int, error) {
	body, err := s.tmdb.Get(ctx, "/trending/movie/day", nil)
	if err != nil {
		return nil, err
	}
	var payload struct {
		Results []struct {
			ID int `json:"id"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode trending: %w", err)
	}
	ids := make([]int, 0, len(payload.Results))
	for _, r := range payload.Results {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

type hoverDetails struct {
	Runtime         int                 `json:"runtime"`
	ReleaseDate     string              `json:"release_date"`
	FirstAirDate    string              `json:"first_air_date"`
	EpisodeRunTime  []int               `json:"episode_run_time"`
	Genres          []models.ContentTag `json:"genres"`
	NumberOfSeasons int                 `json:"number_of_seasons"`
}

func defaultPage(page string) string {
	if page == "" {
		return "1"
	}
	return page
}

func popularityOf(entry map[string]any) float64 {
	p, _ := entry["popularity"].(float64)
	return p
}

// nullableKey maps an absent trailer to JSON null the way clients expect.
func nullableKey(key string) any {
	if key == "" {
		return nil
	}
	return key
}
