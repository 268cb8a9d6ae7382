package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"movieflix/internal/config"
	"movieflix/internal/models"
)

// ErrNotFound is returned when TMDB reports 404 for a resource.
var ErrNotFound = errors.New("tmdb: not found")

// StatusError is a non-2xx TMDB response other than 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}

// Client is the TMDB API client. It is a read-only proxy: no retries, no
// backoff, every non-success response surfaces as a typed failure.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new TMDB API client from validated configuration.
func NewClient(cfg config.TMDBConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// ---- TMDB Response Types (internal, not exposed to consumers) ----

type summaryPayload struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Name       string `json:"name"`
	PosterPath string `json:"poster_path"`
}

type creditsResponse struct {
	Cast []castPayload `json:"cast"`
}

type castPayload struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ProfilePath string `json:"profile_path"`
	Character   string `json:"character"`
}

type videosResponse struct {
	Results []videoPayload `json:"results"`
}

type videoPayload struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type providersResponse struct {
	Results map[string]json.RawMessage `json:"results"`
}

// ---- Client Methods ----

// Get performs a raw pass-through request and returns the response body as-is.
// Browse and search endpoints are served unmodified from this.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.doGet(ctx, path, query)
}

// ResolveSummary resolves a stored content id to its display-ready summary.
// TV shows carry their name in the title field so clients render both kinds
// the same way.
func (c *Client) ResolveSummary(ctx context.Context, kind models.ContentKind, id int) (*models.ResolvedSummary, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/%s/%d", kind.PathSegment(), id), nil)
	if err != nil {
		return nil, err
	}

	var payload summaryPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode %s summary: %w", kind, err)
	}

	title := payload.Title
	if kind == models.KindTV {
		title = payload.Name
	}
	return &models.ResolvedSummary{
		ID:         payload.ID,
		Title:      title,
		PosterPath: payload.PosterPath,
	}, nil
}

// Details fetches the full detail object for a content id. The result is
// decoded into a generic map so callers can merge cast and provider data in.
func (c *Client) Details(ctx context.Context, kind models.ContentKind, id int) (map[string]any, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/%s/%d", kind.PathSegment(), id), nil)
	if err != nil {
		return nil, err
	}

	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("failed to decode %s detail: %w", kind, err)
	}
	return details, nil
}

const maxCastMembers = 4

// Credits fetches the top cast members for a content id.
func (c *Client) Credits(ctx context.Context, kind models.ContentKind, id int) ([]models.CastMember, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/%s/%d/credits", kind.PathSegment(), id), nil)
	if err != nil {
		return nil, err
	}

	var payload creditsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode credits: %w", err)
	}

	cast := payload.Cast
	if len(cast) > maxCastMembers {
		cast = cast[:maxCastMembers]
	}
	members := make([]models.CastMember, 0, len(cast))
	for _, m := range cast {
		character := m.Character
		if character == "" {
			character = "Unknown Role"
		}
		members = append(members, models.CastMember{
			ID:          m.ID,
			Name:        m.Name,
			ProfilePath: m.ProfilePath,
			Character:   character,
		})
	}
	return members, nil
}

// TrailerKey returns the YouTube key for a content item's trailer: an item
// tagged "Trailer" wins, any other YouTube video is the fallback, and an
// empty key means no trailer is available. Upstream HTTP failures map to
// "no trailer" rather than an error.
func (c *Client) TrailerKey(ctx context.Context, kind models.ContentKind, id int) (string, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/%s/%d/videos", kind.PathSegment(), id), url.Values{"language": {"en-US"}})
	if err != nil {
		var statusErr *StatusError
		if errors.Is(err, ErrNotFound) || errors.As(err, &statusErr) {
			return "", nil
		}
		return "", err
	}

	var payload videosResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to decode videos: %w", err)
	}

	fallback := ""
	for _, v := range payload.Results {
		if v.Site != "YouTube" {
			continue
		}
		if v.Type == "Trailer" {
			return v.Key, nil
		}
		if fallback == "" {
			fallback = v.Key
		}
	}
	return fallback, nil
}

// watchRegion is the fixed region for watch-provider lookups.
const watchRegion = "US"

// WatchProviders returns the regional streaming availability object for a
// content id, or an empty object when the region has no providers.
func (c *Client) WatchProviders(ctx context.Context, kind models.ContentKind, id int) (json.RawMessage, error) {
	body, err := c.doGet(ctx, fmt.Sprintf("/%s/%d/watch/providers", kind.PathSegment(), id), nil)
	if err != nil {
		return nil, err
	}

	var payload providersResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode watch providers: %w", err)
	}

	if regional, ok := payload.Results[watchRegion]; ok {
		return regional, nil
	}
	return json.RawMessage(`{}`), nil
}

// Season fetches season details (episode list) for a TV show.
func (c *Client) Season(ctx context.Context, tvID, seasonNumber int) (json.RawMessage, error) {
	return c.doGet(ctx, fmt.Sprintf("/tv/%d/season/%d", tvID, seasonNumber), nil)
}

func (c *Client) doGet(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.Debug("fetching TMDB", "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TMDB response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
