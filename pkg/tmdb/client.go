package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cineshuffle-server/internal/id"
	"cineshuffle-server/internal/model"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"

	// searchLimit caps how many search results the manual-add flow shows.
	searchLimit = 8
)

type Client struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func New(apiKey string) *Client {
	return &Client{APIKey: apiKey, BaseURL: defaultBaseURL, Client: &http.Client{Timeout: 15 * time.Second}}
}

// Configured reports whether the client has an API key. Unconfigured
// clients degrade gracefully: lookups absent, searches empty.
func (c *Client) Configured() bool { return c != nil && c.APIKey != "" }

type searchResp struct {
	Results []searchItem `json:"results"`
}

type searchItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
	Overview    string `json:"overview"`
	PosterPath  string `json:"poster_path"`
}

func langCode(lang string) string {
	if lang == model.LangTR {
		return "tr-TR"
	}
	return "en-US"
}

func (c *Client) search(ctx context.Context, query, year, lang string) ([]searchItem, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("missing TMDB API key")
	}
	u, _ := url.Parse(c.BaseURL + "/search/movie")
	q := u.Query()
	q.Set("api_key", c.APIKey)
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", langCode(lang))
	q.Set("page", "1")
	if year != "" {
		q.Set("year", year)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tmdb search status %d", resp.StatusCode)
	}
	var sr searchResp
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, err
	}
	return sr.Results, nil
}

// SearchMovies finds real movies for the manual-add flow. Results are
// unattached (temp folder) until the user picks one.
func (c *Client) SearchMovies(ctx context.Context, query, lang string) ([]model.Movie, error) {
	items, err := c.search(ctx, query, "", lang)
	if err != nil {
		return nil, err
	}
	if len(items) > searchLimit {
		items = items[:searchLimit]
	}
	now := time.Now().UnixMilli()
	out := make([]model.Movie, 0, len(items))
	for _, it := range items {
		m := model.Movie{
			ID:       id.MustGenerate(id.PrefixMovie),
			Title:    it.Title,
			Year:     yearOf(it.ReleaseDate),
			FolderID: model.TempFolderID,
			AddedAt:  now,
		}
		if it.Overview != "" {
			ov := it.Overview
			m.Overview = &ov
		}
		if it.PosterPath != "" {
			p := imageBaseURL + it.PosterPath
			m.PosterURL = &p
		}
		out = append(out, m)
	}
	return out, nil
}

// Lookup finds the best-matching real record for a title/year pair and
// returns its poster and overview, or nil when nothing matches.
func (c *Client) Lookup(ctx context.Context, title, year, lang string) (*model.Metadata, error) {
	items, err := c.search(ctx, title, year, lang)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	match := items[0]
	md := &model.Metadata{}
	if match.PosterPath != "" {
		p := imageBaseURL + match.PosterPath
		md.PosterURL = &p
	}
	if match.Overview != "" {
		ov := match.Overview
		md.Overview = &ov
	}
	return md, nil
}

func yearOf(releaseDate string) string {
	if i := strings.IndexByte(releaseDate, '-'); i > 0 {
		return releaseDate[:i]
	}
	return releaseDate
}
