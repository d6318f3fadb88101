package favsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sounddrop/shared/models"
)

// HTTPClient talks to the favorites endpoints with a bearer token.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a favorites API client. An empty token leaves the
// client unauthenticated.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Authenticated reports whether the client carries a bearer token.
func (c *HTTPClient) Authenticated() bool {
	return c.token != ""
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type favoritesPage struct {
	Data       []models.Favorite `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// ListFavorites fetches one page of the viewer's favorites.
func (c *HTTPClient) ListFavorites(ctx context.Context, page, limit int) ([]models.Favorite, models.Pagination, error) {
	url := fmt.Sprintf("%s/api/favorites?page=%d&limit=%d", c.baseURL, page, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("build request: %w", err)
	}

	var result favoritesPage
	if err := c.do(req, http.StatusOK, &result); err != nil {
		return nil, models.Pagination{}, err
	}
	return result.Data, result.Pagination, nil
}

// CreateFavorite bookmarks a sample for the viewer.
func (c *HTTPClient) CreateFavorite(ctx context.Context, sampleID int64) (*models.Favorite, error) {
	body, err := json.Marshal(models.CreateFavoriteRequest{SampleID: sampleID})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/favorites", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var fav models.Favorite
	if err := c.do(req, http.StatusCreated, &fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

// DeleteFavorite removes one of the viewer's favorites by record ID.
func (c *HTTPClient) DeleteFavorite(ctx context.Context, favoriteID int64) error {
	url := fmt.Sprintf("%s/api/favorites/%d", c.baseURL, favoriteID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	return c.do(req, http.StatusNoContent, nil)
}

// do issues the request with auth headers and decodes the response into
// out when the status matches; anything else becomes an *APIError.
func (c *HTTPClient) do(req *http.Request, wantStatus int, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Error == "" {
			apiErr.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
