package poller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/elijahdunhamm/FreshHotBreadAllDay/pkg/models"
)

// HTTPSource reads orders from the API as a staff user. It logs in lazily
// and once more when the token is rejected.
type HTTPSource struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client

	mu    sync.Mutex
	token string
}

func NewHTTPSource(baseURL, username, password string) *HTTPSource {
	return &HTTPSource{
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (s *HTTPSource) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &apiError{Status: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (s *HTTPSource) login(ctx context.Context) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	err := s.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": s.username,
		"password": s.password,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}

	s.mu.Lock()
	s.token = resp.Token
	s.mu.Unlock()
	return resp.Token, nil
}

func (s *HTTPSource) currentToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return s.login(ctx)
}

func (s *HTTPSource) authorized(ctx context.Context, path string, out interface{}) error {
	token, err := s.currentToken(ctx)
	if err != nil {
		return err
	}

	err = s.do(ctx, http.MethodGet, path, token, nil, out)
	var apiErr *apiError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if token, err = s.login(ctx); err != nil {
			return err
		}
		return s.do(ctx, http.MethodGet, path, token, nil, out)
	}
	return err
}

// ListOrders implements Source.
func (s *HTTPSource) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/orders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	orders := make([]models.Order, 0)
	if err := s.authorized(ctx, path, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetStats implements Source.
func (s *HTTPSource) GetStats(ctx context.Context) (models.OrderStats, error) {
	var stats models.OrderStats
	if err := s.authorized(ctx, "/api/orders/stats", &stats); err != nil {
		return models.OrderStats{}, err
	}
	return stats, nil
}
