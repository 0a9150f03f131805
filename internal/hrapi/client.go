// Package hrapi reads employees and leave records from a running HR
// dashboard API.
package hrapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultPageSize = 100

// APIError is a non-2xx answer from the remote API.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hrapi: %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("hrapi: %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	validate   *validator.Validate
	pageSize   int
	logger     *zap.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, logger ...*zap.Logger) *Client {
	l := zap.L().Named("hrapi.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("hrapi.client")
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		validate:   newValidator(),
		pageSize:   defaultPageSize,
		logger:     l,
	}
}

type envelope struct {
	Ok    bool              `json:"ok"`
	Data  []json.RawMessage `json:"data"`
	Meta  *pageMeta         `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type pageMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
}

// fetchAll walks every page of a list endpoint and returns the raw elements.
func (c *Client) fetchAll(ctx context.Context, path string, query url.Values) ([]json.RawMessage, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("page_size", strconv.Itoa(c.pageSize))

	var items []json.RawMessage
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		env, err := c.get(ctx, path, query)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", path, page, err)
		}
		items = append(items, env.Data...)

		if env.Meta == nil || page >= env.Meta.TotalPages || len(env.Data) == 0 {
			return items, nil
		}
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Type", "api")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
		if decodeErr == nil && env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return nil, apiErr
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode response: %w", decodeErr)
	}
	return &env, nil
}
