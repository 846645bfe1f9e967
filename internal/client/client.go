// Package client is a typed HTTP client for the workflows API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/flowdeck/internal/workflows"
	"github.com/JaimeStill/flowdeck/pkg/handlers"
	"github.com/JaimeStill/flowdeck/pkg/pagination"
	"github.com/google/uuid"
)

// DefaultTimeout bounds each request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response. Message is the server's error text when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsValidation reports whether err is a 400 from the server.
func IsValidation(err error) bool {
	return hasStatus(err, http.StatusBadRequest)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client calls the workflows API under BaseURL (for example http://localhost:8080/api).
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// ListParams selects a page of workflows.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
	Status   workflows.Status
}

func (c *Client) List(ctx context.Context, p ListParams) (pagination.PageResult[workflows.Workflow], error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}

	path := "/workflows"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result pagination.PageResult[workflows.Workflow]
	err := c.do(ctx, http.MethodGet, path, nil, &result)
	return result, err
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodGet, itemPath(id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) Create(ctx context.Context, cmd workflows.CreateCommand) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodPost, "/workflows", cmd, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, cmd workflows.UpdateCommand) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodPatch, itemPath(id), cmd, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// Remove deletes the workflow and returns the removed record.
func (c *Client) Remove(ctx context.Context, id uuid.UUID) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodDelete, itemPath(id), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) SaveGraph(ctx context.Context, id uuid.UUID, cmd workflows.GraphCommand) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodPut, itemPath(id)+"/graph", cmd, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) Duplicate(ctx context.Context, id uuid.UUID, cmd workflows.DuplicateCommand) (*workflows.Workflow, error) {
	var w workflows.Workflow
	if err := c.do(ctx, http.MethodPost, itemPath(id)+"/duplicate", cmd, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func itemPath(id uuid.UUID) string {
	return "/workflows/" + id.String()
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body handlers.ErrorResponse
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}
