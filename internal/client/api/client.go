// Package api is the REST client for the backend: authentication, file
// operations and usage summaries. Transient failures (connection errors,
// 503) are retried with backoff before being reported as ErrUnavailable.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/dmitrijs2005/storebox/internal/client/models"
)

// Client talks to the backend REST API. It is not safe for concurrent use;
// the CLI drives it from a single goroutine.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	accessToken  string
	refreshToken string
}

// TokenPair mirrors the server's token response.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ListOptions narrow and order a listing request.
type ListOptions struct {
	Types  []string
	Search string
	Sort   string
	Limit  int
}

// NewClient constructs a client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SetTokens installs a token pair, e.g. one restored from the local store.
func (c *Client) SetTokens(access, refresh string) {
	c.accessToken = access
	c.refreshToken = refresh
}

// Tokens returns the current token pair.
func (c *Client) Tokens() (access, refresh string) {
	return c.accessToken, c.refreshToken
}

// Authorized reports whether the client holds an access token.
func (c *Client) Authorized() bool {
	return c.accessToken != ""
}

func newBackoff() retry.Backoff {
	return retry.WithMaxRetries(3, retry.NewFibonacci(200*time.Millisecond))
}

// do executes the request, retrying transient failures. A response with a
// status under 400 is returned to the caller; error statuses are mapped to
// the package sentinels.
func (c *Client) do(ctx context.Context, method, path string, body func() (io.Reader, string)) (*http.Response, error) {
	var resp *http.Response

	err := retry.Do(ctx, newBackoff(), func(ctx context.Context) error {
		var reader io.Reader
		contentType := ""
		if body != nil {
			reader, contentType = body()
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return err
		}
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if c.accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.accessToken)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("%w: %v", ErrUnavailable, err))
		}
		if resp.StatusCode == http.StatusServiceUnavailable {
			resp.Body.Close()
			return retry.RetryableError(ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode < 400:
		return resp, nil
	case resp.StatusCode == http.StatusUnauthorized:
		resp.Body.Close()
		return nil, ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrNotFound
	default:
		defer resp.Body.Close()
		var er struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&er); err == nil && er.Error != "" {
			return nil, fmt.Errorf("server error (%d): %s", resp.StatusCode, er.Error)
		}
		return nil, fmt.Errorf("server error (%d)", resp.StatusCode)
	}
}

func jsonBody(v any) func() (io.Reader, string) {
	return func() (io.Reader, string) {
		b, _ := json.Marshal(v)
		return bytes.NewReader(b), "application/json"
	}
}

func decodeInto(resp *http.Response, v any) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/register",
		jsonBody(map[string]string{"email": email, "password": password}))
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Login authenticates and stores the received token pair on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/login",
		jsonBody(map[string]string{"email": email, "password": password}))
	if err != nil {
		return err
	}

	var pair TokenPair
	if err := decodeInto(resp, &pair); err != nil {
		return fmt.Errorf("bad login response: %w", err)
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// Refresh rotates the refresh token and installs the new pair.
func (c *Client) Refresh(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/auth/refresh",
		jsonBody(map[string]string{"refresh_token": c.refreshToken}))
	if err != nil {
		return err
	}

	var pair TokenPair
	if err := decodeInto(resp, &pair); err != nil {
		return fmt.Errorf("bad refresh response: %w", err)
	}
	c.SetTokens(pair.AccessToken, pair.RefreshToken)
	return nil
}

// ListFiles fetches the records visible to the authenticated user.
func (c *Client) ListFiles(ctx context.Context, opts ListOptions) ([]models.File, error) {
	q := url.Values{}
	if len(opts.Types) > 0 {
		q.Set("types", strings.Join(opts.Types, ","))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Sort != "" {
		q.Set("sort", opts.Sort)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/api/files"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Files []models.File `json:"files"`
		Total int           `json:"total"`
	}
	if err := decodeInto(resp, &out); err != nil {
		return nil, fmt.Errorf("bad list response: %w", err)
	}
	return out.Files, nil
}

// UploadFile sends content as a multipart body and returns the new record.
func (c *Client) UploadFile(ctx context.Context, name string, data []byte) (*models.File, error) {
	body := func() (io.Reader, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", name)
		_, _ = part.Write(data)
		mw.Close()
		return &buf, mw.FormDataContentType()
	}

	resp, err := c.do(ctx, http.MethodPost, "/api/files", body)
	if err != nil {
		return nil, err
	}

	var record models.File
	if err := decodeInto(resp, &record); err != nil {
		return nil, fmt.Errorf("bad upload response: %w", err)
	}
	return &record, nil
}

// RenameFile sets a new base name for the record.
func (c *Client) RenameFile(ctx context.Context, fileID, newName string) (*models.File, error) {
	resp, err := c.do(ctx, http.MethodPatch, "/api/files/"+url.PathEscape(fileID)+"/name",
		jsonBody(map[string]string{"name": newName}))
	if err != nil {
		return nil, err
	}

	var record models.File
	if err := decodeInto(resp, &record); err != nil {
		return nil, fmt.Errorf("bad rename response: %w", err)
	}
	return &record, nil
}

// UpdateSharing replaces the record's collaborator list.
func (c *Client) UpdateSharing(ctx context.Context, fileID string, emails []string) (*models.File, error) {
	resp, err := c.do(ctx, http.MethodPatch, "/api/files/"+url.PathEscape(fileID)+"/sharing",
		jsonBody(map[string][]string{"emails": emails}))
	if err != nil {
		return nil, err
	}

	var record models.File
	if err := decodeInto(resp, &record); err != nil {
		return nil, fmt.Errorf("bad sharing response: %w", err)
	}
	return &record, nil
}

// DeleteFile removes the record (and, server-side, its content).
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(fileID), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// UsageSummary fetches the per-category storage aggregate.
func (c *Client) UsageSummary(ctx context.Context) (*models.UsageSummary, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/usage", nil)
	if err != nil {
		return nil, err
	}

	var summary models.UsageSummary
	if err := decodeInto(resp, &summary); err != nil {
		return nil, fmt.Errorf("bad usage response: %w", err)
	}
	return &summary, nil
}
