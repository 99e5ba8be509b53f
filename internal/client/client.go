// Package client talks to the feed HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/theoremoon/articlefeed/internal/article"
	"github.com/theoremoon/articlefeed/internal/atom"
)

const userAgent = "articlefeed-client/1.0"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StatusError is returned for responses outside the expected statuses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Body)
}

func (c *Client) createRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}
	req.Header.Set("User-Agent", userAgent)

	return req, nil
}

// do sends the request and decodes a JSON body into out when the status is
// wantStatus. It reports false for 204 No Content.
func (c *Client) do(ctx context.Context, method, path string, body any, wantStatus int, out any) (bool, error) {
	req, err := c.createRequest(ctx, method, path, body)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	if resp.StatusCode != wantStatus {
		data, _ := io.ReadAll(resp.Body)
		return false, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("failed to decode JSON: %w", err)
		}
	}
	return true, nil
}

func (c *Client) Articles(ctx context.Context, query string) ([]article.Article, error) {
	path := "/api/articles"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	var articles []article.Article
	if _, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Publish reports false when the server ignored the article because its
// title or content was blank.
func (c *Client) Publish(ctx context.Context, title, content string) (article.Article, bool, error) {
	var a article.Article
	body := map[string]string{"title": title, "content": content}
	ok, err := c.do(ctx, http.MethodPost, "/api/articles", body, http.StatusCreated, &a)
	return a, ok, err
}

func (c *Client) Like(ctx context.Context, articleID int64) (article.Article, bool, error) {
	var a article.Article
	path := fmt.Sprintf("/api/articles/%d/like", articleID)
	ok, err := c.do(ctx, http.MethodPost, path, nil, http.StatusOK, &a)
	return a, ok, err
}

func (c *Client) Comment(ctx context.Context, articleID int64, text string) (article.Comment, bool, error) {
	var comment article.Comment
	path := fmt.Sprintf("/api/articles/%d/comments", articleID)
	ok, err := c.do(ctx, http.MethodPost, path, map[string]string{"text": text}, http.StatusCreated, &comment)
	return comment, ok, err
}

func (c *Client) Atom(ctx context.Context, query string) (*atom.Feed, error) {
	path := "/feed.atom"
	if query != "" {
		path += "?q=" + url.QueryEscape(query)
	}

	req, err := c.createRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	return atom.Parse(data)
}
