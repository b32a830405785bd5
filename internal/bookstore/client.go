// Package bookstore is the HTTP client for the remote Book Store service.
package bookstore

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

	"github.com/bookdeck/bookdeck/internal/engine"
)

const defaultTimeout = 30 * time.Second

// Client talks to one Book Store instance.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ engine.Store = (*Client)(nil)

// New creates a Client for the given base URL. The address is always passed
// in explicitly; the client has no ambient default host. A non-positive
// timeout falls back to 30s.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// listEnvelope is the GET /books response. Only success and data are
// consumed; the timestamp is the server's concern.
type listEnvelope struct {
	Success   bool          `json:"success"`
	Data      []engine.Book `json:"data"`
	Timestamp string        `json:"timestamp"`
}

// ListBooks fetches the full collection. A success=false envelope is an
// error like any other transport failure; callers treat it as "no update".
func (c *Client) ListBooks(ctx context.Context) ([]engine.Book, error) {
	var env listEnvelope
	if err := c.doJSON(ctx, http.MethodGet, c.url("books"), nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, fmt.Errorf("book store: %w", ErrRejected)
	}
	if env.Data == nil {
		return []engine.Book{}, nil
	}
	return env.Data, nil
}

// UpdatePagesRead pushes a new progress counter for one book.
func (c *Client) UpdatePagesRead(ctx context.Context, id string, pagesRead int) error {
	body := struct {
		PagesRead int `json:"pagesRead"`
	}{pagesRead}
	return c.doJSON(ctx, http.MethodPut, c.url("books", id, "pages-read"), body, nil)
}

// AddReview submits a star review for one book.
func (c *Client) AddReview(ctx context.Context, id string, review engine.Review) error {
	return c.doJSON(ctx, http.MethodPost, c.url("books", id, "review"), review, nil)
}

// doJSON sends a request with an optional JSON body and decodes the JSON
// response into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, url string, body, out interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// url builds an API URL from path segments, escaping each one.
func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// checkStatus returns a typed error for non-2xx responses.
func checkStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("book store error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}
