// Package rickmorty is a small client for the public Rick and Morty REST API.
package rickmorty

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const DefaultBaseURL = "https://rickandmortyapi.com/api"

// Resource is an upstream collection endpoint.
type Resource string

const (
	Characters Resource = "character"
	Locations  Resource = "location"
)

// ErrMissingResults is returned when a listing body has no results field.
var ErrMissingResults = errors.New("page has no results field")

// StatusError is a non-2xx upstream response.
type StatusError struct {
	Path       string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %s: %s", e.Path, e.Status, e.Body)
}

type Client struct {
	http    *http.Client
	baseURL *url.URL
	err     error
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		u, err := url.Parse(raw)
		if err != nil {
			c.err = fmt.Errorf("parse base url: %w", err)
			return
		}
		if u.Scheme == "" || u.Host == "" {
			c.err = fmt.Errorf("base url %q must be absolute", raw)
			return
		}
		c.baseURL = u
	}
}

func New(opts ...Option) (*Client, error) {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:    http.DefaultClient,
		baseURL: u,
	}
	for _, o := range opts {
		o(c)
	}
	if c.err != nil {
		return nil, c.err
	}
	return c, nil
}

// Character fetches one character by id.
func (c *Client) Character(ctx context.Context, id string) (*Character, error) {
	var ch Character
	if err := c.getJSON(ctx, c.itemPath(Characters, id), nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Location fetches one location by id.
func (c *Client) Location(ctx context.Context, id string) (*Location, error) {
	var loc Location
	if err := c.getJSON(ctx, c.itemPath(Locations, id), nil, &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}

// Names returns the name of every element on one listing page of res.
// A null name comes back as "".
func (c *Client) Names(ctx context.Context, res Resource, pageNum int) ([]string, error) {
	var p page
	q := map[string]string{"page": strconv.Itoa(pageNum)}
	if err := c.getJSON(ctx, c.collectionPath(res), q, &p); err != nil {
		return nil, err
	}
	if p.Results == nil {
		return nil, fmt.Errorf("GET %s page %d: %w", res, pageNum, ErrMissingResults)
	}
	names := make([]string, 0, len(*p.Results))
	for _, r := range *p.Results {
		if r.Name == nil {
			names = append(names, "")
			continue
		}
		names = append(names, *r.Name)
	}
	return names, nil
}

func (c *Client) collectionPath(res Resource) string {
	return path.Join(c.baseURL.Path, string(res)) + "/"
}

// The id is appended verbatim, it is not validated or cleaned.
func (c *Client) itemPath(res Resource, id string) string {
	return path.Join(c.baseURL.Path, string(res)) + "/" + id
}

func (c *Client) newReq(ctx context.Context, p string, q map[string]string) (*http.Request, error) {
	u := *c.baseURL
	u.Path = p
	u.RawPath = ""
	qq := url.Values{}
	for k, v := range q {
		qq.Set(k, v)
	}
	u.RawQuery = qq.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID(ctx))
	return req, nil
}

func (c *Client) getJSON(ctx context.Context, p string, q map[string]string, out any) error {
	req, err := c.newReq(ctx, p, q)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", p, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	zerolog.Ctx(ctx).Debug().
		Str("url", req.URL.String()).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream request")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("GET %s: read body: %w", p, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Path: p, StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("GET %s: decode body: %w", p, err)
	}
	return nil
}

// requestID forwards the inbound request id when there is one.
func requestID(ctx context.Context) string {
	if id, ok := hlog.IDFromCtx(ctx); ok {
		return id.String()
	}
	return uuid.NewString()
}
