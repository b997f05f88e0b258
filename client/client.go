package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/foomo/guitarserver/pkg/guitars"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client talks to the guitar collection of a running server.
	Client struct {
		httpClient *http.Client
		server     *url.URL
		basePath   string
	}
	Option func(*Client)
)

// StatusError is returned for every non 2xx response.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "unexpected status: " + e.Status
	}
	return fmt.Sprintf("unexpected status: %s: %s", e.Status, e.Body)
}

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New returns a client for the server at serverURL, e.g. http://localhost:8080
func New(serverURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid server url %q", serverURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Errorf("invalid server url %q: expected http(s)://host", serverURL)
	}

	inst := &Client{
		httpClient: http.DefaultClient,
		server:     u,
		basePath:   guitars.DefaultBasePath,
	}

	for _, opt := range opts {
		opt(inst)
	}

	return inst, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

func WithBasePath(v string) Option {
	return func(o *Client) {
		o.basePath = "/" + strings.Trim(v, "/")
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// List returns the collection in server order.
func (c *Client) List(ctx context.Context) ([]guitars.Item, error) {
	resp, err := c.do(ctx, http.MethodGet, c.basePath, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var items []guitars.Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, errors.Wrap(err, "failed to decode guitars")
	}
	return items, nil
}

// Create adds a guitar. The returned link is the address from the Location header.
func (c *Client) Create(ctx context.Context, name string) (guitars.Item, error) {
	body, err := json.Marshal(guitars.Item{Name: name})
	if err != nil {
		return guitars.Item{}, err
	}
	resp, err := c.do(ctx, http.MethodPost, c.basePath, body)
	if err != nil {
		return guitars.Item{}, err
	}
	defer resp.Body.Close()

	var item guitars.Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return guitars.Item{}, errors.Wrap(err, "failed to decode created guitar")
	}
	item.Link = resp.Header.Get("Location")
	if item.Link == "" {
		return guitars.Item{}, errors.New("created guitar without location")
	}
	return item, nil
}

// Delete removes the guitar at address, as returned in Item.Link.
func (c *Client) Delete(ctx context.Context, address string) error {
	resp, err := c.do(ctx, http.MethodDelete, address, nil)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) do(ctx context.Context, method, address string, body []byte) (*http.Response, error) {
	ref, err := url.Parse(address)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid address %q", address)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.server.ResolveReference(ref).String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: resp.Status,
			Body:   strings.TrimSpace(string(data)),
		}
	}
	return resp, nil
}
