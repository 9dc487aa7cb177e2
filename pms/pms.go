package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type Option func(*Client)

// WithHTTPClient sets the HTTP client used to call the server.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// Client calls a Plex Media Server's APIs.
type Client struct {
	httpClient *http.Client
	url        string
	token      string
}

// New returns a Client for the media server at url, authenticating with the
// server's access token.
func New(url, token string, opts ...Option) *Client {
	client := Client{
		httpClient: &http.Client{},
		url:        url,
		token:      token,
	}
	for _, o := range opts {
		o(&client)
	}
	return &client
}

func call[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, c.url+endpoint, nil)
	req.Header.Add("Accept", "application/json")
	req.Header.Add("X-Plex-Token", c.token)

	var response struct {
		MediaContainer T `json:"MediaContainer"`
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return response.MediaContainer, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return response.MediaContainer, &Error{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body bytes.Buffer
	if err = json.NewDecoder(io.TeeReader(resp.Body, &body)).Decode(&response); err != nil {
		err = fmt.Errorf("decode: %w", &ErrInvalidJSON{Err: err, Body: body.Bytes()})
	}

	return response.MediaContainer, err
}
