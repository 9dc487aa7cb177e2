package plextv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Client returns a [Client] that queries the token-bearing plex.tv endpoints.
func (c Config) Client(token Token) Client {
	return Client{config: &c, token: token}
}

// A Client interacts with the plex.tv API on behalf of an authenticated user.
type Client struct {
	config *Config
	token  Token
}

// User returns the information of the user associated with the Client's token.
// This call also updates the Device information in plex.tv.
func (c Client) User(ctx context.Context) (User, error) {
	resp, err := c.do(ctx, http.MethodGet, c.config.V2URL+"/api/v2/user")
	if err != nil {
		return User{}, err
	}
	defer func() { _ = resp.Body.Close() }()
	var user User
	if err = json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return user, fmt.Errorf("decode: %w", err)
	}
	return user, nil
}

// Resources returns all resources (mainly Plex Media Servers) visible for the Client's token.
//
// Use values to filter the results. According to the [Plex API documentation], the following values are supported:
//   - includeHttps=1: include secure connections
//   - includeRelay=1: include relay connections
//   - includeIPv6=1: include IPv6 connections
//
// Use a Resource's AccessToken to interact with the media server and the list of connection URLs to locate it.
//
// [Plex API documentation]: https://developer.plex.tv/pms/#section/API-Info/Authenticating-with-Plex
func (c Client) Resources(ctx context.Context, values url.Values) ([]Resource, error) {
	target := c.config.V2URL + "/api/v2/resources"
	if len(values) > 0 {
		target += "?" + values.Encode()
	}
	resp, err := c.do(ctx, http.MethodGet, target)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	var resources []Resource
	if err = json.NewDecoder(resp.Body).Decode(&resources); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return resources, nil
}

func (c Client) do(ctx context.Context, method, target string) (*http.Response, error) {
	return c.config.do(ctx, method, target, nil, http.StatusOK, func(req *http.Request) {
		req.Header.Set("X-Plex-Token", c.token.String())
	})
}
