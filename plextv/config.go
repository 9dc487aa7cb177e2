package plextv

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Device identifies the client application to plex.tv.
// Although this package provides a default, it is recommended to set this yourself:
// the attributes show up in the user's Authorized Devices list.
type Device struct {
	// Product is the name of the client product.
	// Passed as X-Plex-Product header.
	Product string
	// Version is the version of the client application.
	// Passed as X-Plex-Version header.
	Version string
	// Platform is the operating system or compiler of the client application.
	// Passed as X-Plex-Platform header.
	Platform string
	// PlatformVersion is the version of the platform.
	// Passed as X-Plex-Platform-Version header.
	PlatformVersion string
	// Device is a relatively friendly name for the client device.
	// Passed as X-Plex-Device header.
	Device string
	// Model is a potentially less friendly identifier for the device model.
	// Passed as X-Plex-Model header.
	Model string
	// DeviceName is a friendly name for the client.
	// Passed as X-Plex-Device-Name header.
	DeviceName string
}

// populateRequest populates the request headers with the device information.
func (d Device) populateRequest(req *http.Request) {
	headers := map[string]string{
		"X-Plex-Product":          d.Product,
		"X-Plex-Version":          d.Version,
		"X-Plex-Platform":         d.Platform,
		"X-Plex-Platform-Version": d.PlatformVersion,
		"X-Plex-Device":           d.Device,
		"X-Plex-Model":            d.Model,
		"X-Plex-Device-Name":      d.DeviceName,
	}
	for key, value := range headers {
		if value != "" {
			req.Header.Set(key, value)
		}
	}
}

// Config contains the configuration required to talk to plex.tv.
type Config struct {
	// Device information registered with plex.tv during PIN authentication.
	Device Device
	// URL is the base URL of the plex.tv endpoint.
	// Defaults to https://plex.tv and should not need to be changed.
	URL string
	// V2URL is the base URL of the v2 plex.tv endpoint.
	// Defaults to https://clients.plex.tv and should not need to be changed.
	V2URL string
	// ClientID is the unique identifier of the client application.
	// plex.tv uses it to recognize the device across sessions, so it should be
	// minted once and persisted.
	ClientID string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		URL:      "https://plex.tv",
		V2URL:    "https://clients.plex.tv",
		ClientID: uuid.New().String(),
	}
}

// WithClientID sets the Client ID.
func (c Config) WithClientID(clientID string) Config {
	c.ClientID = clientID
	return c
}

// WithDevice sets the device information registered during PIN authentication.
// See the [Device] type for details on what each field means.
func (c Config) WithDevice(device Device) Config {
	c.Device = device
	return c
}

var defaultHTTPClient = &http.Client{
	Timeout:   15 * time.Second,
	Transport: http.DefaultTransport,
}

type httpClientType struct{}

// ContextWithHTTPClient returns a new context with an added HTTP client. When passed to [Config]'s methods,
// they use that HTTP client to perform their calls.
// If no HTTP client is set, a default HTTP client is used.
func ContextWithHTTPClient(ctx context.Context, httpClient *http.Client) context.Context {
	return context.WithValue(ctx, httpClientType{}, httpClient)
}

// httpClient returns the HTTP client set in the context. If none is set, it returns a default client.
func httpClient(ctx context.Context) *http.Client {
	if c, ok := ctx.Value(httpClientType{}).(*http.Client); ok {
		return c
	}
	return defaultHTTPClient
}

// requestFormatter modifies a request before [Config.do] sends it to its destination.
type requestFormatter func(*http.Request)

// do builds a new HTTP request and sends it to the destination URL.
func (c Config) do(ctx context.Context, method string, url string, body io.Reader, wantStatusCode int, formatters ...requestFormatter) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US")
	req.Header.Set("X-Plex-Client-Identifier", c.ClientID)
	c.Device.populateRequest(req)
	for _, formatter := range formatters {
		formatter(req)
	}
	resp, err := httpClient(ctx).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatusCode {
		defer func() { _ = resp.Body.Close() }()
		return nil, ParseError(resp)
	}
	return resp, nil
}
