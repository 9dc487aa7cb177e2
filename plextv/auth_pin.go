package plextv

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// PIN is a pending device authorization. The user approves it out-of-band by
// entering Code (or opening the URL built by [Config.AuthURL]); once approved,
// [Config.ValidatePIN] returns a non-empty [Token].
type PIN struct {
	CreatedAt        time.Time `json:"createdAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
	AuthToken        *string   `json:"authToken"`
	Code             string    `json:"code"`
	Product          string    `json:"product"`
	ClientIdentifier string    `json:"clientIdentifier"`
	Id               int       `json:"id"`
	ExpiresIn        int       `json:"expiresIn"`
	Trusted          bool      `json:"trusted"`
}

// PINRequest requests a new PIN from plex.tv.
//
// Currently only supports strong=false.
func (c Config) PINRequest(ctx context.Context) (PIN, error) {
	resp, err := c.do(ctx, http.MethodPost, c.V2URL+"/api/v2/pins", nil, http.StatusCreated)
	if err != nil {
		return PIN{}, fmt.Errorf("pin request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var pin PIN
	if err = json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return PIN{}, fmt.Errorf("decode: %w", err)
	}
	return pin, nil
}

// ValidatePIN checks if the user has confirmed the PIN. It returns the full plex.tv response.
// When the user has confirmed the PIN, the returned Token is non-empty.
func (c Config) ValidatePIN(ctx context.Context, id int) (Token, PIN, error) {
	resp, err := c.do(ctx, http.MethodGet, c.V2URL+"/api/v2/pins/"+strconv.Itoa(id), nil, http.StatusOK)
	if err != nil {
		return "", PIN{}, fmt.Errorf("validate pin: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var pin PIN
	if err = json.NewDecoder(resp.Body).Decode(&pin); err != nil {
		return "", PIN{}, fmt.Errorf("decode: %w", err)
	}
	var token Token
	if pin.AuthToken != nil {
		token = Token(*pin.AuthToken)
	}
	return token, pin, nil
}

// AuthURL returns the URL where the user approves the given PIN code.
// It embeds the client ID and the device metadata so the approval page shows
// what is being authorized. This is a pure string operation; no network call is made.
func (c Config) AuthURL(code string) string {
	v := make(url.Values)
	v.Set("clientID", c.ClientID)
	v.Set("code", code)
	v.Set("context[device][product]", c.Device.Product)
	v.Set("context[device][device]", c.Device.Device)
	v.Set("context[device][deviceName]", c.Device.DeviceName)
	v.Set("context[device][platform]", c.Device.Platform)
	return "https://app.plex.tv/auth#?" + v.Encode()
}
