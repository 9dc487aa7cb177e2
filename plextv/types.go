package plextv

import "time"

// User represents a plex.tv user. It is the response from the /api/v2/user endpoint.
type User struct {
	Id            int    `json:"id"`
	Uuid          string `json:"uuid"`
	Username      string `json:"username"`
	Title         string `json:"title"`
	Email         string `json:"email"`
	FriendlyName  string `json:"friendlyName"`
	Confirmed     bool   `json:"confirmed"`
	JoinedAt      int    `json:"joinedAt"`
	EmailOnlyAuth bool   `json:"emailOnlyAuth"`
	HasPassword   bool   `json:"hasPassword"`
	Protected     bool   `json:"protected"`
	Thumb         string `json:"thumb"`
	AuthToken     string `json:"authToken"`
	Country       string `json:"country"`
	Restricted    bool   `json:"restricted"`
	Anonymous     bool   `json:"anonymous"`
	Home          bool   `json:"home"`
	Guest         bool   `json:"guest"`
	HomeAdmin     bool   `json:"homeAdmin"`
}

// Resource represents a device registered to the account. It's the response to the /api/v2/resources endpoint.
//
// Use the AccessToken to interact with a media server and the list of connection URLs to locate it.
type Resource struct {
	Name                 string       `json:"name"`
	Product              string       `json:"product"`
	ProductVersion       string       `json:"productVersion"`
	Platform             string       `json:"platform"`
	PlatformVersion      string       `json:"platformVersion"`
	Device               string       `json:"device"`
	ClientIdentifier     string       `json:"clientIdentifier"`
	Provides             string       `json:"provides"`
	PublicAddress        string       `json:"publicAddress"`
	AccessToken          string       `json:"accessToken"`
	CreatedAt            time.Time    `json:"createdAt"`
	LastSeenAt           time.Time    `json:"lastSeenAt"`
	Owned                bool         `json:"owned"`
	Home                 bool         `json:"home"`
	Synced               bool         `json:"synced"`
	Relay                bool         `json:"relay"`
	Presence             bool         `json:"presence"`
	HttpsRequired        bool         `json:"httpsRequired"`
	PublicAddressMatches bool         `json:"publicAddressMatches"`
	Connections          []Connection `json:"connections"`
}

// Connection is one network endpoint of a [Resource].
type Connection struct {
	Protocol string `json:"protocol"`
	Address  string `json:"address"`
	Port     int    `json:"port"`
	Uri      string `json:"uri"`
	Local    bool   `json:"local"`
	Relay    bool   `json:"relay"`
	IPv6     bool   `json:"IPv6"`
}
