package session

import "strings"

// StreamURL returns the URL to stream the resource at path from the server,
// with the server's access token appended as a query credential.
func (s Server) StreamURL(path string) string {
	base := strings.TrimSuffix(s.URI, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path + "?X-Plex-Token=" + s.AccessToken
}

// ThumbnailURL returns the URL of the thumbnail at path. Many entities have no
// thumbnail; for a blank path it returns ok=false, which is not an error.
func (s Server) ThumbnailURL(path string) (string, bool) {
	if path == "" {
		return "", false
	}
	return s.StreamURL(path), true
}
