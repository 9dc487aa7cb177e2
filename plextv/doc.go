/*
Package plextv implements the subset of the plex.tv API needed to sign in a
music player and locate its media servers.

[Config] covers the PIN authentication flow: request a PIN, direct the user to
the approval URL, and validate the PIN until plex.tv resolves it to a [Token].
The approach is similar to [oauth2], though Plex authentication is not
compatible with oauth2 itself.

[Client] wraps the token-bearing endpoints: /api/v2/user and
/api/v2/resources.

[oauth2]: https://pkg.go.dev/golang.org/x/oauth2
*/
package plextv
