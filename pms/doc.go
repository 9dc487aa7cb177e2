/*
Package pms implements the music subset of the Plex Media Server API: listing
library sections, fetching the tracks, albums and artists of a section,
fetching the children of an album or artist, and section-scoped search.

All calls are made against a server base URL discovered through the plextv
package and authenticated with the server's access token.
*/
package pms
