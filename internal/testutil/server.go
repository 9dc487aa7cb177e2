package testutil

import (
	"io"
	"net/http"
	"strconv"
)

// WithToken only forwards requests carrying the expected X-Plex-Token header.
func WithToken(token string, next http.Handler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("X-Plex-Token") != token {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(writer, request)
	}
}

// MusicSectionKey is the key of the music section served by MediaServer.
const MusicSectionKey = "3"

// MediaServer returns a fake media server holding a small music library: one
// artist, two albums and three tracks, plus a movie section that music
// clients should skip.
func MediaServer() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /library/sections", func(w http.ResponseWriter, _ *http.Request) {
		write(w, sectionsBody)
	})
	mux.HandleFunc("GET /library/sections/{key}/all", handleAll)
	mux.HandleFunc("GET /library/metadata/{ratingKey}/children", handleChildren)
	mux.HandleFunc("GET /library/sections/{key}/search", handleSearch)
	return mux
}

func handleAll(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("key") != MusicSectionKey {
		http.Error(w, "section not found", http.StatusNotFound)
		return
	}
	entityType, _ := strconv.Atoi(r.URL.Query().Get("type"))
	switch entityType {
	case 10:
		write(w, tracksBody)
	case 9:
		write(w, albumsBody)
	case 8:
		write(w, artistsBody)
	default:
		http.Error(w, "unsupported type", http.StatusBadRequest)
	}
}

func handleChildren(w http.ResponseWriter, r *http.Request) {
	switch r.PathValue("ratingKey") {
	case "100":
		write(w, albumsBody)
	case "200":
		write(w, albumTracksBody)
	default:
		http.Error(w, "metadata not found", http.StatusNotFound)
	}
}

func handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("key") != MusicSectionKey {
		http.Error(w, "section not found", http.StatusNotFound)
		return
	}
	switch r.URL.Query().Get("query") {
	case "opening":
		write(w, searchOpeningBody)
	case "night air":
		write(w, searchNightAirBody)
	default:
		write(w, emptyBody)
	}
}

func write(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

const sectionsBody = `{ "MediaContainer": {
	"size": 2,
	"Directory": [
		{ "key": "1", "type": "movie", "title": "Movies" },
		{ "key": "3", "type": "artist", "title": "Music" }
	]
}}`

const trackOpening = `{
	"ratingKey": "300", "parentRatingKey": "200", "grandparentRatingKey": "100",
	"type": "track", "title": "Opening",
	"parentTitle": "First Light", "grandparentTitle": "The Midnight Radio",
	"thumb": "/library/metadata/300/thumb/1",
	"index": 1, "parentIndex": 1, "year": 2021,
	"duration": 215000, "addedAt": 1700000000,
	"Media": [ { "id": 1, "duration": 215000, "container": "flac",
		"Part": [ { "id": 1, "key": "/library/parts/300/file.flac", "file": "/music/opening.flac" } ] } ]
}`

const trackNightAir = `{
	"ratingKey": "301", "parentRatingKey": "200", "grandparentRatingKey": "100",
	"type": "track", "title": "Night Air",
	"parentTitle": "First Light", "grandparentTitle": "The Midnight Radio",
	"thumb": "/library/metadata/301/thumb/1",
	"index": 2, "parentIndex": 1, "year": 2021,
	"duration": 184000, "addedAt": 1700000001,
	"Media": [ { "id": 2, "duration": 184000, "container": "flac",
		"Part": [ { "id": 2, "key": "/library/parts/301/file.flac", "file": "/music/night-air.flac" } ] } ]
}`

const trackUntitled = `{
	"ratingKey": "302",
	"type": "track", "title": "Untitled Demo",
	"index": 1, "duration": 93000, "addedAt": 1700000002
}`

const tracksBody = `{ "MediaContainer": {
	"size": 3,
	"Metadata": [ ` + trackOpening + `, ` + trackNightAir + `, ` + trackUntitled + ` ]
}}`

const albumTracksBody = `{ "MediaContainer": {
	"size": 2,
	"Metadata": [ ` + trackOpening + `, ` + trackNightAir + ` ]
}}`

const searchOpeningBody = `{ "MediaContainer": {
	"size": 1,
	"Metadata": [ ` + trackOpening + ` ]
}}`

const searchNightAirBody = `{ "MediaContainer": {
	"size": 1,
	"Metadata": [ ` + trackNightAir + ` ]
}}`

const albumsBody = `{ "MediaContainer": {
	"size": 2,
	"Metadata": [
		{ "ratingKey": "200", "parentRatingKey": "100", "type": "album",
		  "title": "First Light", "parentTitle": "The Midnight Radio",
		  "thumb": "/library/metadata/200/thumb/1",
		  "year": 2021, "leafCount": 2, "addedAt": 1700000000 },
		{ "ratingKey": "201", "parentRatingKey": "100", "type": "album",
		  "title": "Afterglow", "parentTitle": "The Midnight Radio",
		  "year": 2023, "leafCount": 1, "addedAt": 1700000002 }
	]
}}`

const artistsBody = `{ "MediaContainer": {
	"size": 1,
	"Metadata": [
		{ "ratingKey": "100", "type": "artist", "title": "The Midnight Radio",
		  "thumb": "/library/metadata/100/thumb/1", "addedAt": 1699999999 }
	]
}}`

const emptyBody = `{ "MediaContainer": { "size": 0, "Metadata": [] } }`
