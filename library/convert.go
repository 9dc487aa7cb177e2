package library

import (
	"cmp"
	"hash/fnv"

	"github.com/clambin/plexmusic/pms"
	"github.com/clambin/plexmusic/session"
)

const (
	idPrefix      = "plex_"
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

// SongID returns the domain identifier for a track rating key.
func SongID(ratingKey string) string {
	return idPrefix + ratingKey
}

// AlbumID returns the domain identifier for an album rating key.
// It is the FNV-1a 32-bit hash of the prefixed key, so it is stable across
// processes and restarts.
func AlbumID(ratingKey string) int64 {
	return hashID(ratingKey)
}

// ArtistID returns the domain identifier for an artist rating key.
// Same derivation as [AlbumID].
func ArtistID(ratingKey string) int64 {
	return hashID(ratingKey)
}

func hashID(ratingKey string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(idPrefix + ratingKey))
	return int64(h.Sum32())
}

// toSong converts a track as fetched from server. URLs are resolved against
// that server, not whatever server is currently selected.
func toSong(t pms.Track, server session.Server) Song {
	thumbnail, _ := server.ThumbnailURL(t.Thumb)
	return Song{
		ID:           SongID(t.RatingKey),
		RatingKey:    t.RatingKey,
		Title:        t.Title,
		Artist:       cmp.Or(t.GrandparentTitle, unknownArtist),
		Album:        cmp.Or(t.ParentTitle, unknownAlbum),
		AlbumID:      AlbumID(t.ParentRatingKey),
		ArtistID:     ArtistID(t.GrandparentRatingKey),
		TrackNumber:  t.Index,
		DiscNumber:   t.ParentIndex,
		Duration:     t.Duration,
		Year:         t.Year,
		ThumbnailURL: thumbnail,
		DateAdded:    int64(t.AddedAt) * 1000,
	}
}

func toAlbum(a pms.Album, server session.Server) Album {
	thumbnail, _ := server.ThumbnailURL(a.Thumb)
	return Album{
		ID:           AlbumID(a.RatingKey),
		RatingKey:    a.RatingKey,
		Title:        cmp.Or(a.Title, unknownAlbum),
		Artist:       cmp.Or(a.ParentTitle, unknownArtist),
		ArtistID:     ArtistID(a.ParentRatingKey),
		Year:         a.Year,
		SongCount:    a.LeafCount,
		ThumbnailURL: thumbnail,
		DateAdded:    int64(a.AddedAt) * 1000,
	}
}

func toArtist(a pms.Artist, server session.Server) Artist {
	thumbnail, _ := server.ThumbnailURL(a.Thumb)
	return Artist{
		ID:           ArtistID(a.RatingKey),
		RatingKey:    a.RatingKey,
		Name:         cmp.Or(a.Title, unknownArtist),
		ThumbnailURL: thumbnail,
		DateAdded:    int64(a.AddedAt) * 1000,
	}
}

func convert[T, U any](items []T, server session.Server, f func(T, session.Server) U) []U {
	converted := make([]U, len(items))
	for i, item := range items {
		converted[i] = f(item, server)
	}
	return converted
}
