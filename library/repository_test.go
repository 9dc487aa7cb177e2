package library_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clambin/plexmusic/internal/testutil"
	"github.com/clambin/plexmusic/library"
	"github.com/clambin/plexmusic/session"
)

const serverToken = "some-token"

type fakeSessions struct {
	server  *session.Server
	section *session.Section
}

func (f fakeSessions) SelectedServer() (session.Server, bool) {
	if f.server == nil {
		return session.Server{}, false
	}
	return *f.server, true
}

func (f fakeSessions) SelectedSection() (session.Section, bool) {
	if f.section == nil {
		return session.Section{}, false
	}
	return *f.section, true
}

func makeRepository(h http.Handler) (*library.Repository, *httptest.Server, session.Server) {
	if h == nil {
		h = testutil.WithToken(serverToken, testutil.MediaServer())
	}
	ts := httptest.NewServer(h)
	server := session.Server{ID: "srv-1", Name: "living-room", URI: ts.URL, AccessToken: serverToken}
	section := session.Section{Key: testutil.MusicSectionKey, Title: "Music"}
	r := library.New(fakeSessions{server: &server, section: &section})
	return r, ts, server
}

func TestRepository_FetchMusicSections(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	t.Cleanup(ts.Close)

	sections, err := r.FetchMusicSections(t.Context())
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "3", sections[0].Key)
	assert.Equal(t, "Music", sections[0].Title)

	// no server selected
	empty := library.New(fakeSessions{})
	_, err = empty.FetchMusicSections(t.Context())
	assert.ErrorIs(t, err, library.ErrNoServerSelected)
}

func TestRepository_FetchMusicSections_Errors(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		wantMessage string
	}{
		{
			name:        "expired token",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			wantMessage: "authentication expired. Please sign in again",
		},
		{
			name:        "access denied",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusForbidden) },
			wantMessage: "access denied by the media server",
		},
		{
			name:        "missing library",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
			wantMessage: "library not found on the media server",
		},
		{
			name:        "server error",
			handler:     func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			wantMessage: "the media server returned an error: 500 Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ts, _ := makeRepository(tt.handler)
			t.Cleanup(ts.Close)

			_, err := r.FetchMusicSections(t.Context())
			var fetchErr *library.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.wantMessage, fetchErr.Message)
			assert.Equal(t, tt.wantMessage, fetchErr.Error())
			assert.Error(t, errors.Unwrap(fetchErr))
		})
	}
}

func TestRepository_FetchMusicSections_NetworkError(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	ts.Close()

	_, err := r.FetchMusicSections(t.Context())
	var fetchErr *library.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "could not reach the media server", fetchErr.Message)
}

func TestRepository_Refresh(t *testing.T) {
	r, ts, server := makeRepository(nil)
	t.Cleanup(ts.Close)

	// before the first refresh, the snapshot is empty
	assert.Empty(t, r.Songs())
	assert.Empty(t, r.Albums())
	assert.Empty(t, r.Artists())

	updates := r.Updates()
	require.NoError(t, r.Refresh(t.Context()))
	select {
	case <-updates:
	default:
		t.Fatal("expected an update signal after refresh")
	}

	songs := r.Songs()
	require.Len(t, songs, 3)
	assert.Equal(t, library.Song{
		ID:           "plex_300",
		RatingKey:    "300",
		Title:        "Opening",
		Artist:       "The Midnight Radio",
		Album:        "First Light",
		AlbumID:      library.AlbumID("200"),
		ArtistID:     library.ArtistID("100"),
		TrackNumber:  1,
		DiscNumber:   1,
		Duration:     215000,
		Year:         2021,
		ThumbnailURL: server.URI + "/library/metadata/300/thumb/1?X-Plex-Token=" + serverToken,
		DateAdded:    1700000000000,
	}, songs[0])

	// a track with no album or artist tags gets placeholders
	assert.Equal(t, "Unknown Album", songs[2].Album)
	assert.Equal(t, "Unknown Artist", songs[2].Artist)
	assert.Empty(t, songs[2].ThumbnailURL)

	albums := r.Albums()
	require.Len(t, albums, 2)
	assert.Equal(t, library.Album{
		ID:           library.AlbumID("200"),
		RatingKey:    "200",
		Title:        "First Light",
		Artist:       "The Midnight Radio",
		ArtistID:     library.ArtistID("100"),
		Year:         2021,
		SongCount:    2,
		ThumbnailURL: server.URI + "/library/metadata/200/thumb/1?X-Plex-Token=" + serverToken,
		DateAdded:    1700000000000,
	}, albums[0])

	artists := r.Artists()
	require.Len(t, artists, 1)
	assert.Equal(t, library.Artist{
		ID:           library.ArtistID("100"),
		RatingKey:    "100",
		Name:         "The Midnight Radio",
		ThumbnailURL: server.URI + "/library/metadata/100/thumb/1?X-Plex-Token=" + serverToken,
		DateAdded:    1699999999000,
	}, artists[0])
}

func TestRepository_Refresh_NoSelection(t *testing.T) {
	r := library.New(fakeSessions{})
	assert.ErrorIs(t, r.Refresh(t.Context()), library.ErrNoServerSelected)

	server := session.Server{ID: "srv-1", URI: "http://localhost:1"}
	r = library.New(fakeSessions{server: &server})
	assert.ErrorIs(t, r.Refresh(t.Context()), library.ErrNoSectionSelected)
}

func TestRepository_Refresh_PartialFailure(t *testing.T) {
	// albums fail, tracks and artists succeed
	inner := testutil.WithToken(serverToken, testutil.MediaServer())
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Query().Get("type") == "9" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		inner.ServeHTTP(w, req)
	})
	r, ts, _ := makeRepository(handler)
	t.Cleanup(ts.Close)

	err := r.Refresh(t.Context())
	require.Error(t, err)
	assert.Len(t, r.Songs(), 3)
	assert.Empty(t, r.Albums())
	assert.Len(t, r.Artists(), 1)
}

func TestRepository_Refresh_KeepsStaleDataOnFailure(t *testing.T) {
	working := true
	inner := testutil.WithToken(serverToken, testutil.MediaServer())
	handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if !working {
			http.Error(w, "down for maintenance", http.StatusInternalServerError)
			return
		}
		inner.ServeHTTP(w, req)
	})
	r, ts, _ := makeRepository(handler)
	t.Cleanup(ts.Close)

	require.NoError(t, r.Refresh(t.Context()))
	require.Len(t, r.Songs(), 3)

	working = false
	require.Error(t, r.Refresh(t.Context()))
	// the previous snapshot remains serviceable
	assert.Len(t, r.Songs(), 3)
	assert.Len(t, r.Albums(), 2)
	assert.Len(t, r.Artists(), 1)
}

func TestRepository_SongsForAlbum(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	t.Cleanup(ts.Close)

	songs, err := r.SongsForAlbum(t.Context(), "200")
	require.NoError(t, err)
	require.Len(t, songs, 2)
	assert.Equal(t, "Opening", songs[0].Title)
	assert.Equal(t, "Night Air", songs[1].Title)

	_, err = r.SongsForAlbum(t.Context(), "999")
	assert.Error(t, err)

	empty := library.New(fakeSessions{})
	_, err = empty.SongsForAlbum(t.Context(), "200")
	assert.ErrorIs(t, err, library.ErrNoServerSelected)
}

func TestRepository_AlbumsForArtist(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	t.Cleanup(ts.Close)

	albums, err := r.AlbumsForArtist(t.Context(), "100")
	require.NoError(t, err)
	require.Len(t, albums, 2)
	assert.Equal(t, "First Light", albums[0].Title)
	assert.Equal(t, "Afterglow", albums[1].Title)
}

func TestRepository_Search(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	t.Cleanup(ts.Close)

	// queries with spaces are URL-encoded on the wire
	songs, err := r.Search(t.Context(), "night air")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "Night Air", songs[0].Title)

	songs, err = r.Search(t.Context(), "does not exist")
	require.NoError(t, err)
	assert.Empty(t, songs)

	empty := library.New(fakeSessions{})
	_, err = empty.Search(t.Context(), "night air")
	assert.ErrorIs(t, err, library.ErrNoServerSelected)
}

func TestRepository_StreamURL(t *testing.T) {
	r, ts, server := makeRepository(nil)
	t.Cleanup(ts.Close)
	require.NoError(t, r.Refresh(t.Context()))

	got, ok := r.StreamURL("plex_300")
	assert.True(t, ok)
	assert.Equal(t, server.URI+"/library/parts/300/file.flac?X-Plex-Token="+serverToken, got)

	// a track without playable media
	_, ok = r.StreamURL("plex_302")
	assert.False(t, ok)

	// not in the snapshot
	_, ok = r.StreamURL("plex_999")
	assert.False(t, ok)
}

func TestRepository_Clear(t *testing.T) {
	r, ts, _ := makeRepository(nil)
	t.Cleanup(ts.Close)
	require.NoError(t, r.Refresh(t.Context()))
	require.NotEmpty(t, r.Songs())

	r.Clear()
	assert.Empty(t, r.Songs())
	assert.Empty(t, r.Albums())
	assert.Empty(t, r.Artists())
}
