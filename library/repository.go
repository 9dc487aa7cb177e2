package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/clambin/plexmusic/pms"
	"github.com/clambin/plexmusic/session"
)

var (
	// ErrNoServerSelected indicates an operation requiring a selected server was invoked without one.
	ErrNoServerSelected = errors.New("no server selected")
	// ErrNoSectionSelected indicates an operation requiring a selected section was invoked without one.
	ErrNoSectionSelected = errors.New("no library section selected")
)

// SessionManager is the part of the session manager the Repository depends on:
// the current server/section selection.
type SessionManager interface {
	SelectedServer() (session.Server, bool)
	SelectedSection() (session.Section, bool)
}

type Option func(*Repository)

// WithLogger sets the Repository's logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Repository) {
		r.logger = logger
	}
}

// WithHTTPClient sets the HTTP client used to call the media server.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(r *Repository) {
		r.httpClient = httpClient
	}
}

// collection is one cached entity collection, tagged with the server it was
// fetched from so URL resolution uses that server, not the current selection.
type collection[T any] struct {
	server session.Server
	items  []T
}

// Repository caches the selected section's tracks, albums and artists in
// memory and serves the player's domain models from that snapshot.
type Repository struct {
	sessions   SessionManager
	httpClient *http.Client
	logger     *slog.Logger

	group singleflight.Group

	lock      sync.RWMutex
	tracks    collection[pms.Track]
	albums    collection[pms.Album]
	artists   collection[pms.Artist]
	observers []chan struct{}
}

// New returns a Repository serving library content for the server/section
// selected in sessions.
func New(sessions SessionManager, opts ...Option) *Repository {
	r := Repository{
		sessions:   sessions,
		httpClient: &http.Client{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return &r
}

func (r *Repository) client(server session.Server) *pms.Client {
	return pms.New(server.URI, server.AccessToken, pms.WithHTTPClient(r.httpClient))
}

// FetchMusicSections lists the music sections of the selected server: the
// sections whose type tag is "artist", in the order the server returns them.
// Failures carry a user-facing message distinguishing expired authentication,
// denied access, a missing library, a server error and a network error.
func (r *Repository) FetchMusicSections(ctx context.Context) ([]pms.Directory, error) {
	server, ok := r.sessions.SelectedServer()
	if !ok {
		return nil, ErrNoServerSelected
	}
	directories, err := r.client(server).GetSections(ctx)
	if err != nil {
		return nil, &FetchError{Message: userFacingMessage(err), Err: err}
	}
	sections := make([]pms.Directory, 0, len(directories))
	for _, directory := range directories {
		if directory.Type == pms.MusicSectionType {
			sections = append(sections, directory)
		}
	}
	return sections, nil
}

// Refresh fetches the selected section's tracks, albums and artists and
// replaces the cached collections. The three fetches are independent: a
// failed fetch leaves its collection at the previous value but does not roll
// back collections already replaced in the same call. Concurrent calls are
// collapsed into a single flight.
//
// Refresh failures are non-fatal: the returned error describes what went
// wrong, but the snapshot remains serviceable (if stale).
func (r *Repository) Refresh(ctx context.Context) error {
	_, err, _ := r.group.Do("refresh", func() (any, error) {
		return nil, r.refresh(ctx)
	})
	return err
}

func (r *Repository) refresh(ctx context.Context) error {
	server, ok := r.sessions.SelectedServer()
	if !ok {
		return ErrNoServerSelected
	}
	section, ok := r.sessions.SelectedSection()
	if !ok {
		return ErrNoSectionSelected
	}
	client := r.client(server)

	var errs []error
	if tracks, err := client.GetTracks(ctx, section.Key); err == nil {
		replace(r, &r.tracks, collection[pms.Track]{server: server, items: tracks})
	} else {
		r.logger.Warn("track refresh failed", "err", err)
		errs = append(errs, fmt.Errorf("tracks: %w", err))
	}
	if albums, err := client.GetAlbums(ctx, section.Key); err == nil {
		replace(r, &r.albums, collection[pms.Album]{server: server, items: albums})
	} else {
		r.logger.Warn("album refresh failed", "err", err)
		errs = append(errs, fmt.Errorf("albums: %w", err))
	}
	if artists, err := client.GetArtists(ctx, section.Key); err == nil {
		replace(r, &r.artists, collection[pms.Artist]{server: server, items: artists})
	} else {
		r.logger.Warn("artist refresh failed", "err", err)
		errs = append(errs, fmt.Errorf("artists: %w", err))
	}
	return errors.Join(errs...)
}

func replace[T any](r *Repository, target *collection[T], value collection[T]) {
	r.lock.Lock()
	*target = value
	r.lock.Unlock()
	r.notify()
}

func (r *Repository) notify() {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, observer := range r.observers {
		select {
		case observer <- struct{}{}:
		default:
		}
	}
}

// Updates returns a channel signalling every change to the cached snapshot.
// The channel coalesces rapid changes; observers re-read the collections when
// it fires.
func (r *Repository) Updates() <-chan struct{} {
	r.lock.Lock()
	defer r.lock.Unlock()
	ch := make(chan struct{}, 1)
	r.observers = append(r.observers, ch)
	return ch
}

// Songs returns the cached tracks as domain Songs. It never blocks on the network.
func (r *Repository) Songs() []Song {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return convert(r.tracks.items, r.tracks.server, toSong)
}

// Albums returns the cached albums as domain Albums. It never blocks on the network.
func (r *Repository) Albums() []Album {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return convert(r.albums.items, r.albums.server, toAlbum)
}

// Artists returns the cached artists as domain Artists. It never blocks on the network.
func (r *Repository) Artists() []Artist {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return convert(r.artists.items, r.artists.server, toArtist)
}

// SongsForAlbum fetches the songs of one album, identified by its rating key.
// Results are not cached. Failures are non-fatal; callers may render the
// result as an empty album.
func (r *Repository) SongsForAlbum(ctx context.Context, ratingKey string) ([]Song, error) {
	server, ok := r.sessions.SelectedServer()
	if !ok {
		return nil, ErrNoServerSelected
	}
	tracks, err := r.client(server).GetAlbumTracks(ctx, ratingKey)
	if err != nil {
		r.logger.Warn("album children fetch failed", "ratingKey", ratingKey, "err", err)
		return nil, fmt.Errorf("album children: %w", err)
	}
	return convert(tracks, server, toSong), nil
}

// AlbumsForArtist fetches the albums of one artist, identified by its rating
// key. Results are not cached. Failures are non-fatal.
func (r *Repository) AlbumsForArtist(ctx context.Context, ratingKey string) ([]Album, error) {
	server, ok := r.sessions.SelectedServer()
	if !ok {
		return nil, ErrNoServerSelected
	}
	albums, err := r.client(server).GetArtistAlbums(ctx, ratingKey)
	if err != nil {
		r.logger.Warn("artist children fetch failed", "ratingKey", ratingKey, "err", err)
		return nil, fmt.Errorf("artist children: %w", err)
	}
	return convert(albums, server, toAlbum), nil
}

// Search searches the selected section for songs matching query. The query is
// URL-encoded before being sent. Failures are non-fatal.
func (r *Repository) Search(ctx context.Context, query string) ([]Song, error) {
	server, ok := r.sessions.SelectedServer()
	if !ok {
		return nil, ErrNoServerSelected
	}
	section, ok := r.sessions.SelectedSection()
	if !ok {
		return nil, ErrNoSectionSelected
	}
	tracks, err := r.client(server).SearchTracks(ctx, section.Key, query)
	if err != nil {
		r.logger.Warn("search failed", "query", query, "err", err)
		return nil, fmt.Errorf("search: %w", err)
	}
	return convert(tracks, server, toSong), nil
}

// StreamURL returns the streaming URL for the song with the given domain id.
// It returns ok=false when the song is not in the cached snapshot or carries
// no playable media part; neither case is an error.
func (r *Repository) StreamURL(songID string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	for _, track := range r.tracks.items {
		if SongID(track.RatingKey) != songID {
			continue
		}
		if len(track.Media) == 0 || len(track.Media[0].Part) == 0 {
			return "", false
		}
		return r.tracks.server.StreamURL(track.Media[0].Part[0].Key), true
	}
	return "", false
}

// Clear empties the cached snapshot. Called on sign-out or server change.
func (r *Repository) Clear() {
	r.lock.Lock()
	r.tracks = collection[pms.Track]{}
	r.albums = collection[pms.Album]{}
	r.artists = collection[pms.Artist]{}
	r.lock.Unlock()
	r.notify()
}
