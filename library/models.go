package library

// Song is the player's model of a playable track.
type Song struct {
	// ID is the composite identifier: a fixed prefix plus the remote rating key.
	ID string
	// RatingKey is the track's identifier on the media server.
	RatingKey string
	Title     string
	Artist    string
	Album     string
	AlbumID   int64
	ArtistID  int64
	// TrackNumber is the track's position on its album.
	TrackNumber int
	DiscNumber  int
	// Duration is in milliseconds, as reported by the server.
	Duration int
	Year     int
	// ThumbnailURL is blank when the track has no thumbnail.
	ThumbnailURL string
	// DateAdded is a Unix timestamp in milliseconds.
	DateAdded int64
}

// Album is the player's model of an album.
type Album struct {
	// ID is derived deterministically from the remote rating key; see AlbumID.
	ID int64
	// RatingKey is the album's identifier on the media server, used to fetch
	// its songs.
	RatingKey    string
	Title        string
	Artist       string
	ArtistID     int64
	Year         int
	SongCount    int
	ThumbnailURL string
	DateAdded    int64
}

// Artist is the player's model of an artist.
type Artist struct {
	// ID is derived deterministically from the remote rating key; see ArtistID.
	ID int64
	// RatingKey is the artist's identifier on the media server, used to fetch
	// its albums.
	RatingKey string
	Name      string
	// SongCount is not reported by the artist listing and is always zero.
	SongCount    int
	ThumbnailURL string
	DateAdded    int64
}
