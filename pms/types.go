package pms

// Plex discriminates entity kinds in a section listing with a fixed type code,
// passed as the "type" query parameter.
const (
	TypeArtist = 8
	TypeAlbum  = 9
	TypeTrack  = 10
)

// MusicSectionType is the type tag of library sections that hold music.
const MusicSectionType = "artist"

// Directory is one library section on a media server.
type Directory struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Agent      string `json:"agent"`
	Scanner    string `json:"scanner"`
	Language   string `json:"language"`
	Uuid       string `json:"uuid"`
	Thumb      string `json:"thumb"`
	Composite  string `json:"composite"`
	UpdatedAt  int    `json:"updatedAt"`
	CreatedAt  int    `json:"createdAt"`
	ScannedAt  int    `json:"scannedAt"`
	Hidden     int    `json:"hidden"`
	AllowSync  bool   `json:"allowSync"`
	Refreshing bool   `json:"refreshing"`
	Content    bool   `json:"content"`
	Directory  bool   `json:"directory"`
}

// Track is one track in a music section. Parent refers to its album,
// grandparent to its artist.
type Track struct {
	RatingKey            string  `json:"ratingKey"`
	Key                  string  `json:"key"`
	ParentRatingKey      string  `json:"parentRatingKey"`
	GrandparentRatingKey string  `json:"grandparentRatingKey"`
	Guid                 string  `json:"guid"`
	Type                 string  `json:"type"`
	Title                string  `json:"title"`
	ParentTitle          string  `json:"parentTitle"`
	GrandparentTitle     string  `json:"grandparentTitle"`
	Thumb                string  `json:"thumb,omitempty"`
	ParentThumb          string  `json:"parentThumb,omitempty"`
	GrandparentThumb     string  `json:"grandparentThumb,omitempty"`
	Summary              string  `json:"summary"`
	Index                int     `json:"index"`
	ParentIndex          int     `json:"parentIndex"`
	Year                 int     `json:"year,omitempty"`
	Duration             int     `json:"duration"`
	AddedAt              int     `json:"addedAt"`
	UpdatedAt            int     `json:"updatedAt"`
	Rating               float64 `json:"rating,omitempty"`
	ViewCount            int     `json:"viewCount,omitempty"`
	Media                []Media `json:"Media"`
}

// Media is one playable rendition of a track.
type Media struct {
	Id            int    `json:"id"`
	Duration      int    `json:"duration"`
	Bitrate       int    `json:"bitrate"`
	AudioChannels int    `json:"audioChannels"`
	AudioCodec    string `json:"audioCodec"`
	Container     string `json:"container"`
	Part          []Part `json:"Part"`
}

// Part is the lowest-level file descriptor of a Media rendition. Key is the
// resource path used to build a streaming URL.
type Part struct {
	Id        int    `json:"id"`
	Key       string `json:"key"`
	Duration  int    `json:"duration"`
	File      string `json:"file"`
	Size      int64  `json:"size"`
	Container string `json:"container"`
}

// Album is one album in a music section. Parent refers to its artist.
type Album struct {
	RatingKey       string `json:"ratingKey"`
	Key             string `json:"key"`
	ParentRatingKey string `json:"parentRatingKey"`
	Guid            string `json:"guid"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	ParentTitle     string `json:"parentTitle"`
	Thumb           string `json:"thumb,omitempty"`
	ParentThumb     string `json:"parentThumb,omitempty"`
	Summary         string `json:"summary"`
	Index           int    `json:"index"`
	Year            int    `json:"year,omitempty"`
	LeafCount       int    `json:"leafCount"`
	AddedAt         int    `json:"addedAt"`
	UpdatedAt       int    `json:"updatedAt"`
}

// Artist is one artist in a music section.
type Artist struct {
	RatingKey string `json:"ratingKey"`
	Key       string `json:"key"`
	Guid      string `json:"guid"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Thumb     string `json:"thumb,omitempty"`
	Summary   string `json:"summary"`
	Index     int    `json:"index"`
	ViewCount int    `json:"viewCount,omitempty"`
	AddedAt   int    `json:"addedAt"`
	UpdatedAt int    `json:"updatedAt"`
}
