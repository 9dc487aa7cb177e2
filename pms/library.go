package pms

import (
	"context"
	"net/url"
	"strconv"
)

// GetSections lists all library sections on the server.
func (c *Client) GetSections(ctx context.Context) ([]Directory, error) {
	type response struct {
		Directory []Directory `json:"Directory"`
	}
	resp, err := call[response](ctx, c, "/library/sections")
	return resp.Directory, err
}

// GetTracks lists all tracks in the section identified by key.
func (c *Client) GetTracks(ctx context.Context, key string) ([]Track, error) {
	type response struct {
		Metadata []Track `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/sections/"+key+"/all?type="+strconv.Itoa(TypeTrack))
	return resp.Metadata, err
}

// GetAlbums lists all albums in the section identified by key.
func (c *Client) GetAlbums(ctx context.Context, key string) ([]Album, error) {
	type response struct {
		Metadata []Album `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/sections/"+key+"/all?type="+strconv.Itoa(TypeAlbum))
	return resp.Metadata, err
}

// GetArtists lists all artists in the section identified by key.
func (c *Client) GetArtists(ctx context.Context, key string) ([]Artist, error) {
	type response struct {
		Metadata []Artist `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/sections/"+key+"/all?type="+strconv.Itoa(TypeArtist))
	return resp.Metadata, err
}

// GetAlbumTracks lists the tracks of the album identified by ratingKey.
func (c *Client) GetAlbumTracks(ctx context.Context, ratingKey string) ([]Track, error) {
	type response struct {
		Metadata []Track `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/metadata/"+ratingKey+"/children")
	return resp.Metadata, err
}

// GetArtistAlbums lists the albums of the artist identified by ratingKey.
func (c *Client) GetArtistAlbums(ctx context.Context, ratingKey string) ([]Album, error) {
	type response struct {
		Metadata []Album `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/metadata/"+ratingKey+"/children")
	return resp.Metadata, err
}

// SearchTracks searches the section identified by key for tracks matching query.
func (c *Client) SearchTracks(ctx context.Context, key, query string) ([]Track, error) {
	type response struct {
		Metadata []Track `json:"Metadata"`
	}
	resp, err := call[response](ctx, c, "/library/sections/"+key+"/search?type="+strconv.Itoa(TypeTrack)+"&query="+url.QueryEscape(query))
	return resp.Metadata, err
}
