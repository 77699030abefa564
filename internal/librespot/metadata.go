package librespot

import (
	"context"
	"fmt"

	"github.com/librespot-org/librespot-golang/Spotify"
	"github.com/librespot-org/librespot-golang/librespot/core"
	"github.com/rs/zerolog"

	"github.com/spotgrab/spotgrab/internal/model"
	"github.com/spotgrab/spotgrab/internal/spotify"
)

// formatNames maps the service's encoding identifiers to ours. Encodings
// outside this map (MP3 variants, AAC) are ignored; the resolver only
// ever asks for Ogg Vorbis.
var formatNames = map[Spotify.AudioFile_Format]model.Format{
	Spotify.AudioFile_OGG_VORBIS_96:  model.FormatOggVorbis96,
	Spotify.AudioFile_OGG_VORBIS_160: model.FormatOggVorbis160,
	Spotify.AudioFile_OGG_VORBIS_320: model.FormatOggVorbis320,
}

// Catalog implements resolve.MetadataProvider over the session's mercury
// channel.
//
// The underlying client has no request cancellation, so the context is
// only checked before each call.
type Catalog struct {
	session *core.Session
	log     zerolog.Logger
}

// Track fetches one track record.
func (c *Catalog) Track(ctx context.Context, id model.ID) (*model.TrackRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Stringer("id", id).Msg("fetching track")

	track, err := c.session.Mercury().GetTrack(id.Hex())
	if err != nil {
		return nil, err
	}
	return trackRecord(track)
}

// PlaylistTracks fetches a playlist's track ids in playlist order. Items
// that are not tracks (episodes, local files) are skipped.
func (c *Catalog) PlaylistTracks(ctx context.Context, id model.ID) ([]model.ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Stringer("id", id).Msg("fetching playlist")

	playlist, err := c.session.Mercury().GetPlaylist(id.Base62())
	if err != nil {
		return nil, err
	}

	var ids []model.ID
	for _, item := range playlist.GetContents().GetItems() {
		ref, ok := spotify.ParseReference(item.GetUri())
		if !ok || ref.Kind != model.KindTrack {
			continue
		}
		ids = append(ids, ref.ID)
	}
	return ids, nil
}

// AlbumTracks fetches an album's track ids, walking its discs in order.
func (c *Catalog) AlbumTracks(ctx context.Context, id model.ID) ([]model.ID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Stringer("id", id).Msg("fetching album")

	album, err := c.session.Mercury().GetAlbum(id.Hex())
	if err != nil {
		return nil, err
	}

	var ids []model.ID
	for _, disc := range album.GetDisc() {
		for _, track := range disc.GetTrack() {
			trackID, err := model.IDFromRaw(track.GetGid())
			if err != nil {
				return nil, fmt.Errorf("album %s: %w", id, err)
			}
			ids = append(ids, trackID)
		}
	}
	return ids, nil
}

// Artist fetches the artist record with its album and single groupings.
func (c *Catalog) Artist(ctx context.Context, id model.ID) (*model.ArtistRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Stringer("id", id).Msg("fetching artist")

	artist, err := c.session.Mercury().GetArtist(id.Hex())
	if err != nil {
		return nil, err
	}

	albums, err := albumGroups(artist.GetAlbumGroup())
	if err != nil {
		return nil, fmt.Errorf("artist %s: %w", id, err)
	}
	singles, err := albumGroups(artist.GetSingleGroup())
	if err != nil {
		return nil, fmt.Errorf("artist %s: %w", id, err)
	}

	return &model.ArtistRecord{
		Name:    artist.GetName(),
		Albums:  albums,
		Singles: singles,
	}, nil
}

// trackRecord converts the service's track message into our record.
func trackRecord(track *Spotify.Track) (*model.TrackRecord, error) {
	id, err := model.IDFromRaw(track.GetGid())
	if err != nil {
		return nil, err
	}

	rec := &model.TrackRecord{
		ID:    id,
		Name:  track.GetName(),
		Album: track.GetAlbum().GetName(),
		Files: make(map[model.Format]model.FileHandle),
	}

	for _, artist := range track.GetArtist() {
		rec.Artists = append(rec.Artists, artist.GetName())
	}

	for _, file := range track.GetFile() {
		format, ok := formatNames[file.GetFormat()]
		if !ok {
			continue
		}
		handle := model.FileHandle{Format: format}
		if len(file.GetFileId()) != len(handle.ID) {
			return nil, fmt.Errorf("track %s: file id is %d bytes", id, len(file.GetFileId()))
		}
		copy(handle.ID[:], file.GetFileId())
		rec.Files[format] = handle
	}

	for _, alt := range track.GetAlternative() {
		altID, err := model.IDFromRaw(alt.GetGid())
		if err != nil {
			return nil, err
		}
		rec.Alternatives = append(rec.Alternatives, altID)
	}

	return rec, nil
}

// albumGroups converts one grouping list, keeping the service's order.
func albumGroups(groups []*Spotify.AlbumGroup) ([]model.AlbumGroup, error) {
	out := make([]model.AlbumGroup, 0, len(groups))
	for _, group := range groups {
		var g model.AlbumGroup
		for _, album := range group.GetAlbum() {
			albumID, err := model.IDFromRaw(album.GetGid())
			if err != nil {
				return nil, err
			}
			g.Albums = append(g.Albums, albumID)
		}
		out = append(out, g)
	}
	return out, nil
}
