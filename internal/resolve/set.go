package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/spotgrab/spotgrab/internal/model"
)

// MetadataProvider is the catalog lookup capability the resolvers depend
// on. It is implemented by internal/librespot for real runs and by fakes
// in tests.
type MetadataProvider interface {
	// Track fetches the record for one track id.
	Track(ctx context.Context, id model.ID) (*model.TrackRecord, error)

	// PlaylistTracks fetches a playlist's track ids in playlist order.
	PlaylistTracks(ctx context.Context, id model.ID) ([]model.ID, error)

	// AlbumTracks fetches an album's track ids in album order.
	AlbumTracks(ctx context.Context, id model.ID) ([]model.ID, error)

	// Artist fetches the artist record with its album and single
	// groupings.
	Artist(ctx context.Context, id model.ID) (*model.ArtistRecord, error)
}

// TrackSet accumulates the deduplicated track ids of one run. It is the
// sole hand-off between the resolution and download phases: owned and
// mutated by resolution, read-only afterwards.
type TrackSet map[model.ID]struct{}

// NewTrackSet returns an empty set.
func NewTrackSet() TrackSet {
	return make(TrackSet)
}

// Add inserts an id. Inserting an id that is already present is a no-op,
// which is what makes re-resolving overlapping references harmless.
func (s TrackSet) Add(id model.ID) {
	s[id] = struct{}{}
}

// Len returns the number of distinct ids in the set.
func (s TrackSet) Len() int {
	return len(s)
}

// IDs returns the ids in a stable order. The set itself carries no
// ordering guarantee; sorting here only keeps runs reproducible for the
// user and for tests.
func (s TrackSet) IDs() []model.ID {
	ids := make([]model.ID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Base62() < ids[j].Base62()
	})
	return ids
}

// SetResolver expands classified references into the accumulating track
// set.
type SetResolver struct {
	meta MetadataProvider
}

// NewSetResolver creates a SetResolver backed by the given metadata
// provider.
func NewSetResolver(meta MetadataProvider) *SetResolver {
	return &SetResolver{meta: meta}
}

// Resolve expands one reference into acc.
//
// Failure policy differs by kind, mirroring how costly a partial result
// is:
//   - track: the id is inserted directly, no fetch, no failure.
//   - playlist, album: a fetch failure is returned and the caller skips
//     just this reference. Inserts already made stay; set insertion is
//     idempotent so there is nothing to roll back.
//   - artist: a failure on any album aborts the whole artist expansion,
//     leaving the error to the caller.
func (r *SetResolver) Resolve(ctx context.Context, ref model.Reference, acc TrackSet) error {
	switch ref.Kind {
	case model.KindTrack:
		acc.Add(ref.ID)
		return nil

	case model.KindPlaylist:
		tracks, err := r.meta.PlaylistTracks(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("cannot get playlist metadata: %w", err)
		}
		for _, id := range tracks {
			acc.Add(id)
		}
		return nil

	case model.KindAlbum:
		if err := r.expandAlbum(ctx, ref.ID, acc); err != nil {
			return fmt.Errorf("cannot get album metadata: %w", err)
		}
		return nil

	case model.KindArtist:
		if err := r.expandArtist(ctx, ref.ID, acc); err != nil {
			return fmt.Errorf("cannot get artist metadata: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported reference kind %v", ref.Kind)
	}
}

// expandAlbum inserts every track of one album. Shared by the top-level
// album case and the per-album step of artist expansion; only the error
// policy at the call sites differs.
func (r *SetResolver) expandAlbum(ctx context.Context, id model.ID, acc TrackSet) error {
	tracks, err := r.meta.AlbumTracks(ctx, id)
	if err != nil {
		return err
	}
	for _, trackID := range tracks {
		acc.Add(trackID)
	}
	return nil
}

// expandArtist walks every album grouping of the artist: all "albums"
// groupings before all "singles" groupings, in returned order. The first
// album failure aborts the remaining expansion.
func (r *SetResolver) expandArtist(ctx context.Context, id model.ID, acc TrackSet) error {
	artist, err := r.meta.Artist(ctx, id)
	if err != nil {
		return err
	}

	for _, group := range artist.Albums {
		for _, albumID := range group.Albums {
			if err := r.expandAlbum(ctx, albumID, acc); err != nil {
				return err
			}
		}
	}

	for _, group := range artist.Singles {
		for _, albumID := range group.Albums {
			if err := r.expandAlbum(ctx, albumID, acc); err != nil {
				return err
			}
		}
	}

	return nil
}
