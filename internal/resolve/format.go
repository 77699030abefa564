package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/spotgrab/spotgrab/internal/model"
)

// ErrNoPlayableTrack is returned when neither a track nor any of its
// transitive alternatives exposes an acceptable encoding.
var ErrNoPlayableTrack = errors.New("cannot find a suitable track")

// formatPreference is the fixed quality order: highest bitrate first.
// The first encoding present on a record wins.
var formatPreference = [...]model.Format{
	model.FormatOggVorbis320,
	model.FormatOggVorbis160,
	model.FormatOggVorbis96,
}

// FormatResolver finds a downloadable encoding for a track, falling back
// through the track's alternatives graph when needed.
type FormatResolver struct {
	meta MetadataProvider
}

// NewFormatResolver creates a FormatResolver backed by the given
// metadata provider.
func NewFormatResolver(meta MetadataProvider) *FormatResolver {
	return &FormatResolver{meta: meta}
}

// ResolvePlayable returns the first track record reachable from id that
// exposes an acceptable encoding, together with that encoding's file
// handle.
//
// The search is breadth-first: the queue is seeded with id, and a record
// without any acceptable encoding enqueues its alternatives at the back
// in listed order. The returned record's ID can therefore differ from
// the requested id. A visited set keeps alternative cycles from looping
// the search forever.
//
// A metadata fetch failure aborts the whole resolution immediately; an
// exhausted queue yields ErrNoPlayableTrack.
func (r *FormatResolver) ResolvePlayable(ctx context.Context, id model.ID) (*model.TrackRecord, model.FileHandle, error) {
	queue := []model.ID{id}
	visited := map[model.ID]struct{}{id: {}}

	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		track, err := r.meta.Track(ctx, next)
		if err != nil {
			return nil, model.FileHandle{}, fmt.Errorf("cannot get track from id: %w", err)
		}

		for _, format := range formatPreference {
			if file, ok := track.Files[format]; ok {
				return track, file, nil
			}
		}

		for _, alt := range track.Alternatives {
			if _, seen := visited[alt]; seen {
				continue
			}
			visited[alt] = struct{}{}
			queue = append(queue, alt)
		}
	}

	return nil, model.FileHandle{}, ErrNoPlayableTrack
}
