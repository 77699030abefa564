package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotgrab/spotgrab/internal/model"
)

// testid builds a distinct deterministic id from a single byte.
func testid(b byte) model.ID {
	var id model.ID
	id[15] = b
	return id
}

// fakeMeta is an in-memory MetadataProvider. Lookups not present in the
// maps return an error, and every album fetch is recorded so expansion
// order can be asserted.
type fakeMeta struct {
	tracks    map[model.ID]*model.TrackRecord
	playlists map[model.ID][]model.ID
	albums    map[model.ID][]model.ID
	artists   map[model.ID]*model.ArtistRecord

	albumFetches []model.ID
	trackFetches []model.ID
}

func newFakeMeta() *fakeMeta {
	return &fakeMeta{
		tracks:    make(map[model.ID]*model.TrackRecord),
		playlists: make(map[model.ID][]model.ID),
		albums:    make(map[model.ID][]model.ID),
		artists:   make(map[model.ID]*model.ArtistRecord),
	}
}

func (f *fakeMeta) Track(_ context.Context, id model.ID) (*model.TrackRecord, error) {
	f.trackFetches = append(f.trackFetches, id)
	if t, ok := f.tracks[id]; ok {
		return t, nil
	}
	return nil, errors.New("track not found")
}

func (f *fakeMeta) PlaylistTracks(_ context.Context, id model.ID) ([]model.ID, error) {
	if p, ok := f.playlists[id]; ok {
		return p, nil
	}
	return nil, errors.New("playlist not found")
}

func (f *fakeMeta) AlbumTracks(_ context.Context, id model.ID) ([]model.ID, error) {
	f.albumFetches = append(f.albumFetches, id)
	if a, ok := f.albums[id]; ok {
		return a, nil
	}
	return nil, errors.New("album not found")
}

func (f *fakeMeta) Artist(_ context.Context, id model.ID) (*model.ArtistRecord, error) {
	if a, ok := f.artists[id]; ok {
		return a, nil
	}
	return nil, errors.New("artist not found")
}

func TestSetResolverTrack(t *testing.T) {
	r := NewSetResolver(newFakeMeta())
	acc := NewTrackSet()

	err := r.Resolve(context.Background(), model.Reference{Kind: model.KindTrack, ID: testid(1)}, acc)
	require.NoError(t, err)
	assert.Equal(t, 1, acc.Len())
}

func TestSetResolverDeduplicates(t *testing.T) {
	meta := newFakeMeta()
	meta.playlists[testid(10)] = []model.ID{testid(1), testid(2), testid(1)}
	meta.albums[testid(20)] = []model.ID{testid(2), testid(3)}
	r := NewSetResolver(meta)
	acc := NewTrackSet()

	// The same track id arrives as a direct reference, inside a playlist
	// and inside an album; it must appear once.
	refs := []model.Reference{
		{Kind: model.KindTrack, ID: testid(1)},
		{Kind: model.KindPlaylist, ID: testid(10)},
		{Kind: model.KindAlbum, ID: testid(20)},
	}
	for _, ref := range refs {
		require.NoError(t, r.Resolve(context.Background(), ref, acc))
	}

	assert.Equal(t, 3, acc.Len())
	assert.ElementsMatch(t, []model.ID{testid(1), testid(2), testid(3)}, acc.IDs())
}

func TestSetResolverPlaylistFetchFailure(t *testing.T) {
	r := NewSetResolver(newFakeMeta())
	acc := NewTrackSet()

	err := r.Resolve(context.Background(), model.Reference{Kind: model.KindPlaylist, ID: testid(10)}, acc)
	assert.Error(t, err)
	assert.Equal(t, 0, acc.Len())
}

func TestSetResolverArtistOrder(t *testing.T) {
	meta := newFakeMeta()
	meta.artists[testid(40)] = &model.ArtistRecord{
		Albums: []model.AlbumGroup{
			{Albums: []model.ID{testid(50), testid(51)}},
			{Albums: []model.ID{testid(52)}},
		},
		Singles: []model.AlbumGroup{
			{Albums: []model.ID{testid(60)}},
		},
	}
	for _, album := range []model.ID{testid(50), testid(51), testid(52), testid(60)} {
		meta.albums[album] = []model.ID{testid(album[15] + 100)}
	}
	r := NewSetResolver(meta)
	acc := NewTrackSet()

	require.NoError(t, r.Resolve(context.Background(), model.Reference{Kind: model.KindArtist, ID: testid(40)}, acc))

	// Every "albums" grouping is expanded before any "singles" grouping,
	// in returned order.
	assert.Equal(t, []model.ID{testid(50), testid(51), testid(52), testid(60)}, meta.albumFetches)
	assert.Equal(t, 4, acc.Len())
}

func TestSetResolverArtistAbortsOnAlbumFailure(t *testing.T) {
	meta := newFakeMeta()
	meta.artists[testid(40)] = &model.ArtistRecord{
		Albums: []model.AlbumGroup{
			{Albums: []model.ID{testid(50), testid(51), testid(52)}},
		},
	}
	meta.albums[testid(50)] = []model.ID{testid(1)}
	// testid(51) is missing: the fetch fails and testid(52) must never be
	// attempted.
	meta.albums[testid(52)] = []model.ID{testid(2)}
	r := NewSetResolver(meta)
	acc := NewTrackSet()

	err := r.Resolve(context.Background(), model.Reference{Kind: model.KindArtist, ID: testid(40)}, acc)
	assert.Error(t, err)
	assert.Equal(t, []model.ID{testid(50), testid(51)}, meta.albumFetches)
}

func TestFormatResolverPreferenceOrder(t *testing.T) {
	tests := []struct {
		name    string
		formats []model.Format
		want    model.Format
	}{
		{
			name:    "all three prefers 320",
			formats: []model.Format{model.FormatOggVorbis96, model.FormatOggVorbis160, model.FormatOggVorbis320},
			want:    model.FormatOggVorbis320,
		},
		{
			name:    "high and low prefers high",
			formats: []model.Format{model.FormatOggVorbis96, model.FormatOggVorbis320},
			want:    model.FormatOggVorbis320,
		},
		{
			name:    "medium and low prefers medium",
			formats: []model.Format{model.FormatOggVorbis96, model.FormatOggVorbis160},
			want:    model.FormatOggVorbis160,
		},
		{
			name:    "only low",
			formats: []model.Format{model.FormatOggVorbis96},
			want:    model.FormatOggVorbis96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := newFakeMeta()
			files := make(map[model.Format]model.FileHandle)
			for _, f := range tt.formats {
				files[f] = model.FileHandle{ID: [20]byte{byte(f)}, Format: f}
			}
			meta.tracks[testid(1)] = &model.TrackRecord{ID: testid(1), Files: files}

			r := NewFormatResolver(meta)
			rec, file, err := r.ResolvePlayable(context.Background(), testid(1))
			require.NoError(t, err)
			assert.Equal(t, testid(1), rec.ID)
			assert.Equal(t, tt.want, file.Format)
		})
	}
}

func TestFormatResolverAlternativeFallback(t *testing.T) {
	meta := newFakeMeta()
	meta.tracks[testid(1)] = &model.TrackRecord{
		ID:           testid(1),
		Alternatives: []model.ID{testid(2)},
	}
	meta.tracks[testid(2)] = &model.TrackRecord{
		ID: testid(2),
		Files: map[model.Format]model.FileHandle{
			model.FormatOggVorbis160: {Format: model.FormatOggVorbis160},
		},
	}

	r := NewFormatResolver(meta)
	rec, file, err := r.ResolvePlayable(context.Background(), testid(1))
	require.NoError(t, err)

	// The alternative's record comes back, with its own id.
	assert.Equal(t, testid(2), rec.ID)
	assert.Equal(t, model.FormatOggVorbis160, file.Format)
}

func TestFormatResolverBreadthFirst(t *testing.T) {
	meta := newFakeMeta()
	meta.tracks[testid(1)] = &model.TrackRecord{ID: testid(1), Alternatives: []model.ID{testid(2), testid(3)}}
	meta.tracks[testid(2)] = &model.TrackRecord{ID: testid(2), Alternatives: []model.ID{testid(4)}}
	meta.tracks[testid(3)] = &model.TrackRecord{ID: testid(3)}
	meta.tracks[testid(4)] = &model.TrackRecord{
		ID:    testid(4),
		Files: map[model.Format]model.FileHandle{model.FormatOggVorbis96: {Format: model.FormatOggVorbis96}},
	}

	r := NewFormatResolver(meta)
	rec, _, err := r.ResolvePlayable(context.Background(), testid(1))
	require.NoError(t, err)
	assert.Equal(t, testid(4), rec.ID)

	// Siblings before children: 1, then 2 and 3, then 2's alternative.
	assert.Equal(t, []model.ID{testid(1), testid(2), testid(3), testid(4)}, meta.trackFetches)
}

func TestFormatResolverCycleTerminates(t *testing.T) {
	meta := newFakeMeta()
	meta.tracks[testid(1)] = &model.TrackRecord{ID: testid(1), Alternatives: []model.ID{testid(2)}}
	meta.tracks[testid(2)] = &model.TrackRecord{ID: testid(2), Alternatives: []model.ID{testid(1)}}

	r := NewFormatResolver(meta)
	_, _, err := r.ResolvePlayable(context.Background(), testid(1))
	assert.ErrorIs(t, err, ErrNoPlayableTrack)
	assert.Len(t, meta.trackFetches, 2)
}

func TestFormatResolverFetchFailureAborts(t *testing.T) {
	meta := newFakeMeta()
	meta.tracks[testid(1)] = &model.TrackRecord{ID: testid(1), Alternatives: []model.ID{testid(2), testid(3)}}
	// testid(2) is missing; testid(3) would succeed but must not be
	// reached.
	meta.tracks[testid(3)] = &model.TrackRecord{
		ID:    testid(3),
		Files: map[model.Format]model.FileHandle{model.FormatOggVorbis320: {Format: model.FormatOggVorbis320}},
	}

	r := NewFormatResolver(meta)
	_, _, err := r.ResolvePlayable(context.Background(), testid(1))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPlayableTrack)
	assert.Equal(t, []model.ID{testid(1), testid(2)}, meta.trackFetches)
}

func TestFormatResolverNoSuitableTrack(t *testing.T) {
	meta := newFakeMeta()
	meta.tracks[testid(1)] = &model.TrackRecord{ID: testid(1)}

	r := NewFormatResolver(meta)
	_, _, err := r.ResolvePlayable(context.Background(), testid(1))
	assert.ErrorIs(t, err, ErrNoPlayableTrack)
}

func TestTrackSetIDsStable(t *testing.T) {
	acc := NewTrackSet()
	for _, b := range []byte{9, 3, 7, 3, 1} {
		acc.Add(testid(b))
	}

	assert.Equal(t, acc.IDs(), acc.IDs())
	assert.Equal(t, 4, acc.Len())
}
