package model

// Kind classifies a catalog reference by what it points at.
type Kind int

const (
	// KindTrack references a single track.
	KindTrack Kind = iota

	// KindPlaylist references a playlist of tracks.
	KindPlaylist

	// KindAlbum references an album of tracks.
	KindAlbum

	// KindArtist references an artist and, transitively, every album and
	// single in their catalog.
	KindArtist
)

// String returns the kind as it appears in URIs and URLs ("track",
// "playlist", "album", "artist").
func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindPlaylist:
		return "playlist"
	case KindAlbum:
		return "album"
	case KindArtist:
		return "artist"
	default:
		return "unknown"
	}
}

// Reference is one classified input resource.
//
// References are produced by the parser (internal/spotify) and consumed
// once by the track-set resolver. Raw keeps the exact id substring that
// matched in the input line so console output can echo what the user
// typed rather than a re-encoding of it.
type Reference struct {
	// Kind says what the id points at.
	Kind Kind

	// ID is the decoded catalog id.
	ID ID

	// Raw is the id substring exactly as it appeared in the input.
	Raw string
}
