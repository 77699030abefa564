package spotify

import (
	"regexp"

	"github.com/spotgrab/spotgrab/internal/model"
)

// Resources are accepted in two surface forms per kind, both anchored to
// the whole line:
//
//	spotify:track:4jTrKMoc44RYZsoFsIlQev
//	https://open.spotify.com/track/4jTrKMoc44RYZsoFsIlQev
//
// The URL scheme is optional. Anything else is unrecognized and skipped
// by the caller, not treated as an error.
var (
	uriPattern = regexp.MustCompile(`^spotify:(track|playlist|album|artist):([0-9A-Za-z]{22})$`)
	urlPattern = regexp.MustCompile(`^(?:https?://)?open\.spotify\.com/(track|playlist|album|artist)/([0-9A-Za-z]{22})$`)
)

var kindByName = map[string]model.Kind{
	"track":    model.KindTrack,
	"playlist": model.KindPlaylist,
	"album":    model.KindAlbum,
	"artist":   model.KindArtist,
}

// ParseReference classifies one input line as a track, playlist, album
// or artist reference and extracts its catalog id.
//
// Both surface forms of the same resource yield the same reference. The
// second return value is false when the line matches neither form; that
// is a skip condition for the caller, not a failure.
//
// Example:
//
//	ref, ok := spotify.ParseReference("spotify:album:6G9fHYDCoyEErUkHrFYfs4")
//	if ok {
//	    fmt.Println(ref.Kind, ref.Raw) // "album 6G9fHYDCoyEErUkHrFYfs4"
//	}
func ParseReference(line string) (model.Reference, bool) {
	m := uriPattern.FindStringSubmatch(line)
	if m == nil {
		m = urlPattern.FindStringSubmatch(line)
	}
	if m == nil {
		return model.Reference{}, false
	}

	id, err := model.IDFromBase62(m[2])
	if err != nil {
		// The character class restricts the id to the base62 alphabet,
		// but 22 digits can still encode a value past 128 bits.
		return model.Reference{}, false
	}

	return model.Reference{
		Kind: kindByName[m[1]],
		ID:   id,
		Raw:  m[2],
	}, true
}
