// Package spotify classifies user-supplied resource strings.
//
// An input line names a track, playlist, album or artist either as a
// spotify: URI or as an open.spotify.com URL:
//
//	spotify:playlist:37i9dQZF1DXcBWIGoYBM5M
//	https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M
//
// ParseReference tries all four kinds against both forms, whole-line
// anchored, and returns the decoded id plus the exact id substring that
// matched so console output can echo the user's spelling. Lines matching
// no form are reported as unrecognized by the caller and skipped.
package spotify
