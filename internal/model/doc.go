// Package model defines the core data structures shared by the
// resolution and download phases of spotgrab.
//
// # ID
//
// ID is the 128-bit catalog identifier used for tracks, playlists,
// albums and artists. It converts between the user-facing base62 form
// and the hex form the metadata service expects:
//
//	id, err := model.IDFromBase62("4jTrKMoc44RYZsoFsIlQev")
//	fmt.Println(id.Hex())    // metadata lookup form
//	fmt.Println(id.Base62()) // display form
//
// # Reference
//
// Reference is one classified input resource (kind + id + the matched
// substring), produced by internal/spotify and consumed once by the
// track-set resolver.
//
// # TrackRecord
//
// TrackRecord carries the per-track metadata the pipeline needs: display
// names, the format-to-file-handle map, and the alternative ids used as
// fallback when no usable encoding is present. FileHandle and AudioKey
// are opaque transients fetched and discarded per track.
package model
