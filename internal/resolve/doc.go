// Package resolve turns classified references into downloadable tracks.
//
// Resolution happens in two stages that share the MetadataProvider
// capability:
//
// # Track set
//
// SetResolver expands each reference into a deduplicated TrackSet. A
// track reference inserts its id directly; playlists and albums insert
// their fetched track lists; an artist reference recursively expands
// every album in its "albums" and "singles" groupings, in that order.
// Playlist and album fetch failures skip just that reference, while a
// failure inside an artist expansion aborts the whole artist.
//
// # Playable format
//
// FormatResolver takes one track id from the set and finds a record with
// a usable Ogg Vorbis encoding, preferring 320 over 160 over 96 kbps.
// Tracks without any usable encoding fall back to their listed
// alternatives, searched breadth-first, so the record that is finally
// downloaded may carry a different id than the one requested.
package resolve
