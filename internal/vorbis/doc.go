// Package vorbis rewrites the comment header of Ogg Vorbis streams.
//
// The download pipeline hands over a decrypted stream whose comment
// header belongs to the service, and wants it replaced with the track's
// own title, album and artist tags. ReplaceCommentHeader does that at
// the container level:
//
//	h := vorbis.NewCommentHeader("Ogg")
//	h.AddTag("title", track.Name)
//	h.AddTag("album", track.Album)
//	for _, artist := range track.Artists {
//	    h.AddTag("artist", artist)
//	}
//	out, err := vorbis.ReplaceCommentHeader(audio, h)
//
// The identification and setup packets pass through unchanged; audio
// pages keep their payloads and granule positions and only get fresh
// page sequence numbers and checksums. No audio data is decoded.
package vorbis
