package model

// Format identifies one audio encoding a track may be available in.
//
// Only the Ogg Vorbis encodings are downloadable by this tool; the
// remaining values exist so records fetched from the metadata service can
// be represented faithfully even when none of their encodings is usable.
type Format int

const (
	// FormatUnknown is any encoding this tool does not recognize.
	FormatUnknown Format = iota

	// FormatOggVorbis96 is Ogg Vorbis at ~96 kbps.
	FormatOggVorbis96

	// FormatOggVorbis160 is Ogg Vorbis at ~160 kbps.
	FormatOggVorbis160

	// FormatOggVorbis320 is Ogg Vorbis at ~320 kbps.
	FormatOggVorbis320
)

// String returns a short human-readable name for the format.
func (f Format) String() string {
	switch f {
	case FormatOggVorbis96:
		return "ogg-vorbis-96"
	case FormatOggVorbis160:
		return "ogg-vorbis-160"
	case FormatOggVorbis320:
		return "ogg-vorbis-320"
	default:
		return "unknown"
	}
}

// FileHandle references one encrypted audio blob for one (track, format)
// pair. A handle is opaque to the pipeline and is not usable without the
// matching decryption key.
type FileHandle struct {
	// ID is the 20-byte file identifier on the storage service.
	ID [20]byte

	// Format is the encoding this blob holds.
	Format Format
}

// AudioKey is the per-(track, file) decryption secret. It is fetched on
// demand, handed straight to the decryptor, and never persisted.
type AudioKey []byte

// TrackRecord is the metadata for one track as fetched from the metadata
// service. Records are transient: fetched fresh per resolution and
// discarded after the track is processed.
//
// A record's ID may differ from the id it was looked up through when the
// lookup went through the alternatives graph; callers that care (the
// download narration does) must keep the originally requested id
// alongside the record.
type TrackRecord struct {
	// ID is the canonical id of this record.
	ID ID

	// Name is the track's display title.
	Name string

	// Album is the album's display title.
	Album string

	// Artists holds every artist name, in the order the service returns
	// them. The first entry is treated as the main artist for path
	// templating; all entries are written to the output metadata.
	Artists []string

	// Files maps each available encoding to its encrypted file handle.
	Files map[Format]FileHandle

	// Alternatives lists ids of interchangeable track records, used as a
	// fallback when this record exposes no usable encoding.
	Alternatives []ID
}

// Author returns the main artist used for the {author} path placeholder:
// the first listed artist, or "" when the record carries none.
func (t *TrackRecord) Author() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// AlbumGroup is one grouping of related album ids inside an artist
// record, e.g. the releases of one era or one territory.
type AlbumGroup struct {
	// Albums holds the album ids in the grouping, in returned order.
	Albums []ID
}

// ArtistRecord is the metadata for one artist: two named collections of
// album groupings. Expansion walks Albums fully before Singles, each in
// returned order.
type ArtistRecord struct {
	// Name is the artist's display name.
	Name string

	// Albums holds the "albums" groupings.
	Albums []AlbumGroup

	// Singles holds the "singles" groupings.
	Singles []AlbumGroup
}
