package librespot

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/librespot-org/librespot-golang/Spotify"
	"github.com/librespot-org/librespot-golang/librespot/core"
	"github.com/librespot-org/librespot-golang/librespot/player"
	"github.com/rs/zerolog"

	"github.com/spotgrab/spotgrab/internal/model"
)

// Audio adapts the session's player channel to the pipeline's key,
// stream and decryption steps.
//
// The upstream player fetches the audio key and decrypts the stream as
// one operation, so the three steps cannot be separated here. AudioKey
// performs the combined load and caches the handle, OpenStream serves
// the cached handle's reader, and Decrypt passes the already-clear bytes
// through. Key failures therefore surface in AudioKey and transport
// failures while reading, which keeps the failure classification the
// caller sees intact.
type Audio struct {
	session *core.Session
	log     zerolog.Logger

	mu     sync.Mutex
	loaded map[model.FileHandle]*player.AudioFile
}

// AudioKey loads the audio file for one (track, file) pair, which
// retrieves its key as a side effect. The returned key is a placeholder;
// decryption has already happened by the time Decrypt runs.
func (a *Audio) AudioKey(ctx context.Context, track model.ID, file model.FileHandle) (model.AudioKey, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	spec, err := audioFileSpec(file)
	if err != nil {
		return nil, err
	}

	a.log.Debug().Stringer("track", track).Msg("loading audio file")

	audio, err := a.session.Player().LoadTrack(spec, track.Raw())
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if a.loaded == nil {
		a.loaded = make(map[model.FileHandle]*player.AudioFile)
	}
	a.loaded[file] = audio
	a.mu.Unlock()

	return model.AudioKey{}, nil
}

// OpenStream returns the reader of the file loaded by AudioKey. Calling
// it for a handle that was never loaded is a programming error.
func (a *Audio) OpenStream(ctx context.Context, file model.FileHandle) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.mu.Lock()
	audio, ok := a.loaded[file]
	delete(a.loaded, file)
	a.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("audio file %x was not loaded", file.ID)
	}
	return io.NopCloser(audio), nil
}

// Decrypt is a passthrough; see the type comment.
func (a *Audio) Decrypt(_ model.AudioKey, data []byte) ([]byte, error) {
	return data, nil
}

// audioFileSpec rebuilds the service's file message from our handle so
// the player can load it.
func audioFileSpec(file model.FileHandle) (*Spotify.AudioFile, error) {
	var format Spotify.AudioFile_Format
	switch file.Format {
	case model.FormatOggVorbis96:
		format = Spotify.AudioFile_OGG_VORBIS_96
	case model.FormatOggVorbis160:
		format = Spotify.AudioFile_OGG_VORBIS_160
	case model.FormatOggVorbis320:
		format = Spotify.AudioFile_OGG_VORBIS_320
	default:
		return nil, fmt.Errorf("unsupported encoding %v", file.Format)
	}

	fileID := make([]byte, len(file.ID))
	copy(fileID, file.ID[:])

	return &Spotify.AudioFile{
		FileId: fileID,
		Format: &format,
	}, nil
}
