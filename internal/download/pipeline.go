package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spotgrab/spotgrab/internal/model"
	"github.com/spotgrab/spotgrab/internal/vorbis"
)

// preambleSize is the fixed container preamble the service prepends to
// every decrypted audio file. It precedes the Ogg capture pattern and
// must never reach the output file.
const preambleSize = 0xa7

// vendorTag is the vendor string written into every rewritten comment
// header.
const vendorTag = "Ogg"

// KeyProvider fetches the decryption key for one (track, file) pair.
type KeyProvider interface {
	AudioKey(ctx context.Context, track model.ID, file model.FileHandle) (model.AudioKey, error)
}

// StreamProvider opens the encrypted byte stream behind a file handle.
type StreamProvider interface {
	OpenStream(ctx context.Context, file model.FileHandle) (io.ReadCloser, error)
}

// Decryptor turns an encrypted audio buffer into cleartext using the
// file's key.
type Decryptor interface {
	Decrypt(key model.AudioKey, data []byte) ([]byte, error)
}

// HeaderRewriter splices a fresh comment header into a cleartext Ogg
// Vorbis stream, replacing whatever header the stream carried.
type HeaderRewriter interface {
	Splice(audio []byte, header *vorbis.CommentHeader) ([]byte, error)
}

// Outcome classifies how one track left the pipeline.
type Outcome int

const (
	// OutcomeWritten means the track was downloaded and written.
	OutcomeWritten Outcome = iota

	// OutcomeExists means the destination file already existed; nothing
	// was fetched or overwritten.
	OutcomeExists

	// OutcomeSkipped means a per-track failure stopped this track; the
	// run continues.
	OutcomeSkipped
)

// Result is the per-track outcome handed back to the caller for
// aggregation, instead of the pipeline keeping ambient counters.
type Result struct {
	// Outcome classifies the track.
	Outcome Outcome

	// Path is the destination path, set for Written and Exists.
	Path string

	// Reason carries the failure behind OutcomeSkipped.
	Reason error
}

// FatalError marks a failure that indicates a configuration-level
// problem (bad template, unwritable destination) rather than a per-track
// condition. The run loop aborts on it instead of skipping.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }

// IsFatal reports whether err aborts the whole run.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}

// Pipeline downloads one resolved track at a time: key fetch, encrypted
// stream retrieval, decryption, preamble strip, comment-header rewrite,
// file placement.
type Pipeline struct {
	keys       KeyProvider
	streams    StreamProvider
	decryptor  Decryptor
	rewriter   HeaderRewriter
	onProgress ProgressFunc
}

// NewPipeline creates a Pipeline over the given collaborators.
func NewPipeline(keys KeyProvider, streams StreamProvider, decryptor Decryptor, rewriter HeaderRewriter, onProgress ProgressFunc) *Pipeline {
	return &Pipeline{
		keys:       keys,
		streams:    streams,
		decryptor:  decryptor,
		rewriter:   rewriter,
		onProgress: onProgress,
	}
}

// DownloadOne runs the pipeline for a single track.
//
// requested is the id the run asked for; rec and file are the resolved
// record and encoding, which may belong to an alternative of requested.
//
// Per-track failures come back as OutcomeSkipped with the reason in the
// Result; the returned error is non-nil only for conditions that must
// abort the whole run (IsFatal reports true for those).
func (p *Pipeline) DownloadOne(ctx context.Context, requested model.ID, rec *model.TrackRecord, file model.FileHandle, template string) (Result, error) {
	path, err := OutputPath(template, rec)
	if err != nil {
		return Result{}, &FatalError{Err: err}
	}

	if _, err := os.Stat(path); err == nil {
		p.onProgress.emit(LevelNote, fmt.Sprintf("output file %q already exists, skipping...", path))
		return Result{Outcome: OutcomeExists, Path: path}, nil
	}

	if err := os.MkdirAll(parentDir(path), 0755); err != nil {
		return Result{}, &FatalError{Err: fmt.Errorf("cannot create folders: %w", err)}
	}

	key, err := p.keys.AudioKey(ctx, rec.ID, file)
	if err != nil {
		return p.skip(path, fmt.Errorf("cannot get audio key: %w", err)), nil
	}

	p.onProgress.emit(LevelDetail, "getting encrypted audio file")

	stream, err := p.streams.OpenStream(ctx, file)
	if err != nil {
		return p.skip(path, fmt.Errorf("cannot get audio file: %w", err)), nil
	}

	encrypted, err := io.ReadAll(stream)
	stream.Close()
	if err != nil {
		return p.skip(path, fmt.Errorf("cannot read audio file: %w", err)), nil
	}

	p.onProgress.emit(LevelDetail, "decrypting audio")

	decrypted, err := p.decryptor.Decrypt(key, encrypted)
	if err != nil {
		return p.skip(path, fmt.Errorf("cannot decrypt audio file: %w", err)), nil
	}
	if len(decrypted) <= preambleSize {
		return p.skip(path, fmt.Errorf("decrypted audio is %d bytes, shorter than the %d byte preamble", len(decrypted), preambleSize)), nil
	}

	p.onProgress.emit(LevelDetail, "writing output file")

	spliced, err := p.rewriter.Splice(decrypted[preambleSize:], commentHeader(rec))
	if err != nil {
		return p.skip(path, fmt.Errorf("cannot rewrite metadata: %w", err)), nil
	}

	if err := os.WriteFile(path, spliced, 0644); err != nil {
		return p.skip(path, fmt.Errorf("cannot write %s: %w", path, err)), nil
	}

	p.onProgress.emit(LevelDetail, fmt.Sprintf("wrote %q", path))
	return Result{Outcome: OutcomeWritten, Path: path}, nil
}

// skip reports a per-track failure and builds its Result.
func (p *Pipeline) skip(path string, reason error) Result {
	p.onProgress.emit(LevelWarning, fmt.Sprintf("%v, skipping", reason))
	return Result{Outcome: OutcomeSkipped, Path: path, Reason: reason}
}

// commentHeader builds the replacement metadata for one track: a fixed
// vendor tag, one title, one album, and one artist tag per listed
// artist, in order.
func commentHeader(rec *model.TrackRecord) *vorbis.CommentHeader {
	h := vorbis.NewCommentHeader(vendorTag)
	h.AddTag("title", rec.Name)
	h.AddTag("album", rec.Album)
	for _, artist := range rec.Artists {
		h.AddTag("artist", artist)
	}
	return h
}
