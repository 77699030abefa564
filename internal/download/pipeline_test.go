package download

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spotgrab/spotgrab/internal/model"
	"github.com/spotgrab/spotgrab/internal/vorbis"
)

const xorByte = 0x77

// testPlaintext is a decrypted audio buffer: the fixed preamble followed
// by a recognizable payload.
func testPlaintext() []byte {
	buf := bytes.Repeat([]byte{0x5a}, preambleSize)
	return append(buf, []byte("OggS-payload-of-the-track")...)
}

func encrypt(plain []byte) []byte {
	enc := make([]byte, len(plain))
	for i, b := range plain {
		enc[i] = b ^ xorByte
	}
	return enc
}

type fakeKeys struct {
	err   error
	calls int
}

func (f *fakeKeys) AudioKey(context.Context, model.ID, model.FileHandle) (model.AudioKey, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return model.AudioKey{xorByte}, nil
}

type fakeStreams struct {
	data    []byte
	openErr error
	readErr error
}

func (f *fakeStreams) OpenStream(context.Context, model.FileHandle) (io.ReadCloser, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	if f.readErr != nil {
		return io.NopCloser(&failingReader{err: f.readErr}), nil
	}
	return io.NopCloser(bytes.NewReader(f.data)), nil
}

type failingReader struct{ err error }

func (r *failingReader) Read([]byte) (int, error) { return 0, r.err }

type xorDecryptor struct {
	err error
}

func (d *xorDecryptor) Decrypt(key model.AudioKey, data []byte) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := make([]byte, len(data))
	for i, b := range data {
		out[i] = b ^ key[0]
	}
	return out, nil
}

// fakeRewriter records the audio it is given and prepends a marker so
// the written file is attributable.
type fakeRewriter struct {
	received []byte
	header   *vorbis.CommentHeader
	err      error
}

func (f *fakeRewriter) Splice(audio []byte, header *vorbis.CommentHeader) ([]byte, error) {
	f.received = append([]byte(nil), audio...)
	f.header = header
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("SPLICED:"), audio...), nil
}

type pipelineFixture struct {
	keys     *fakeKeys
	streams  *fakeStreams
	dec      *xorDecryptor
	rewriter *fakeRewriter
	pipeline *Pipeline
	events   []ProgressEvent
	template string
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()
	f := &pipelineFixture{
		keys:     &fakeKeys{},
		streams:  &fakeStreams{data: encrypt(testPlaintext())},
		dec:      &xorDecryptor{},
		rewriter: &fakeRewriter{},
		template: filepath.Join(t.TempDir(), "{author}/{album}/{name}.{ext}"),
	}
	f.pipeline = NewPipeline(f.keys, f.streams, f.dec, f.rewriter, func(e ProgressEvent) {
		f.events = append(f.events, e)
	})
	return f
}

func testRecord() *model.TrackRecord {
	return &model.TrackRecord{
		ID:      model.ID{15: 1},
		Name:    "Song",
		Album:   "Album",
		Artists: []string{"Main", "Feature"},
	}
}

func TestPipelineWritesTrack(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()

	result, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
	require.NoError(t, err)
	assert.Equal(t, OutcomeWritten, result.Outcome)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, append([]byte("SPLICED:"), testPlaintext()[preambleSize:]...), data)
}

func TestPipelineStripsPreamble(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()
	plain := testPlaintext()

	_, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
	require.NoError(t, err)

	// The rewriter must see the buffer starting at decrypted offset
	// 0xa7; preamble bytes never reach it.
	require.NotEmpty(t, f.rewriter.received)
	assert.Equal(t, plain[preambleSize], f.rewriter.received[0])
	assert.NotEqual(t, plain[0], f.rewriter.received[0])
	assert.Len(t, f.rewriter.received, len(plain)-preambleSize)
}

func TestPipelineCommentHeader(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()

	_, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
	require.NoError(t, err)

	h := f.rewriter.header
	require.NotNil(t, h)
	assert.Equal(t, "Ogg", h.Vendor)
	assert.Equal(t, []string{"Song"}, h.Tags("title"))
	assert.Equal(t, []string{"Album"}, h.Tags("album"))
	assert.Equal(t, []string{"Main", "Feature"}, h.Tags("artist"))
}

func TestPipelineIdempotent(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()

	first, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
	require.NoError(t, err)
	require.Equal(t, OutcomeWritten, first.Outcome)

	second, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExists, second.Outcome)
	assert.Equal(t, first.Path, second.Path)

	// The short-circuit happens before any collaborator call.
	assert.Equal(t, 1, f.keys.calls)
}

func TestPipelineTemplateWithoutDirIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()

	_, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, "{name}.{ext}")
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.ErrorIs(t, err, ErrTemplateNoDir)
}

func TestPipelineDirectoryCreationFailureIsFatal(t *testing.T) {
	f := newPipelineFixture(t)
	rec := testRecord()

	// A regular file where a directory is needed makes MkdirAll fail
	// regardless of permissions.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	_, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, blocker+"/sub/{name}.{ext}")
	require.Error(t, err)
	assert.True(t, IsFatal(err))
}

func TestPipelineSkips(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name   string
		mutate func(*pipelineFixture)
		reason string
	}{
		{
			name:   "key failure",
			mutate: func(f *pipelineFixture) { f.keys.err = boom },
			reason: "cannot get audio key",
		},
		{
			name:   "stream open failure",
			mutate: func(f *pipelineFixture) { f.streams.openErr = boom },
			reason: "cannot get audio file",
		},
		{
			name:   "stream read failure",
			mutate: func(f *pipelineFixture) { f.streams.readErr = boom },
			reason: "cannot read audio file",
		},
		{
			name:   "decrypt failure",
			mutate: func(f *pipelineFixture) { f.dec.err = boom },
			reason: "cannot decrypt audio file",
		},
		{
			name:   "decrypted shorter than preamble",
			mutate: func(f *pipelineFixture) { f.streams.data = encrypt(make([]byte, preambleSize)) },
			reason: "shorter than",
		},
		{
			name:   "splice failure",
			mutate: func(f *pipelineFixture) { f.rewriter.err = boom },
			reason: "cannot rewrite metadata",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			tt.mutate(f)
			rec := testRecord()

			result, err := f.pipeline.DownloadOne(context.Background(), rec.ID, rec, model.FileHandle{}, f.template)
			require.NoError(t, err, "per-track failures must not abort the run")
			assert.Equal(t, OutcomeSkipped, result.Outcome)
			assert.ErrorContains(t, result.Reason, tt.reason)

			_, statErr := os.Stat(result.Path)
			assert.True(t, os.IsNotExist(statErr), "no partial output file expected")
		})
	}
}
