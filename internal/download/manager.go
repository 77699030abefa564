package download

import (
	"context"
	"fmt"

	"github.com/spotgrab/spotgrab/internal/model"
	"github.com/spotgrab/spotgrab/internal/resolve"
	"github.com/spotgrab/spotgrab/internal/spotify"
)

// Summary aggregates one run. Tracks that were neither written nor found
// existing errored somewhere, whether in format resolution or in the
// pipeline, so the error count is derived rather than tallied.
type Summary struct {
	// Total is the number of distinct track ids the run processed.
	Total int

	// Written is the number of tracks newly downloaded.
	Written int

	// Existing is the number of tracks whose output file already
	// existed.
	Existing int
}

// Errored returns the number of tracks that failed.
func (s Summary) Errored() int {
	return s.Total - s.Written - s.Existing
}

// Manager coordinates one run: reference classification, track-set
// resolution, then the sequential download loop.
//
// Tracks are processed strictly one at a time; the only shared state is
// the accumulating track set, owned by Initialize, and the Summary built
// by DownloadAll.
type Manager struct {
	sets     *resolve.SetResolver
	formats  *resolve.FormatResolver
	pipeline *Pipeline
	template string

	tracks resolve.TrackSet

	onProgress ProgressFunc
}

// NewManager creates a Manager over the given metadata provider and
// pipeline. template is the output path template applied to every track.
func NewManager(meta resolve.MetadataProvider, pipeline *Pipeline, template string, onProgress ProgressFunc) *Manager {
	return &Manager{
		sets:       resolve.NewSetResolver(meta),
		formats:    resolve.NewFormatResolver(meta),
		pipeline:   pipeline,
		template:   template,
		tracks:     resolve.NewTrackSet(),
		onProgress: onProgress,
	}
}

// Initialize classifies every input line and resolves it into the track
// set.
//
// Unrecognized lines and failed playlist or album fetches are reported
// and skipped; a failure inside an artist expansion skips the rest of
// that artist (the resolver aborts it) but still only costs that one
// reference.
func (m *Manager) Initialize(ctx context.Context, lines []string) {
	m.onProgress.emit(LevelInfo, "Input resources:")

	for _, line := range lines {
		ref, ok := spotify.ParseReference(line)
		if !ok {
			m.onProgress.emit(LevelWarning, fmt.Sprintf("unrecognized input: %s, skipping", line))
			continue
		}

		m.onProgress.emit(LevelItem, fmt.Sprintf("%s: %s", ref.Kind, ref.Raw))

		if err := m.sets.Resolve(ctx, ref, m.tracks); err != nil {
			m.onProgress.emit(LevelWarning, fmt.Sprintf("%v, skipping", err))
		}
	}
}

// TrackCount returns the number of distinct tracks resolved so far.
func (m *Manager) TrackCount() int {
	return m.tracks.Len()
}

// DownloadAll processes every resolved track sequentially and returns
// the run summary.
//
// Per-track failures are reported and counted; the returned error is
// non-nil only for run-level conditions (bad template, unwritable
// destination, cancelled context), in which case the summary covers the
// tracks processed up to that point.
func (m *Manager) DownloadAll(ctx context.Context) (Summary, error) {
	summary := Summary{Total: m.tracks.Len()}

	m.onProgress.emit(LevelInfo, fmt.Sprintf("Parsed %d tracks:", summary.Total))

	for _, id := range m.tracks.IDs() {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		rec, file, err := m.formats.ResolvePlayable(ctx, id)
		if err != nil {
			m.onProgress.emit(LevelItem, fmt.Sprintf("?? (%s)", id.Base62()))
			m.onProgress.emit(LevelWarning, fmt.Sprintf("%v, skipping", err))
			continue
		}

		m.onProgress.emit(LevelItem, trackLine(rec, id))

		result, err := m.pipeline.DownloadOne(ctx, id, rec, file, m.template)
		if err != nil {
			return summary, err
		}

		switch result.Outcome {
		case OutcomeWritten:
			summary.Written++
		case OutcomeExists:
			summary.Existing++
		}
	}

	return summary, nil
}

// trackLine formats the per-track heading, naming both ids when the
// resolved record came from an alternative of the requested track.
func trackLine(rec *model.TrackRecord, requested model.ID) string {
	if rec.ID != requested {
		return fmt.Sprintf("%s (%s alt. %s)", rec.Name, rec.ID.Base62(), requested.Base62())
	}
	return fmt.Sprintf("%s (%s)", rec.Name, rec.ID.Base62())
}
