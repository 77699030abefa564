package download

// ProgressLevel indicates how a progress message should be rendered.
type ProgressLevel int

const (
	// LevelInfo is a section heading for a new phase of the run.
	LevelInfo ProgressLevel = iota

	// LevelItem is one entry within a phase: a parsed reference, a track
	// being processed.
	LevelItem

	// LevelDetail is a sub-step of the current item.
	LevelDetail

	// LevelNote is a benign per-item condition, like an output file that
	// already exists.
	LevelNote

	// LevelWarning is a per-item failure the run continues past.
	LevelWarning
)

// ProgressEvent is one progress update emitted while resolving or
// downloading. The consumer decides presentation; emitters only supply
// the text and a level.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// ProgressFunc receives progress events. A nil ProgressFunc silences all
// output.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(level ProgressLevel, message string) {
	if f != nil {
		f(ProgressEvent{Message: message, Level: level})
	}
}
