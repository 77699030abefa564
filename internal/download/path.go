package download

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spotgrab/spotgrab/internal/model"
)

// Extension is the fixed output container extension substituted for the
// {ext} placeholder.
const Extension = "ogg"

// DefaultTemplate is the output path template used when the user
// supplies none.
const DefaultTemplate = "{author}/{album}/{name}.{ext}"

// ErrTemplateNoDir reports a path template that yields no directory
// component after substitution. This is a user configuration error, not
// a per-track condition, so it aborts the whole run.
var ErrTemplateNoDir = errors.New("path template yields no directory component")

// OutputPath derives the destination path for one track from a template.
//
// Four placeholders are substituted:
//   - {author}: the first listed artist
//   - {album}:  the album title
//   - {name}:   the track title, path separators replaced by spaces
//   - {ext}:    always "ogg"
//
// The result must contain at least one path separator; a template that
// substitutes to a bare filename returns ErrTemplateNoDir.
func OutputPath(template string, rec *model.TrackRecord) (string, error) {
	path := strings.NewReplacer(
		"{author}", rec.Author(),
		"{album}", rec.Album,
		"{name}", flattenSeparators(rec.Name),
		"{ext}", Extension,
	).Replace(template)

	if !strings.ContainsRune(path, '/') {
		return "", fmt.Errorf("%w: %q", ErrTemplateNoDir, template)
	}

	return path, nil
}

// parentDir returns everything up to the last path separator. OutputPath
// has already guaranteed the separator exists. A separator at the start
// of the path means the parent is the root directory itself.
func parentDir(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i == 0 {
		return "/"
	}
	return path[:i]
}

// flattenSeparators replaces path separators in a track title so the
// title cannot introduce extra directory levels.
func flattenSeparators(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return ' '
		}
		return r
	}, name)
}
