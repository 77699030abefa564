package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/spotgrab/spotgrab/internal/download"
)

var (
	sectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	noteStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Renderer writes progress events as the indented, colored run log shown
// to the user.
//
//	=> Input resources:
//	 -> track: spotify:track:4jTrKMoc44RYZsoFsIlQev
//	=> Parsed 1 tracks:
//	 -> Song (4jTrKMoc44RYZsoFsIlQev)
//	   - decrypting audio
//	   - warning: cannot get audio key: bad handle, skipping
type Renderer struct {
	out     io.Writer
	verbose bool
}

// New creates a Renderer writing to out. With verbose false, per-item
// detail lines are suppressed and only sections, items, notes and
// warnings are shown.
func New(out io.Writer, verbose bool) *Renderer {
	return &Renderer{out: out, verbose: verbose}
}

// Handle renders one progress event. It has the download.ProgressFunc
// signature and is passed to the manager directly.
func (r *Renderer) Handle(e download.ProgressEvent) {
	switch e.Level {
	case download.LevelInfo:
		fmt.Fprintf(r.out, "\n%s %s\n", sectionStyle.Render("=>"), e.Message)
	case download.LevelItem:
		fmt.Fprintf(r.out, "%s %s\n", itemStyle.Render(" ->"), e.Message)
	case download.LevelDetail:
		if r.verbose {
			fmt.Fprintf(r.out, "   - %s\n", e.Message)
		}
	case download.LevelNote:
		fmt.Fprintf(r.out, "   - %s %s\n", noteStyle.Render("note:"), e.Message)
	case download.LevelWarning:
		fmt.Fprintf(r.out, "   - %s %s\n", warnStyle.Render("warning:"), e.Message)
	}
}

// Section prints a standalone section heading outside the progress
// stream, like the login banner.
func (r *Renderer) Section(format string, args ...any) {
	fmt.Fprintf(r.out, "\n%s %s\n", sectionStyle.Render("=>"), fmt.Sprintf(format, args...))
}

// Error prints a run-level error.
func (r *Renderer) Error(format string, args ...any) {
	fmt.Fprintf(r.out, "%s %s\n", errorStyle.Render("error:"), fmt.Sprintf(format, args...))
}

// Summary prints the final run tally.
func (r *Renderer) Summary(s download.Summary) {
	fmt.Fprintf(r.out, "%s %d error / %d already downloaded / %d new / %d total processed\n",
		itemStyle.Render(" ->"), s.Errored(), s.Existing, s.Written, s.Total)
}
