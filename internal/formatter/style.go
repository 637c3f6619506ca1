package formatter

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/desertthunder/kedoo/internal/models"
)

// Palette colors status badges and headings. A plain palette returns text untouched.
type Palette struct {
	plain bool
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
}

// NewPalette builds the styled palette, or a plain one when styled is false.
func NewPalette(styled bool) *Palette {
	return &Palette{
		plain: !styled,
		title: NewBold("#7D56F4"),
		ok:    NewBold("#04B575"),
		err:   NewBold("#FF0000"),
		warn:  NewStyle("#FFA500"),
		muted: NewEm("#626262"),
	}
}

// PaletteFor returns a styled palette when f is a terminal.
func PaletteFor(f *os.File) *Palette {
	return NewPalette(IsTerminal(f))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a heading.
func (p *Palette) Title(s string) string { return p.render(p.title, s) }

// Muted renders secondary text.
func (p *Palette) Muted(s string) string { return p.render(p.muted, s) }

// Error renders an error line.
func (p *Palette) Error(s string) string { return p.render(p.err, s) }

// Success renders a confirmation line.
func (p *Palette) Success(s string) string { return p.render(p.ok, s) }

// ReleaseBadge colors a release status: approved green, moderation orange, rejected red, draft gray.
func (p *Palette) ReleaseBadge(s models.ReleaseStatus) string {
	switch s {
	case models.StatusApproved:
		return p.render(p.ok, s.String())
	case models.StatusModeration:
		return p.render(p.warn, s.String())
	case models.StatusRejected:
		return p.render(p.err, s.String())
	default:
		return p.render(p.muted, s.String())
	}
}

// TicketBadge colors a ticket status: answered green, open orange, closed gray.
func (p *Palette) TicketBadge(s models.TicketStatus) string {
	switch s {
	case models.TicketAnswered:
		return p.render(p.ok, s.String())
	case models.TicketOpen:
		return p.render(p.warn, s.String())
	default:
		return p.render(p.muted, s.String())
	}
}

func (p *Palette) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}
