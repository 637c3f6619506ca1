package formatter

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/desertthunder/kedoo/internal/models"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// ReleaseTable renders releases as a table with id, title, artist, genre, track count, status and submission date.
func ReleaseTable(releases []models.Release, p *Palette) string {
	headers := []string{"ID", "Title", "Artist", "Genre", "Tracks", "Status", "Submitted"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(releases))
	for _, r := range releases {
		submitted := ""
		if !r.CreatedAt.IsZero() {
			submitted = r.CreatedAt.Format("2006-01-02")
		}
		rows = append(rows, []string{
			r.ID, r.Title, r.Artist, r.Genre, strconv.Itoa(len(r.Tracks)), p.ReleaseBadge(r.Status), submitted,
		})
	}
	return renderTable(headers, rows, aligns)
}

// TrackTable renders the ordered track list of a release.
func TrackTable(tracks []models.Track) string {
	headers := []string{"#", "Title", "Performers", "Music", "Lyrics", "Language", "ISRC", "Explicit"}
	aligns := []columnAlignment{alignRight}

	rows := make([][]string, 0, len(tracks))
	for i, t := range tracks {
		explicit := ""
		if t.HasProfanity {
			explicit = "yes"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1), t.Title, t.Performers, t.MusicAuthor, t.LyricsAuthor, t.Language, t.ISRC, explicit,
		})
	}
	return renderTable(headers, rows, aligns)
}

// TicketTable renders tickets as a table with id, owner, subject, status and response.
func TicketTable(tickets []models.Ticket, p *Palette) string {
	headers := []string{"ID", "From", "Subject", "Status", "Created", "Response"}

	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{
			t.ID, t.UserEmail, t.Subject, p.TicketBadge(t.Status), t.CreatedAt.Format("2006-01-02"), t.Response,
		})
	}
	return renderTable(headers, rows, nil)
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}
