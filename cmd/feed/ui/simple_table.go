package ui

import (
	"strings"
	"time"

	"blogfeed/internal/posts"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// SimpleTable renders static rows with aligned columns.
type SimpleTable struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// NewSimpleTable creates a new SimpleTable with the given title and headers.
func NewSimpleTable(title string, headers ...string) *SimpleTable {
	return &SimpleTable{
		Title:   title,
		Headers: headers,
		Rows:    make([][]string, 0),
	}
}

// AddRow adds a row to the table. Extra cells are dropped.
func (t *SimpleTable) AddRow(row ...string) {
	if len(row) > len(t.Headers) {
		row = row[:len(t.Headers)]
	}
	t.Rows = append(t.Rows, row)
}

// View renders the table using the provided styles.
func (t *SimpleTable) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	// +2 for the cell padding
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = lipgloss.Width(h) + 2
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			colWidths[i] = max(colWidths[i], lipgloss.Width(cell)+2)
		}
	}

	headerStyle := styles.Bold.Padding(0, 1)
	rowStyle := styles.Body.Padding(0, 1)
	sep := styles.Muted.Render("|")

	renderRow := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(colWidths))
		for i := range colWidths {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = style.Width(colWidths[i]).Render(cell)
		}
		return strings.Join(parts, sep)
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title))
		sb.WriteString("\n")
	}
	sb.WriteString(renderRow(t.Headers, headerStyle))
	sb.WriteString("\n")

	total := len(colWidths) - 1
	for _, w := range colWidths {
		total += w
	}
	sb.WriteString(styles.Muted.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		sb.WriteString(renderRow(row, rowStyle))
		sb.WriteString("\n")
	}
	return sb.String()
}

// PostTable lays out a page of posts as ID | Title | Author | Posted.
func PostTable(title string, items []posts.Post, now time.Time) *SimpleTable {
	t := NewSimpleTable(title, "ID", "Title", "Author", "Posted")
	for _, p := range items {
		posted := "-"
		if !p.CreatedAt.IsZero() {
			posted = humanize.RelTime(p.CreatedAt, now, "ago", "from now")
		}
		t.AddRow(p.ID.String(), truncate(p.Title, 48), p.Author.Name, posted)
	}
	return t
}

func truncate(s string, l int) string {
	r := []rune(s)
	if len(r) > l {
		return string(r[:l-3]) + "..."
	}
	return s
}
