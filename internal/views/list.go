package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const EmptyListText = "(no tasks)"

// Row is one displayed task. DeleteCommand is bound to the index the row
// had when it was rendered and goes stale after the next mutation.
type Row struct {
	Index         int
	Number        int
	Text          string
	DeleteCommand string
}

var (
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	deleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func Rows(items []string) []Row {
	rows := make([]Row, len(items))
	for i, item := range items {
		rows[i] = Row{
			Index:         i,
			Number:        i + 1,
			Text:          DisplayText(item),
			DeleteCommand: fmt.Sprintf("delete %d", i+1),
		}
	}
	return rows
}

// RenderList draws the rows with a delete control each. cursor < 0 hides the
// cursor.
func RenderList(items []string, cursor int) string {
	if len(items) == 0 {
		return EmptyListText
	}
	var b strings.Builder
	for _, row := range Rows(items) {
		marker := "  "
		text := row.Text
		if row.Index == cursor {
			marker = cursorStyle.Render("> ")
			text = cursorStyle.Render(text)
		}
		fmt.Fprintf(&b, "%s%3d. %s %s\n", marker, row.Number, text, deleteStyle.Render("[x]"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderPlain writes "{N:>4}  {TEXT}" lines, numbered from 1.
func RenderPlain(w io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(w, EmptyListText)
		return
	}
	for _, row := range Rows(items) {
		fmt.Fprintf(w, "%4d  %s\n", row.Number, row.Text)
	}
}

// Markdown returns the list as an ordered markdown list.
func Markdown(items []string) string {
	var b strings.Builder
	b.WriteString("# Tasks\n\n")
	if len(items) == 0 {
		b.WriteString("_" + EmptyListText + "_\n")
		return b.String()
	}
	for _, row := range Rows(items) {
		fmt.Fprintf(&b, "%d. %s\n", row.Number, escapeMarkdown(row.Text))
	}
	return b.String()
}

// DisplayText flattens newlines and shows blank text as "(untitled)".
func DisplayText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	if strings.TrimSpace(text) == "" {
		return "(untitled)"
	}
	return text
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
