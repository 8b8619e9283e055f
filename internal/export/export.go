// Package export renders a task list as json, csv, markdown or pdf.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/sandeepkv93/tasklist/internal/views"
)

var ErrUnsupportedFormat = errors.New("export: unsupported format")

type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatPDF      Format = "pdf"
)

func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatPDF:
		return f, nil
	case "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

type jsonItem struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

func Export(items []string, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		out := make([]jsonItem, len(items))
		for i, item := range items {
			out[i] = jsonItem{Number: i + 1, Text: item}
		}
		return json.MarshalIndent(out, "", "  ")
	case FormatCSV:
		var b bytes.Buffer
		w := csv.NewWriter(&b)
		_ = w.Write([]string{"number", "text"})
		for i, item := range items {
			_ = w.Write([]string{strconv.Itoa(i + 1), item})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, fmt.Errorf("write csv: %w", err)
		}
		return b.Bytes(), nil
	case FormatMarkdown:
		return []byte(views.Markdown(items)), nil
	case FormatPDF:
		return exportPDF(items)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func exportPDF(items []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Tasks")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 11)
	if len(items) == 0 {
		pdf.MultiCell(0, 6, views.EmptyListText, "0", "L", false)
	}
	for _, row := range views.Rows(items) {
		line := fmt.Sprintf("%d. %s", row.Number, row.Text)
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
