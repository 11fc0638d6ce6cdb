package report

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"strings"
)

// Options wrap a rendered table with optional header and footer text.
type Options struct {
	Header string
	Footer string
}

// WriteText renders the table as aligned plain text.
func WriteText(w io.Writer, t *Table, opts Options) error {
	if opts.Header != "" {
		if _, err := fmt.Fprintln(w, opts.Header); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", t.Title, strings.Repeat("=", len(t.Title))); err != nil {
		return err
	}

	widths := make([]int, len(t.Columns))
	for i, c := range t.Columns {
		widths[i] = len(c)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) error {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
		return err
	}

	if err := writeRow(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := writeRow(row); err != nil {
			return err
		}
	}

	if opts.Footer != "" {
		if _, err := fmt.Fprintln(w, opts.Footer); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteCSV renders the table as CSV with the column header as first record.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var htmlTmpl = template.Must(template.New("table").Parse(`{{if .Header}}<p>{{.Header}}</p>
{{end}}<h2>{{.Table.Title}}</h2>
<table>
<thead><tr>{{range .Table.Columns}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
{{if .Footer}}<p>{{.Footer}}</p>
{{end}}`))

// WriteHTML renders the table as an HTML fragment.
func WriteHTML(w io.Writer, t *Table, opts Options) error {
	return htmlTmpl.Execute(w, struct {
		Table  *Table
		Header string
		Footer string
	}{t, opts.Header, opts.Footer})
}

// WriteHTMLDocument renders multiple tables as a standalone HTML page.
func WriteHTMLDocument(w io.Writer, title string, tables []*Table) error {
	if _, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>%s</title></head>\n<body>\n<h1>%s</h1>\n", template.HTMLEscapeString(title), template.HTMLEscapeString(title)); err != nil {
		return err
	}
	for _, t := range tables {
		if err := WriteHTML(w, t, Options{}); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "</body>\n</html>")
	return err
}
