package report

import (
	"strings"
	"testing"
)

func sampleTable() *Table {
	t := New("Throughput", "week_ending", "items")
	t.Append("2024-01-08", "3")
	t.Append("2024-01-15", "5")
	return t
}

func TestAppendPadsShortRows(t *testing.T) {
	tbl := New("Padded", "a", "b", "c")
	tbl.Append("x")
	if len(tbl.Rows[0]) != 3 || tbl.Rows[0][1] != "" {
		t.Errorf("row = %v, want padded to 3 cells", tbl.Rows[0])
	}
}

func TestSelect(t *testing.T) {
	tbl := sampleTable()
	sub := tbl.Select("items", "missing", "week_ending")

	if len(sub.Columns) != 2 {
		t.Fatalf("columns = %v, want items and week_ending", sub.Columns)
	}
	if sub.Columns[0] != "items" || sub.Rows[0][0] != "3" {
		t.Errorf("selection reordered wrong: %v / %v", sub.Columns, sub.Rows[0])
	}
}

func TestWriteTextAlignsAndTitles(t *testing.T) {
	var buf strings.Builder
	if err := WriteText(&buf, sampleTable(), Options{Header: "intro", Footer: "outro"}); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Throughput", "==========", "week_ending  items", "2024-01-08   3", "intro", "outro"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf strings.Builder
	if err := WriteCSV(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "week_ending,items" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "2024-01-15,5" {
		t.Errorf("last row = %q", lines[2])
	}
}

func TestWriteHTMLEscapes(t *testing.T) {
	tbl := New("Escaping", "value")
	tbl.Append("<script>")

	var buf strings.Builder
	if err := WriteHTML(&buf, tbl, Options{}); err != nil {
		t.Fatalf("WriteHTML() error = %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") {
		t.Error("cell content must be escaped")
	}
	if !strings.Contains(out, "&lt;script&gt;") {
		t.Errorf("escaped content missing:\n%s", out)
	}
}

func TestWriteHTMLDocument(t *testing.T) {
	var buf strings.Builder
	if err := WriteHTMLDocument(&buf, "Report", []*Table{sampleTable(), sampleTable()}); err != nil {
		t.Fatalf("WriteHTMLDocument() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>") {
		t.Error("document should start with a doctype")
	}
	if strings.Count(out, "<h2>Throughput</h2>") != 2 {
		t.Error("both tables should appear")
	}
	if !strings.Contains(out, "</html>") {
		t.Error("document should be closed")
	}
}
