package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"qbhouse/internal/domain/evaluation"
)

func sampleRecord(t *testing.T, id, name string) evaluation.Record {
	t.Helper()
	rec := evaluation.NewRecord(id, evaluation.DefaultItems())
	rec.Metadata.Store = "Ginza"
	rec.Metadata.Name = name
	rec.Metadata.EmployeeID = "EMP001"
	rec.Metadata.Date = "2025-05-10"
	seven := 7
	var err error
	if rec, err = rec.WithScore(1, &seven); err != nil {
		t.Fatalf("score: %v", err)
	}
	if rec, err = rec.WithMemo(1, `said "thanks", often`); err != nil {
		t.Fatalf("memo: %v", err)
	}
	rec = rec.WithPerformance(evaluation.PerformanceData{MonthlyCuts: []int{500, 500, 500, 500, 500, 500}, GoalCuts: 7200})
	return rec
}

func TestWriteRecordCSV(t *testing.T) {
	rec := sampleRecord(t, "r1", "Sato")
	var buf bytes.Buffer
	if err := WriteRecordCSV(&buf, rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF\"Store: Ginza, Name: Sato, Employee ID: EMP001, Date: 2025-05-10\"\n\n") {
		t.Fatalf("unexpected preamble: %q", out[:80])
	}

	all := readCSV(t, out)
	rows := all[1:]
	if got := strings.Join(rows[0], ","); got != "No,Category,Item,Description,Score,Max,Memo" {
		t.Fatalf("unexpected header: %s", got)
	}
	first := rows[1]
	if first[0] != "1" || first[4] != "7" || first[6] != `said "thanks", often` {
		t.Fatalf("unexpected first row: %v", first)
	}
	if rows[2][4] != "ungraded" {
		t.Fatalf("expected ungraded marker, got %q", rows[2][4])
	}
	last := rows[len(rows)-1]
	if last[6] != "Total score: 22" {
		t.Fatalf("unexpected total row: %v", last)
	}
	if len(rows) != len(rec.Items)+2 {
		t.Fatalf("expected %d rows, got %d", len(rec.Items)+2, len(rows))
	}
}

func readCSV(t *testing.T, out string) [][]string {
	t.Helper()
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\uFEFF")))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return rows
}

func TestWriteRecordCSVQuotesIdentity(t *testing.T) {
	rec := sampleRecord(t, "r1", "Sato, \"Ken\"\nJr")
	rec.Metadata.Store = "Ginza,East"
	var buf bytes.Buffer
	if err := WriteRecordCSV(&buf, rec); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows := readCSV(t, buf.String())
	want := "Store: Ginza,East, Name: Sato, \"Ken\"\nJr, Employee ID: EMP001, Date: 2025-05-10"
	if len(rows[0]) != 1 || rows[0][0] != want {
		t.Fatalf("expected identity as one cell, got %q", rows[0])
	}
	if got := strings.Join(rows[1], ","); got != "No,Category,Item,Description,Score,Max,Memo" {
		t.Fatalf("expected header after identity, got %s", got)
	}
}

func TestWriteAllCSV(t *testing.T) {
	recs := []evaluation.Record{sampleRecord(t, "a", "Sato"), sampleRecord(t, "b", "Suzuki")}
	var buf bytes.Buffer
	if err := WriteAllCSV(&buf, recs, evaluation.DefaultItems()); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := strings.TrimPrefix(buf.String(), "\uFEFF")
	if len(out) == buf.Len() {
		t.Fatal("expected BOM")
	}
	parts := strings.SplitN(out, "\n\n", 2)
	head, err := csv.NewReader(strings.NewReader(parts[0])).ReadAll()
	if err != nil {
		t.Fatalf("parse head: %v", err)
	}
	if len(head) != 9 || head[0][1] != "Ginza Sato" || head[0][2] != "Ginza Suzuki" {
		t.Fatalf("unexpected head rows: %v", head)
	}
	if head[6][0] != "Total score" || head[6][1] != "22" || head[7][1] != "15" || head[8][1] != "0" {
		t.Fatalf("unexpected score rows: %v", head[6:])
	}
	items, err := csv.NewReader(strings.NewReader(parts[1])).ReadAll()
	if err != nil {
		t.Fatalf("parse items: %v", err)
	}
	if len(items) != len(evaluation.DefaultItems()) {
		t.Fatalf("expected one row per catalog item, got %d", len(items))
	}
	if !strings.HasPrefix(items[0][0], "No.1 Relationship-") || items[0][1] != "7" || items[1][1] != "" {
		t.Fatalf("unexpected item rows: %v %v", items[0], items[1])
	}
}

func TestWritePDF(t *testing.T) {
	rec := sampleRecord(t, "r1", "Sato")
	prev := sampleRecord(t, "r0", "Sato")
	rec.Comparison = &prev

	doc, err := renderPDF([]evaluation.Record{rec, prev})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := doc.PageNo(); got != 4 {
		t.Fatalf("expected two pages per record, got %d", got)
	}

	var buf bytes.Buffer
	if err := WritePDF(&buf, []evaluation.Record{rec}); err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected a PDF document, got %q", buf.Bytes()[:8])
	}
}

func TestWritePDFEmpty(t *testing.T) {
	if err := WritePDF(&bytes.Buffer{}, nil); !errors.Is(err, ErrNothingToPrint) {
		t.Fatalf("expected ErrNothingToPrint, got %v", err)
	}
}

func TestFileNames(t *testing.T) {
	rec := evaluation.Record{Metadata: evaluation.Metadata{Date: "2025-05-10"}}
	if got := RecordCSVName(rec); got != "staff_evaluation_2025-05-10.csv" {
		t.Fatalf("unexpected csv name %q", got)
	}
	if got := AllCSVName(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)); got != "qb_all_staff_vertical_2025-05-01.csv" {
		t.Fatalf("unexpected all csv name %q", got)
	}
}
