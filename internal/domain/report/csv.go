package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"qbhouse/internal/domain/evaluation"
)

// utf8BOM makes spreadsheet apps detect the encoding.
const utf8BOM = "\uFEFF"

const ungraded = "ungraded"

// RecordCSVName is the download name for a single sheet.
func RecordCSVName(rec evaluation.Record) string {
	name := rec.Metadata.Name
	if name == "" {
		name = "staff"
	}
	return fmt.Sprintf("%s_evaluation_%s.csv", name, rec.Metadata.Date)
}

func AllCSVName(now time.Time) string {
	return fmt.Sprintf("qb_all_staff_vertical_%s.csv", now.Format("2006-01-02"))
}

// WriteRecordCSV writes one sheet: an identity line, a blank line, one row per item and the total.
func WriteRecordCSV(w io.Writer, rec evaluation.Record) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	meta := rec.Metadata
	cw := csv.NewWriter(bw)
	identity := fmt.Sprintf("Store: %s, Name: %s, Employee ID: %s, Date: %s", meta.Store, meta.Name, meta.EmployeeID, meta.Date)
	if err := cw.Write([]string{identity}); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}
	if err := cw.Write([]string{"No", "Category", "Item", "Description", "Score", "Max", "Memo"}); err != nil {
		return err
	}
	for _, item := range rec.Items {
		score := ungraded
		if item.Score != nil {
			score = strconv.Itoa(*item.Score)
		}
		row := []string{
			strconv.Itoa(item.No),
			categoryLabel(item.Category),
			item.SubCategory + " - " + item.Title,
			item.Description,
			score,
			strconv.Itoa(item.Max),
			item.DisplayMemo(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	total := evaluation.GrandTotal(rec.Items, rec.PerformanceScore)
	if err := cw.Write([]string{"", "", "", "", "", "", fmt.Sprintf("Total score: %d", total)}); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

// WriteAllCSV writes every record as one column: identity rows, totals, then one row per catalog item.
func WriteAllCSV(w io.Writer, recs []evaluation.Record, catalog []evaluation.Item) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(bw)
	write := func(label string, cell func(evaluation.Record) string) error {
		row := make([]string, 0, len(recs)+1)
		row = append(row, label)
		for _, rec := range recs {
			row = append(row, cell(rec))
		}
		return cw.Write(row)
	}

	if err := write("Item / Staff", func(r evaluation.Record) string {
		return r.Metadata.Store + " " + r.Metadata.Name
	}); err != nil {
		return err
	}
	basics := []struct {
		label string
		get   func(evaluation.Metadata) string
	}{
		{"Store", func(m evaluation.Metadata) string { return m.Store }},
		{"Name", func(m evaluation.Metadata) string { return m.Name }},
		{"Employee ID", func(m evaluation.Metadata) string { return m.EmployeeID }},
		{"Evaluation date", func(m evaluation.Metadata) string { return m.Date }},
		{"Evaluator", func(m evaluation.Metadata) string { return m.Evaluator }},
	}
	for _, b := range basics {
		if err := write(b.label, func(r evaluation.Record) string { return b.get(r.Metadata) }); err != nil {
			return err
		}
	}
	if err := write("Total score", func(r evaluation.Record) string {
		return strconv.Itoa(evaluation.GrandTotal(r.Items, r.PerformanceScore))
	}); err != nil {
		return err
	}
	if err := write("Performance score", func(r evaluation.Record) string {
		return strconv.Itoa(r.PerformanceScore)
	}); err != nil {
		return err
	}
	if err := write("Manager score", func(r evaluation.Record) string {
		return strconv.Itoa(evaluation.CategoryTotal(r.Items, evaluation.CategoryManager))
	}); err != nil {
		return err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if _, err := bw.WriteString("\n"); err != nil {
		return err
	}

	for _, c := range catalog {
		label := fmt.Sprintf("No.%d %s-%s", c.No, categoryLabel(c.Category), c.Title)
		if err := write(label, func(r evaluation.Record) string {
			item, ok := r.Item(c.No)
			if !ok || item.Score == nil {
				return ""
			}
			return strconv.Itoa(*item.Score)
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return bw.Flush()
}

func categoryLabel(category string) string {
	if label, ok := evaluation.CategoryLabels[category]; ok {
		return label
	}
	return category
}
