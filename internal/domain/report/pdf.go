package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"qbhouse/internal/domain/evaluation"
)

var numbers = message.NewPrinter(language.English)

// ErrNothingToPrint is returned for an empty batch.
var ErrNothingToPrint = errors.New("no records to print")

const (
	pageMargin   = 12.0
	contentWidth = 210.0 - 2*pageMargin
)

type rgb struct{ r, g, b int }

var (
	navy  = rgb{0, 44, 95}
	blue  = rgb{59, 130, 246}
	red   = rgb{239, 68, 68}
	grey  = rgb{156, 163, 175}
	light = rgb{229, 231, 235}
	green = rgb{16, 185, 129}
)

func PrintName(rec evaluation.Record) string {
	name := rec.Metadata.Name
	if name == "" {
		name = "staff"
	}
	return fmt.Sprintf("%s_evaluation_%s.pdf", name, rec.Metadata.Date)
}

// WritePDF prints each record on two A4 pages, in the order given.
func WritePDF(w io.Writer, recs []evaluation.Record) error {
	pdf, err := renderPDF(recs)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func renderPDF(recs []evaluation.Record) (*gofpdf.Fpdf, error) {
	if len(recs) == 0 {
		return nil, ErrNothingToPrint
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("QB evaluation sheets", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, rec := range recs {
		sheet := sheetWriter{pdf: pdf, tr: tr}
		sheet.summaryPage(rec)
		sheet.itemsPage(rec)
	}
	if err := pdf.Error(); err != nil {
		return nil, err
	}
	return pdf, nil
}

type tile struct {
	label      string
	value, cap int
}

type sheetWriter struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (s sheetWriter) color(c rgb) {
	s.pdf.SetDrawColor(c.r, c.g, c.b)
	s.pdf.SetTextColor(c.r, c.g, c.b)
}

func (s sheetWriter) header(rec evaluation.Record, title string) {
	pdf := s.pdf
	pdf.AddPage()
	s.color(navy)
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentWidth, 9, s.tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	m := rec.Metadata
	line := fmt.Sprintf("Store: %s   Name: %s   Employee ID: %s   Evaluator: %s   Date: %s",
		m.Store, m.Name, m.EmployeeID, m.Evaluator, m.Date)
	pdf.CellFormat(contentWidth, 6, s.tr(line), "B", 1, "L", false, 0, "")
	pdf.Ln(3)
}

func (s sheetWriter) summaryPage(rec evaluation.Record) {
	pdf := s.pdf
	s.header(rec, "Staff Evaluation Sheet")

	dash := evaluation.BuildDashboard(rec.Items, rec.PerformanceScore, rec.Metadata.Performance)
	tiles := []tile{
		{"Relationship", dash.Relationship, evaluation.RelationshipCap},
		{"Service", dash.Service, evaluation.ServiceCap},
		{"Technical", dash.Technical, evaluation.TechnicalCap},
		{"Performance", dash.Performance, evaluation.PerformanceCap},
		{"Total", dash.Total, evaluation.TotalCap},
	}
	if dash.ManagerUnlocked {
		tiles = append(tiles, tile{"Store Manager", dash.Manager, evaluation.ManagerCap})
	}
	tileW := contentWidth / float64(len(tiles))
	top := pdf.GetY()
	for idx, t := range tiles {
		x := pageMargin + float64(idx)*tileW
		s.color(light)
		pdf.Rect(x+1, top, tileW-2, 16, "D")
		s.color(grey)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetXY(x+1, top+1)
		pdf.CellFormat(tileW-2, 5, t.label, "", 0, "C", false, 0, "")
		s.color(navy)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.SetXY(x+1, top+7)
		pdf.CellFormat(tileW-2, 7, fmt.Sprintf("%d / %d", t.value, t.cap), "", 0, "C", false, 0, "")
	}
	pdf.SetY(top + 20)

	s.monthlyTable(rec.Metadata.Performance, dash.PerformanceStats)

	charts := evaluation.BuildCharts(rec)
	top = pdf.GetY() + 4
	if charts.ManagerUnlocked {
		s.radar(pageMargin+31, top+36, 24, "Staff", charts.Staff)
		s.radar(pageMargin+contentWidth-31, top+36, 24, "Store Manager", charts.Manager)
		s.line(pageMargin+66, top+4, contentWidth-132, 64, charts.Monthly)
	} else {
		s.radar(pageMargin+45, top+36, 28, "Staff", charts.Staff)
		s.line(pageMargin+98, top+4, contentWidth-98, 64, charts.Monthly)
	}
	pdf.SetY(top + 80)

	if alerts := evaluation.ScheduleAlerts(rec.Metadata.Date); len(alerts) > 0 {
		s.color(navy)
		pdf.SetFont("Helvetica", "B", 9)
		for _, alert := range alerts {
			text := alert.Title + ": "
			for idx, msg := range alert.Messages {
				if idx > 0 {
					text += ", "
				}
				text += msg
			}
			pdf.CellFormat(contentWidth, 5, s.tr(text), "", 1, "L", false, 0, "")
		}
	}
}

func (s sheetWriter) monthlyTable(data evaluation.PerformanceData, stats evaluation.PerformanceMetrics) {
	pdf := s.pdf
	labelW := 22.0
	cellW := (contentWidth - labelW) / evaluation.MonthsPerYear

	s.color(navy)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(labelW, 6, "Month", "1", 0, "C", false, 0, "")
	for _, label := range evaluation.MonthLabels {
		pdf.CellFormat(cellW, 6, label, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(labelW, 6, "Cuts", "1", 0, "C", false, 0, "")
	for idx := 0; idx < evaluation.MonthsPerYear; idx++ {
		text := ""
		if idx < len(data.MonthlyCuts) && data.MonthlyCuts[idx] > 0 {
			text = numbers.Sprintf("%d", data.MonthlyCuts[idx])
		}
		if idx < len(data.ExcludedFromAverage) && data.ExcludedFromAverage[idx] {
			text += "*"
		}
		pdf.CellFormat(cellW, 6, text, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	summary := numbers.Sprintf("Entered %d   Average %d   Forecast %d   Score %d   Goal %d (score %d, %d%%)   Daily %.1f   * excluded from average",
		stats.CurrentTotal, stats.Average, stats.ForecastTotal, stats.Score,
		data.GoalCuts, stats.GoalScore, stats.GoalAchievement, stats.DailyRate)
	pdf.SetFont("Helvetica", "", 7.5)
	pdf.CellFormat(contentWidth, 6, summary, "", 1, "L", false, 0, "")
}

// radar draws a percentage radar with grid rings at every 20%.
func (s sheetWriter) radar(cx, cy, radius float64, title string, points []evaluation.RadarPoint) {
	pdf := s.pdf
	n := len(points)
	if n < 3 {
		return
	}
	at := func(idx int, pct float64) gofpdf.PointType {
		angle := -math.Pi/2 + 2*math.Pi*float64(idx)/float64(n)
		r := radius * pct / 100
		return gofpdf.PointType{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}

	pdf.SetLineWidth(0.2)
	s.color(light)
	for ring := 20; ring <= 100; ring += 20 {
		poly := make([]gofpdf.PointType, n)
		for idx := range points {
			poly[idx] = at(idx, float64(ring))
		}
		pdf.Polygon(poly, "D")
	}
	for idx := range points {
		end := at(idx, 100)
		pdf.Line(cx, cy, end.X, end.Y)
	}

	hasB := false
	series := make([]gofpdf.PointType, n)
	compare := make([]gofpdf.PointType, n)
	for idx, p := range points {
		series[idx] = at(idx, float64(p.A))
		if p.B != nil {
			hasB = true
			compare[idx] = at(idx, float64(*p.B))
		}
	}
	if hasB {
		pdf.SetDrawColor(red.r, red.g, red.b)
		pdf.SetDashPattern([]float64{1.2, 1.2}, 0)
		pdf.Polygon(compare, "D")
		pdf.SetDashPattern([]float64{}, 0)
	}
	pdf.SetLineWidth(0.5)
	pdf.SetDrawColor(blue.r, blue.g, blue.b)
	pdf.SetFillColor(blue.r, blue.g, blue.b)
	pdf.SetAlpha(0.3, "Normal")
	pdf.Polygon(series, "FD")
	pdf.SetAlpha(1, "Normal")
	pdf.SetLineWidth(0.2)

	s.color(navy)
	pdf.SetFont("Helvetica", "", 6.5)
	for idx, p := range points {
		label := at(idx, 118)
		pdf.SetXY(label.X-14, label.Y-2)
		pdf.CellFormat(28, 4, s.tr(fmt.Sprintf("%s %d", p.Subject, p.A)), "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(cx-radius, cy-radius-11)
	pdf.CellFormat(2*radius, 5, s.tr(title), "", 0, "C", false, 0, "")
}

// line plots monthly cuts against the flat monthly goal. Empty months break the line.
func (s sheetWriter) line(x, y, w, h float64, points []evaluation.LinePoint) {
	pdf := s.pdf
	maxValue := 1
	for _, p := range points {
		if p.Cuts != nil && *p.Cuts > maxValue {
			maxValue = *p.Cuts
		}
		if p.Goal > maxValue {
			maxValue = p.Goal
		}
	}
	scaleY := func(v int) float64 { return y + h - h*float64(v)/float64(maxValue)*0.9 }
	stepX := w / float64(len(points))
	pointX := func(idx int) float64 { return x + stepX*(float64(idx)+0.5) }

	s.color(light)
	pdf.SetLineWidth(0.2)
	pdf.Rect(x, y, w, h, "D")

	goal := points[0].Goal
	if goal > 0 {
		pdf.SetDrawColor(green.r, green.g, green.b)
		pdf.SetDashPattern([]float64{1.5, 1}, 0)
		pdf.Line(x, scaleY(goal), x+w, scaleY(goal))
		pdf.SetDashPattern([]float64{}, 0)
	}

	pdf.SetDrawColor(blue.r, blue.g, blue.b)
	pdf.SetFillColor(blue.r, blue.g, blue.b)
	pdf.SetLineWidth(0.5)
	for idx, p := range points {
		if p.Cuts == nil {
			continue
		}
		px, py := pointX(idx), scaleY(*p.Cuts)
		pdf.Circle(px, py, 0.7, "F")
		if idx > 0 && points[idx-1].Cuts != nil {
			pdf.Line(pointX(idx-1), scaleY(*points[idx-1].Cuts), px, py)
		}
	}
	pdf.SetLineWidth(0.2)

	s.color(navy)
	pdf.SetFont("Helvetica", "", 6)
	for idx, p := range points {
		pdf.SetXY(pointX(idx)-stepX/2, y+h+0.5)
		pdf.CellFormat(stepX, 4, p.Month, "", 0, "C", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(x, y-6)
	title := "Monthly cuts"
	if goal > 0 {
		title = numbers.Sprintf("Monthly cuts (goal %d / month)", goal)
	}
	pdf.CellFormat(w, 5, title, "", 0, "C", false, 0, "")
}

func (s sheetWriter) itemsPage(rec evaluation.Record) {
	pdf := s.pdf
	s.header(rec, "Evaluation Details")

	for _, category := range evaluation.Categories {
		if category == evaluation.CategoryPerformance {
			continue
		}
		items := evaluation.CategoryItems(rec.Items, category)
		graded := items[:0:0]
		for _, item := range items {
			if item.IsGraded() {
				graded = append(graded, item)
			}
		}
		if len(graded) == 0 {
			continue
		}
		s.color(navy)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentWidth, 7, s.tr(evaluation.CategoryLabels[category]), "B", 1, "L", false, 0, "")
		for _, item := range graded {
			pdf.SetFont("Helvetica", "", 8)
			pdf.CellFormat(12, 5, fmt.Sprintf("No.%d", item.No), "", 0, "L", false, 0, "")
			pdf.CellFormat(contentWidth-32, 5, s.tr(item.Title), "", 0, "L", false, 0, "")
			pdf.SetFont("Helvetica", "B", 8)
			pdf.CellFormat(20, 5, fmt.Sprintf("%d / %d", item.ScoreValue(), item.Max), "", 1, "R", false, 0, "")
			if memo := item.DisplayMemo(); memo != "" {
				s.color(grey)
				pdf.SetFont("Helvetica", "I", 7.5)
				pdf.SetX(pageMargin + 12)
				pdf.MultiCell(contentWidth-12, 4, s.tr(memo), "", "L", false)
				s.color(navy)
			}
			for _, inc := range item.Incidents {
				pdf.SetFont("Helvetica", "", 7.5)
				pdf.SetX(pageMargin + 12)
				text := fmt.Sprintf("%s  %s  %d / +%d", inc.Date, inc.Description, inc.Deduction, inc.Improvement)
				pdf.MultiCell(contentWidth-12, 4, s.tr(text), "", "L", false)
			}
		}
		pdf.Ln(2)
	}

	pdf.Ln(4)
	s.color(grey)
	top := pdf.GetY()
	pdf.SetDashPattern([]float64{1.5, 1}, 0)
	pdf.Rect(pageMargin, top, contentWidth, 32, "D")
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetXY(pageMargin+2, top+2)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentWidth-4, 4, "Notes / overall comment", "", 0, "L", false, 0, "")
}
