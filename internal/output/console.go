// Package output renders evaluation sheets for the terminal.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"qbhouse/internal/domain/evaluation"
)

// Console writes styled text. With colour off every style renders plain.
type Console struct {
	w        io.Writer
	colorize bool
	numbers  *message.Printer
}

func NewConsole(w io.Writer, colorize bool) *Console {
	return &Console{w: w, colorize: colorize, numbers: message.NewPrinter(language.English)}
}

func (c *Console) style(color string) lipgloss.Style {
	if !c.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func (c *Console) bold() lipgloss.Style {
	if !c.colorize {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Bold(true)
}

// Index lists saved sheets, newest first.
func (c *Console) Index(index []evaluation.Summary) {
	if len(index) == 0 {
		fmt.Fprintln(c.w, c.style("7").Render("no saved evaluations"))
		return
	}
	fmt.Fprintln(c.w, c.bold().Render(fmt.Sprintf("%-36s  %-16s  %-16s  %s", "ID", "Name", "Store", "Date")))
	for _, s := range index {
		fmt.Fprintf(c.w, "%-36s  %-16s  %-16s  %s\n", s.ID, orDash(s.Name), orDash(s.Store), orDash(s.Date))
	}
}

// Dashboard prints the totals, performance panel, axis bars and due reminders of one sheet.
func (c *Console) Dashboard(rec evaluation.Record) {
	meta := rec.Metadata
	d := evaluation.BuildDashboard(rec.Items, rec.PerformanceScore, meta.Performance)

	fmt.Fprintln(c.w, c.bold().Render(fmt.Sprintf("%s / %s", orDash(meta.Name), orDash(meta.Store))))
	fmt.Fprintf(c.w, "Employee %s  Evaluator %s  Date %s\n\n", orDash(meta.EmployeeID), orDash(meta.Evaluator), orDash(meta.Date))

	c.total("Relationship", d.Relationship, d.Caps[evaluation.CategoryRelationship])
	c.total("Service", d.Service, d.Caps[evaluation.CategoryService])
	c.total("Technical", d.Technical, d.Caps[evaluation.CategoryTechnical])
	c.total("Performance", d.Performance, d.Caps[evaluation.CategoryPerformance])
	fmt.Fprintln(c.w, c.bold().Render(fmt.Sprintf("%-14s %4d / %d", "Total", d.Total, d.Caps["total"])))
	if d.ManagerUnlocked {
		c.total("Manager", d.Manager, d.Caps[evaluation.CategoryManager])
	}
	fmt.Fprintf(c.w, "Graded %d, ungraded %d\n\n", d.Graded, d.Ungraded)

	stats := d.PerformanceStats
	fmt.Fprintln(c.w, c.numbers.Sprintf("Cuts to date %d, monthly average %d, forecast %d", stats.CurrentTotal, stats.Average, stats.ForecastTotal))
	if meta.Performance.GoalCuts > 0 {
		fmt.Fprintln(c.w, c.numbers.Sprintf("Goal %d (%d%% achieved), daily rate %.1f", meta.Performance.GoalCuts, stats.GoalAchievement, stats.DailyRate))
	}
	fmt.Fprintln(c.w)

	for _, p := range evaluation.StaffRadar(rec.Items, rec.PerformanceScore, nil) {
		fmt.Fprintf(c.w, "%-14s %s %3d%%\n", p.Subject, c.bar(p.A), p.A)
	}

	for _, alert := range evaluation.ScheduleAlerts(meta.Date) {
		color := "12"
		if alert.Level == evaluation.AlertWarn {
			color = "3"
		}
		fmt.Fprintf(c.w, "\n%s %s\n", c.style(color).Render("!"), alert.Title)
		for _, msg := range alert.Messages {
			fmt.Fprintf(c.w, "  - %s\n", msg)
		}
	}
}

func (c *Console) total(label string, value, cap int) {
	color := "10"
	if value < 0 {
		color = "9"
	}
	fmt.Fprintf(c.w, "%-14s %s / %d\n", label, c.style(color).Render(fmt.Sprintf("%4d", value)), cap)
}

const barWidth = 20

func (c *Console) bar(percent int) string {
	filled := percent * barWidth / 100
	return c.style("10").Render(strings.Repeat("#", filled)) + c.style("8").Render(strings.Repeat(".", barWidth-filled))
}

// Scores prints one line of totals per sheet, the way the all-staff export summarises them.
func (c *Console) Scores(recs []evaluation.Record) {
	if len(recs) == 0 {
		fmt.Fprintln(c.w, c.style("7").Render("no saved evaluations"))
		return
	}
	fmt.Fprintln(c.w, c.bold().Render(fmt.Sprintf("%-16s  %-16s  %-10s  %5s  %5s  %7s", "Name", "Store", "Date", "Total", "Perf", "Manager")))
	for _, rec := range recs {
		totals := evaluation.TotalsOf(rec)
		manager := "-"
		if evaluation.ManagerUnlocked(rec.Items) {
			manager = fmt.Sprint(totals.Manager)
		}
		fmt.Fprintf(c.w, "%-16s  %-16s  %-10s  %5d  %5d  %7s\n",
			orDash(rec.Metadata.Name), orDash(rec.Metadata.Store), orDash(rec.Metadata.Date),
			totals.Total, totals.Performance, manager)
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
