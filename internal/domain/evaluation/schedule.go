package evaluation

import "time"

const (
	AlertInfo = "info"
	AlertWarn = "warn"
)

type ScheduleAlert struct {
	Month    int      `json:"month"`
	Title    string   `json:"title"`
	Messages []string `json:"messages"`
	Level    string   `json:"level"`
}

// evaluation calendar for a July-June fiscal year
var reviewCalendar = map[time.Month][]ScheduleAlert{
	time.July:     {{Title: "Term start", Messages: []string{"Fourth quarter review", "Year-end review"}, Level: AlertInfo}},
	time.October:  {{Title: "First quarter", Messages: []string{"First quarter review"}, Level: AlertInfo}},
	time.November: {{Title: "Manager evaluation", Messages: []string{"Store manager evaluation month"}, Level: AlertWarn}},
	time.January:  {{Title: "Second quarter", Messages: []string{"Second quarter review"}, Level: AlertInfo}},
	time.April:    {{Title: "Third quarter", Messages: []string{"Third quarter review"}, Level: AlertInfo}},
	time.May: {{
		Title:    "Annual review",
		Messages: []string{"Promotion and raise review", "Store manager evaluation", "Annual awards"},
		Level:    AlertWarn,
	}},
	time.June: {{Title: "Term end", Messages: []string{"Set next term goals"}, Level: AlertWarn}},
}

// ScheduleAlerts returns the reminders due in the month of an evaluation date.
// An empty or malformed date yields none.
func ScheduleAlerts(date string) []ScheduleAlert {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}
	due := reviewCalendar[t.Month()]
	out := make([]ScheduleAlert, 0, len(due))
	for _, alert := range due {
		alert.Month = int(t.Month())
		alert.Messages = append([]string(nil), alert.Messages...)
		out = append(out, alert)
	}
	return out
}
