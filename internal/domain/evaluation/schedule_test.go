package evaluation

import "testing"

func TestScheduleAlerts(t *testing.T) {
	may := ScheduleAlerts("2025-05-12")
	if len(may) != 1 || len(may[0].Messages) != 3 || may[0].Level != AlertWarn || may[0].Month != 5 {
		t.Fatalf("unexpected May alerts: %+v", may)
	}
	nov := ScheduleAlerts("2024-11-01")
	if len(nov) != 1 || nov[0].Title != "Manager evaluation" {
		t.Fatalf("unexpected November alerts: %+v", nov)
	}
	if got := ScheduleAlerts("2025-03-01"); len(got) != 0 {
		t.Fatalf("expected no alerts in March, got %+v", got)
	}
	if got := ScheduleAlerts("not a date"); got != nil {
		t.Fatalf("expected nil for malformed date, got %+v", got)
	}
}

func TestScheduleAlertsReturnsCopies(t *testing.T) {
	first := ScheduleAlerts("2025-05-01")
	first[0].Messages[0] = "changed"
	if ScheduleAlerts("2025-05-01")[0].Messages[0] == "changed" {
		t.Fatal("alerts share state with the calendar")
	}
}
