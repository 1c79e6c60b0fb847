package interview

type Details struct {
	MainContent string `json:"mainContent" validate:"required"`
	Concerns    string `json:"concerns,omitempty"`
	NextAction  string `json:"nextAction,omitempty"`
	Impression  string `json:"impression,omitempty"`
}

type Record struct {
	ID           string  `json:"id"`
	Importance   string  `json:"importance" validate:"required,oneof=High Middle Low"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
	StoreName    string  `json:"storeName" validate:"required,max=100"`
	EmployeeName string  `json:"employeeName" validate:"required,max=100"`
	EmployeeID   string  `json:"employeeId" validate:"required,max=50"`
	Interviewer  string  `json:"interviewer" validate:"required,max=100"`
	Type         string  `json:"type" validate:"required,meetingtype"`
	Status       string  `json:"status" validate:"required,oneof=Completed FollowUpRequired NextActionRequired"`
	Details      Details `json:"details"`
}

// Filter narrows a listing. Query matches case-insensitively across the text fields.
type Filter struct {
	EmployeeID string
	Query      string
}

// Draft returns the blank form values for a new interview, prefilled from the evaluee.
func Draft(storeName, employeeName, employeeID, date string) Record {
	return Record{
		Importance:   ImportanceMiddle,
		Date:         date,
		StoreName:    storeName,
		EmployeeName: employeeName,
		EmployeeID:   employeeID,
		Type:         MeetingTypes[0],
		Status:       StatusCompleted,
	}
}
