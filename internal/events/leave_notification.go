package events

import "time"

const LeaveNotificationTopic = "hr.leave.notifications.v1"

const (
	LeaveRequestedEvent          = "leave.requested"
	LeaveSubmittedEvent          = "leave.submitted"
	LeaveRespondedEvent          = "leave.responded"
	LeaveDepartmentApprovedEvent = "leave.department_approved"
)

// LeaveNotificationEvent is addressed to exactly one recipient. A transition
// that concerns several people produces one event per recipient.
type LeaveNotificationEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	RecipientID  string    `json:"recipient_id"`
	RequestID    string    `json:"request_id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	LeaveType    string    `json:"leave_type"`
	LeaveLabel   string    `json:"leave_label"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	TotalDays    int       `json:"total_days"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
