package notification

import (
	"fmt"
	"strings"

	"hris-leave/internal/events"
)

// render builds the inbox title and body for an event.
func render(e events.LeaveNotificationEvent) (string, string) {
	period := e.StartDate
	if e.EndDate != e.StartDate {
		period = e.StartDate + " to " + e.EndDate
	}
	who := e.EmployeeName
	if who == "" {
		who = "An employee"
	}

	var title, body string
	switch Kind(e.EventType) {
	case KindNewRequest:
		title = "New leave request"
		body = fmt.Sprintf("%s requested %s for %s (%s).", who, e.LeaveLabel, period, plural(e.TotalDays))
	case KindConfirmation:
		title = "Leave request submitted"
		body = fmt.Sprintf("Your %s request for %s (%s) is awaiting approval.", e.LeaveLabel, period, plural(e.TotalDays))
	case KindResponse:
		title = "Leave request " + strings.ToLower(e.Status)
		body = fmt.Sprintf("Your %s request for %s was %s.", e.LeaveLabel, period, strings.ToLower(e.Status))
	case KindDepartmentApproval:
		title = "Team member on leave"
		body = fmt.Sprintf("%s will be on %s for %s.", who, e.LeaveLabel, period)
	default:
		title = "Leave request update"
		body = fmt.Sprintf("%s for %s.", e.LeaveLabel, period)
	}

	if e.Message != "" {
		body += " Note: " + e.Message
	}
	return title, body
}

func plural(days int) string {
	if days == 1 {
		return "1 business day"
	}
	return fmt.Sprintf("%d business days", days)
}
