package leave

type CreateLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=VACATION MEDICAL BIRTHDAY SPECIAL EXTRA_DAYS"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" binding:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" binding:"omitempty,max=1000"`
}

type RespondLeaveRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVED REJECTED"`
	Message  string `json:"message" binding:"omitempty,max=1000"`
}

type ListLeaveQuery struct {
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

type CalendarQuery struct {
	Month string `form:"month" binding:"required,datetime=2006-01"`
}

type LeaveResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	EmployeeName    string  `json:"employee_name,omitempty"`
	LeaveType       string  `json:"leave_type"`
	LeaveLabel      string  `json:"leave_label"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	TotalDays       int     `json:"total_days"`
	Reason          string  `json:"reason,omitempty"`
	Status          string  `json:"status"`
	ApproverID      *string `json:"approver_id,omitempty"`
	ApproverName    string  `json:"approver_name,omitempty"`
	ResponseMessage *string `json:"response_message,omitempty"`
	RespondedAt     *string `json:"responded_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

// CalendarEntry lists the approved business days one employee is absent for a
// given leave type, within one month.
type CalendarEntry struct {
	EmployeeID string   `json:"employee_id"`
	LeaveType  string   `json:"leave_type"`
	Dates      []string `json:"dates"`
}
