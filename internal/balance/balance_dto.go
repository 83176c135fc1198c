package balance

type SetBalanceRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=VACATION MEDICAL BIRTHDAY SPECIAL EXTRA_DAYS"`
	TotalDays *int   `json:"total_days" binding:"required,min=0"`
	UsedDays  *int   `json:"used_days" binding:"omitempty,min=0"`
	Year      *int   `json:"year" binding:"omitempty,min=1900,max=9999"`
}

type BalanceQuery struct {
	Year *int `form:"year" binding:"omitempty,min=1900,max=9999"`
}

type BalanceResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	Label         string `json:"label"`
	Year          int    `json:"year"`
	TotalDays     int    `json:"total_days"`
	UsedDays      int    `json:"used_days"`
	RemainingDays int    `json:"remaining_days"`
	Limited       bool   `json:"limited"`
}
