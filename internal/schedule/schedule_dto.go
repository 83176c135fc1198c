package schedule

type ScheduleQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

type ScheduleEntryResponse struct {
	WorkDate  string  `json:"work_date"`
	IsRestDay bool    `json:"is_rest_day"`
	LeaveType *string `json:"leave_type,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}
