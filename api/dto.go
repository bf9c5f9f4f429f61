package api

type ScheduleRequest struct {
	Room            string   `json:"room" validate:"required"`
	Day             string   `json:"day" validate:"required"`
	LecturerID      string   `json:"lecturer_id" validate:"required"`
	LecturerName    string   `json:"lecturer_name"`
	CourseID        string   `json:"course_id" validate:"required"`
	ClassroomID     string   `json:"classroom_id" validate:"required"`
	Semester        string   `json:"semester" validate:"required"`
	TotalWeeks      int      `json:"total_weeks" validate:"required,min=1"`
	MeetingsPerWeek int      `json:"meetings_per_week" validate:"required,min=1"`
	TimeSlots       []string `json:"time_slots" validate:"required,min=1"`
}

type ScheduleResponse struct {
	ID              string   `json:"id"`
	Room            string   `json:"room"`
	Day             string   `json:"day"`
	LecturerID      string   `json:"lecturer_id"`
	LecturerName    string   `json:"lecturer_name,omitempty"`
	CourseID        string   `json:"course_id"`
	ClassroomID     string   `json:"classroom_id"`
	Semester        string   `json:"semester"`
	TotalWeeks      int      `json:"total_weeks"`
	MeetingsPerWeek int      `json:"meetings_per_week"`
	TimeSlots       []string `json:"time_slots"`
}

type AvailabilityCheckRequest struct {
	Room              string   `json:"room" validate:"required"`
	Day               string   `json:"day" validate:"required"`
	LecturerID        string   `json:"lecturer_id" validate:"required"`
	TimeSlots         []string `json:"time_slots"`
	ExcludeScheduleID string   `json:"exclude_schedule_id,omitempty"`
}

type SessionGenerateRequest struct {
	ClassScheduleID  string `json:"class_schedule_id" validate:"required"`
	Date             string `json:"date" validate:"required"`
	StartTime        string `json:"start_time,omitempty"`
	Week             int    `json:"week" validate:"required,min=1"`
	Meeting          int    `json:"meeting" validate:"required,min=1"`
	TotalHours       int    `json:"total_hours" validate:"required,min=1"`
	ToleranceMinutes int    `json:"tolerance_minutes" validate:"min=0"`
}

type SessionResponse struct {
	ID               string `json:"id"`
	ClassScheduleID  string `json:"class_schedule_id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Week             int    `json:"week"`
	Meeting          int    `json:"meeting"`
	TotalHours       int    `json:"total_hours"`
	ToleranceMinutes int    `json:"tolerance_minutes"`
	IsActive         bool   `json:"is_active"`
	Token            string `json:"token,omitempty"`
}

type SessionExtendRequest struct {
	Minutes int `json:"minutes" validate:"required,oneof=10 20 30"`
}

type MarkAttendanceRequest struct {
	ClassScheduleID string `json:"class_schedule_id"`
	StudentID       string `json:"student_id" validate:"required"`
	Token           string `json:"token,omitempty"`
}

type AttendanceResponse struct {
	ID              string `json:"id"`
	ClassScheduleID string `json:"class_schedule_id"`
	StudentID       string `json:"student_id"`
	Date            string `json:"date"`
	Status          string `json:"status"`
	AttendanceTime  string `json:"attendance_time,omitempty"`
	HoursPresent    int    `json:"hours_present"`
	HoursAbsent     int    `json:"hours_absent"`
	HoursPermitted  int    `json:"hours_permitted"`
	HoursSick       int    `json:"hours_sick"`
	Remarks         string `json:"remarks,omitempty"`
}

type AttendanceUpdate struct {
	ClassScheduleID string `json:"class_schedule_id" validate:"required"`
	StudentID       string `json:"student_id" validate:"required"`
	Date            string `json:"date" validate:"required"`
	Status          string `json:"status" validate:"required"`
	HoursPresent    int    `json:"hours_present" validate:"min=0"`
	HoursAbsent     int    `json:"hours_absent" validate:"min=0"`
	HoursPermitted  int    `json:"hours_permitted" validate:"min=0"`
	HoursSick       int    `json:"hours_sick" validate:"min=0"`
	Remarks         string `json:"remarks"`
	EditedBy        string `json:"edited_by"`
}

type AttendanceBatchRequest struct {
	Updates []AttendanceUpdate `json:"updates" validate:"required,min=1,dive"`
}

type AttendanceBatchResult struct {
	Updated  int      `json:"updated"`
	Failed   int      `json:"failed"`
	Failures []string `json:"failures,omitempty"`
	Message  string   `json:"message"`
}

type CumulativeAttendanceResponse struct {
	ClassScheduleID string `json:"class_schedule_id"`
	StudentID       string `json:"student_id"`
	TotalPresent    int    `json:"total_present"`
	TotalAbsent     int    `json:"total_absent"`
	TotalPermitted  int    `json:"total_permitted"`
	TotalSick       int    `json:"total_sick"`
}
