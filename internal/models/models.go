package models

import (
	"time"

	"presensi-service/internal/timeslot"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceLate, AttendanceAbsent, AttendanceExcused:
		return true
	default:
		return false
	}
}

type ConflictType string

const (
	ConflictNone     ConflictType = ""
	ConflictRoom     ConflictType = "room"
	ConflictLecturer ConflictType = "lecturer"
)

// ClassSchedule is a recurring weekly class placement. TimeSlots are
// materialized by the storage layer, never lazily loaded.
type ClassSchedule struct {
	ID              string `db:"id"`
	Room            string `db:"room"`
	Day             string `db:"day"`
	LecturerID      string `db:"lecturer_id"`
	LecturerName    string `db:"lecturer_name"`
	CourseID        string `db:"course_id"`
	ClassroomID     string `db:"classroom_id"`
	Semester        string `db:"semester"`
	TotalWeeks      int    `db:"total_weeks"`
	MeetingsPerWeek int    `db:"meetings_per_week"`
	TimeSlots       []timeslot.TimeSlot
}

// SessionAttendance is one attendance-taking occurrence for a class on a
// specific date/week/meeting. StartTime and EndTime are full timestamps on
// SessionDate; EndTime = StartTime + TotalHours hours at creation.
type SessionAttendance struct {
	ID               string    `db:"id"`
	ClassScheduleID  string    `db:"class_schedule_id"`
	SessionDate      time.Time `db:"session_date"`
	StartTime        time.Time `db:"start_time"`
	EndTime          time.Time `db:"end_time"`
	Week             int       `db:"week"`
	Meeting          int       `db:"meeting"`
	TotalHours       int       `db:"total_hours"`
	ToleranceMinutes int       `db:"tolerance_minutes"`
	IsActive         bool      `db:"is_active"`
	Token            string    `db:"token"`
}

// Attendance is one student's record for a class on a date. The four hour
// buckets must sum to the session's TotalHours.
type Attendance struct {
	ID              string           `db:"id"`
	ClassScheduleID string           `db:"class_schedule_id"`
	StudentID       string           `db:"student_id"`
	Date            time.Time        `db:"date"`
	Status          AttendanceStatus `db:"status"`
	AttendanceTime  *time.Time       `db:"attendance_time"`
	HoursPresent    int              `db:"hours_present"`
	HoursAbsent     int              `db:"hours_absent"`
	HoursPermitted  int              `db:"hours_permitted"`
	HoursSick       int              `db:"hours_sick"`
	Remarks         string           `db:"remarks"`
	EditedBy        string           `db:"edited_by"`
	EditedAt        *time.Time       `db:"edited_at"`
}

// HourSum is the total of the four apportionment buckets.
func (a *Attendance) HourSum() int {
	return a.HoursPresent + a.HoursAbsent + a.HoursPermitted + a.HoursSick
}

type Student struct {
	ID   string `db:"id"`
	NIM  string `db:"nim"`
	Name string `db:"name"`
}
