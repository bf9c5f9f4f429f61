package session

import (
	"time"

	"presensi-service/internal/models"
)

// ApportionHours divides a session into totalHours consecutive one-hour
// buckets from sessionStart and counts how many the arrival still earns.
// Bucket i is present when arrival <= sessionStart + i hours + tolerance;
// cutoffs grow monotonically, so every bucket before the first one whose
// cutoff the arrival meets is absent and everything from it onward is
// present. present + absent == totalHours for all inputs.
func ApportionHours(sessionStart, arrival time.Time, totalHours, toleranceMinutes int) (present, absent int) {
	if totalHours <= 0 {
		return 0, 0
	}

	tolerance := time.Duration(toleranceMinutes) * time.Minute

	for i := 0; i < totalHours; i++ {
		cutoff := sessionStart.Add(time.Duration(i)*time.Hour + tolerance)
		if !arrival.After(cutoff) {
			present++
		}
	}

	return present, totalHours - present
}

// EndTimeFor computes a session's end: each unit of totalHours maps to one
// clock hour of window.
func EndTimeFor(start time.Time, totalHours int) time.Time {
	return start.Add(time.Duration(totalHours) * time.Hour)
}

// SameDate reports whether two timestamps fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsActiveAt evaluates the session state machine. The date comparison comes
// first: a session is never active on a day other than its session date, no
// matter the flag or time of day. The end boundary is exclusive.
func IsActiveAt(s *models.SessionAttendance, now time.Time) bool {
	if !SameDate(s.SessionDate, now) {
		return false
	}
	if !s.IsActive {
		return false
	}

	return !now.Before(s.StartTime) && now.Before(s.EndTime)
}

// Expired reports whether now has reached the session's end boundary.
func Expired(s *models.SessionAttendance, now time.Time) bool {
	return !now.Before(s.EndTime)
}

// Extend pushes the end boundary out by the given minutes. TotalHours and
// already-written apportionments are untouched.
func Extend(s *models.SessionAttendance, minutes int) {
	s.EndTime = s.EndTime.Add(time.Duration(minutes) * time.Minute)
}
