package session

import (
	"testing"
	"time"

	"presensi-service/internal/models"
)

func at(hour, min int) time.Time {
	return time.Date(2025, 9, 1, hour, min, 0, 0, time.UTC)
}

func TestApportionHours_ContractCases(t *testing.T) {
	// The four fixture pairs are the algorithmic contract.
	cases := []struct {
		name        string
		arrival     time.Time
		wantPresent int
		wantAbsent  int
	}{
		{"within tolerance", at(9, 5), 2, 0},
		{"at tolerance edge", at(9, 14), 2, 0},
		{"first bucket lost", at(9, 20), 1, 1},
		{"all buckets lost", at(10, 20), 0, 2},
	}

	start := at(9, 0)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			present, absent := ApportionHours(start, tc.arrival, 2, 15)
			if present != tc.wantPresent || absent != tc.wantAbsent {
				t.Errorf("ApportionHours(09:00, %s): got present=%d absent=%d, want %d/%d",
					tc.arrival.Format("15:04"), present, absent, tc.wantPresent, tc.wantAbsent)
			}
		})
	}
}

func TestApportionHours_ExactCutoff(t *testing.T) {
	// Arrival exactly on a cutoff still earns that bucket.
	present, absent := ApportionHours(at(9, 0), at(9, 15), 2, 15)
	if present != 2 || absent != 0 {
		t.Errorf("arrival at cutoff: got %d/%d, want 2/0", present, absent)
	}
}

func TestApportionHours_EarlyArrival(t *testing.T) {
	present, absent := ApportionHours(at(9, 0), at(8, 30), 3, 15)
	if present != 3 || absent != 0 {
		t.Errorf("early arrival: got %d/%d, want 3/0", present, absent)
	}
}

// Sessions longer than two hours are not evidenced by the source fixtures;
// the per-bucket cutoff rule is the conservative generalization pinned here.
func TestApportionHours_LongerSessions(t *testing.T) {
	cases := []struct {
		arrival     time.Time
		totalHours  int
		tolerance   int
		wantPresent int
	}{
		{at(9, 10), 4, 15, 4},
		{at(9, 20), 4, 15, 3},
		{at(10, 20), 4, 15, 2},
		{at(11, 20), 4, 15, 1},
		{at(12, 20), 4, 15, 0},
		{at(9, 40), 3, 30, 2},
	}

	start := at(9, 0)
	for _, tc := range cases {
		present, absent := ApportionHours(start, tc.arrival, tc.totalHours, tc.tolerance)
		if present != tc.wantPresent {
			t.Errorf("arrival %s hours=%d tol=%d: got present=%d, want %d",
				tc.arrival.Format("15:04"), tc.totalHours, tc.tolerance, present, tc.wantPresent)
		}
		if present+absent != tc.totalHours {
			t.Errorf("arrival %s: present+absent=%d, want %d", tc.arrival.Format("15:04"), present+absent, tc.totalHours)
		}
	}
}

func TestApportionHours_SumInvariant(t *testing.T) {
	start := at(7, 0)
	for totalHours := 0; totalHours <= 6; totalHours++ {
		for minute := 0; minute < 10*60; minute += 7 {
			arrival := start.Add(time.Duration(minute) * time.Minute)
			present, absent := ApportionHours(start, arrival, totalHours, 15)
			if present+absent != totalHours {
				t.Fatalf("hours=%d arrival=+%dm: present+absent=%d", totalHours, minute, present+absent)
			}
			if present < 0 || absent < 0 {
				t.Fatalf("hours=%d arrival=+%dm: negative bucket %d/%d", totalHours, minute, present, absent)
			}
		}
	}
}

func newSession(date time.Time, startHour, totalHours int) *models.SessionAttendance {
	start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, date.Location())
	return &models.SessionAttendance{
		ID:              "sess-1",
		ClassScheduleID: "class-1",
		SessionDate:     date,
		StartTime:       start,
		EndTime:         EndTimeFor(start, totalHours),
		TotalHours:      totalHours,
		IsActive:        true,
	}
}

func TestIsActiveAt(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := newSession(day, 9, 2)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before start", at(8, 59), false},
		{"at start", at(9, 0), true},
		{"mid window", at(10, 30), true},
		{"just before end", at(10, 59), true},
		{"at end boundary", at(11, 0), false},
		{"after end", at(11, 1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsActiveAt(s, tc.now); got != tc.want {
				t.Errorf("IsActiveAt(%s): got %v, want %v", tc.now.Format("15:04"), got, tc.want)
			}
		})
	}
}

func TestIsActiveAt_DateBeforeTime(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := newSession(day, 9, 2)

	// Mid-window time of day but on the wrong date: never active.
	nextDay := at(10, 0).AddDate(0, 0, 1)
	if IsActiveAt(s, nextDay) {
		t.Error("session active on a day other than its session date")
	}
}

func TestIsActiveAt_FlagOverrides(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := newSession(day, 9, 2)
	s.IsActive = false

	if IsActiveAt(s, at(10, 0)) {
		t.Error("deactivated session reported active")
	}
}

func TestExpired_EndExclusive(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := newSession(day, 9, 2)

	if Expired(s, at(10, 59)) {
		t.Error("session expired before its end boundary")
	}
	if !Expired(s, at(11, 0)) {
		t.Error("now == end_time must count as expired")
	}
}

func TestExtend(t *testing.T) {
	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	s := newSession(day, 9, 2)

	Extend(s, 20)

	if !s.EndTime.Equal(at(11, 20)) {
		t.Errorf("end time: got %s, want 11:20", s.EndTime.Format("15:04"))
	}
	if s.TotalHours != 2 {
		t.Errorf("total hours changed to %d on extension", s.TotalHours)
	}
	if Expired(s, at(11, 10)) {
		t.Error("session expired inside the extended window")
	}
}
