package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"presensi-service/api"
	"presensi-service/internal/models"
	"presensi-service/internal/timeslot"
	"presensi-service/pkg/response"
)

func setup() (*Service, *memStore, *memLocker) {
	store := newMemStore()
	locker := &memLocker{}
	svc := NewService(store, locker, timeslot.DefaultConfig())
	return svc, store, locker
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func scheduleRequest() *api.ScheduleRequest {
	return &api.ScheduleRequest{
		Room:            "R101",
		Day:             "Senin",
		LecturerID:      "L1",
		LecturerName:    "Dr. Budi",
		CourseID:        "C1",
		ClassroomID:     "TI-3A",
		Semester:        "2025/2026-1",
		TotalWeeks:      16,
		MeetingsPerWeek: 1,
		TimeSlots:       []string{"07:00 - 08:00", "08:00 - 09:00"},
	}
}

func seedRoster(store *memStore, classID string, n int) {
	for i := 0; i < n; i++ {
		store.roster[classID] = append(store.roster[classID], models.Student{
			ID:   string(rune('a' + i)),
			NIM:  "22000" + string(rune('0'+i)),
			Name: "Student " + string(rune('A'+i)),
		})
	}
}

func generateRequest(classID string) *api.SessionGenerateRequest {
	return &api.SessionGenerateRequest{
		ClassScheduleID:  classID,
		Date:             "2025-09-01",
		StartTime:        "09:00",
		Week:             1,
		Meeting:          1,
		TotalHours:       2,
		ToleranceMinutes: 15,
	}
}

// Schedules

func TestCreateSchedule_PersistsScheduleAndSlots(t *testing.T) {
	svc, store, _ := setup()

	resp, conflict, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conflict != nil {
		t.Fatalf("unexpected conflict: %+v", conflict)
	}
	if len(resp.TimeSlots) != 2 {
		t.Errorf("got %d slots, want 2", len(resp.TimeSlots))
	}
	if len(store.schedules) != 1 {
		t.Errorf("got %d schedules persisted, want 1", len(store.schedules))
	}
}

func TestCreateSchedule_InvalidDay(t *testing.T) {
	svc, _, _ := setup()

	req := scheduleRequest()
	req.Day = "Monday"

	_, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), req)
	if !errors.Is(err, response.ErrInvalidDay) {
		t.Errorf("got %v, want ErrInvalidDay", err)
	}
}

func TestCreateSchedule_RoomConflictRejected(t *testing.T) {
	svc, store, _ := setup()

	if _, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest()); err != nil {
		t.Fatalf("first create: %v", err)
	}

	req := scheduleRequest()
	req.LecturerID = "L2" // different lecturer, same room
	_, conflict, err := svc.CreateScheduleWithTimeSlots(context.Background(), req)
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if conflict == nil || conflict.Available {
		t.Fatal("want room conflict")
	}
	if conflict.ConflictType != models.ConflictRoom {
		t.Errorf("conflict type: got %q, want room", conflict.ConflictType)
	}
	if len(store.schedules) != 1 {
		t.Errorf("conflicting schedule persisted: %d schedules", len(store.schedules))
	}
}

func TestCreateSchedule_AtomicOnSlotFailure(t *testing.T) {
	svc, store, _ := setup()
	store.failCreateTimeSlotAt = 2

	_, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest())
	if err == nil {
		t.Fatal("want error from slot creation failure")
	}
	if len(store.schedules) != 0 {
		t.Errorf("schedule row persisted despite rollback: %d", len(store.schedules))
	}
	if len(store.slots) != 0 {
		t.Errorf("slot rows persisted despite rollback: %d", len(store.slots))
	}
}

func TestUpdateSchedule_ReplacesSlotsWholesale(t *testing.T) {
	svc, store, _ := setup()

	created, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	req := scheduleRequest()
	req.TimeSlots = []string{"13:00 - 14:00"}

	updated, conflict, err := svc.UpdateScheduleWithTimeSlots(context.Background(), created.ID, req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if conflict != nil {
		t.Fatalf("unexpected conflict: %+v", conflict)
	}
	if len(updated.TimeSlots) != 1 || updated.TimeSlots[0] != "13:00 - 14:00" {
		t.Errorf("slots not replaced: %v", updated.TimeSlots)
	}
	if len(store.slots[created.ID]) != 1 {
		t.Errorf("store kept %d slots, want 1", len(store.slots[created.ID]))
	}
}

func TestUpdateSchedule_DoesNotConflictWithItself(t *testing.T) {
	svc, _, _ := setup()

	created, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Same slots resubmitted on edit must not trip the conflict check.
	_, conflict, err := svc.UpdateScheduleWithTimeSlots(context.Background(), created.ID, scheduleRequest())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if conflict != nil {
		t.Errorf("schedule conflicts with its own prior booking: %+v", conflict)
	}
}

func TestUpdateSchedule_NotFound(t *testing.T) {
	svc, _, _ := setup()

	_, _, err := svc.UpdateScheduleWithTimeSlots(context.Background(), "missing", scheduleRequest())
	if !errors.Is(err, response.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestDeleteSchedule_CascadesSlots(t *testing.T) {
	svc, store, _ := setup()

	created, _, err := svc.CreateScheduleWithTimeSlots(context.Background(), scheduleRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteSchedule(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.slots[created.ID]) != 0 {
		t.Error("owned slots survived schedule deletion")
	}
}

// Sessions

func TestGenerateSession_CreatesRosterRows(t *testing.T) {
	svc, store, locker := setup()
	seedRoster(store, "class-1", 3)

	resp, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.EndTime != "11:00" {
		t.Errorf("end time: got %s, want 11:00 (09:00 + 2h)", resp.EndTime)
	}
	if resp.Token == "" {
		t.Error("session has no check-in token")
	}
	if len(store.attendance) != 3 {
		t.Errorf("got %d attendance rows, want 3", len(store.attendance))
	}
	for _, att := range store.attendance {
		if att.Status != models.AttendanceAbsent || att.HourSum() != 0 {
			t.Errorf("blank row not blank: status=%s sum=%d", att.Status, att.HourSum())
		}
	}
	if locker.locks != 1 || locker.unlocks != 1 {
		t.Errorf("lock/unlock counts: %d/%d, want 1/1", locker.locks, locker.unlocks)
	}
}

func TestGenerateSession_DuplicateDateRejected(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 2)

	if _, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1")); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	req := generateRequest("class-1")
	req.Week = 2
	req.Meeting = 2 // different week/meeting, same date
	_, err := svc.GenerateSessionAttendance(context.Background(), req)
	if !errors.Is(err, response.ErrSessionExists) {
		t.Errorf("got %v, want ErrSessionExists", err)
	}
	if len(store.sessions) != 1 {
		t.Errorf("duplicate session persisted: %d sessions", len(store.sessions))
	}
}

func TestGenerateSession_DuplicateWeekMeetingRejected(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 2)

	if _, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1")); err != nil {
		t.Fatalf("first generate: %v", err)
	}

	req := generateRequest("class-1")
	req.Date = "2025-09-08" // different date, same week/meeting
	_, err := svc.GenerateSessionAttendance(context.Background(), req)
	if !errors.Is(err, response.ErrSessionExists) {
		t.Errorf("got %v, want ErrSessionExists", err)
	}
	if len(store.sessions) != 1 {
		t.Errorf("duplicate session persisted: %d sessions", len(store.sessions))
	}
}

func TestGenerateSession_EmptyRosterRejected(t *testing.T) {
	svc, store, _ := setup()

	_, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if !errors.Is(err, response.ErrEmptyRoster) {
		t.Errorf("got %v, want ErrEmptyRoster", err)
	}
	if len(store.sessions) != 0 || len(store.attendance) != 0 {
		t.Error("empty-roster generation persisted rows")
	}
}

func TestGenerateSession_AtomicOnAttendanceFailure(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 3)
	store.failUpsertAt = 2

	_, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err == nil {
		t.Fatal("want error from attendance row failure")
	}
	if len(store.sessions) != 0 {
		t.Errorf("session persisted despite rollback: %d", len(store.sessions))
	}
	if len(store.attendance) != 0 {
		t.Errorf("attendance rows persisted despite rollback: %d", len(store.attendance))
	}
}

func TestGenerateSession_LockDenied(t *testing.T) {
	svc, store, locker := setup()
	seedRoster(store, "class-1", 1)
	locker.denied = true

	_, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if !errors.Is(err, response.ErrLocked) {
		t.Errorf("got %v, want ErrLocked", err)
	}
}

func TestExtendSession(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 1)

	created, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	extended, err := svc.ExtendSession(context.Background(), created.ID, 20)
	if err != nil {
		t.Fatalf("extend: %v", err)
	}
	if extended.EndTime != "11:20" {
		t.Errorf("end time: got %s, want 11:20", extended.EndTime)
	}
	if extended.TotalHours != 2 {
		t.Errorf("total hours changed to %d", extended.TotalHours)
	}
}

func TestSessionByToken(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 1)

	created, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	found, err := svc.SessionByToken(context.Background(), created.Token)
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("got session %s, want %s", found.ID, created.ID)
	}

	if _, err := svc.SessionByToken(context.Background(), "bogus"); !errors.Is(err, response.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

// MarkAttendance

func markSetup(t *testing.T, now time.Time) (*Service, *memStore) {
	t.Helper()
	svc, store, _ := setup()
	seedRoster(store, "class-1", 3)
	svc.now = fixedNow(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	if _, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	svc.now = fixedNow(now)
	return svc, store
}

func TestMarkAttendance_WithinTolerance(t *testing.T) {
	svc, store := markSetup(t, time.Date(2025, 9, 1, 9, 5, 0, 0, time.UTC))

	resp, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "a",
	})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if resp.Status != string(models.AttendancePresent) {
		t.Errorf("status: got %s, want present", resp.Status)
	}
	if resp.HoursPresent != 2 || resp.HoursAbsent != 0 {
		t.Errorf("buckets: got %d/%d, want 2/0", resp.HoursPresent, resp.HoursAbsent)
	}

	att := store.attendance[attKey("class-1", "a", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))]
	if att == nil || att.AttendanceTime == nil {
		t.Fatal("arrival timestamp not stamped")
	}
}

func TestMarkAttendance_LateArrivalLosesBucket(t *testing.T) {
	svc, _ := markSetup(t, time.Date(2025, 9, 1, 9, 20, 0, 0, time.UTC))

	resp, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "a",
	})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if resp.HoursPresent != 1 || resp.HoursAbsent != 1 {
		t.Errorf("buckets: got %d/%d, want 1/1", resp.HoursPresent, resp.HoursAbsent)
	}
}

func TestMarkAttendance_PreservesPermittedSickBuckets(t *testing.T) {
	svc, store := markSetup(t, time.Date(2025, 9, 1, 9, 5, 0, 0, time.UTC))

	key := attKey("class-1", "a", time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC))
	store.attendance[key].HoursPermitted = 1

	resp, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "a",
	})
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if resp.HoursPermitted != 1 {
		t.Errorf("permitted bucket overwritten: got %d, want 1", resp.HoursPermitted)
	}
}

func TestMarkAttendance_NoActiveSession(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 1)
	svc.now = fixedNow(time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))

	_, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "a",
	})
	if !errors.Is(err, response.ErrNoActiveSession) {
		t.Errorf("got %v, want ErrNoActiveSession", err)
	}
}

func TestMarkAttendance_ExpiryBoundary(t *testing.T) {
	// now == end_time exactly: expired, end is exclusive.
	svc, _ := markSetup(t, time.Date(2025, 9, 1, 11, 0, 0, 0, time.UTC))

	_, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "a",
	})
	if !errors.Is(err, response.ErrSessionExpired) {
		t.Errorf("got %v, want ErrSessionExpired", err)
	}
}

func TestMarkAttendance_NotEnrolled(t *testing.T) {
	svc, _ := markSetup(t, time.Date(2025, 9, 1, 9, 5, 0, 0, time.UTC))

	_, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		ClassScheduleID: "class-1",
		StudentID:       "outsider",
	})
	if !errors.Is(err, response.ErrNotEnrolled) {
		t.Errorf("got %v, want ErrNotEnrolled", err)
	}
}

func TestMarkAttendance_AlreadyMarked(t *testing.T) {
	svc, _ := markSetup(t, time.Date(2025, 9, 1, 9, 5, 0, 0, time.UTC))

	req := &api.MarkAttendanceRequest{ClassScheduleID: "class-1", StudentID: "a"}
	if _, err := svc.MarkAttendance(context.Background(), req); err != nil {
		t.Fatalf("first mark: %v", err)
	}
	_, err := svc.MarkAttendance(context.Background(), req)
	if !errors.Is(err, response.ErrAlreadyMarked) {
		t.Errorf("got %v, want ErrAlreadyMarked", err)
	}
}

func TestMarkAttendance_ByToken(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 1)
	svc.now = fixedNow(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	created, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = fixedNow(time.Date(2025, 9, 1, 9, 10, 0, 0, time.UTC))
	resp, err := svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		StudentID: "a",
		Token:     created.Token,
	})
	if err != nil {
		t.Fatalf("mark by token: %v", err)
	}
	if resp.ClassScheduleID != "class-1" {
		t.Errorf("class resolved to %s", resp.ClassScheduleID)
	}
}

func TestMarkAttendance_TokenOnWrongDate(t *testing.T) {
	svc, store, _ := setup()
	seedRoster(store, "class-1", 1)
	svc.now = fixedNow(time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC))
	created, err := svc.GenerateSessionAttendance(context.Background(), generateRequest("class-1"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Next day, mid-morning: the session's date gate wins over time of day.
	svc.now = fixedNow(time.Date(2025, 9, 2, 9, 10, 0, 0, time.UTC))
	_, err = svc.MarkAttendance(context.Background(), &api.MarkAttendanceRequest{
		StudentID: "a",
		Token:     created.Token,
	})
	if !errors.Is(err, response.ErrNoActiveSession) {
		t.Errorf("got %v, want ErrNoActiveSession", err)
	}
}

// Batch updates

func TestUpdateAttendanceStatuses_PerRecordIsolation(t *testing.T) {
	svc, store := markSetup(t, time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))

	good := api.AttendanceUpdate{
		ClassScheduleID: "class-1", StudentID: "a", Date: "2025-09-01",
		Status: "excused", HoursPermitted: 2, EditedBy: "admin",
	}
	bad := api.AttendanceUpdate{
		ClassScheduleID: "class-1", StudentID: "b", Date: "2025-09-01",
		Status: "present", HoursPresent: 5, // sum != total_hours (2)
	}
	alsoGood := api.AttendanceUpdate{
		ClassScheduleID: "class-1", StudentID: "c", Date: "2025-09-01",
		Status: "excused", HoursSick: 2,
	}

	result, err := svc.UpdateAttendanceStatuses(context.Background(), &api.AttendanceBatchRequest{
		Updates: []api.AttendanceUpdate{good, bad, alsoGood},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Updated != 2 || result.Failed != 1 {
		t.Fatalf("got %d/%d, want 2 updated 1 failed", result.Updated, result.Failed)
	}
	if result.Message != "2 succeeded, 1 failed" {
		t.Errorf("message: %q", result.Message)
	}

	day := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	if att := store.attendance[attKey("class-1", "a", day)]; att.HoursPermitted != 2 || att.Status != models.AttendanceExcused {
		t.Errorf("good record not applied: %+v", att)
	}
	if att := store.attendance[attKey("class-1", "b", day)]; att.HoursPresent != 0 {
		t.Errorf("failing record mutated: %+v", att)
	}
	if att := store.attendance[attKey("class-1", "a", day)]; att.EditedBy != "admin" || att.EditedAt == nil {
		t.Error("audit fields not stamped")
	}
}

func TestUpdateAttendanceStatuses_UnknownRecord(t *testing.T) {
	svc, _ := markSetup(t, time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC))

	result, err := svc.UpdateAttendanceStatuses(context.Background(), &api.AttendanceBatchRequest{
		Updates: []api.AttendanceUpdate{{
			ClassScheduleID: "class-1", StudentID: "ghost", Date: "2025-09-01",
			Status: "present", HoursPresent: 2,
		}},
	})
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if result.Updated != 0 || result.Failed != 1 {
		t.Errorf("got %d/%d, want 0 updated 1 failed", result.Updated, result.Failed)
	}
	if result.Message != "0 succeeded, 1 failed" {
		t.Errorf("message: %q", result.Message)
	}
	if len(result.Failures) != 1 || !strings.Contains(result.Failures[0], "ghost") {
		t.Errorf("failures: %v", result.Failures)
	}
}

// Aggregation

func TestCumulativeAttendance_Additivity(t *testing.T) {
	svc, store, _ := setup()

	dates := []time.Time{
		time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	buckets := [][4]int{{2, 0, 0, 0}, {1, 1, 0, 0}, {0, 0, 1, 1}}
	for i, d := range dates {
		store.attendance[attKey("class-1", "a", d)] = &models.Attendance{
			ClassScheduleID: "class-1", StudentID: "a", Date: d,
			HoursPresent: buckets[i][0], HoursAbsent: buckets[i][1],
			HoursPermitted: buckets[i][2], HoursSick: buckets[i][3],
		}
	}

	total, err := svc.CumulativeAttendance(context.Background(), "class-1", "a")
	if err != nil {
		t.Fatalf("cumulative: %v", err)
	}
	if total.TotalPresent != 3 || total.TotalAbsent != 1 || total.TotalPermitted != 1 || total.TotalSick != 1 {
		t.Errorf("totals: %+v", total)
	}

	// Adding a zero-valued row changes nothing.
	zeroDay := time.Date(2025, 9, 22, 0, 0, 0, 0, time.UTC)
	store.attendance[attKey("class-1", "a", zeroDay)] = &models.Attendance{
		ClassScheduleID: "class-1", StudentID: "a", Date: zeroDay,
	}
	again, err := svc.CumulativeAttendance(context.Background(), "class-1", "a")
	if err != nil {
		t.Fatalf("cumulative: %v", err)
	}
	if *again != *total {
		t.Errorf("zero row changed totals: %+v vs %+v", again, total)
	}
}

func TestCumulativeAttendance_NoRows(t *testing.T) {
	svc, _, _ := setup()

	total, err := svc.CumulativeAttendance(context.Background(), "class-1", "a")
	if err != nil {
		t.Fatalf("cumulative: %v", err)
	}
	if total.TotalPresent+total.TotalAbsent+total.TotalPermitted+total.TotalSick != 0 {
		t.Errorf("empty aggregation not zero: %+v", total)
	}
}
