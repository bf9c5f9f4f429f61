package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"presensi-service/api"
	"presensi-service/internal/lock"
	"presensi-service/internal/metrics"
	"presensi-service/internal/models"
	"presensi-service/internal/scheduler"
	"presensi-service/internal/session"
	"presensi-service/internal/timeslot"
	"presensi-service/pkg/response"

	"github.com/google/uuid"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Tx is the scoped-transaction handle the Store hands out. All multi-row
// mutations run inside exactly one Tx; rollback is the unit of recovery.
type Tx interface {
	Commit() error
	Rollback() error
}

type Store interface {
	BeginTx(ctx context.Context) (Tx, error)

	// Schedules
	CreateSchedule(ctx context.Context, tx Tx, schedule *models.ClassSchedule) (string, error)
	UpdateSchedule(ctx context.Context, tx Tx, schedule *models.ClassSchedule) error
	GetSchedule(ctx context.Context, id string) (*models.ClassSchedule, error)
	DeleteSchedule(ctx context.Context, id string) error
	CreateTimeSlot(ctx context.Context, tx Tx, scheduleID string, slot timeslot.TimeSlot) (string, error)
	DeleteTimeSlotsBySchedule(ctx context.Context, tx Tx, scheduleID string) error
	SchedulesByRoomAndDay(ctx context.Context, room, day string) ([]scheduler.Booking, error)
	SchedulesByLecturerAndDay(ctx context.Context, lecturerID, day string) ([]scheduler.Booking, error)

	// Sessions. Find* methods return (nil, nil) when no row matches.
	FindActiveSession(ctx context.Context, classScheduleID string, date time.Time) (*models.SessionAttendance, error)
	FindSessionByClassAndDate(ctx context.Context, classScheduleID string, date time.Time) (*models.SessionAttendance, error)
	FindSessionByWeekAndMeeting(ctx context.Context, classScheduleID string, week, meeting int) (*models.SessionAttendance, error)
	FindSessionByToken(ctx context.Context, token string) (*models.SessionAttendance, error)
	GetSession(ctx context.Context, id string) (*models.SessionAttendance, error)
	CreateSession(ctx context.Context, tx Tx, sess *models.SessionAttendance) (string, error)
	UpdateSession(ctx context.Context, sess *models.SessionAttendance) error

	// Attendance
	UpsertAttendance(ctx context.Context, tx Tx, att *models.Attendance) error
	FindAttendance(ctx context.Context, classScheduleID, studentID string, date time.Time) (*models.Attendance, error)
	UpdateAttendance(ctx context.Context, att *models.Attendance) error
	AttendancesByClassAndStudent(ctx context.Context, classScheduleID, studentID string) ([]models.Attendance, error)

	// Roster
	EnrolledStudents(ctx context.Context, classScheduleID string) ([]models.Student, error)
	IsEnrolled(ctx context.Context, classScheduleID, studentID string) (bool, error)
}

const defaultToleranceMinutes = 15

type Service struct {
	store     Store
	locker    lock.Locker
	sched     *scheduler.Scheduler
	cfg       timeslot.Config
	tolerance int
	now       func() time.Time
}

func NewService(store Store, locker lock.Locker, cfg timeslot.Config) *Service {
	return &Service{
		store:     store,
		locker:    locker,
		sched:     scheduler.New(store, cfg),
		cfg:       cfg,
		tolerance: defaultToleranceMinutes,
		now:       time.Now,
	}
}

// SetDefaultTolerance overrides the tolerance applied when a session
// generation request leaves tolerance_minutes unset.
func (s *Service) SetDefaultTolerance(minutes int) {
	if minutes > 0 {
		s.tolerance = minutes
	}
}

// Slots

func (s *Service) CanonicalSlots() []string {
	return s.sched.CanonicalSlots()
}

// Schedules

func (s *Service) CheckAvailability(ctx context.Context, req *api.AvailabilityCheckRequest) (*scheduler.ConflictResult, error) {
	const op = "service.CheckAvailability"

	if !s.cfg.ValidDay(req.Day) {
		return nil, fmt.Errorf("%s: %q: %w", op, req.Day, response.ErrInvalidDay)
	}

	result, err := s.sched.CheckAllTimeSlotsAvailability(ctx, req.Room, req.Day, req.TimeSlots, req.LecturerID, req.ExcludeScheduleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (s *Service) BookedTimeSlots(ctx context.Context, room, day, lecturerID, excludeScheduleID string) ([]scheduler.BookedSlot, error) {
	const op = "service.BookedTimeSlots"

	if !s.cfg.ValidDay(day) {
		return nil, fmt.Errorf("%s: %q: %w", op, day, response.ErrInvalidDay)
	}

	booked, err := s.sched.GetBookedTimeSlots(ctx, room, day, lecturerID, excludeScheduleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return booked, nil
}

// CreateScheduleWithTimeSlots checks the candidate against existing bookings
// and, when free, persists the schedule row plus one row per time slot in a
// single transaction. A non-nil ConflictResult with Available=false signals
// rejection; it is an expected outcome, not an error.
func (s *Service) CreateScheduleWithTimeSlots(ctx context.Context, req *api.ScheduleRequest) (*api.ScheduleResponse, *scheduler.ConflictResult, error) {
	const op = "service.CreateScheduleWithTimeSlots"

	if !s.cfg.ValidDay(req.Day) {
		return nil, nil, fmt.Errorf("%s: %q: %w", op, req.Day, response.ErrInvalidDay)
	}

	slots, err := timeslot.ParseAll(req.TimeSlots)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.sched.CheckAllTimeSlotsAvailability(ctx, req.Room, req.Day, req.TimeSlots, req.LecturerID, "")
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !result.Available {
		metrics.ScheduleConflicts.WithLabelValues(string(result.ConflictType)).Inc()
		return nil, result, nil
	}

	schedule := &models.ClassSchedule{
		Room:            req.Room,
		Day:             req.Day,
		LecturerID:      req.LecturerID,
		LecturerName:    req.LecturerName,
		CourseID:        req.CourseID,
		ClassroomID:     req.ClassroomID,
		Semester:        req.Semester,
		TotalWeeks:      req.TotalWeeks,
		MeetingsPerWeek: req.MeetingsPerWeek,
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	id, err := s.store.CreateSchedule(ctx, tx, schedule)
	if err != nil {
		_ = tx.Rollback()
		return nil, nil, fmt.Errorf("%s: create schedule: %w", op, err)
	}

	for _, slot := range slots {
		if _, err := s.store.CreateTimeSlot(ctx, tx, id, slot); err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("%s: create time slot: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	resp, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return resp, nil, nil
}

// UpdateScheduleWithTimeSlots replaces the schedule's scalar fields and its
// entire slot set in one transaction. Full replace, not a diff: the caller
// resubmits the complete desired slot list.
func (s *Service) UpdateScheduleWithTimeSlots(ctx context.Context, id string, req *api.ScheduleRequest) (*api.ScheduleResponse, *scheduler.ConflictResult, error) {
	const op = "service.UpdateScheduleWithTimeSlots"

	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.cfg.ValidDay(req.Day) {
		return nil, nil, fmt.Errorf("%s: %q: %w", op, req.Day, response.ErrInvalidDay)
	}

	slots, err := timeslot.ParseAll(req.TimeSlots)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := s.sched.CheckAllTimeSlotsAvailability(ctx, req.Room, req.Day, req.TimeSlots, req.LecturerID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	if !result.Available {
		metrics.ScheduleConflicts.WithLabelValues(string(result.ConflictType)).Inc()
		return nil, result, nil
	}

	schedule.Room = req.Room
	schedule.Day = req.Day
	schedule.LecturerID = req.LecturerID
	schedule.LecturerName = req.LecturerName
	schedule.CourseID = req.CourseID
	schedule.ClassroomID = req.ClassroomID
	schedule.Semester = req.Semester
	schedule.TotalWeeks = req.TotalWeeks
	schedule.MeetingsPerWeek = req.MeetingsPerWeek

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.UpdateSchedule(ctx, tx, schedule); err != nil {
		_ = tx.Rollback()
		return nil, nil, fmt.Errorf("%s: update schedule: %w", op, err)
	}

	if err := s.store.DeleteTimeSlotsBySchedule(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return nil, nil, fmt.Errorf("%s: delete time slots: %w", op, err)
	}

	for _, slot := range slots {
		if _, err := s.store.CreateTimeSlot(ctx, tx, id, slot); err != nil {
			_ = tx.Rollback()
			return nil, nil, fmt.Errorf("%s: create time slot: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	resp, err := s.GetSchedule(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return resp, nil, nil
}

func (s *Service) GetSchedule(ctx context.Context, id string) (*api.ScheduleResponse, error) {
	const op = "service.GetSchedule"

	schedule, err := s.store.GetSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	slots := make([]string, 0, len(schedule.TimeSlots))
	for _, slot := range schedule.TimeSlots {
		slots = append(slots, slot.String())
	}

	return &api.ScheduleResponse{
		ID:              schedule.ID,
		Room:            schedule.Room,
		Day:             schedule.Day,
		LecturerID:      schedule.LecturerID,
		LecturerName:    schedule.LecturerName,
		CourseID:        schedule.CourseID,
		ClassroomID:     schedule.ClassroomID,
		Semester:        schedule.Semester,
		TotalWeeks:      schedule.TotalWeeks,
		MeetingsPerWeek: schedule.MeetingsPerWeek,
		TimeSlots:       slots,
	}, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	const op = "service.DeleteSchedule"

	err := s.store.DeleteSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Sessions

// GenerateSessionAttendance creates the session row and one blank attendance
// row per enrolled student in a single transaction. Duplicate sessions for
// the same (class, date) or (class, week, meeting) are rejected, as is an
// empty roster. The redis lock serializes concurrent generation for the same
// class and date; the storage layer's uniqueness constraint is the second
// line of defense.
func (s *Service) GenerateSessionAttendance(ctx context.Context, req *api.SessionGenerateRequest) (*api.SessionResponse, error) {
	const op = "service.GenerateSessionAttendance"

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid date: %w", op, err)
	}

	start, err := s.sessionStart(req.StartTime, date)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid start_time: %w", op, err)
	}

	lockKey := lock.SessionKey(req.ClassScheduleID, date)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	existing, err := s.store.FindSessionByClassAndDate(ctx, req.ClassScheduleID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: date %s: %w", op, req.Date, response.ErrSessionExists)
	}

	existing, err = s.store.FindSessionByWeekAndMeeting(ctx, req.ClassScheduleID, req.Week, req.Meeting)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: week %d meeting %d: %w", op, req.Week, req.Meeting, response.ErrSessionExists)
	}

	roster, err := s.store.EnrolledStudents(ctx, req.ClassScheduleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(roster) == 0 {
		return nil, fmt.Errorf("%s: %w", op, response.ErrEmptyRoster)
	}

	tolerance := req.ToleranceMinutes
	if tolerance == 0 {
		tolerance = s.tolerance
	}

	sess := &models.SessionAttendance{
		ID:               uuid.NewString(),
		ClassScheduleID:  req.ClassScheduleID,
		SessionDate:      date,
		StartTime:        start,
		EndTime:          session.EndTimeFor(start, req.TotalHours),
		Week:             req.Week,
		Meeting:          req.Meeting,
		TotalHours:       req.TotalHours,
		ToleranceMinutes: tolerance,
		IsActive:         true,
		Token:            uuid.NewString(),
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := s.store.CreateSession(ctx, tx, sess); err != nil {
		_ = tx.Rollback()
		if errors.Is(err, response.ErrSessionExists) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrSessionExists)
		}
		return nil, fmt.Errorf("%s: create session: %w", op, err)
	}

	for _, student := range roster {
		att := &models.Attendance{
			ID:              uuid.NewString(),
			ClassScheduleID: req.ClassScheduleID,
			StudentID:       student.ID,
			Date:            date,
			Status:          models.AttendanceAbsent,
		}
		if err := s.store.UpsertAttendance(ctx, tx, att); err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%s: create attendance row: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	metrics.SessionsGenerated.Inc()

	return sessionResponse(sess), nil
}

// ExtendSession pushes the end boundary by the given minutes without
// re-running apportionment for already-marked students.
func (s *Service) ExtendSession(ctx context.Context, id string, minutes int) (*api.SessionResponse, error) {
	const op = "service.ExtendSession"

	sess, err := s.store.GetSession(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session.Extend(sess, minutes)

	if err := s.store.UpdateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessionResponse(sess), nil
}

func (s *Service) SessionByToken(ctx context.Context, token string) (*api.SessionResponse, error) {
	const op = "service.SessionByToken"

	sess, err := s.store.FindSessionByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if sess == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return sessionResponse(sess), nil
}

// Attendance

// MarkAttendance records a check-in against the active session for the
// class and today's date, apportioning the hour buckets from the arrival
// time. Permitted/sick buckets are only ever written by the manual edit
// path and stay untouched here.
func (s *Service) MarkAttendance(ctx context.Context, req *api.MarkAttendanceRequest) (*api.AttendanceResponse, error) {
	const op = "service.MarkAttendance"

	now := s.now()
	date := truncateToDate(now)

	var sess *models.SessionAttendance
	var err error

	if req.Token != "" {
		sess, err = s.store.FindSessionByToken(ctx, req.Token)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if sess != nil && (!session.SameDate(sess.SessionDate, now) || !sess.IsActive) {
			sess = nil
		}
	} else {
		sess, err = s.store.FindActiveSession(ctx, req.ClassScheduleID, date)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if sess == nil {
		metrics.CheckinsTotal.WithLabelValues("no_session").Inc()
		return nil, fmt.Errorf("%s: %w", op, response.ErrNoActiveSession)
	}

	if session.Expired(sess, now) {
		metrics.CheckinsTotal.WithLabelValues("expired").Inc()
		return nil, fmt.Errorf("%s: %w", op, response.ErrSessionExpired)
	}

	classID := sess.ClassScheduleID

	enrolled, err := s.store.IsEnrolled(ctx, classID, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !enrolled {
		metrics.CheckinsTotal.WithLabelValues("not_enrolled").Inc()
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotEnrolled)
	}

	att, err := s.store.FindAttendance(ctx, classID, req.StudentID, date)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if att != nil && att.AttendanceTime != nil {
		metrics.CheckinsTotal.WithLabelValues("duplicate").Inc()
		return nil, fmt.Errorf("%s: %w", op, response.ErrAlreadyMarked)
	}
	if att == nil {
		att = &models.Attendance{
			ID:              uuid.NewString(),
			ClassScheduleID: classID,
			StudentID:       req.StudentID,
			Date:            date,
		}
	}

	present, absent := session.ApportionHours(sess.StartTime, now, sess.TotalHours, sess.ToleranceMinutes)

	arrival := now
	att.Status = models.AttendancePresent
	att.AttendanceTime = &arrival
	att.HoursPresent = present
	att.HoursAbsent = absent

	if err := s.store.UpsertAttendance(ctx, nil, att); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.CheckinsTotal.WithLabelValues("marked").Inc()

	return attendanceResponse(att), nil
}

// UpdateAttendanceStatuses applies manual edits record by record. A failure
// on one record never blocks the rest; the result carries counts and the
// per-record failure reasons.
func (s *Service) UpdateAttendanceStatuses(ctx context.Context, req *api.AttendanceBatchRequest) (*api.AttendanceBatchResult, error) {
	const op = "service.UpdateAttendanceStatuses"

	result := &api.AttendanceBatchResult{}

	for _, upd := range req.Updates {
		if err := s.applyAttendanceUpdate(ctx, &upd); err != nil {
			result.Failed++
			result.Failures = append(result.Failures,
				fmt.Sprintf("%s/%s on %s: %v", upd.ClassScheduleID, upd.StudentID, upd.Date, err))
			continue
		}
		result.Updated++
	}

	result.Message = fmt.Sprintf("%d succeeded, %d failed", result.Updated, result.Failed)

	return result, nil
}

func (s *Service) applyAttendanceUpdate(ctx context.Context, upd *api.AttendanceUpdate) error {
	date, err := time.Parse(dateLayout, upd.Date)
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}

	status := models.AttendanceStatus(upd.Status)
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", upd.Status)
	}

	att, err := s.store.FindAttendance(ctx, upd.ClassScheduleID, upd.StudentID, date)
	if err != nil {
		return err
	}
	if att == nil {
		return response.ErrNotFound
	}

	sess, err := s.store.FindSessionByClassAndDate(ctx, upd.ClassScheduleID, date)
	if err != nil {
		return err
	}
	if sess != nil {
		sum := upd.HoursPresent + upd.HoursAbsent + upd.HoursPermitted + upd.HoursSick
		if sum != sess.TotalHours {
			return fmt.Errorf("hour buckets sum to %d, session total is %d", sum, sess.TotalHours)
		}
	}

	now := s.now()
	att.Status = status
	att.HoursPresent = upd.HoursPresent
	att.HoursAbsent = upd.HoursAbsent
	att.HoursPermitted = upd.HoursPermitted
	att.HoursSick = upd.HoursSick
	att.Remarks = upd.Remarks
	att.EditedBy = upd.EditedBy
	att.EditedAt = &now

	return s.store.UpdateAttendance(ctx, att)
}

// CumulativeAttendance sums the four hour buckets across every attendance
// row for the class and student. No weighting, no date filtering.
func (s *Service) CumulativeAttendance(ctx context.Context, classScheduleID, studentID string) (*api.CumulativeAttendanceResponse, error) {
	const op = "service.CumulativeAttendance"

	records, err := s.store.AttendancesByClassAndStudent(ctx, classScheduleID, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	total := &api.CumulativeAttendanceResponse{
		ClassScheduleID: classScheduleID,
		StudentID:       studentID,
	}
	for _, att := range records {
		total.TotalPresent += att.HoursPresent
		total.TotalAbsent += att.HoursAbsent
		total.TotalPermitted += att.HoursPermitted
		total.TotalSick += att.HoursSick
	}

	return total, nil
}

// sessionStart combines the session date with the requested clock time,
// defaulting to the current clock time when none is given.
func (s *Service) sessionStart(startTime string, date time.Time) (time.Time, error) {
	if startTime == "" {
		now := s.now()
		return time.Date(date.Year(), date.Month(), date.Day(),
			now.Hour(), now.Minute(), 0, 0, date.Location()), nil
	}

	clock, err := time.Parse(clockLayout, startTime)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location()), nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sessionResponse(sess *models.SessionAttendance) *api.SessionResponse {
	return &api.SessionResponse{
		ID:               sess.ID,
		ClassScheduleID:  sess.ClassScheduleID,
		Date:             sess.SessionDate.Format(dateLayout),
		StartTime:        sess.StartTime.Format(clockLayout),
		EndTime:          sess.EndTime.Format(clockLayout),
		Week:             sess.Week,
		Meeting:          sess.Meeting,
		TotalHours:       sess.TotalHours,
		ToleranceMinutes: sess.ToleranceMinutes,
		IsActive:         sess.IsActive,
		Token:            sess.Token,
	}
}

func attendanceResponse(att *models.Attendance) *api.AttendanceResponse {
	resp := &api.AttendanceResponse{
		ID:              att.ID,
		ClassScheduleID: att.ClassScheduleID,
		StudentID:       att.StudentID,
		Date:            att.Date.Format(dateLayout),
		Status:          string(att.Status),
		HoursPresent:    att.HoursPresent,
		HoursAbsent:     att.HoursAbsent,
		HoursPermitted:  att.HoursPermitted,
		HoursSick:       att.HoursSick,
		Remarks:         att.Remarks,
	}
	if att.AttendanceTime != nil {
		resp.AttendanceTime = att.AttendanceTime.Format(time.RFC3339)
	}

	return resp
}
