package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"presensi-service/internal/models"
	"presensi-service/internal/scheduler"
	"presensi-service/internal/timeslot"
	"presensi-service/pkg/response"
)

// memStore is an in-memory Store with staged transactions: writes made
// inside a Tx only become visible on Commit, so rollback behavior is
// observable from tests.
type memStore struct {
	schedules  map[string]*models.ClassSchedule
	slots      map[string][]timeslot.TimeSlot
	sessions   map[string]*models.SessionAttendance
	attendance map[string]*models.Attendance
	roster     map[string][]models.Student

	nextID int

	// failure injection
	failCreateTimeSlotAt int // fail the Nth CreateTimeSlot call, 0 = never
	timeSlotCalls        int
	failUpsertAt         int
	upsertCalls          int
}

func newMemStore() *memStore {
	return &memStore{
		schedules:  make(map[string]*models.ClassSchedule),
		slots:      make(map[string][]timeslot.TimeSlot),
		sessions:   make(map[string]*models.SessionAttendance),
		attendance: make(map[string]*models.Attendance),
		roster:     make(map[string][]models.Student),
	}
}

func (m *memStore) genID(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func attKey(classID, studentID string, date time.Time) string {
	return classID + "|" + studentID + "|" + date.Format("2006-01-02")
}

type memTx struct {
	staged []func()
	done   bool
}

func (t *memTx) Commit() error {
	if t.done {
		return errors.New("tx already finished")
	}
	for _, apply := range t.staged {
		apply()
	}
	t.done = true
	return nil
}

func (t *memTx) Rollback() error {
	t.staged = nil
	t.done = true
	return nil
}

func (m *memStore) stage(tx Tx, apply func()) error {
	if tx == nil {
		apply()
		return nil
	}
	mt, ok := tx.(*memTx)
	if !ok {
		return errors.New("unexpected tx type")
	}
	mt.staged = append(mt.staged, apply)
	return nil
}

func (m *memStore) BeginTx(_ context.Context) (Tx, error) {
	return &memTx{}, nil
}

// Schedules

func (m *memStore) CreateSchedule(_ context.Context, tx Tx, schedule *models.ClassSchedule) (string, error) {
	id := m.genID("sched")
	cp := *schedule
	cp.ID = id
	return id, m.stage(tx, func() { m.schedules[id] = &cp })
}

func (m *memStore) UpdateSchedule(_ context.Context, tx Tx, schedule *models.ClassSchedule) error {
	cp := *schedule
	return m.stage(tx, func() { m.schedules[cp.ID] = &cp })
}

func (m *memStore) GetSchedule(_ context.Context, id string) (*models.ClassSchedule, error) {
	schedule, ok := m.schedules[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *schedule
	cp.TimeSlots = append([]timeslot.TimeSlot(nil), m.slots[id]...)
	return &cp, nil
}

func (m *memStore) DeleteSchedule(_ context.Context, id string) error {
	if _, ok := m.schedules[id]; !ok {
		return response.ErrNotFound
	}
	delete(m.schedules, id)
	delete(m.slots, id)
	return nil
}

func (m *memStore) CreateTimeSlot(_ context.Context, tx Tx, scheduleID string, slot timeslot.TimeSlot) (string, error) {
	m.timeSlotCalls++
	if m.failCreateTimeSlotAt > 0 && m.timeSlotCalls == m.failCreateTimeSlotAt {
		return "", errors.New("storage failure")
	}
	id := m.genID("slot")
	return id, m.stage(tx, func() { m.slots[scheduleID] = append(m.slots[scheduleID], slot) })
}

func (m *memStore) DeleteTimeSlotsBySchedule(_ context.Context, tx Tx, scheduleID string) error {
	return m.stage(tx, func() { delete(m.slots, scheduleID) })
}

func (m *memStore) SchedulesByRoomAndDay(_ context.Context, room, day string) ([]scheduler.Booking, error) {
	var bookings []scheduler.Booking
	for id, schedule := range m.schedules {
		if schedule.Room != room || schedule.Day != day {
			continue
		}
		for _, slot := range m.slots[id] {
			bookings = append(bookings, scheduler.Booking{
				ScheduleID:   id,
				Slot:         slot,
				Room:         schedule.Room,
				LecturerID:   schedule.LecturerID,
				LecturerName: schedule.LecturerName,
			})
		}
	}
	return bookings, nil
}

func (m *memStore) SchedulesByLecturerAndDay(_ context.Context, lecturerID, day string) ([]scheduler.Booking, error) {
	var bookings []scheduler.Booking
	for id, schedule := range m.schedules {
		if schedule.LecturerID != lecturerID || schedule.Day != day {
			continue
		}
		for _, slot := range m.slots[id] {
			bookings = append(bookings, scheduler.Booking{
				ScheduleID:   id,
				Slot:         slot,
				Room:         schedule.Room,
				LecturerID:   schedule.LecturerID,
				LecturerName: schedule.LecturerName,
			})
		}
	}
	return bookings, nil
}

// Sessions

func (m *memStore) FindActiveSession(_ context.Context, classID string, date time.Time) (*models.SessionAttendance, error) {
	for _, sess := range m.sessions {
		if sess.ClassScheduleID == classID && sameDay(sess.SessionDate, date) && sess.IsActive {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindSessionByClassAndDate(_ context.Context, classID string, date time.Time) (*models.SessionAttendance, error) {
	for _, sess := range m.sessions {
		if sess.ClassScheduleID == classID && sameDay(sess.SessionDate, date) {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindSessionByWeekAndMeeting(_ context.Context, classID string, week, meeting int) (*models.SessionAttendance, error) {
	for _, sess := range m.sessions {
		if sess.ClassScheduleID == classID && sess.Week == week && sess.Meeting == meeting {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindSessionByToken(_ context.Context, token string) (*models.SessionAttendance, error) {
	for _, sess := range m.sessions {
		if sess.Token == token {
			cp := *sess
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memStore) GetSession(_ context.Context, id string) (*models.SessionAttendance, error) {
	sess, ok := m.sessions[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (m *memStore) CreateSession(_ context.Context, tx Tx, sess *models.SessionAttendance) (string, error) {
	for _, existing := range m.sessions {
		if existing.ClassScheduleID == sess.ClassScheduleID &&
			(sameDay(existing.SessionDate, sess.SessionDate) ||
				(existing.Week == sess.Week && existing.Meeting == sess.Meeting)) {
			return "", response.ErrSessionExists
		}
	}
	cp := *sess
	return cp.ID, m.stage(tx, func() { m.sessions[cp.ID] = &cp })
}

func (m *memStore) UpdateSession(_ context.Context, sess *models.SessionAttendance) error {
	if _, ok := m.sessions[sess.ID]; !ok {
		return response.ErrNotFound
	}
	cp := *sess
	m.sessions[cp.ID] = &cp
	return nil
}

// Attendance

func (m *memStore) UpsertAttendance(_ context.Context, tx Tx, att *models.Attendance) error {
	m.upsertCalls++
	if m.failUpsertAt > 0 && m.upsertCalls == m.failUpsertAt {
		return errors.New("storage failure")
	}
	cp := *att
	key := attKey(cp.ClassScheduleID, cp.StudentID, cp.Date)
	return m.stage(tx, func() {
		if existing, ok := m.attendance[key]; ok {
			cp.ID = existing.ID
		}
		m.attendance[key] = &cp
	})
}

func (m *memStore) FindAttendance(_ context.Context, classID, studentID string, date time.Time) (*models.Attendance, error) {
	att, ok := m.attendance[attKey(classID, studentID, date)]
	if !ok {
		return nil, nil
	}
	cp := *att
	return &cp, nil
}

func (m *memStore) UpdateAttendance(_ context.Context, att *models.Attendance) error {
	key := attKey(att.ClassScheduleID, att.StudentID, att.Date)
	if _, ok := m.attendance[key]; !ok {
		return response.ErrNotFound
	}
	cp := *att
	m.attendance[key] = &cp
	return nil
}

func (m *memStore) AttendancesByClassAndStudent(_ context.Context, classID, studentID string) ([]models.Attendance, error) {
	var records []models.Attendance
	for _, att := range m.attendance {
		if att.ClassScheduleID == classID && att.StudentID == studentID {
			records = append(records, *att)
		}
	}
	return records, nil
}

// Roster

func (m *memStore) EnrolledStudents(_ context.Context, classID string) ([]models.Student, error) {
	return append([]models.Student(nil), m.roster[classID]...), nil
}

func (m *memStore) IsEnrolled(_ context.Context, classID, studentID string) (bool, error) {
	for _, student := range m.roster[classID] {
		if student.ID == studentID {
			return true, nil
		}
	}
	return false, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// memLocker grants every lock and counts acquisitions.
type memLocker struct {
	locks   int
	unlocks int
	denied  bool
}

func (l *memLocker) Lock(_ context.Context, _ string, _ time.Duration) (bool, error) {
	if l.denied {
		return false, nil
	}
	l.locks++
	return true, nil
}

func (l *memLocker) Unlock(_ context.Context, _ string) error {
	l.unlocks++
	return nil
}
