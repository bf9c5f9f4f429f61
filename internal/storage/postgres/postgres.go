package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"presensi-service/internal/models"
	"presensi-service/internal/scheduler"
	"presensi-service/internal/service"
	"presensi-service/internal/timeslot"
	"presensi-service/pkg/response"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

func (s *Storage) BeginTx(ctx context.Context) (service.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// execer is satisfied by both *sql.DB and *sql.Tx; mutations that may run
// inside or outside a transaction go through it.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Storage) runner(tx service.Tx) (execer, error) {
	if tx == nil {
		return s.db, nil
	}

	sqlTx, ok := tx.(*sql.Tx)
	if !ok {
		return nil, errors.New("unexpected transaction type")
	}

	return sqlTx, nil
}

// #### schedules ####

func (s *Storage) CreateSchedule(ctx context.Context, tx service.Tx, schedule *models.ClassSchedule) (string, error) {
	const op = "storage.postgres.CreateSchedule"

	run, err := s.runner(tx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()

	_, err = run.ExecContext(ctx,
		`INSERT INTO class_schedules
		(id, room, day, lecturer_id, lecturer_name, course_id, classroom_id, semester, total_weeks, meetings_per_week)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		id,
		schedule.Room,
		schedule.Day,
		schedule.LecturerID,
		schedule.LecturerName,
		schedule.CourseID,
		schedule.ClassroomID,
		schedule.Semester,
		schedule.TotalWeeks,
		schedule.MeetingsPerWeek,
	)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) UpdateSchedule(ctx context.Context, tx service.Tx, schedule *models.ClassSchedule) error {
	const op = "storage.postgres.UpdateSchedule"

	run, err := s.runner(tx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := run.ExecContext(ctx,
		`UPDATE class_schedules
		SET room=$1, day=$2, lecturer_id=$3, lecturer_name=$4, course_id=$5,
			classroom_id=$6, semester=$7, total_weeks=$8, meetings_per_week=$9
		WHERE id=$10`,
		schedule.Room,
		schedule.Day,
		schedule.LecturerID,
		schedule.LecturerName,
		schedule.CourseID,
		schedule.ClassroomID,
		schedule.Semester,
		schedule.TotalWeeks,
		schedule.MeetingsPerWeek,
		schedule.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) GetSchedule(ctx context.Context, id string) (*models.ClassSchedule, error) {
	const op = "storage.postgres.GetSchedule"

	var schedule models.ClassSchedule

	err := s.db.QueryRowContext(ctx,
		`SELECT id, room, day, lecturer_id, lecturer_name, course_id, classroom_id, semester, total_weeks, meetings_per_week
		FROM class_schedules WHERE id=$1`, id).
		Scan(
			&schedule.ID,
			&schedule.Room,
			&schedule.Day,
			&schedule.LecturerID,
			&schedule.LecturerName,
			&schedule.CourseID,
			&schedule.ClassroomID,
			&schedule.Semester,
			&schedule.TotalWeeks,
			&schedule.MeetingsPerWeek,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT start_time, end_time FROM schedule_time_slots
		WHERE class_schedule_id=$1 ORDER BY start_time`, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		schedule.TimeSlots = append(schedule.TimeSlots, slot)
	}

	return &schedule, nil
}

func (s *Storage) DeleteSchedule(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteSchedule"

	// schedule_time_slots rows go with it via ON DELETE CASCADE
	res, err := s.db.ExecContext(ctx, `DELETE FROM class_schedules WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) CreateTimeSlot(ctx context.Context, tx service.Tx, scheduleID string, slot timeslot.TimeSlot) (string, error) {
	const op = "storage.postgres.CreateTimeSlot"

	run, err := s.runner(tx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id := uuid.NewString()

	_, err = run.ExecContext(ctx,
		`INSERT INTO schedule_time_slots (id, class_schedule_id, start_time, end_time)
		VALUES ($1, $2, $3, $4)`,
		id,
		scheduleID,
		slot.Start.Format("15:04"),
		slot.End.Format("15:04"),
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (s *Storage) DeleteTimeSlotsBySchedule(ctx context.Context, tx service.Tx, scheduleID string) error {
	const op = "storage.postgres.DeleteTimeSlotsBySchedule"

	run, err := s.runner(tx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = run.ExecContext(ctx, `DELETE FROM schedule_time_slots WHERE class_schedule_id=$1`, scheduleID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) SchedulesByRoomAndDay(ctx context.Context, room, day string) ([]scheduler.Booking, error) {
	const op = "storage.postgres.SchedulesByRoomAndDay"

	return s.bookings(ctx, op,
		`SELECT cs.id, ts.start_time, ts.end_time, cs.room, cs.lecturer_id, cs.lecturer_name
		FROM class_schedules cs
		JOIN schedule_time_slots ts ON ts.class_schedule_id = cs.id
		WHERE cs.room=$1 AND cs.day=$2`, room, day)
}

func (s *Storage) SchedulesByLecturerAndDay(ctx context.Context, lecturerID, day string) ([]scheduler.Booking, error) {
	const op = "storage.postgres.SchedulesByLecturerAndDay"

	return s.bookings(ctx, op,
		`SELECT cs.id, ts.start_time, ts.end_time, cs.room, cs.lecturer_id, cs.lecturer_name
		FROM class_schedules cs
		JOIN schedule_time_slots ts ON ts.class_schedule_id = cs.id
		WHERE cs.lecturer_id=$1 AND cs.day=$2`, lecturerID, day)
}

func (s *Storage) bookings(ctx context.Context, op, query string, args ...any) ([]scheduler.Booking, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var bookings []scheduler.Booking

	for rows.Next() {
		var b scheduler.Booking
		var start, end string

		err := rows.Scan(&b.ScheduleID, &start, &end, &b.Room, &b.LecturerID, &b.LecturerName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		b.Slot, err = timeslot.Parse(clockRange(start, end))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		bookings = append(bookings, b)
	}

	return bookings, nil
}

// #### sessions ####

const sessionColumns = `id, class_schedule_id, session_date, start_time, end_time, week, meeting, total_hours, tolerance_minutes, is_active, token`

func (s *Storage) FindActiveSession(ctx context.Context, classID string, date time.Time) (*models.SessionAttendance, error) {
	const op = "storage.postgres.FindActiveSession"

	return s.findSession(ctx, op,
		`SELECT `+sessionColumns+` FROM session_attendances
		WHERE class_schedule_id=$1 AND session_date=$2 AND is_active=TRUE`,
		classID, date.Format("2006-01-02"))
}

func (s *Storage) FindSessionByClassAndDate(ctx context.Context, classID string, date time.Time) (*models.SessionAttendance, error) {
	const op = "storage.postgres.FindSessionByClassAndDate"

	return s.findSession(ctx, op,
		`SELECT `+sessionColumns+` FROM session_attendances
		WHERE class_schedule_id=$1 AND session_date=$2`,
		classID, date.Format("2006-01-02"))
}

func (s *Storage) FindSessionByWeekAndMeeting(ctx context.Context, classID string, week, meeting int) (*models.SessionAttendance, error) {
	const op = "storage.postgres.FindSessionByWeekAndMeeting"

	return s.findSession(ctx, op,
		`SELECT `+sessionColumns+` FROM session_attendances
		WHERE class_schedule_id=$1 AND week=$2 AND meeting=$3`,
		classID, week, meeting)
}

func (s *Storage) FindSessionByToken(ctx context.Context, token string) (*models.SessionAttendance, error) {
	const op = "storage.postgres.FindSessionByToken"

	return s.findSession(ctx, op,
		`SELECT `+sessionColumns+` FROM session_attendances WHERE token=$1`, token)
}

// findSession returns (nil, nil) when no row matches; absence is a valid
// outcome the service branches on.
func (s *Storage) findSession(ctx context.Context, op, query string, args ...any) (*models.SessionAttendance, error) {
	var sess models.SessionAttendance

	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(
			&sess.ID,
			&sess.ClassScheduleID,
			&sess.SessionDate,
			&sess.StartTime,
			&sess.EndTime,
			&sess.Week,
			&sess.Meeting,
			&sess.TotalHours,
			&sess.ToleranceMinutes,
			&sess.IsActive,
			&sess.Token,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &sess, nil
}

func (s *Storage) GetSession(ctx context.Context, id string) (*models.SessionAttendance, error) {
	const op = "storage.postgres.GetSession"

	sess, err := s.findSession(ctx, op,
		`SELECT `+sessionColumns+` FROM session_attendances WHERE id=$1`, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return sess, nil
}

func (s *Storage) CreateSession(ctx context.Context, tx service.Tx, sess *models.SessionAttendance) (string, error) {
	const op = "storage.postgres.CreateSession"

	run, err := s.runner(tx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	_, err = run.ExecContext(ctx,
		`INSERT INTO session_attendances (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sess.ID,
		sess.ClassScheduleID,
		sess.SessionDate.Format("2006-01-02"),
		sess.StartTime,
		sess.EndTime,
		sess.Week,
		sess.Meeting,
		sess.TotalHours,
		sess.ToleranceMinutes,
		sess.IsActive,
		sess.Token,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		// unique (class_schedule_id, session_date) and
		// unique (class_schedule_id, week, meeting) back up the
		// pre-insert existence checks
		if ok && sqlErr.Code == "23505" {
			return "", fmt.Errorf("%s: %w", op, response.ErrSessionExists)
		}
		if ok && sqlErr.Code == "23503" {
			return "", fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	return sess.ID, nil
}

func (s *Storage) UpdateSession(ctx context.Context, sess *models.SessionAttendance) error {
	const op = "storage.postgres.UpdateSession"

	res, err := s.db.ExecContext(ctx,
		`UPDATE session_attendances
		SET end_time=$1, is_active=$2, tolerance_minutes=$3
		WHERE id=$4`,
		sess.EndTime,
		sess.IsActive,
		sess.ToleranceMinutes,
		sess.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// #### attendance ####

func (s *Storage) UpsertAttendance(ctx context.Context, tx service.Tx, att *models.Attendance) error {
	const op = "storage.postgres.UpsertAttendance"

	run, err := s.runner(tx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = run.ExecContext(ctx,
		`INSERT INTO attendances
		(id, class_schedule_id, student_id, date, status, attendance_time,
		 hours_present, hours_absent, hours_permitted, hours_sick, remarks, edited_by, edited_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (class_schedule_id, student_id, date)
		DO UPDATE
		SET status = EXCLUDED.status,
			attendance_time = EXCLUDED.attendance_time,
			hours_present = EXCLUDED.hours_present,
			hours_absent = EXCLUDED.hours_absent,
			hours_permitted = EXCLUDED.hours_permitted,
			hours_sick = EXCLUDED.hours_sick,
			remarks = EXCLUDED.remarks,
			edited_by = EXCLUDED.edited_by,
			edited_at = EXCLUDED.edited_at`,
		att.ID,
		att.ClassScheduleID,
		att.StudentID,
		att.Date.Format("2006-01-02"),
		string(att.Status),
		att.AttendanceTime,
		att.HoursPresent,
		att.HoursAbsent,
		att.HoursPermitted,
		att.HoursSick,
		att.Remarks,
		att.EditedBy,
		att.EditedAt,
	)
	if err != nil {
		sqlErr, ok := err.(*pq.Error)
		if ok && sqlErr.Code == "23503" {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

const attendanceColumns = `id, class_schedule_id, student_id, date, status, attendance_time, hours_present, hours_absent, hours_permitted, hours_sick, remarks, edited_by, edited_at`

func (s *Storage) FindAttendance(ctx context.Context, classID, studentID string, date time.Time) (*models.Attendance, error) {
	const op = "storage.postgres.FindAttendance"

	var att models.Attendance
	var status string

	err := s.db.QueryRowContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		WHERE class_schedule_id=$1 AND student_id=$2 AND date=$3`,
		classID, studentID, date.Format("2006-01-02")).
		Scan(
			&att.ID,
			&att.ClassScheduleID,
			&att.StudentID,
			&att.Date,
			&status,
			&att.AttendanceTime,
			&att.HoursPresent,
			&att.HoursAbsent,
			&att.HoursPermitted,
			&att.HoursSick,
			&att.Remarks,
			&att.EditedBy,
			&att.EditedAt,
		)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	att.Status = models.AttendanceStatus(status)

	return &att, nil
}

func (s *Storage) UpdateAttendance(ctx context.Context, att *models.Attendance) error {
	const op = "storage.postgres.UpdateAttendance"

	res, err := s.db.ExecContext(ctx,
		`UPDATE attendances
		SET status=$1, attendance_time=$2, hours_present=$3, hours_absent=$4,
			hours_permitted=$5, hours_sick=$6, remarks=$7, edited_by=$8, edited_at=$9
		WHERE class_schedule_id=$10 AND student_id=$11 AND date=$12`,
		string(att.Status),
		att.AttendanceTime,
		att.HoursPresent,
		att.HoursAbsent,
		att.HoursPermitted,
		att.HoursSick,
		att.Remarks,
		att.EditedBy,
		att.EditedAt,
		att.ClassScheduleID,
		att.StudentID,
		att.Date.Format("2006-01-02"),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) AttendancesByClassAndStudent(ctx context.Context, classID, studentID string) ([]models.Attendance, error) {
	const op = "storage.postgres.AttendancesByClassAndStudent"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attendanceColumns+` FROM attendances
		WHERE class_schedule_id=$1 AND student_id=$2
		ORDER BY date`, classID, studentID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var records []models.Attendance

	for rows.Next() {
		var att models.Attendance
		var status string

		err := rows.Scan(
			&att.ID,
			&att.ClassScheduleID,
			&att.StudentID,
			&att.Date,
			&status,
			&att.AttendanceTime,
			&att.HoursPresent,
			&att.HoursAbsent,
			&att.HoursPermitted,
			&att.HoursSick,
			&att.Remarks,
			&att.EditedBy,
			&att.EditedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		att.Status = models.AttendanceStatus(status)

		records = append(records, att)
	}

	return records, nil
}

// #### roster ####

func (s *Storage) EnrolledStudents(ctx context.Context, classID string) ([]models.Student, error) {
	const op = "storage.postgres.EnrolledStudents"

	rows, err := s.db.QueryContext(ctx,
		`SELECT st.id, st.nim, st.name
		FROM students st
		JOIN class_students cs ON cs.student_id = st.id
		WHERE cs.class_schedule_id=$1
		ORDER BY st.nim`, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	defer rows.Close()

	var students []models.Student

	for rows.Next() {
		var st models.Student

		err := rows.Scan(&st.ID, &st.NIM, &st.Name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		students = append(students, st)
	}

	return students, nil
}

func (s *Storage) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	const op = "storage.postgres.IsEnrolled"

	var exists bool

	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM class_students
			WHERE class_schedule_id=$1 AND student_id=$2
		)`, classID, studentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return exists, nil
}

func scanSlot(rows *sql.Rows) (timeslot.TimeSlot, error) {
	var start, end string

	if err := rows.Scan(&start, &end); err != nil {
		return timeslot.TimeSlot{}, err
	}

	return timeslot.Parse(clockRange(start, end))
}

func clockRange(start, end string) string {
	return start + " - " + end
}
