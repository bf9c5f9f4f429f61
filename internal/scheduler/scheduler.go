package scheduler

import (
	"context"
	"fmt"

	"presensi-service/internal/models"
	"presensi-service/internal/timeslot"
)

// Booking is one existing time-slot occupation, materialized by the lookup
// collaborator for an entire room+day or lecturer+day.
type Booking struct {
	ScheduleID   string
	Slot         timeslot.TimeSlot
	Room         string
	LecturerID   string
	LecturerName string
}

// BookedSlot is one entry of the exhaustive booked-slot listing, tagged by
// which resource it would conflict on.
type BookedSlot struct {
	StartTime    string              `json:"start_time"`
	EndTime      string              `json:"end_time"`
	Type         models.ConflictType `json:"type"`
	Room         string              `json:"room"`
	LecturerName string              `json:"lecturer_name"`
}

// ConflictResult is the computed outcome of an availability check.
// Available=false is an expected outcome, not an error.
type ConflictResult struct {
	Available        bool                `json:"available"`
	ConflictType     models.ConflictType `json:"conflict_type,omitempty"`
	UnavailableSlots []string            `json:"unavailable_slots,omitempty"`
	Message          string              `json:"message,omitempty"`
}

type ScheduleLookup interface {
	SchedulesByRoomAndDay(ctx context.Context, room, day string) ([]Booking, error)
	SchedulesByLecturerAndDay(ctx context.Context, lecturerID, day string) ([]Booking, error)
}

type Scheduler struct {
	lookup ScheduleLookup
	cfg    timeslot.Config
}

func New(lookup ScheduleLookup, cfg timeslot.Config) *Scheduler {
	return &Scheduler{lookup: lookup, cfg: cfg}
}

// CheckAllTimeSlotsAvailability checks every candidate slot against existing
// bookings for the room and the lecturer on the given day. Room conflicts are
// checked first across all slots; the first slot with a room conflict
// short-circuits the check. Lecturer conflicts are only consulted when no
// room conflict exists anywhere.
func (s *Scheduler) CheckAllTimeSlotsAvailability(ctx context.Context, room, day string, slotStrings []string, lecturerID, excludeScheduleID string) (*ConflictResult, error) {
	const op = "scheduler.CheckAllTimeSlotsAvailability"

	if len(slotStrings) == 0 {
		return &ConflictResult{Available: true}, nil
	}

	slots, err := timeslot.ParseAll(slotStrings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roomBookings, err := s.lookup.SchedulesByRoomAndDay(ctx, room, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, slot := range slots {
		if b, ok := firstOverlap(roomBookings, slot, excludeScheduleID); ok {
			return &ConflictResult{
				Available:        false,
				ConflictType:     models.ConflictRoom,
				UnavailableSlots: []string{slot.String()},
				Message:          fmt.Sprintf("room %s is already booked for %s on %s", b.Room, slot.String(), day),
			}, nil
		}
	}

	lecturerBookings, err := s.lookup.SchedulesByLecturerAndDay(ctx, lecturerID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, slot := range slots {
		if b, ok := firstOverlap(lecturerBookings, slot, excludeScheduleID); ok {
			return &ConflictResult{
				Available:        false,
				ConflictType:     models.ConflictLecturer,
				UnavailableSlots: []string{slot.String()},
				Message:          fmt.Sprintf("lecturer %s already teaches during %s on %s", b.LecturerName, slot.String(), day),
			}, nil
		}
	}

	return &ConflictResult{Available: true}, nil
}

// GetBookedTimeSlots returns the union of all room and lecturer bookings for
// the day, each tagged by conflict type. Unlike the availability check this
// is exhaustive and order-insensitive; it feeds the interactive slot picker.
func (s *Scheduler) GetBookedTimeSlots(ctx context.Context, room, day, lecturerID, excludeScheduleID string) ([]BookedSlot, error) {
	const op = "scheduler.GetBookedTimeSlots"

	roomBookings, err := s.lookup.SchedulesByRoomAndDay(ctx, room, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lecturerBookings, err := s.lookup.SchedulesByLecturerAndDay(ctx, lecturerID, day)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	booked := make([]BookedSlot, 0, len(roomBookings)+len(lecturerBookings))

	for _, b := range roomBookings {
		if b.ScheduleID == excludeScheduleID {
			continue
		}
		booked = append(booked, BookedSlot{
			StartTime:    b.Slot.Start.Format("15:04"),
			EndTime:      b.Slot.End.Format("15:04"),
			Type:         models.ConflictRoom,
			Room:         b.Room,
			LecturerName: b.LecturerName,
		})
	}

	for _, b := range lecturerBookings {
		if b.ScheduleID == excludeScheduleID {
			continue
		}
		booked = append(booked, BookedSlot{
			StartTime:    b.Slot.Start.Format("15:04"),
			EndTime:      b.Slot.End.Format("15:04"),
			Type:         models.ConflictLecturer,
			Room:         b.Room,
			LecturerName: b.LecturerName,
		})
	}

	return booked, nil
}

// CanonicalSlots lists the configured slot table.
func (s *Scheduler) CanonicalSlots() []string {
	return s.cfg.Generate()
}

// ValidDay reports whether day is in the configured day table.
func (s *Scheduler) ValidDay(day string) bool {
	return s.cfg.ValidDay(day)
}

func firstOverlap(bookings []Booking, slot timeslot.TimeSlot, excludeScheduleID string) (Booking, bool) {
	for _, b := range bookings {
		if b.ScheduleID == excludeScheduleID {
			continue
		}
		if slot.Overlaps(b.Slot) {
			return b, true
		}
	}

	return Booking{}, false
}
