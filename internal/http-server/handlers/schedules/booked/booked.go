package booked

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"presensi-service/internal/scheduler"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type BookedSlotsGetter interface {
	BookedTimeSlots(ctx context.Context, room, day, lecturerID, excludeScheduleID string) ([]scheduler.BookedSlot, error)
}

type Response struct {
	response.Response
	BookedSlots []scheduler.BookedSlot `json:"booked_slots"`
}

func New(log *slog.Logger, getter BookedSlotsGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.booked.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		room := r.URL.Query().Get("room")
		day := r.URL.Query().Get("day")
		lecturerID := r.URL.Query().Get("lecturer_id")
		excludeID := r.URL.Query().Get("exclude_schedule_id")

		if room == "" || day == "" || lecturerID == "" {
			log.Error("room, day or lecturer_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "room, day and lecturer_id are required"))
			return
		}

		booked, err := getter.BookedTimeSlots(r.Context(), room, day, lecturerID, excludeID)

		if errors.Is(err, response.ErrInvalidDay) {
			log.Error("invalid day", slog.String("day", day))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid day name"))
			return
		}

		if err != nil {
			log.Error("Failed to get booked slots", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get booked slots"))
			return
		}

		log.Info("Booked slots retrieved", slog.Int("count", len(booked)))

		render.JSON(w, r, Response{
			BookedSlots: booked,
		})
	}
}
