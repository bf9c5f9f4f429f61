package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"presensi-service/api"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ScheduleGetter interface {
	GetSchedule(ctx context.Context, id string) (*api.ScheduleResponse, error)
}

type Response struct {
	response.Response
	Schedule *api.ScheduleResponse `json:"schedule,omitempty"`
}

func New(log *slog.Logger, getter ScheduleGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		id := chi.URLParam(r, "id")
		if id == "" {
			log.Error("id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "id is required"))
			return
		}

		schedule, err := getter.GetSchedule(r.Context(), id)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to get schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get schedule"))
			return
		}

		log.Info("Schedule retrieved", slog.String("id", id))

		render.JSON(w, r, Response{
			Schedule: schedule,
		})
	}
}
