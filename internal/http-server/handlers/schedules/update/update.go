package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"presensi-service/api"
	"presensi-service/internal/scheduler"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type ScheduleUpdater interface {
	UpdateScheduleWithTimeSlots(ctx context.Context, id string, req *api.ScheduleRequest) (*api.ScheduleResponse, *scheduler.ConflictResult, error)
}

type Request struct {
	api.ScheduleRequest
}

type Response struct {
	response.Response
	Schedule *api.ScheduleResponse     `json:"schedule,omitempty"`
	Conflict *scheduler.ConflictResult `json:"conflict,omitempty"`
}

func New(log *slog.Logger, updater ScheduleUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.update.New"

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

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.ScheduleRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		schedule, conflict, err := updater.UpdateScheduleWithTimeSlots(r.Context(), id, &req.ScheduleRequest)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if errors.Is(err, response.ErrInvalidDay) {
			log.Error("invalid day", slog.String("day", req.Day))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid day name"))
			return
		}

		if err != nil {
			log.Error("Failed to update schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update schedule"))
			return
		}

		if conflict != nil {
			log.Info("Schedule conflict", slog.String("type", string(conflict.ConflictType)))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, Response{
				Response: response.Error(string(response.SCHEDULE_CONFLICT), conflict.Message),
				Conflict: conflict,
			})
			return
		}

		log.Info("Schedule updated", slog.String("id", schedule.ID))

		render.JSON(w, r, Response{
			Schedule: schedule,
		})
	}
}
