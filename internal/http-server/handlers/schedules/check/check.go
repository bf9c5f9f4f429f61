package check

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
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, req *api.AvailabilityCheckRequest) (*scheduler.ConflictResult, error)
}

type Request struct {
	api.AvailabilityCheckRequest
}

type Response struct {
	response.Response
	Result *scheduler.ConflictResult `json:"result,omitempty"`
}

func New(log *slog.Logger, checker AvailabilityChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedules.check.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		log.Info("Request body decoded", slog.Any("request", req))

		if err := validator.New().Struct(req.AvailabilityCheckRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		result, err := checker.CheckAvailability(r.Context(), &req.AvailabilityCheckRequest)

		if errors.Is(err, response.ErrInvalidDay) {
			log.Error("invalid day", slog.String("day", req.Day))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "invalid day name"))
			return
		}

		if err != nil {
			log.Error("Failed to check availability", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to check availability"))
			return
		}

		log.Info("Availability checked", slog.Bool("available", result.Available))

		render.JSON(w, r, Response{
			Result: result,
		})
	}
}
