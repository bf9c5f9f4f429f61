package update

import (
	"context"
	"log/slog"
	"net/http"

	"presensi-service/api"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type AttendanceUpdater interface {
	UpdateAttendanceStatuses(ctx context.Context, req *api.AttendanceBatchRequest) (*api.AttendanceBatchResult, error)
}

type Request struct {
	api.AttendanceBatchRequest
}

type Response struct {
	response.Response
	Result *api.AttendanceBatchResult `json:"result,omitempty"`
}

func New(log *slog.Logger, updater AttendanceUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.update.New"

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

		log.Info("Request body decoded", slog.Int("updates", len(req.Updates)))

		if err := validator.New().Struct(req.AttendanceBatchRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		result, err := updater.UpdateAttendanceStatuses(r.Context(), &req.AttendanceBatchRequest)

		if err != nil {
			log.Error("Failed to update attendance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to update attendance"))
			return
		}

		log.Info("Attendance updated",
			slog.Int("updated", result.Updated),
			slog.Int("failed", result.Failed),
		)

		render.JSON(w, r, Response{
			Result: result,
		})
	}
}
