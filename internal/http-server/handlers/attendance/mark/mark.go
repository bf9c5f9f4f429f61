package mark

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"presensi-service/api"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

type AttendanceMarker interface {
	MarkAttendance(ctx context.Context, req *api.MarkAttendanceRequest) (*api.AttendanceResponse, error)
}

type Request struct {
	api.MarkAttendanceRequest
}

type Response struct {
	response.Response
	Attendance *api.AttendanceResponse `json:"attendance,omitempty"`
}

func New(log *slog.Logger, marker AttendanceMarker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.mark.New"

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

		if err := validator.New().Struct(req.MarkAttendanceRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		// either a class id or a session token must identify the session
		if req.ClassScheduleID == "" && req.Token == "" {
			log.Error("class_schedule_id and token are both empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "class_schedule_id or token is required"))
			return
		}

		att, err := marker.MarkAttendance(r.Context(), &req.MarkAttendanceRequest)

		if errors.Is(err, response.ErrNoActiveSession) {
			log.Error("no active session")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NO_ACTIVE_SESSION), "no active attendance session found"))
			return
		}

		if errors.Is(err, response.ErrSessionExpired) {
			log.Error("session has expired")
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error(string(response.SESSION_EXPIRED), "attendance session has expired"))
			return
		}

		if errors.Is(err, response.ErrNotEnrolled) {
			log.Error("student is not enrolled")
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error(string(response.NOT_ENROLLED), "student is not enrolled in class"))
			return
		}

		if errors.Is(err, response.ErrAlreadyMarked) {
			log.Error("attendance already marked")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.ALREADY_MARKED), "attendance already marked"))
			return
		}

		if err != nil {
			log.Error("Failed to mark attendance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to mark attendance"))
			return
		}

		log.Info("Attendance marked",
			slog.String("student_id", att.StudentID),
			slog.Int("hours_present", att.HoursPresent),
			slog.Int("hours_absent", att.HoursAbsent),
		)

		render.JSON(w, r, Response{
			Attendance: att,
		})
	}
}
