package cumulative

import (
	"context"
	"log/slog"
	"net/http"

	"presensi-service/api"
	"presensi-service/pkg/response"
	"presensi-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type CumulativeGetter interface {
	CumulativeAttendance(ctx context.Context, classScheduleID, studentID string) (*api.CumulativeAttendanceResponse, error)
}

type Response struct {
	response.Response
	Cumulative *api.CumulativeAttendanceResponse `json:"cumulative,omitempty"`
}

func New(log *slog.Logger, getter CumulativeGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.attendance.cumulative.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		classID := r.URL.Query().Get("class_schedule_id")
		studentID := r.URL.Query().Get("student_id")

		if classID == "" || studentID == "" {
			log.Error("class_schedule_id or student_id is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "class_schedule_id and student_id are required"))
			return
		}

		cumulative, err := getter.CumulativeAttendance(r.Context(), classID, studentID)

		if err != nil {
			log.Error("Failed to get cumulative attendance", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get cumulative attendance"))
			return
		}

		log.Info("Cumulative attendance retrieved",
			slog.String("class_schedule_id", classID),
			slog.String("student_id", studentID),
		)

		render.JSON(w, r, Response{
			Cumulative: cumulative,
		})
	}
}
