package generate

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

type SessionGenerator interface {
	GenerateSessionAttendance(ctx context.Context, req *api.SessionGenerateRequest) (*api.SessionResponse, error)
}

type Request struct {
	api.SessionGenerateRequest
}

type Response struct {
	response.Response
	Session *api.SessionResponse `json:"session,omitempty"`
}

func New(log *slog.Logger, generator SessionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.generate.New"

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

		if err := validator.New().Struct(req.SessionGenerateRequest); err != nil {
			validateErr := err.(validator.ValidationErrors)
			log.Error("Invalid request", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(validateErr))
			return
		}

		sess, err := generator.GenerateSessionAttendance(r.Context(), &req.SessionGenerateRequest)

		if errors.Is(err, response.ErrLocked) {
			log.Error("resource is locked")
			w.WriteHeader(http.StatusLocked)
			render.JSON(w, r, response.Error(string(response.LOCKED), "session generation already in progress"))
			return
		}

		if errors.Is(err, response.ErrSessionExists) {
			log.Error("session already exists")
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(string(response.SESSION_EXISTS), "attendance session already exists"))
			return
		}

		if errors.Is(err, response.ErrEmptyRoster) {
			log.Error("class has no enrolled students")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.EMPTY_ROSTER), "class has no enrolled students"))
			return
		}

		if err != nil {
			log.Error("Failed to generate session", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to generate session"))
			return
		}

		log.Info("Session generated", slog.String("id", sess.ID))

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{
			Session: sess,
		})
	}
}
