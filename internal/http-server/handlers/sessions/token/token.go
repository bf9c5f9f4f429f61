package token

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

type SessionResolver interface {
	SessionByToken(ctx context.Context, token string) (*api.SessionResponse, error)
}

type Response struct {
	response.Response
	Session *api.SessionResponse `json:"session,omitempty"`
}

func New(log *slog.Logger, resolver SessionResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.token.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		tok := chi.URLParam(r, "token")
		if tok == "" {
			log.Error("token is empty")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "token is required"))
			return
		}

		sess, err := resolver.SessionByToken(r.Context(), tok)

		if errors.Is(err, response.ErrNotFound) {
			log.Error("resource not found")
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error(string(response.NOT_FOUND), "resource not found"))
			return
		}

		if err != nil {
			log.Error("Failed to resolve session token", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to resolve session token"))
			return
		}

		log.Info("Session resolved", slog.String("id", sess.ID))

		render.JSON(w, r, Response{
			Session: sess,
		})
	}
}
