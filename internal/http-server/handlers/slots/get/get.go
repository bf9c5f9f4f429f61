package get

import (
	"log/slog"
	"net/http"

	"presensi-service/pkg/response"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SlotLister interface {
	CanonicalSlots() []string
}

type Response struct {
	response.Response
	TimeSlots []string `json:"time_slots"`
}

func New(log *slog.Logger, lister SlotLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.slots.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		slots := lister.CanonicalSlots()

		log.Info("Canonical slots listed", slog.Int("count", len(slots)))

		render.JSON(w, r, Response{
			TimeSlots: slots,
		})
	}
}
