package dashboard

import (
	"net/http"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.dashboard.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dashboard, err := handler.service.Get(ctx, userID)
	if err != nil {
		gymlog.WriteError(w, err, "dashboard")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, dashboard)
}
