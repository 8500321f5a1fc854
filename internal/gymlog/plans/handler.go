package plans

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

type reorderRequest struct {
	Order []int `json:"order"`
}

func (handler *Handler) HandleReorder(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.reorder")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	planID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("plan.id", planID))

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Order == nil {
		log.Debugf("reorder plan %d, invalid body: %v", planID, err)
		handler.metrics.CounterReorders.WithLabelValues("invalid").Inc()
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	err = handler.service.Reorder(ctx, userID, planID, req.Order)
	switch {
	case err == nil:
		handler.metrics.CounterReorders.WithLabelValues("ok").Inc()
	case errors.Is(err, gymlog.ErrInvalidSequence):
		handler.metrics.CounterReorders.WithLabelValues("invalid").Inc()
	case errors.Is(err, gymlog.ErrNotFound):
		handler.metrics.CounterReorders.WithLabelValues("not_found").Inc()
	default:
		handler.metrics.CounterReorders.WithLabelValues("error").Inc()
	}
	if err != nil {
		gymlog.WriteError(w, err, "reorder plan")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	plans, err := handler.service.List(ctx, userID)
	if err != nil {
		gymlog.WriteError(w, err, "list plans")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	planID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := handler.service.Get(ctx, userID, planID)
	if err != nil {
		gymlog.WriteError(w, err, "get plan")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, plan)
}

func (handler *Handler) HandleActive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.active")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	plan, err := handler.service.Active(ctx, userID)
	if err != nil {
		gymlog.WriteError(w, err, "active plan")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"plan": plan})
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.create")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var params PlanParams
	if !decodeJSONBody(w, r, &params, "create plan") {
		return
	}

	plan, err := handler.service.Create(ctx, userID, params)
	if err != nil {
		gymlog.WriteError(w, err, "create plan")
		return
	}

	log.Debugf("user %d created plan %d [%s]", userID, plan.ID, plan.Name)
	pkg.WriteJSON(w, http.StatusCreated, plan)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.update")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	planID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params PlanParams
	if !decodeJSONBody(w, r, &params, "update plan") {
		return
	}

	plan, err := handler.service.Update(ctx, userID, planID, params)
	if err != nil {
		gymlog.WriteError(w, err, "update plan")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, plan)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	planID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.service.Delete(ctx, userID, planID); err != nil {
		gymlog.WriteError(w, err, "delete plan")
		return
	}

	log.Debugf("user %d deleted plan %d", userID, planID)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.add_exercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	planID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params AddExerciseParams
	if !decodeJSONBody(w, r, &params, "add planned exercise") {
		return
	}

	pe, err := handler.service.AddExercise(ctx, userID, planID, params)
	if err != nil {
		gymlog.WriteError(w, err, "add planned exercise")
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, pe)
}

func (handler *Handler) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.remove_exercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	plannedID, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.service.RemoveExercise(ctx, userID, plannedID); err != nil {
		gymlog.WriteError(w, err, "remove planned exercise")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, op string) bool {
	if !gymlog.IsJSONRequest(r) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type")
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Debugf("%s, unmarshal json params: %s", op, err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
