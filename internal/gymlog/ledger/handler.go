package ledger

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 200
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

func (handler *Handler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.record")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !gymlog.IsJSONRequest(r) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type")
		return
	}

	var params RecordParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Debugf("record log, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := handler.service.Record(ctx, userID, params)
	if err != nil {
		gymlog.WriteError(w, err, "record log")
		return
	}

	handler.metrics.CounterLogsRecorded.Inc()
	span.SetAttributes(attribute.Int("log.id", entry.ID))
	log.Debugf("user %d logged exercise %d: %s x %d, one rm %s", userID, entry.ExerciseID, entry.Weight, entry.Reps, entry.OneRM)

	pkg.WriteJSON(w, http.StatusCreated, entry)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := handler.service.Get(ctx, userID, id)
	if err != nil {
		gymlog.WriteError(w, err, "get log")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, entry)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := handler.service.Delete(ctx, userID, id); err != nil {
		gymlog.WriteError(w, err, "delete log")
		return
	}

	log.Debugf("user %d deleted log %d", userID, id)
	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.recent")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := defaultRecentLimit
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed < 1 {
			pkg.WriteJSONError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = min(parsed, maxRecentLimit)
	}

	entries, err := handler.service.Recent(ctx, userID, limit)
	if err != nil {
		gymlog.WriteError(w, err, "recent logs")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"logs": entries})
}

func (handler *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.overview")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overview, err := handler.service.Overview(ctx, userID)
	if err != nil {
		gymlog.WriteError(w, err, "progress overview")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exercises": overview})
}

func (handler *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.progress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	exerciseID, err := gymlog.PathID(r, "exerciseId")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	period := r.URL.Query().Get("period")
	span.SetAttributes(attribute.String("params.period", period))

	progress, err := handler.service.Progress(ctx, userID, exerciseID, period)
	if err != nil {
		gymlog.WriteError(w, err, "exercise progress")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, progress)
}

func (handler *Handler) HandleBest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.best")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	exerciseID, err := gymlog.PathID(r, "exerciseId")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	best, err := handler.service.BestMetric(ctx, userID, exerciseID)
	if err != nil {
		gymlog.WriteError(w, err, "best metric")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exerciseId": exerciseID, "bestOneRm": best})
}
