package catalog

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

type muscleGroupResponse struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func (handler *Handler) HandleMuscleGroups(w http.ResponseWriter, _ *http.Request) {
	groups := AllMuscleGroups()
	resp := make([]muscleGroupResponse, 0, len(groups))
	for _, mg := range groups {
		resp = append(resp, muscleGroupResponse{Value: mg.String(), Label: mg.Label()})
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"muscleGroups": resp})
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.list")
	defer span.End()

	muscleGroup := MuscleGroup(strings.ToLower(r.URL.Query().Get("muscleGroup")))
	exercises, err := handler.service.List(ctx, muscleGroup)
	if err != nil {
		gymlog.WriteError(w, err, "list exercises")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exercises": exercises})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.get")
	defer span.End()

	id, err := gymlog.PathID(r, "id")
	if err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.Int("exercise.id", id))

	exercise, err := handler.service.Get(ctx, id)
	if err != nil {
		gymlog.WriteError(w, err, "get exercise")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, exercise)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.add")
	defer span.End()

	if !gymlog.IsJSONRequest(r) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type")
		return
	}

	var params AddParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		log.Debugf("add exercise, unmarshal json params: %s", err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if userID, ok := auth.UserIDFromContext(ctx); ok {
		params.CreatedBy = &userID
	}

	exercise, err := handler.service.Add(ctx, params)
	if err != nil {
		gymlog.WriteError(w, err, "add exercise")
		return
	}

	log.Debugf("new exercise added: %d [%s]", exercise.ID, exercise.Name)
	pkg.WriteJSON(w, http.StatusCreated, exercise)
}

func (handler *Handler) HandleAutocomplete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.autocomplete")
	defer span.End()

	results, err := handler.service.Autocomplete(ctx, r.URL.Query().Get("q"))
	if err != nil {
		gymlog.WriteError(w, err, "autocomplete")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]any{"results": results})
}
