package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/internal/telemetry/metrics"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
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

func decodeCredentials(w http.ResponseWriter, r *http.Request, op string) (Credentials, bool) {
	var creds Credentials
	if !gymlog.IsJSONRequest(r) {
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid content type")
		return creds, false
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		log.Debugf("%s, unmarshal json params: %s", op, err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid request body")
		return creds, false
	}
	return creds, true
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	creds, ok := decodeCredentials(w, r, "register")
	if !ok {
		return
	}

	user, err := handler.service.Register(ctx, creds)
	if err != nil {
		gymlog.WriteError(w, err, "register")
		return
	}

	log.Debugf("new user registered: %d [%s]", user.ID, user.Username)
	pkg.WriteJSON(w, http.StatusCreated, user)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	creds, ok := decodeCredentials(w, r, "login")
	if !ok {
		return
	}
	if creds.Username == "" || creds.Password == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	token, err := handler.service.Login(ctx, creds)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			handler.metrics.CounterLogins.WithLabelValues("failed").Inc()
			pkg.WriteJSONError(w, http.StatusUnauthorized, "wrong credentials")
			return
		}
		handler.metrics.CounterLogins.WithLabelValues("error").Inc()
		log.Errorf("login failed: %s", err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	handler.metrics.CounterLogins.WithLabelValues("ok").Inc()
	log.Trace("new login success")
	pkg.WriteJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	token := TokenFromRequest(r)
	if token == "" {
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := handler.service.Logout(ctx, token); err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			log.Errorf("logout failed: %s", err)
		}
		pkg.WriteJSONError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	pkg.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged-out"})
}
