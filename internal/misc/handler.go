package misc

import (
	"net/http"
	"time"

	"github.com/2beens/gymlog/pkg"
)

type Handler struct {
	versionInfo string
	startedAt   time.Time
}

func NewHandler(versionInfo string) *Handler {
	return &Handler{
		versionInfo: versionInfo,
		startedAt:   time.Now(),
	}
}

func (handler *Handler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, "I'm OK, thanks ;)")
}

func (handler *Handler) HandleVersion(w http.ResponseWriter, _ *http.Request) {
	version := handler.versionInfo
	if version == "" {
		version = "unknown"
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]string{
		"version": version,
		"uptime":  time.Since(handler.startedAt).Truncate(time.Second).String(),
	})
}
