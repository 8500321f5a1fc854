package gymlog

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// WriteError maps the shared error kinds to their HTTP responses. Unknown errors are
// logged and reported as 500 without leaking details.
func WriteError(w http.ResponseWriter, err error, op string) {
	if vErr, ok := IsValidationError(err); ok {
		log.Tracef("%s: %s", op, vErr)
		pkg.WriteJSON(w, http.StatusBadRequest, vErr)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		log.Tracef("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrInvalidSequence):
		log.Tracef("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusBadRequest, "invalid sequence")
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

// PathID parses a positive integer route variable.
func PathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		return 0, fmt.Errorf("%s empty", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s invalid: %q", name, raw)
	}
	return id, nil
}

// IsJSONRequest reports whether the request declares a JSON body.
func IsJSONRequest(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == pkg.ContentType.JSON
}
