package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/ggpera/expense-tracker/logger"
	"github.com/ggpera/expense-tracker/model"
)

var leadingInt = regexp.MustCompile(`^\s*([+-]?\d+)`)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithText(w, code, message)
}

// respondWithText writes message as plain text.
func respondWithText(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(message))
}

// respondWithServerError logs err against the request and hides it from the
// client.
func respondWithServerError(w http.ResponseWriter, r *http.Request, op string, err error) {
	component := logger.ComponentHTTP
	var storageErr *model.StorageError
	if errors.As(err, &storageErr) {
		component = logger.ComponentStorage
	}
	logger.FromContext(r.Context()).Error("request failed",
		logger.FieldComponent, component,
		"operation", op,
		logger.FieldError, err,
	)
	respondWithError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, http.StatusText(http.StatusNotFound))
}

// parseID reads the integer prefix of s, so "12abc" is 12. ok is false when
// s does not start with a number or the number does not fit.
func parseID(s string) (int64, bool) {
	m := leadingInt.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
