package rest

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ggpera/expense-tracker/logger"
)

const requestIDHeader = "X-Request-ID"

// requestID tags the request with the caller's X-Request-ID or a fresh
// uuid, and stores a logger carrying it in the request context.
func requestID(base *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)

			l := base.With(logger.FieldRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		logger.FromContext(r.Context()).Log(r.Context(), level, "HTTP request completed",
			logger.FieldComponent, logger.ComponentHTTP,
			logger.FieldMethod, r.Method,
			logger.FieldPath, r.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
		)
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.FromContext(r.Context()).Error("panic while serving request",
				logger.FieldComponent, logger.ComponentHTTP,
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			respondWithError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}()
		next.ServeHTTP(w, r)
	})
}

// allowAnyOrigin lets the UI be served from another origin.
func allowAnyOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		h.Set("Access-Control-Expose-Headers", requestIDHeader)
		next.ServeHTTP(w, r)
	})
}

// preflight answers OPTIONS once mux.CORSMethodMiddleware has listed the
// allowed methods.
func preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limitBody(n int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
