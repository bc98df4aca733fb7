package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"growth-hub/utils"
)

// OwnerHeader carries the authenticated owner's ID, set by the fronting proxy.
const OwnerHeader = "X-Owner-ID"

type ownerKey struct{}

// requireOwner rejects requests without a positive owner ID.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.Header.Get(OwnerHeader), 10, 64)
		if err != nil || id <= 0 {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, id)))
	})
}

func ownerFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(ownerKey{}).(int64)
	return id
}

// requestLogger logs one line per request through the application logger.
func requestLogger(logger *utils.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			line := "[http] %s %s %d %dB %v reqid=%s"
			args := []any{r.Method, r.URL.Path, status, ww.BytesWritten(),
				time.Since(start).Round(time.Microsecond), middleware.GetReqID(r.Context())}
			if status >= http.StatusInternalServerError {
				logger.Error(line, args...)
			} else {
				logger.Debug(line, args...)
			}
		})
	}
}
