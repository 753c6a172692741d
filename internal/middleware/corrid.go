package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const corrIDKey contextKey = "corrID"

// CorrelationID assigns a correlation id to every request: the value of the
// X-Correlation-Id header when the client supplies one, otherwise a random
// five-digit id. The id and the handling time are echoed back in the
// response headers, and every request is logged once.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		corrID := parseCorrID(r.Header.Get("X-Correlation-Id"))
		if corrID == 0 {
			corrID = rand.Int64N(90000) + 10000
		}

		ctx := context.WithValue(r.Context(), corrIDKey, corrID)
		w.Header().Set("X-Correlation-Id", strconv.FormatInt(corrID, 10))

		slog.Info("request", "corr_id", corrID, "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)

		tw := &timedWriter{ResponseWriter: w, start: time.Now()}
		next.ServeHTTP(tw, r.WithContext(ctx))

		slog.Debug("request done",
			"corr_id", corrID, "method", r.Method, "path", r.URL.Path,
			"status", tw.status, "duration", time.Since(tw.start).String())
	})
}

// CorrIDFromContext extracts the correlation id assigned to the request.
func CorrIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(corrIDKey).(int64)
	return id
}

// timedWriter stamps X-Response-Time just before the headers are flushed.
type timedWriter struct {
	http.ResponseWriter
	start       time.Time
	status      int
	wroteHeader bool
}

func (w *timedWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		elapsed := float64(time.Since(w.start).Microseconds()) / 1000
		w.Header().Set("X-Response-Time", fmt.Sprintf("%.2fms", elapsed))
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *timedWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func parseCorrID(header string) int64 {
	header = strings.TrimSpace(header)
	if header == "" {
		return 0
	}
	id, err := strconv.ParseInt(header, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
