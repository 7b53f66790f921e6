package server

import (
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"scantimeline/internal/logging"
	"scantimeline/internal/telemetry"
)

// PageRequiredMiddleware resolves the session's live page. Requests whose
// page has expired are told to reload, which builds a new one.
func (s *Server) PageRequiredMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessionStore.Get(r, sessionName)
		if err != nil {
			logging.Debug("Discarding unreadable session: %v", err)
		}

		id, _ := session.Values[pageIDKey].(string)
		lp, ok := s.pages.Touch(id)
		if id == "" || !ok {
			w.Header().Set("HX-Refresh", "true")
			http.Error(w, "Page expired, reload to continue", http.StatusGone)
			return
		}

		next(w, r.WithContext(setPageContext(r.Context(), lp)))
	}
}

// statusRecorder captures the response code for the request span.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// TracingMiddleware opens a span per request.
func (s *Server) TracingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.StartSpan(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.status_code", rec.status))
		logging.Debug("%s %s -> %d", r.Method, r.URL.Path, rec.status)
	})
}
