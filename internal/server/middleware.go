package server

import (
	"net/http"
	"time"

	"github.com/rshade/emissionmission/internal/logging"
	"github.com/rshade/emissionmission/internal/session"
)

// SessionCookie names the cookie carrying the session ID.
const SessionCookie = "em_session"

// TraceHeader carries a caller-supplied trace ID; responses echo it.
const TraceHeader = "X-Trace-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// withLogging attaches a trace ID and the server logger to the request
// context and logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = logging.GenerateTraceID()
		}
		ctx := logging.ContextWithTraceID(r.Context(), traceID)
		ctx = s.log.WithContext(ctx)
		w.Header().Set(TraceHeader, traceID)

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(ctx))
		if rec.status == 0 {
			rec.status = http.StatusOK
		}

		evt := s.log.Info()
		if rec.status >= http.StatusInternalServerError {
			evt = s.log.Error()
		}
		evt.Ctx(ctx).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

// sessionID returns the visitor's session ID, issuing a new cookie when the
// request has none or an invalid one.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && session.ValidID(c.Value) {
		return c.Value
	}

	id := session.NewID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.store.TTL().Seconds()),
		HttpOnly: true,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// existingSessionID returns the cookie's session ID without issuing one.
func existingSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || !session.ValidID(c.Value) {
		return "", false
	}
	return c.Value, true
}
