package middleware

import (
	"net/http"
	"slices"
)

type CORSMiddleware struct {
	allowedOrigins []string
}

// NewCORSMiddleware allows the given origins; "*" or an empty list allows any.
func NewCORSMiddleware(allowedOrigins ...string) *CORSMiddleware {
	return &CORSMiddleware{allowedOrigins: allowedOrigins}
}

func (m *CORSMiddleware) allowOrigin(origin string) string {
	if len(m.allowedOrigins) == 0 || slices.Contains(m.allowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(m.allowedOrigins, origin) {
		return origin
	}
	return ""
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if origin := m.allowOrigin(req.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				w.Header().Add("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Expose-Headers", "Retry-After, X-RateLimit-Remaining")
		}

		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, req)
	})
}
