package middleware

import (
	"net/http"
	"os"
	"strings"
)

// CORSMiddleware answers preflight requests and attaches CORS headers. The
// allowed origin list comes from ALLOWED_ORIGINS (comma-separated); unset
// means any origin, which suits local development and same-cluster callers.
func CORSMiddleware(next http.Handler) http.Handler {
	origins := allowedOrigins()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			switch {
			case origins["*"]:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case origins[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func allowedOrigins() map[string]bool {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return map[string]bool{"*": true}
	}
	set := make(map[string]bool)
	for _, origin := range strings.Split(raw, ",") {
		set[strings.TrimSpace(origin)] = true
	}
	return set
}
