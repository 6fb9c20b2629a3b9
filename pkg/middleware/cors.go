package middleware

import (
	"net/http"
	"strings"
)

type CORS struct {
	allowed map[string]struct{}
	any     bool
}

// NewCORS allows the listed origins with credentials. "*" or an empty list
// additionally allows any other origin, without credentials.
func NewCORS(origins []string) *CORS {
	c := &CORS{allowed: map[string]struct{}{}}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			c.any = true
		}
		if o != "" && o != "*" {
			c.allowed[o] = struct{}{}
		}
	}
	if len(c.allowed) == 0 {
		c.any = true
	}
	return c
}

func (c *CORS) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			_, listed := c.allowed[origin]
			switch {
			case listed:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			case c.any:
				// browsers refuse credentials alongside a wildcard origin
				w.Header().Set("Access-Control-Allow-Origin", "*")
			}
			if listed || c.any {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
			}
		}

		// Preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
