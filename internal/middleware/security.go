package middleware

import (
	"net/http"
	"strconv"
)

// SecurityHeadersConfig configures the headers set on every response.
type SecurityHeadersConfig struct {
	FrameOptions       string
	ContentTypeNosniff bool
	ReferrerPolicy     string

	// HSTSMaxAge in seconds. Zero disables Strict-Transport-Security.
	HSTSMaxAge int
}

// DefaultSecurityHeadersConfig suits a JSON API that also serves PDFs.
func DefaultSecurityHeadersConfig(production bool) SecurityHeadersConfig {
	cfg := SecurityHeadersConfig{
		FrameOptions:       "DENY",
		ContentTypeNosniff: true,
		ReferrerPolicy:     "no-referrer",
	}
	if production {
		cfg.HSTSMaxAge = 31536000
	}
	return cfg
}

// SecurityHeaders adds the configured headers before calling next.
func SecurityHeaders(config SecurityHeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if config.FrameOptions != "" {
				h.Set("X-Frame-Options", config.FrameOptions)
			}
			if config.ContentTypeNosniff {
				h.Set("X-Content-Type-Options", "nosniff")
			}
			if config.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", config.ReferrerPolicy)
			}
			if config.HSTSMaxAge > 0 {
				h.Set("Strict-Transport-Security", "max-age="+strconv.Itoa(config.HSTSMaxAge)+"; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}
