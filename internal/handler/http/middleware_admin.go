package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
)

// adminKeyHeader carries the shared secret gating admin-only operations.
const adminKeyHeader = "X-Admin-Key"

// admin gates admin-only routes behind the configured admin key. When no key
// is configured, the admin surface is disabled entirely: every request is
// rejected, so an empty header can never match an empty config.
func (h *Handler) admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.adminKeyMatches(r) {
			logger.FromRequest(r).Warn().Str("path", r.URL.Path).Msg("admin key rejected")
			utils.WriteJSONError(w, "operation forbidden", "FORBIDDEN", "", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// adminKeyMatches compares the request's admin key header against the
// configured key in constant time.
func (h *Handler) adminKeyMatches(r *http.Request) bool {
	if h.cfg.AdminKey == "" {
		return false
	}
	presented := r.Header.Get(adminKeyHeader)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(h.cfg.AdminKey)) == 1
}
