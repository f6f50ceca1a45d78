package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-reg-assist/internal/logger"
	"github.com/MKhiriev/go-reg-assist/internal/utils"
)

// auth enforces JWT-based authentication.
//
// It extracts the bearer token from the "Authorization" header, validates it
// via the account service, and stores the authenticated account's ID in the
// request context under [utils.UserIDCtxKey] before delegating to the next
// handler. Requests with a missing, malformed, expired or otherwise invalid
// token are rejected with 401 and the INVALID_SESSION error code.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Debug().Err(ErrEmptyAuthorizationHeader).Send()
			utils.WriteJSONError(w, ErrEmptyAuthorizationHeader.Error(), "INVALID_SESSION", "", http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Debug().Err(err).Send()
			utils.WriteJSONError(w, err.Error(), "INVALID_SESSION", "", http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		token, err := h.services.AccountService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("session token rejected")
			h.writeError(w, r, err)
			return
		}

		// downstream handlers read the account ID from the context instead of
		// re-parsing the token
		ctx = context.WithValue(ctx, utils.UserIDCtxKey, token.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userID reads the authenticated account ID placed in the context by auth.
// A missing value means the route was wired outside the auth group, which is
// a programming error surfaced as 401.
func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok || userID == "" {
		logger.FromRequest(r).Error().Msg("no account ID in request context")
		utils.WriteJSONError(w, "unauthorized", "INVALID_SESSION", "", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// getTokenFromAuthHeader extracts the bearer token string from a raw
// "Authorization" HTTP header value of the form "<scheme> <token>".
//
// It returns the following sentinel errors:
//   - [ErrInvalidAuthorizationHeader] — fewer than two space-separated parts.
//   - [ErrEmptyToken] — the token part exists but is empty.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	parts := strings.Split(authHeader, " ")
	if len(parts) < 2 {
		return "", ErrInvalidAuthorizationHeader
	}

	tokenString := parts[1]
	if tokenString == "" {
		return "", ErrEmptyToken
	}

	return tokenString, nil
}
