package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/logger"
)

// ParticipantIDHeader carries the caller identity when authentication is disabled.
const ParticipantIDHeader = "X-Participant-ID"

// CallerAuth resolves the calling participant and stores it in the request
// context. With a JWTManager the caller comes from a bearer token; without
// one it comes from the X-Participant-ID header. Requests without a caller
// are rejected.
func CallerAuth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			callerID, err := resolveCaller(r, jwtManager)
			if err != nil {
				writeError(w, http.StatusUnauthorized, domain.KindUnauthorized, err.Error())
				return
			}

			ctx := domain.ContextWithCaller(r.Context(), callerID)
			ctx = logger.WithFields(ctx, map[string]string{"participant_id": callerID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveCaller(r *http.Request, jwtManager *auth.JWTManager) (string, error) {
	if jwtManager == nil {
		callerID := strings.TrimSpace(r.Header.Get(ParticipantIDHeader))
		if callerID == "" {
			return "", errors.New("missing " + ParticipantIDHeader + " header")
		}
		return callerID, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing authorization header")
	}

	// Parse Bearer token
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid authorization header format")
	}

	claims, err := jwtManager.Verify(parts[1])
	if err != nil {
		return "", err
	}
	return claims.ParticipantID, nil
}
