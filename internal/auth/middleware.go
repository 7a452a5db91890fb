package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const PublisherIDKey contextKey = "publisherID"

var (
	errMissingAuth = errors.New("missing authorization header")
	errAuthFormat  = errors.New("invalid authorization format")
)

// AuthMiddleware admits requests carrying a valid publish token and stores
// the publisher id in the request context.
func (s *Service) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		publisherID, err := s.ValidateToken(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), PublisherIDKey, publisherID)))
	})
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingAuth
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return "", errAuthFormat
	}
	return token, nil
}

func PublisherIDFromContext(ctx context.Context) string {
	publisherID, _ := ctx.Value(PublisherIDKey).(string)
	return publisherID
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
