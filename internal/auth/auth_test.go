package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewService("secret", time.Hour)

	token, err := s.IssueToken("pub_1")
	require.NoError(t, err)

	id, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pub_1", id)

	_, err = s.IssueToken("")
	assert.Error(t, err)
}

func TestValidateRejects(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, err := s.IssueToken("pub_1")
	require.NoError(t, err)

	_, err = NewService("other", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewService("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, err := expired.IssueToken("pub_1")
	require.NoError(t, err)
	_, err = s.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unscoped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "pub_1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = s.ValidateToken(unscoped)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthMiddleware(t *testing.T) {
	s := NewService("secret", time.Hour)
	token, err := s.IssueToken("pub_7")
	require.NoError(t, err)

	var seen string
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PublisherIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "pub_7", seen)
}
