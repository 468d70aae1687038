package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestSignAndVerifyJWT(t *testing.T) {
	token, err := SignJWT(testSecret, TokenClaims{
		Sub: "user-1",
		Exp: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("SignJWT returned error: %v", err)
	}

	claims, err := VerifyJWT(testSecret, token)
	if err != nil {
		t.Fatalf("VerifyJWT returned error: %v", err)
	}
	if claims.Sub != "user-1" {
		t.Fatalf("Sub = %q", claims.Sub)
	}
}

func TestVerifyJWTRejections(t *testing.T) {
	valid, _ := SignJWT(testSecret, TokenClaims{Sub: "user-1", Exp: time.Now().Add(time.Hour).Unix()})
	expired, _ := SignJWT(testSecret, TokenClaims{Sub: "user-1", Exp: time.Now().Add(-time.Hour).Unix()})

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{"wrong secret", "other", valid},
		{"expired", testSecret, expired},
		{"malformed", testSecret, "not.a.token.at.all"},
		{"empty", testSecret, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := VerifyJWT(tc.secret, tc.token); err == nil {
				t.Fatal("expected verification error")
			}
		})
	}
}

func TestAuthJWTMiddleware(t *testing.T) {
	var gotUserID string
	handler := AuthJWT(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token, _ := SignJWT(testSecret, TokenClaims{Sub: "user-7", Exp: time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name   string
		header string
		status int
		userID string
	}{
		{"valid bearer", "Bearer " + token, http.StatusOK, "user-7"},
		{"case insensitive scheme", "bearer " + token, http.StatusOK, "user-7"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/v1/videos", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if gotUserID != tc.userID {
				t.Fatalf("user id = %q, want %q", gotUserID, tc.userID)
			}
		})
	}
}
