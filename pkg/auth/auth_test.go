package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JaimeStill/flowdeck/pkg/auth"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func sign(t *testing.T, method jwt.SigningMethod, key any, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func validClaims(sub string) auth.Claims {
	return auth.Claims{
		Name: "Demo User",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "flowdeck-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestHMACVerifier_Verify(t *testing.T) {
	v := auth.NewHMACVerifier(secret, "flowdeck-test", "")

	expired := validClaims("user-1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	noExpiry := validClaims("user-1")
	noExpiry.ExpiresAt = nil

	wrongIssuer := validClaims("user-1")
	wrongIssuer.Issuer = "someone-else"

	tests := []struct {
		name    string
		token   string
		wantSub string
		wantErr bool
	}{
		{"valid", sign(t, jwt.SigningMethodHS256, secret, validClaims("user-1")), "user-1", false},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), validClaims("user-1")), "", true},
		{"expired", sign(t, jwt.SigningMethodHS256, secret, expired), "", true},
		{"no expiry", sign(t, jwt.SigningMethodHS256, secret, noExpiry), "", true},
		{"wrong issuer", sign(t, jwt.SigningMethodHS256, secret, wrongIssuer), "", true},
		{"missing subject", sign(t, jwt.SigningMethodHS256, secret, validClaims("")), "", true},
		{"garbage", "not-a-token", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := v.Verify(context.Background(), tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Verify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, auth.ErrUnauthorized) {
				t.Errorf("error = %v, want ErrUnauthorized", err)
			}
			if p.Subject != tt.wantSub {
				t.Errorf("Subject = %q, want %q", p.Subject, tt.wantSub)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		wantOK bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"Basic abc", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, ok := auth.BearerToken(r)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("BearerToken() = %q, %v, want %q, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := auth.NewHMACVerifier(secret, "", "")

	handler := auth.RequireAuth(v, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := auth.FromContext(r.Context())
		if !ok {
			t.Error("principal missing from context")
		}
		w.Write([]byte(p.Subject))
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"no header", "", http.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", http.StatusUnauthorized, ""},
		{"valid token", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, validClaims("user-7")), http.StatusOK, "user-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/workflows", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", w.Body.String(), tt.wantBody)
			}
			if tt.wantStatus == http.StatusUnauthorized && w.Header().Get("WWW-Authenticate") == "" {
				t.Error("WWW-Authenticate header not set")
			}
		})
	}
}

func TestConfig_Finalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     auth.Config
		wantErr bool
	}{
		{"hmac default", auth.Config{Secret: string(secret)}, false},
		{"short secret", auth.Config{Secret: "short"}, true},
		{"oidc without issuer", auth.Config{Mode: auth.ModeOIDC}, true},
		{"oidc", auth.Config{Mode: auth.ModeOIDC, Issuer: "https://id.example.com"}, false},
		{"unknown mode", auth.Config{Mode: "saml"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("Finalize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Finalize_Env(t *testing.T) {
	t.Setenv("TEST_AUTH_MODE", "oidc")
	t.Setenv("TEST_AUTH_ISSUER", "https://id.example.com")

	cfg := auth.Config{}
	if err := cfg.Finalize(&auth.Env{Mode: "TEST_AUTH_MODE", Issuer: "TEST_AUTH_ISSUER"}); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if cfg.Mode != auth.ModeOIDC {
		t.Errorf("Mode = %q, want oidc", cfg.Mode)
	}
}
