package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name      string
		cookie    string
		header    string
		wantToken string
		wantOK    bool
	}{
		{"cookie only", "cookie-token", "", "cookie-token", true},
		{"bearer header only", "", "Bearer header-token", "header-token", true},
		{"cookie wins over header", "cookie-token", "Bearer header-token", "cookie-token", true},
		{"empty cookie falls back to header", "", "Bearer header-token", "header-token", true},
		{"no credentials", "", "", "", false},
		{"malformed header scheme", "", "Basic abc123", "", false},
		{"bare token header", "", "just-a-token", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: tc.cookie})
			}
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			token, ok := extractToken(req)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if token != tc.wantToken {
				t.Errorf("token = %q, want %q", token, tc.wantToken)
			}
		})
	}
}
