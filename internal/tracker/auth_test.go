package tracker

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExchangeCode_Success(t *testing.T) {
	t.Parallel()

	var gotForm map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm returned error: %v", err)
		}
		gotForm = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"bearer","expires_in":31536000,"scope":"tracker:read tracker:write"}`))
	}))
	t.Cleanup(server.Close)

	token, err := exchangeCode(testContext(t), server.URL, "client-1", "secret-1", " code-1 ")
	if err != nil {
		t.Fatalf("exchangeCode returned error: %v", err)
	}
	if token.AccessToken != "at-1" {
		t.Fatalf("AccessToken = %q, want at-1", token.AccessToken)
	}
	if token.Scope != "tracker:read tracker:write" {
		t.Fatalf("Scope = %q", token.Scope)
	}
	if token.ExpiresIn != 31536000 {
		t.Fatalf("ExpiresIn = %d, want 31536000", token.ExpiresIn)
	}

	if got := gotForm["grant_type"]; len(got) != 1 || got[0] != "authorization_code" {
		t.Fatalf("grant_type = %v", got)
	}
	if got := gotForm["code"]; len(got) != 1 || got[0] != "code-1" {
		t.Fatalf("code = %v, want trimmed code-1", got)
	}
	if got := gotForm["client_id"]; len(got) != 1 || got[0] != "client-1" {
		t.Fatalf("client_id = %v", got)
	}
	if got := gotForm["client_secret"]; len(got) != 1 || got[0] != "secret-1" {
		t.Fatalf("client_secret = %v", got)
	}
}

func TestExchangeCode_InvalidGrant(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Code has expired"}`))
	}))
	t.Cleanup(server.Close)

	_, err := exchangeCode(testContext(t), server.URL, "client-1", "secret-1", "stale")
	kind, ok := ErrKind(err)
	if !ok || kind != KindHTTP {
		t.Fatalf("error = %v, want KindHTTP", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Fatalf("Status = %d, want 400", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "invalid_grant") {
		t.Fatalf("Message = %q, want the provider error body", apiErr.Message)
	}
}

func TestExchangeCode_ValidatesInputs(t *testing.T) {
	ctx := testContext(t)
	if _, err := ExchangeCode(ctx, "", "secret", "code"); err == nil {
		t.Fatalf("ExchangeCode accepted an empty client id")
	}
	if _, err := ExchangeCode(ctx, "client", "  ", "code"); err == nil {
		t.Fatalf("ExchangeCode accepted a blank client secret")
	}
	if _, err := ExchangeCode(ctx, "client", "secret", ""); err == nil {
		t.Fatalf("ExchangeCode accepted an empty code")
	}
}

func TestTokenResponse_BearerConfig(t *testing.T) {
	token := TokenResponse{AccessToken: "at-1", TokenType: "bearer"}
	cfg := token.BearerConfig(OrgCloud)
	if cfg.Token != "at-1" {
		t.Fatalf("Token = %q", cfg.Token)
	}
	if cfg.AuthScheme != AuthBearer {
		t.Fatalf("AuthScheme = %v, want AuthBearer", cfg.AuthScheme)
	}
	if cfg.OrgType != OrgCloud {
		t.Fatalf("OrgType = %v, want OrgCloud", cfg.OrgType)
	}

	plain := TokenResponse{AccessToken: "at-2", TokenType: ""}
	if got := plain.BearerConfig(OrgYandex360).AuthScheme; got != AuthOAuth {
		t.Fatalf("AuthScheme = %v, want AuthOAuth default", got)
	}
}
