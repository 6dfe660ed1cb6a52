package tracker

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient builds a client against an httptest server with pacing
// disabled so tests run at full speed.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	cfg := NewConfig("test-token", OrgYandex360).
		WithBaseURL(serverURL).
		WithOrgID("org-7").
		WithAcceptLanguage("en").
		WithCooldown(0)
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestClient_SendsStandingHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display":"Jane Doe","login":"jdoe"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	me, err := client.Myself(testContext(t))
	if err != nil {
		t.Fatalf("Myself returned error: %v", err)
	}
	if me.Login != "jdoe" {
		t.Fatalf("Login = %q, want jdoe", me.Login)
	}
	if gotPath != "/v3/myself" {
		t.Fatalf("request path = %q, want /v3/myself", gotPath)
	}
	if auth := got.Get("Authorization"); auth != "OAuth test-token" {
		t.Fatalf("Authorization = %q, want %q", auth, "OAuth test-token")
	}
	if org := got.Get("X-Org-ID"); org != "org-7" {
		t.Fatalf("X-Org-ID = %q, want org-7", org)
	}
	if ua := got.Get("User-Agent"); ua != DefaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", ua, DefaultUserAgent)
	}
	if lang := got.Get("Accept-Language"); lang != "en" {
		t.Fatalf("Accept-Language = %q, want en", lang)
	}
}

func TestClient_CloudOrgHeader(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	cfg := NewConfig("tok", OrgCloud).WithBaseURL(server.URL).WithOrgID("cloud-9").WithCooldown(0)
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Myself(testContext(t)); err != nil {
		t.Fatalf("Myself returned error: %v", err)
	}
	if org := got.Get("X-Cloud-Org-ID"); org != "cloud-9" {
		t.Fatalf("X-Cloud-Org-ID = %q, want cloud-9", org)
	}
	if got.Get("X-Org-ID") != "" {
		t.Fatalf("X-Org-ID present on cloud org requests")
	}
}

func TestClient_NoOrgHeaderWithoutOrgID(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	cfg := NewConfig("tok", OrgYandex360).WithBaseURL(server.URL).WithCooldown(0)
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.Myself(testContext(t)); err != nil {
		t.Fatalf("Myself returned error: %v", err)
	}
	if _, present := got["X-Org-Id"]; present {
		t.Fatalf("X-Org-ID sent without an org id configured")
	}
	if _, present := got["X-Cloud-Org-Id"]; present {
		t.Fatalf("X-Cloud-Org-ID sent without an org id configured")
	}
}

func TestClient_UnauthorizedBecomesAuthenticationError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.Myself(testContext(t))
	if !IsKind(err, KindAuthentication) {
		t.Fatalf("Myself error = %v, want KindAuthentication", err)
	}
}

func TestClient_HTTPErrorCarriesStatusAndCode(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"issue_not_found","message":"gone"}`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.Issue(testContext(t), "TEST-1")
	kind, ok := ErrKind(err)
	if !ok || kind != KindHTTP {
		t.Fatalf("Issue error = %v, want KindHTTP", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error is not *Error: %v", err)
	}
	if apiErr.Status != 404 || apiErr.Code != "issue_not_found" {
		t.Fatalf("error = %+v, want status 404 code issue_not_found", apiErr)
	}
}

func TestClient_MalformedBodyBecomesSerializationError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)
	_, err := client.Myself(testContext(t))
	if !IsKind(err, KindSerialization) {
		t.Fatalf("Myself error = %v, want KindSerialization", err)
	}
}

func TestClient_ConnectionRefusedBecomesNetworkError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url)
	_, err := client.Myself(testContext(t))
	if !IsKind(err, KindNetwork) {
		t.Fatalf("Myself error = %v, want KindNetwork", err)
	}
}

func TestNew_RejectsEmptyToken(t *testing.T) {
	if _, err := New(NewConfig("   ", OrgYandex360)); err == nil {
		t.Fatalf("New accepted a blank token")
	}
}

func TestNew_RejectsUnsendableHeaderValues(t *testing.T) {
	cfg := NewConfig("tok\nwith-newline", OrgYandex360)
	if _, err := New(cfg); err == nil {
		t.Fatalf("New accepted a token with a control character")
	}
	cfg = NewConfig("tok", OrgYandex360).WithOrgID("org-é")
	if _, err := New(cfg); err == nil {
		t.Fatalf("New accepted a non-ASCII org id")
	}
}

func TestClient_FetchBinary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/files/att-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	}))
	t.Cleanup(server.Close)

	client := newTestClient(t, server.URL)

	// Relative reference resolves against the base URL.
	content, err := client.FetchBinary(testContext(t), "/files/att-1")
	if err != nil {
		t.Fatalf("FetchBinary returned error: %v", err)
	}
	if content.MimeType != "image/png" {
		t.Fatalf("MimeType = %q, want image/png", content.MimeType)
	}
	if len(content.Bytes) != 4 {
		t.Fatalf("len(Bytes) = %d, want 4", len(content.Bytes))
	}

	// Absolute references pass through untouched.
	content, err = client.FetchBinary(testContext(t), server.URL+"/files/att-1")
	if err != nil {
		t.Fatalf("FetchBinary(absolute) returned error: %v", err)
	}
	if len(content.Bytes) != 4 {
		t.Fatalf("len(Bytes) = %d, want 4", len(content.Bytes))
	}
}

func TestNewWithLimiter_SharesBudget(t *testing.T) {
	t.Parallel()

	limiter := NewRateLimiter(time.Hour)
	cfgA := NewConfig("tok-a", OrgYandex360)
	cfgB := NewConfig("tok-b", OrgYandex360)
	a, err := NewWithLimiter(cfgA, limiter)
	if err != nil {
		t.Fatalf("NewWithLimiter returned error: %v", err)
	}
	b, err := NewWithLimiter(cfgB, limiter)
	if err != nil {
		t.Fatalf("NewWithLimiter returned error: %v", err)
	}
	if a.Limiter() != b.Limiter() {
		t.Fatalf("clients did not share the limiter")
	}
}
