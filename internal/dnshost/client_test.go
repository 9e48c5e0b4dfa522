package dnshost

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"govdns/internal/config"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logrus.NewEntry(logger)
}

func testClient(baseURL string) *Client {
	return NewClient(config.VendorConfig{
		BaseURL:  baseURL,
		Email:    "registrar@example.gov",
		APIKey:   "test-key",
		TenantID: "test-tenant",
	}, testLogger())
}

func TestCall_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Auth-Email"); got != "registrar@example.gov" {
			t.Errorf("Expected auth email header, got %q", got)
		}
		if got := r.Header.Get("X-Auth-Key"); got != "test-key" {
			t.Errorf("Expected auth key header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("Expected X-Request-ID header")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"result":{"id":"abc"}}`))
	}))
	defer srv.Close()

	res := testClient(srv.URL).call(context.Background(), http.MethodGet, "/accounts", nil)
	if !res.Success {
		t.Fatalf("Expected success, got error %s: %s", res.Error, res.Message)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", res.StatusCode)
	}
	if len(res.Data) == 0 {
		t.Error("Expected raw body in Data")
	}
}

func TestCall_HTTPErrorClassification(t *testing.T) {
	tests := []struct {
		status  int
		message string
	}{
		{http.StatusNotFound, "Not found - resource does not exist"},
		{http.StatusUnauthorized, "Unauthorized - check vendor API credentials"},
		{http.StatusTooManyRequests, "Rate limited - too many requests to the vendor API"},
		{http.StatusInternalServerError, "Internal server error on the vendor side"},
		{http.StatusTeapot, "HTTP error 418"},
	}

	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		res := testClient(srv.URL).call(context.Background(), http.MethodGet, "/zones", nil)
		srv.Close()

		if res.Success {
			t.Errorf("status %d: expected failure", tt.status)
			continue
		}
		if res.Error != ErrKindHTTP {
			t.Errorf("status %d: expected http_error, got %s", tt.status, res.Error)
		}
		if res.StatusCode != tt.status {
			t.Errorf("Expected status %d, got %d", tt.status, res.StatusCode)
		}
		if res.Message != tt.message {
			t.Errorf("status %d: expected message %q, got %q", tt.status, tt.message, res.Message)
		}
	}
}

func TestCall_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	res := testClient(srv.URL).call(context.Background(), http.MethodGet, "/accounts", nil)
	if res.Success {
		t.Fatal("Expected failure against closed server")
	}
	if res.Error != ErrKindConnection {
		t.Errorf("Expected connection_error, got %s", res.Error)
	}
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.http.Timeout = 50 * time.Millisecond

	res := c.call(context.Background(), http.MethodGet, "/accounts", nil)
	if res.Success {
		t.Fatal("Expected timeout failure")
	}
	if res.Error != ErrKindTimeout {
		t.Errorf("Expected timeout, got %s", res.Error)
	}
}

func TestCall_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	res := testClient(srv.URL).call(context.Background(), http.MethodGet, "/accounts", nil)
	if res.Success {
		t.Fatal("Expected redirect failure")
	}
	if res.Error != ErrKindRedirects {
		t.Errorf("Expected too_many_redirects, got %s", res.Error)
	}
}

func TestCall_InvalidMethod(t *testing.T) {
	res := testClient("http://localhost:0").call(context.Background(), "BAD METHOD", "/accounts", nil)
	if res.Success {
		t.Fatal("Expected failure for invalid method")
	}
	if res.Error != ErrKindRequest {
		t.Errorf("Expected request_error, got %s", res.Error)
	}
}
