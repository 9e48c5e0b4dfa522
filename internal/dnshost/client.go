package dnshost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"govdns/internal/config"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultRequestTimeout = 10 * time.Second

// Client issues authenticated HTTP calls to the DNS hosting vendor.
// Every transport and HTTP failure is captured and returned as a CallResult;
// call never returns a Go error, so callers must branch on Success.
type Client struct {
	baseURL  string
	email    string
	apiKey   string
	tenantID string
	http     *http.Client
	logger   *logrus.Entry
}

// NewClient creates a vendor API client from configuration
func NewClient(cfg config.VendorConfig, logger *logrus.Entry) *Client {
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if cfg.TimeoutSec <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		email:    cfg.Email,
		apiKey:   cfg.APIKey,
		tenantID: cfg.TenantID,
		http: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// CallResult is the uniform outcome of one vendor HTTP call
type CallResult struct {
	Success    bool
	StatusCode int
	Data       json.RawMessage

	// Populated only when Success is false
	Error   CallErrorKind
	Message string
	Details string
}

// httpStatusMessages maps well-known vendor status codes to human-readable
// messages. Unrecognized codes fall back to a generic "HTTP error {code}".
var httpStatusMessages = map[int]string{
	http.StatusBadRequest:          "Bad request - check the request payload",
	http.StatusUnauthorized:        "Unauthorized - check vendor API credentials",
	http.StatusForbidden:           "Forbidden - credentials lack permission for this resource",
	http.StatusNotFound:            "Not found - resource does not exist",
	http.StatusTooManyRequests:     "Rate limited - too many requests to the vendor API",
	http.StatusInternalServerError: "Internal server error on the vendor side",
	http.StatusBadGateway:          "Bad gateway - vendor upstream failure",
	http.StatusServiceUnavailable:  "Service unavailable - vendor API is down",
	http.StatusGatewayTimeout:      "Gateway timeout - vendor API took too long",
}

func httpStatusMessage(code int) string {
	if msg, ok := httpStatusMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("HTTP error %d", code)
}

// call performs one HTTP call against the vendor API. path is relative to
// the configured base URL; payload, when non-nil, is sent as a JSON body.
func (c *Client) call(ctx context.Context, method, path string, payload interface{}) CallResult {
	target := c.baseURL + path

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return c.failure(target, ErrKindRequest, "failed to encode request payload", err, 0)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return c.failure(target, ErrKindRequest, "failed to build request", err, 0)
	}

	req.Header.Set("X-Auth-Email", c.email)
	req.Header.Set("X-Auth-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		kind, msg := classifyTransportError(err)
		return c.failure(target, kind, msg, err, 0)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.failure(target, ErrKindRequest, "failed to read response body", err, resp.StatusCode)
	}

	if resp.StatusCode >= 400 {
		res := c.failure(target, ErrKindHTTP, httpStatusMessage(resp.StatusCode), nil, resp.StatusCode)
		res.Details = string(respBody)
		return res
	}

	return CallResult{
		Success:    true,
		StatusCode: resp.StatusCode,
		Data:       respBody,
	}
}

// failure builds a failed CallResult and logs it at error level
func (c *Client) failure(target string, kind CallErrorKind, message string, err error, status int) CallResult {
	details := ""
	if err != nil {
		details = err.Error()
	}

	entry := c.logger.WithFields(logrus.Fields{
		"url":    target,
		"kind":   string(kind),
		"status": status,
	})
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Error(message)

	return CallResult{
		Success:    false,
		StatusCode: status,
		Error:      kind,
		Message:    message,
		Details:    details,
	}
}

// classifyTransportError maps a failed http.Client.Do into the fixed error
// taxonomy. Order matters: timeouts are also url.Errors, so they are checked
// first.
func classifyTransportError(err error) (CallErrorKind, string) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout, "request timed out"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout, "request timed out"
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if strings.Contains(urlErr.Err.Error(), "stopped after") && strings.Contains(urlErr.Err.Error(), "redirects") {
			return ErrKindRedirects, "too many redirects"
		}
		var opErr *net.OpError
		var dnsErr *net.DNSError
		if errors.As(urlErr.Err, &opErr) || errors.As(urlErr.Err, &dnsErr) {
			return ErrKindConnection, "failed to connect to vendor API"
		}
		return ErrKindConnection, "failed to reach vendor API"
	}

	return ErrKindUnexpected, "unexpected error during vendor call"
}
