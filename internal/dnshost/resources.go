package dnshost

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Vendor listings are paginated with small page sizes; pages are aggregated
// into one slice before returning since call volume is low.
const listPerPage = 50

// vendorMessage is one entry of the envelope's errors/messages arrays
type vendorMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// resultInfo carries the vendor's pagination cursor
type resultInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
	Count      int `json:"count"`
	TotalCount int `json:"total_count"`
}

// vendorEnvelope is the top-level shape of every vendor response
type vendorEnvelope struct {
	Success    bool            `json:"success"`
	Result     json.RawMessage `json:"result"`
	Errors     []vendorMessage `json:"errors"`
	Messages   []vendorMessage `json:"messages"`
	ResultInfo *resultInfo     `json:"result_info"`
}

// VendorAccount is a vendor-side hosting account
type VendorAccount struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedOn *time.Time `json:"created_on"`

	// Raw keeps the untouched result object for local persistence
	Raw json.RawMessage `json:"-"`
}

// VendorZone is a vendor-side DNS zone
type VendorZone struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	CreatedOn  *time.Time `json:"created_on"`
	ModifiedOn *time.Time `json:"modified_on"`

	Raw json.RawMessage `json:"-"`
}

// VendorRecord is a vendor-side DNS record
type VendorRecord struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Name       string     `json:"name"`
	Content    string     `json:"content"`
	TTL        int        `json:"ttl"`
	Comment    string     `json:"comment"`
	CreatedOn  *time.Time `json:"created_on"`
	ModifiedOn *time.Time `json:"modified_on"`

	Raw json.RawMessage `json:"-"`
}

// RecordData is the input for creating a DNS record in a vendor zone
type RecordData struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl"`
	Comment string `json:"comment,omitempty"`
}

// parseEnvelope bridges the client's returned-result convention into the
// raised-error convention of the resource functions: a non-success call or
// a success=false envelope both come back as *APIError.
func parseEnvelope(res CallResult) (*vendorEnvelope, error) {
	if !res.Success {
		return nil, newAPIError(res)
	}

	var env vendorEnvelope
	if err := json.Unmarshal(res.Data, &env); err != nil {
		return nil, &APIError{
			Kind:       ErrKindUnexpected,
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("failed to parse vendor response: %v", err),
		}
	}

	if !env.Success {
		return nil, &APIError{
			Kind:       ErrKindVendor,
			StatusCode: res.StatusCode,
			Message:    formatVendorErrors(env.Errors),
		}
	}

	return &env, nil
}

// formatVendorErrors flattens the envelope's errors array into one message
func formatVendorErrors(errs []vendorMessage) string {
	if len(errs) == 0 {
		return "vendor reported failure without error details"
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("[%d] %s", e.Code, e.Message))
	}
	return strings.Join(parts, "; ")
}

// CreateAccount creates a vendor hosting account with the given name
func (c *Client) CreateAccount(ctx context.Context, name string) (*VendorAccount, error) {
	payload := map[string]interface{}{
		"name": name,
		"type": "standard",
	}

	env, err := parseEnvelope(c.call(ctx, http.MethodPost, "/accounts", payload))
	if err != nil {
		return nil, err
	}

	var account VendorAccount
	if err := json.Unmarshal(env.Result, &account); err != nil {
		return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse created account: %v", err)}
	}
	account.Raw = env.Result
	return &account, nil
}

// ListAccounts lists all hosting accounts under the configured tenant,
// walking the vendor's pagination until exhausted
func (c *Client) ListAccounts(ctx context.Context) ([]VendorAccount, error) {
	var accounts []VendorAccount

	for page := 1; ; page++ {
		path := fmt.Sprintf("/tenants/%s/accounts?page=%d&per_page=%d", url.PathEscape(c.tenantID), page, listPerPage)
		env, err := parseEnvelope(c.call(ctx, http.MethodGet, path, nil))
		if err != nil {
			return nil, err
		}

		batch, err := parseAccountList(env.Result)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, batch...)

		if lastPage(env.ResultInfo, page, len(batch)) {
			break
		}
	}

	return accounts, nil
}

// CreateZone creates a DNS zone under the given vendor account
func (c *Client) CreateZone(ctx context.Context, accountID, name string) (*VendorZone, error) {
	payload := map[string]interface{}{
		"name": name,
		"account": map[string]string{
			"id": accountID,
		},
	}

	env, err := parseEnvelope(c.call(ctx, http.MethodPost, "/zones", payload))
	if err != nil {
		return nil, err
	}

	var zone VendorZone
	if err := json.Unmarshal(env.Result, &zone); err != nil {
		return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse created zone: %v", err)}
	}
	zone.Raw = env.Result
	return &zone, nil
}

// ListZones lists the zones owned by one vendor account, walking pagination
func (c *Client) ListZones(ctx context.Context, accountID string) ([]VendorZone, error) {
	var zones []VendorZone

	for page := 1; ; page++ {
		path := fmt.Sprintf("/zones?account.id=%s&page=%d&per_page=%d", url.QueryEscape(accountID), page, listPerPage)
		env, err := parseEnvelope(c.call(ctx, http.MethodGet, path, nil))
		if err != nil {
			return nil, err
		}

		batch, err := parseZoneList(env.Result)
		if err != nil {
			return nil, err
		}
		zones = append(zones, batch...)

		if lastPage(env.ResultInfo, page, len(batch)) {
			break
		}
	}

	return zones, nil
}

// CreateRecord creates a DNS record in the given vendor zone
func (c *Client) CreateRecord(ctx context.Context, zoneID string, rec RecordData) (*VendorRecord, error) {
	path := fmt.Sprintf("/zones/%s/dns_records", url.PathEscape(zoneID))

	env, err := parseEnvelope(c.call(ctx, http.MethodPost, path, rec))
	if err != nil {
		return nil, err
	}

	var record VendorRecord
	if err := json.Unmarshal(env.Result, &record); err != nil {
		return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse created record: %v", err)}
	}
	record.Raw = env.Result
	return &record, nil
}

// lastPage reports whether pagination is exhausted. A missing result_info or
// an empty batch both end the walk.
func lastPage(info *resultInfo, page, batchLen int) bool {
	if batchLen == 0 {
		return true
	}
	if info == nil {
		return true
	}
	return page >= info.TotalPages
}

func parseAccountList(result json.RawMessage) ([]VendorAccount, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(result, &raws); err != nil {
		return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse account list: %v", err)}
	}

	accounts := make([]VendorAccount, 0, len(raws))
	for _, raw := range raws {
		var a VendorAccount
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse account entry: %v", err)}
		}
		a.Raw = raw
		accounts = append(accounts, a)
	}
	return accounts, nil
}

func parseZoneList(result json.RawMessage) ([]VendorZone, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(result, &raws); err != nil {
		return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse zone list: %v", err)}
	}

	zones := make([]VendorZone, 0, len(raws))
	for _, raw := range raws {
		var z VendorZone
		if err := json.Unmarshal(raw, &z); err != nil {
			return nil, &APIError{Kind: ErrKindUnexpected, Message: fmt.Sprintf("failed to parse zone entry: %v", err)}
		}
		z.Raw = raw
		zones = append(zones, z)
	}
	return zones, nil
}
