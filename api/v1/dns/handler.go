package dns

import (
	"errors"
	"strconv"
	"strings"

	"govdns/internal/dnshost"
	"govdns/internal/domainutil"
	"govdns/internal/httpx"
	"govdns/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles DNS hosting API requests
type Handler struct {
	db      *gorm.DB
	service *dnshost.Service
}

// NewHandler creates a new DNS handler
func NewHandler(db *gorm.DB, service *dnshost.Service) *Handler {
	return &Handler{
		db:      db,
		service: service,
	}
}

// SetupRequest represents the request body for DNS setup
type SetupRequest struct {
	Domain string `json:"domain" binding:"required"`
}

// SetupResponse carries the resolved vendor ids
type SetupResponse struct {
	AccountID string `json:"account_id"`
	ZoneID    string `json:"zone_id"`
}

// Setup ensures a vendor account and zone exist for a registered domain
// POST /api/v1/dns/setup
func (h *Handler) Setup(c *gin.Context) {
	var req SetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}

	domainName, err := domainutil.Normalize(req.Domain)
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	accountID, zoneID, err := h.service.SetupDNS(c.Request.Context(), domainName)
	if err != nil {
		var apiErr *dnshost.APIError
		switch {
		case errors.As(err, &apiErr):
			httpx.FailErr(c, httpx.ErrVendorError("DNS provisioning failed, please try again later", err))
		case errors.Is(err, gorm.ErrDuplicatedKey):
			// Concurrent setup of the same domain tripped a uniqueness
			// constraint; the other request won.
			httpx.FailErr(c, httpx.ErrStateConflict("DNS setup already in progress for this domain", err))
		case strings.Contains(err.Error(), "is not registered"):
			httpx.FailErr(c, httpx.ErrNotFound(err.Error()))
		default:
			httpx.FailErr(c, httpx.ErrInternalError("DNS setup failed", err))
		}
		return
	}

	httpx.OK(c, SetupResponse{AccountID: accountID, ZoneID: zoneID})
}

// CreateRecordRequest represents the request body for creating a DNS record
type CreateRecordRequest struct {
	ZoneID  int                 `json:"zoneId" binding:"required"`
	Type    model.DNSRecordType `json:"type" binding:"required,oneof=A AAAA CNAME TXT MX NS"`
	Name    string              `json:"name" binding:"required"`
	Content string              `json:"content" binding:"required"`
	TTL     int                 `json:"ttl"`
	Comment string              `json:"comment"`
}

// CreateRecord stores a new DNS record for a local zone. The record is
// created pending; the sync worker pushes it to the vendor.
// POST /api/v1/dns/records/create
func (h *Handler) CreateRecord(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}

	var zone model.DNSZone
	if err := h.db.First(&zone, req.ZoneID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.FailErr(c, httpx.ErrNotFound("DNS zone not found"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to load DNS zone", err))
		return
	}

	name, err := domainutil.NormalizeRecordName(req.Name)
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if !domainutil.InZone(name, zone.Name) {
		httpx.FailErr(c, httpx.ErrParamInvalid("record name "+name+" is outside zone "+zone.Name))
		return
	}

	if req.TTL == 0 {
		req.TTL = 3600
	}

	record := model.DNSRecord{
		DNSZoneID: zone.ID,
		Type:      req.Type,
		Name:      name,
		Content:   req.Content,
		TTL:       req.TTL,
		Comment:   req.Comment,
		Status:    model.DNSRecordStatusPending,
	}

	if err := h.db.Create(&record).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to create DNS record", err))
		return
	}

	httpx.OK(c, record)
}

// ListRecords lists local DNS records for a zone
// GET /api/v1/dns/records?zoneId=N
func (h *Handler) ListRecords(c *gin.Context) {
	zoneID, err := strconv.Atoi(c.Query("zoneId"))
	if err != nil || zoneID < 1 {
		httpx.FailErr(c, httpx.ErrParamInvalid("zoneId is required"))
		return
	}

	var records []model.DNSRecord
	if err := h.db.Where("dns_zone_id = ?", zoneID).Order("id").Find(&records).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list DNS records", err))
		return
	}

	httpx.OK(c, records)
}

// ListZones lists local DNS zones, optionally filtered by domain
// GET /api/v1/dns/zones?domainId=N
func (h *Handler) ListZones(c *gin.Context) {
	query := h.db.Model(&model.DNSZone{})
	if domainID, err := strconv.Atoi(c.Query("domainId")); err == nil && domainID > 0 {
		query = query.Where("domain_id = ?", domainID)
	}

	var zones []model.DNSZone
	if err := query.Order("id").Find(&zones).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list DNS zones", err))
		return
	}

	httpx.OK(c, zones)
}
