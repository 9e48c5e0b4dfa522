package domains

import (
	"errors"
	"strconv"

	"govdns/internal/domainutil"
	"govdns/internal/httpx"
	"govdns/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler handles domain API requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new domains handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateRequest represents the request body for registering a domain
type CreateRequest struct {
	Name         string `json:"name" binding:"required"`
	Organisation string `json:"organisation"`
}

// Create registers a new domain
// POST /api/v1/domains/create
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid("invalid request: "+err.Error()))
		return
	}

	name, err := domainutil.Normalize(req.Name)
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}

	// Only registrable apex domains may be registered; subdomains are
	// handled as records within their apex zone
	apex, err := domainutil.EffectiveApex(name)
	if err != nil {
		httpx.FailErr(c, httpx.ErrParamInvalid(err.Error()))
		return
	}
	if apex != name {
		httpx.FailErr(c, httpx.ErrParamInvalid("only apex domains can be registered, "+name+" belongs to "+apex))
		return
	}

	domain := model.Domain{
		Name:         name,
		Organisation: req.Organisation,
		State:        model.DomainStateDNSNeeded,
	}

	if err := h.db.Create(&domain).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httpx.FailErr(c, httpx.ErrAlreadyExists("domain is already registered"))
			return
		}
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to register domain", err))
		return
	}

	httpx.OK(c, domain)
}

// List lists registered domains with pagination
// GET /api/v1/domains
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := h.db.Model(&model.Domain{}).Count(&total).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to count domains", err))
		return
	}

	var items []model.Domain
	if err := h.db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&items).Error; err != nil {
		httpx.FailErr(c, httpx.ErrDatabaseError("failed to list domains", err))
		return
	}

	httpx.OKItems(c, items, total, page, pageSize)
}
