package v1

import (
	"govdns/api/v1/auth"
	"govdns/api/v1/dns"
	"govdns/api/v1/domains"
	"govdns/api/v1/middleware"
	"govdns/internal/config"
	"govdns/internal/dnshost"
	"govdns/internal/httpx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter sets up the API v1 routes
func SetupRouter(r *gin.Engine, db *gorm.DB, cfg *config.Config, service *dnshost.Service) {
	v1 := r.Group("/api/v1")
	{
		// Public routes (no authentication required)
		v1.GET("/ping", pingHandler)

		// Auth routes
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", auth.LoginHandler(db, cfg))
		}

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthRequired())
		{
			domainsHandler := domains.NewHandler(db)
			domainsGroup := protected.Group("/domains")
			{
				domainsGroup.GET("", domainsHandler.List)
				domainsGroup.POST("/create", domainsHandler.Create)
			}

			dnsHandler := dns.NewHandler(db, service)
			dnsGroup := protected.Group("/dns")
			{
				dnsGroup.POST("/setup", dnsHandler.Setup)
				dnsGroup.GET("/zones", dnsHandler.ListZones)
				dnsGroup.GET("/records", dnsHandler.ListRecords)
				dnsGroup.POST("/records/create", dnsHandler.CreateRecord)
			}
		}
	}
}

// pingHandler handles the ping request using unified response
func pingHandler(c *gin.Context) {
	httpx.OK(c, gin.H{"pong": true})
}
