package model

import (
	"time"

	"gorm.io/datatypes"
)

// DNSZone represents a DNS zone hosted with the vendor for one registered
// domain. The zone name defaults to the domain's own name.
type DNSZone struct {
	BaseModel
	DomainID     int    `gorm:"not null;index" json:"domain_id"`
	DNSAccountID int    `gorm:"not null;index" json:"dns_account_id"`
	Name         string `gorm:"type:varchar(255);not null;index" json:"name"`
	SOAConfigID  int    `gorm:"index" json:"soa_config_id"`
}

// TableName specifies the table name for DNSZone model
func (DNSZone) TableName() string {
	return "dns_zones"
}

// VendorDNSZone records a vendor-assigned zone identifier plus vendor
// timestamps and raw payload
type VendorDNSZone struct {
	BaseModel
	Vendor           VendorName     `gorm:"type:varchar(32);not null;default:'cloudflare';uniqueIndex:ux_vendor_dns_zones_xid,priority:1" json:"vendor"`
	XZoneID          string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_vendor_dns_zones_xid,priority:2" json:"x_zone_id"`
	VendorCreatedAt  *time.Time     `json:"vendor_created_at"`
	VendorModifiedAt *time.Time     `json:"vendor_modified_at"`
	Payload          datatypes.JSON `gorm:"type:json" json:"payload"`
}

// TableName specifies the table name for VendorDNSZone model
func (VendorDNSZone) TableName() string {
	return "vendor_dns_zones"
}

// DNSZoneVendorLink joins a DNSZone to a VendorDNSZone with the same
// one-active-link invariant as the account join
type DNSZoneVendorLink struct {
	BaseModel
	DNSZoneID       int  `gorm:"not null;index;index:ux_dns_zone_active_link,unique,where:is_active = true" json:"dns_zone_id"`
	VendorDNSZoneID int  `gorm:"not null;index" json:"vendor_dns_zone_id"`
	IsActive        bool `gorm:"not null;default:false" json:"is_active"`
}

// TableName specifies the table name for DNSZoneVendorLink model
func (DNSZoneVendorLink) TableName() string {
	return "dns_zone_vendor_links"
}
