package model

import (
	"time"

	"gorm.io/datatypes"
)

// VendorName identifies a DNS hosting vendor
type VendorName string

const (
	VendorCloudflare VendorName = "cloudflare"
)

// DNSAccount represents one vendor hosting account scoped to one registered
// domain. The name is derived deterministically from the domain name and
// doubles as the vendor-side lookup key, so it must stay globally unique.
type DNSAccount struct {
	BaseModel
	Name string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
}

// TableName specifies the table name for DNSAccount model
func (DNSAccount) TableName() string {
	return "dns_accounts"
}

// VendorDNSAccount records a vendor-assigned account identifier together
// with the vendor-reported timestamps and the raw response payload
type VendorDNSAccount struct {
	BaseModel
	Vendor           VendorName     `gorm:"type:varchar(32);not null;default:'cloudflare';uniqueIndex:ux_vendor_dns_accounts_xid,priority:1" json:"vendor"`
	XAccountID       string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_vendor_dns_accounts_xid,priority:2" json:"x_account_id"`
	VendorCreatedAt  *time.Time     `json:"vendor_created_at"`
	VendorModifiedAt *time.Time     `json:"vendor_modified_at"`
	Payload          datatypes.JSON `gorm:"type:json" json:"payload"`
}

// TableName specifies the table name for VendorDNSAccount model
func (VendorDNSAccount) TableName() string {
	return "vendor_dns_accounts"
}

// DNSAccountVendorLink joins a DNSAccount to a VendorDNSAccount. At most one
// link per DNSAccount may be active at any time; the partial unique index
// enforces this on both insert and update. Dormant rows are kept for audit.
type DNSAccountVendorLink struct {
	BaseModel
	DNSAccountID       int  `gorm:"not null;index;index:ux_dns_account_active_link,unique,where:is_active = true" json:"dns_account_id"`
	VendorDNSAccountID int  `gorm:"not null;index" json:"vendor_dns_account_id"`
	IsActive           bool `gorm:"not null;default:false" json:"is_active"`
}

// TableName specifies the table name for DNSAccountVendorLink model
func (DNSAccountVendorLink) TableName() string {
	return "dns_account_vendor_links"
}
