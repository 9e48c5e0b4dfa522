package model

import (
	"time"

	"gorm.io/datatypes"
)

// DNSRecordType represents DNS record type
type DNSRecordType string

const (
	DNSRecordTypeA     DNSRecordType = "A"
	DNSRecordTypeAAAA  DNSRecordType = "AAAA"
	DNSRecordTypeCNAME DNSRecordType = "CNAME"
	DNSRecordTypeTXT   DNSRecordType = "TXT"
	DNSRecordTypeMX    DNSRecordType = "MX"
	DNSRecordTypeNS    DNSRecordType = "NS"
)

// DNSRecordStatus represents the sync status of a local DNS record
type DNSRecordStatus string

const (
	DNSRecordStatusPending DNSRecordStatus = "pending"
	DNSRecordStatusActive  DNSRecordStatus = "active"
	DNSRecordStatusError   DNSRecordStatus = "error"
)

// DNSRecord represents a DNS record scoped to one local DNS zone
type DNSRecord struct {
	BaseModel
	DNSZoneID   int             `gorm:"not null;index:idx_zone_type_name" json:"dns_zone_id"`
	Type        DNSRecordType   `gorm:"type:varchar(16);not null;index:idx_zone_type_name" json:"type"`
	Name        string          `gorm:"type:varchar(255);not null;index:idx_zone_type_name" json:"name"`
	Content     string          `gorm:"type:varchar(2048);not null" json:"content"`
	TTL         int             `gorm:"default:3600" json:"ttl"`
	Comment     string          `gorm:"type:varchar(255)" json:"comment"`
	Status      DNSRecordStatus `gorm:"type:varchar(16);default:'pending'" json:"status"`
	LastError   string          `gorm:"type:varchar(255)" json:"last_error"`
	RetryCount  int             `gorm:"default:0" json:"retry_count"`
	NextRetryAt *time.Time      `json:"next_retry_at"`
}

// TableName specifies the table name for DNSRecord model
func (DNSRecord) TableName() string {
	return "dns_records"
}

// VendorDNSRecord records a vendor-assigned record identifier plus vendor
// timestamps and raw payload
type VendorDNSRecord struct {
	BaseModel
	Vendor           VendorName     `gorm:"type:varchar(32);not null;default:'cloudflare';uniqueIndex:ux_vendor_dns_records_xid,priority:1" json:"vendor"`
	XRecordID        string         `gorm:"type:varchar(128);not null;uniqueIndex:ux_vendor_dns_records_xid,priority:2" json:"x_record_id"`
	VendorCreatedAt  *time.Time     `json:"vendor_created_at"`
	VendorModifiedAt *time.Time     `json:"vendor_modified_at"`
	Payload          datatypes.JSON `gorm:"type:json" json:"payload"`
}

// TableName specifies the table name for VendorDNSRecord model
func (VendorDNSRecord) TableName() string {
	return "vendor_dns_records"
}

// DNSRecordVendorLink joins a DNSRecord to a VendorDNSRecord with the same
// one-active-link invariant as the account and zone joins
type DNSRecordVendorLink struct {
	BaseModel
	DNSRecordID       int  `gorm:"not null;index;index:ux_dns_record_active_link,unique,where:is_active = true" json:"dns_record_id"`
	VendorDNSRecordID int  `gorm:"not null;index" json:"vendor_dns_record_id"`
	IsActive          bool `gorm:"not null;default:false" json:"is_active"`
}

// TableName specifies the table name for DNSRecordVendorLink model
func (DNSRecordVendorLink) TableName() string {
	return "dns_record_vendor_links"
}
