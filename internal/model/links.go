package model

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNoActiveLink is returned by the Active* accessors when a local entity
// has no active vendor link. Callers that tolerate absence must check for
// it explicitly instead of treating a zero value as "not linked".
var ErrNoActiveLink = errors.New("no active vendor link")

// ActiveVendorAccount returns the vendor account currently linked to the
// given local DNS account
func ActiveVendorAccount(db *gorm.DB, dnsAccountID int) (*VendorDNSAccount, error) {
	var vendor VendorDNSAccount
	err := db.
		Joins("JOIN dns_account_vendor_links l ON l.vendor_dns_account_id = vendor_dns_accounts.id").
		Where("l.dns_account_id = ? AND l.is_active = ?", dnsAccountID, true).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dns account %d: %w", dnsAccountID, ErrNoActiveLink)
		}
		return nil, err
	}
	return &vendor, nil
}

// ActiveVendorZone returns the vendor zone currently linked to the given
// local DNS zone
func ActiveVendorZone(db *gorm.DB, dnsZoneID int) (*VendorDNSZone, error) {
	var vendor VendorDNSZone
	err := db.
		Joins("JOIN dns_zone_vendor_links l ON l.vendor_dns_zone_id = vendor_dns_zones.id").
		Where("l.dns_zone_id = ? AND l.is_active = ?", dnsZoneID, true).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dns zone %d: %w", dnsZoneID, ErrNoActiveLink)
		}
		return nil, err
	}
	return &vendor, nil
}

// ActiveVendorRecord returns the vendor record currently linked to the given
// local DNS record
func ActiveVendorRecord(db *gorm.DB, dnsRecordID int) (*VendorDNSRecord, error) {
	var vendor VendorDNSRecord
	err := db.
		Joins("JOIN dns_record_vendor_links l ON l.vendor_dns_record_id = vendor_dns_records.id").
		Where("l.dns_record_id = ? AND l.is_active = ?", dnsRecordID, true).
		First(&vendor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("dns record %d: %w", dnsRecordID, ErrNoActiveLink)
		}
		return nil, err
	}
	return &vendor, nil
}
