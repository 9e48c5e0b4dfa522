package db

import (
	"fmt"
	"log"

	"govdns/internal/model"

	"gorm.io/gorm"
)

// Migrate runs database migrations for all models
func Migrate(db *gorm.DB) error {
	log.Println("Starting database migration...")

	// List of all models to migrate
	models := []interface{}{
		&model.User{},
		&model.Domain{},
		&model.DNSSOAConfig{},
		&model.DNSAccount{},
		&model.VendorDNSAccount{},
		&model.DNSAccountVendorLink{},
		&model.DNSZone{},
		&model.VendorDNSZone{},
		&model.DNSZoneVendorLink{},
		&model.DNSRecord{},
		&model.VendorDNSRecord{},
		&model.DNSRecordVendorLink{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := seedDefaultSOA(db); err != nil {
		return fmt.Errorf("failed to seed default SOA config: %w", err)
	}

	log.Printf("✓ Database migration completed successfully (%d tables)", len(models))
	return nil
}

// seedDefaultSOA ensures the system-wide default SOA row exists. New zones
// reference this row unless a zone-specific config is set.
func seedDefaultSOA(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.DNSSOAConfig{}).Where("is_default = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	soa := model.DNSSOAConfig{
		MName:      "ns1.gov-dns.example",
		RName:      "hostmaster.gov-dns.example",
		Refresh:    86400,
		Retry:      7200,
		Expire:     3600000,
		MinimumTTL: 3600,
		IsDefault:  true,
	}
	return db.Create(&soa).Error
}
