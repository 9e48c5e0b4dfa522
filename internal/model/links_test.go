package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newModelTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// :memory: gives each pooled connection its own database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&DNSAccount{},
		&VendorDNSAccount{},
		&DNSAccountVendorLink{},
		&Domain{},
		&DNSSOAConfig{},
		&DNSZone{},
		&VendorDNSZone{},
		&DNSZoneVendorLink{},
		&DNSRecord{},
		&VendorDNSRecord{},
		&DNSRecordVendorLink{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// isUniqueViolation matches both gorm's translated sentinel and the raw
// driver message, since translation coverage differs between drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(strings.ToLower(err.Error()), "unique")
}

func TestDNSAccountNameUnique(t *testing.T) {
	db := newModelTestDB(t)

	if err := db.Create(&DNSAccount{Name: "Account for igorville.gov"}).Error; err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err := db.Create(&DNSAccount{Name: "Account for igorville.gov"}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for duplicate account name, got %v", err)
	}
}

func TestVendorDNSAccountExternalIDUnique(t *testing.T) {
	db := newModelTestDB(t)

	if err := db.Create(&VendorDNSAccount{Vendor: VendorCloudflare, XAccountID: "acct-1"}).Error; err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	err := db.Create(&VendorDNSAccount{Vendor: VendorCloudflare, XAccountID: "acct-1"}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for duplicate (vendor, x_account_id), got %v", err)
	}
}

func TestAccountLink_AtMostOneActive(t *testing.T) {
	db := newModelTestDB(t)

	account := DNSAccount{Name: "Account for igorville.gov"}
	if err := db.Create(&account).Error; err != nil {
		t.Fatal(err)
	}
	v1 := VendorDNSAccount{Vendor: VendorCloudflare, XAccountID: "acct-1"}
	v2 := VendorDNSAccount{Vendor: VendorCloudflare, XAccountID: "acct-2"}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&v2).Error; err != nil {
		t.Fatal(err)
	}

	active := DNSAccountVendorLink{DNSAccountID: account.ID, VendorDNSAccountID: v1.ID, IsActive: true}
	if err := db.Create(&active).Error; err != nil {
		t.Fatalf("first active link failed: %v", err)
	}

	// A second active link for the same account must be rejected
	err := db.Create(&DNSAccountVendorLink{DNSAccountID: account.ID, VendorDNSAccountID: v2.ID, IsActive: true}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for second active link, got %v", err)
	}

	// Any number of dormant links is fine
	dormant := DNSAccountVendorLink{DNSAccountID: account.ID, VendorDNSAccountID: v2.ID, IsActive: false}
	if err := db.Create(&dormant).Error; err != nil {
		t.Fatalf("dormant link failed: %v", err)
	}

	// Flipping a dormant link active while another is active must also fail,
	// and must leave the original link untouched
	err = db.Model(&DNSAccountVendorLink{}).Where("id = ?", dormant.ID).Update("is_active", true).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation when activating second link, got %v", err)
	}

	var reloaded DNSAccountVendorLink
	if err := db.First(&reloaded, active.ID).Error; err != nil {
		t.Fatal(err)
	}
	if !reloaded.IsActive {
		t.Error("Original active link lost its active flag")
	}
}

func TestZoneLink_AtMostOneActive(t *testing.T) {
	db := newModelTestDB(t)

	v1 := VendorDNSZone{Vendor: VendorCloudflare, XZoneID: "zone-1"}
	v2 := VendorDNSZone{Vendor: VendorCloudflare, XZoneID: "zone-2"}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&v2).Error; err != nil {
		t.Fatal(err)
	}

	if err := db.Create(&DNSZoneVendorLink{DNSZoneID: 1, VendorDNSZoneID: v1.ID, IsActive: true}).Error; err != nil {
		t.Fatalf("first active link failed: %v", err)
	}

	err := db.Create(&DNSZoneVendorLink{DNSZoneID: 1, VendorDNSZoneID: v2.ID, IsActive: true}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for second active zone link, got %v", err)
	}

	// Same vendor zone may be actively linked from a different local zone
	if err := db.Create(&DNSZoneVendorLink{DNSZoneID: 2, VendorDNSZoneID: v1.ID, IsActive: true}).Error; err != nil {
		t.Errorf("Active link for a different zone failed: %v", err)
	}
}

func TestRecordLink_AtMostOneActive(t *testing.T) {
	db := newModelTestDB(t)

	v1 := VendorDNSRecord{Vendor: VendorCloudflare, XRecordID: "rec-1"}
	v2 := VendorDNSRecord{Vendor: VendorCloudflare, XRecordID: "rec-2"}
	if err := db.Create(&v1).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&v2).Error; err != nil {
		t.Fatal(err)
	}

	if err := db.Create(&DNSRecordVendorLink{DNSRecordID: 1, VendorDNSRecordID: v1.ID, IsActive: true}).Error; err != nil {
		t.Fatalf("first active link failed: %v", err)
	}

	err := db.Create(&DNSRecordVendorLink{DNSRecordID: 1, VendorDNSRecordID: v2.ID, IsActive: true}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for second active record link, got %v", err)
	}
}

func TestActiveVendorAccessors(t *testing.T) {
	db := newModelTestDB(t)

	account := DNSAccount{Name: "Account for igorville.gov"}
	if err := db.Create(&account).Error; err != nil {
		t.Fatal(err)
	}

	if _, err := ActiveVendorAccount(db, account.ID); !errors.Is(err, ErrNoActiveLink) {
		t.Errorf("Expected ErrNoActiveLink for unlinked account, got %v", err)
	}

	vendor := VendorDNSAccount{Vendor: VendorCloudflare, XAccountID: "acct-1"}
	if err := db.Create(&vendor).Error; err != nil {
		t.Fatal(err)
	}

	// A dormant link must not satisfy the lookup
	dormant := DNSAccountVendorLink{DNSAccountID: account.ID, VendorDNSAccountID: vendor.ID, IsActive: false}
	if err := db.Create(&dormant).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := ActiveVendorAccount(db, account.ID); !errors.Is(err, ErrNoActiveLink) {
		t.Errorf("Expected ErrNoActiveLink with only a dormant link, got %v", err)
	}

	active := DNSAccountVendorLink{DNSAccountID: account.ID, VendorDNSAccountID: vendor.ID, IsActive: true}
	if err := db.Create(&active).Error; err != nil {
		t.Fatal(err)
	}

	got, err := ActiveVendorAccount(db, account.ID)
	if err != nil {
		t.Fatalf("ActiveVendorAccount() failed: %v", err)
	}
	if got.XAccountID != "acct-1" {
		t.Errorf("Expected acct-1, got %s", got.XAccountID)
	}

	if _, err := ActiveVendorZone(db, 42); !errors.Is(err, ErrNoActiveLink) {
		t.Errorf("Expected ErrNoActiveLink for unknown zone, got %v", err)
	}
	if _, err := ActiveVendorRecord(db, 42); !errors.Is(err, ErrNoActiveLink) {
		t.Errorf("Expected ErrNoActiveLink for unknown record, got %v", err)
	}
}

func TestDNSSOAConfig_SingleDefault(t *testing.T) {
	db := newModelTestDB(t)

	first := DNSSOAConfig{MName: "ns1.gov-dns.example", RName: "hostmaster.gov-dns.example", IsDefault: true}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("first default failed: %v", err)
	}

	err := db.Create(&DNSSOAConfig{MName: "ns2.gov-dns.example", RName: "hostmaster.gov-dns.example", IsDefault: true}).Error
	if !isUniqueViolation(err) {
		t.Errorf("Expected unique violation for second default SOA config, got %v", err)
	}

	// Non-default configs are unconstrained
	if err := db.Create(&DNSSOAConfig{MName: "ns2.gov-dns.example", RName: "hostmaster.gov-dns.example"}).Error; err != nil {
		t.Errorf("Non-default SOA config failed: %v", err)
	}
}
