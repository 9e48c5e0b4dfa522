package dnshost

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"govdns/internal/model"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	setupCacheKeyPrefix = "govdns:dns_setup:"
	setupCacheTTL       = time.Hour
)

// Service orchestrates idempotent DNS provisioning against the vendor and
// persists vendor-confirmed state as local rows with active vendor links.
type Service struct {
	db     *gorm.DB
	client *Client
	cache  *redis.Client
	logger *logrus.Entry
}

// NewService creates a DNS host service. cache may be nil; it only skips
// repeat vendor pagination walks and is never required for correctness.
func NewService(db *gorm.DB, client *Client, cache *redis.Client, logger *logrus.Entry) *Service {
	return &Service{
		db:     db,
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// SetupDNS ensures a vendor account and zone exist for the given domain and
// returns their vendor ids. Safe to call repeatedly: existing vendor
// resources are discovered by name before anything is created, and partial
// progress from a failed earlier call is completed rather than duplicated.
// Vendor failures propagate as *APIError; partial progress is not rolled
// back.
func (s *Service) SetupDNS(ctx context.Context, domainName string) (string, string, error) {
	var domain model.Domain
	if err := s.db.Where("name = ?", domainName).First(&domain).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", fmt.Errorf("domain %q is not registered", domainName)
		}
		return "", "", err
	}

	if accountID, zoneID, ok := s.cachedSetup(ctx, domainName); ok {
		return accountID, zoneID, nil
	}

	accountName := AccountName(domainName)
	zoneName := domain.Name

	accounts, err := s.client.ListAccounts(ctx)
	if err != nil {
		s.logger.WithError(err).WithField("domain", domainName).Error("failed to list vendor accounts")
		return "", "", err
	}

	accountID, accountFound := accountIDByName(accounts, accountName)

	// A zone can only be searched within a found account; when the account
	// is missing the zone is missing by construction.
	zoneID := ""
	zoneFound := false
	if accountFound {
		zones, err := s.client.ListZones(ctx, accountID)
		if err != nil {
			s.logger.WithError(err).WithField("domain", domainName).Error("failed to list vendor zones")
			return "", "", err
		}
		zoneID, zoneFound = zoneIDByName(zones, zoneName)
	}

	var createdAccount *VendorAccount
	var createdZone *VendorZone

	if !accountFound {
		createdAccount, err = s.client.CreateAccount(ctx, accountName)
		if err != nil {
			s.logger.WithError(err).WithField("domain", domainName).Error("failed to create vendor account")
			return "", "", err
		}
		accountID = createdAccount.ID
		s.logger.WithFields(logrus.Fields{"domain": domainName, "account_id": accountID}).Info("created vendor account")
	}

	if !zoneFound {
		createdZone, err = s.client.CreateZone(ctx, accountID, zoneName)
		if err != nil {
			// The account may already exist at this point; a later call
			// will discover it and only retry the zone step.
			s.logger.WithError(err).WithField("domain", domainName).Error("failed to create vendor zone")
			return "", "", err
		}
		zoneID = createdZone.ID
		s.logger.WithFields(logrus.Fields{"domain": domainName, "zone_id": zoneID}).Info("created vendor zone")
	}

	if err := s.persistSetup(&domain, accountName, accountID, createdAccount, zoneName, zoneID, createdZone); err != nil {
		return "", "", err
	}

	s.storeCachedSetup(ctx, domainName, accountID, zoneID)
	return accountID, zoneID, nil
}

// CreateRecord creates a DNS record in a vendor zone via the resource layer
func (s *Service) CreateRecord(ctx context.Context, zoneID string, rec RecordData) (*VendorRecord, error) {
	record, err := s.client.CreateRecord(ctx, zoneID, rec)
	if err != nil {
		s.logger.WithError(err).WithField("zone_id", zoneID).Error("failed to create DNS record")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"zone_id": zoneID, "type": record.Type}).Info("created DNS record")
	return record, nil
}

// persistSetup writes the local account/zone rows, their vendor counterparts
// and the active links in a single transaction, so a crash cannot leave an
// entity without a vendor link while the vendor side already exists.
// A uniqueness violation (concurrent setup of the same domain) propagates
// raw as a datastore integrity error.
func (s *Service) persistSetup(domain *model.Domain, accountName, accountID string, createdAccount *VendorAccount, zoneName, zoneID string, createdZone *VendorZone) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := ensureAccountRows(tx, accountName, accountID, createdAccount)
		if err != nil {
			return err
		}

		if err := ensureZoneRows(tx, domain, account, zoneName, zoneID, createdZone); err != nil {
			return err
		}

		if domain.State == model.DomainStateDNSNeeded {
			if err := tx.Model(domain).Update("state", model.DomainStateReady).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ensureAccountRows finds or creates the DNSAccount, its VendorDNSAccount
// and the active link between them
func ensureAccountRows(tx *gorm.DB, accountName, accountID string, created *VendorAccount) (*model.DNSAccount, error) {
	var account model.DNSAccount
	err := tx.Where("name = ?", accountName).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = model.DNSAccount{Name: accountName}
		err = tx.Create(&account).Error
	}
	if err != nil {
		return nil, err
	}

	var vendor model.VendorDNSAccount
	err = tx.Where("vendor = ? AND x_account_id = ?", model.VendorCloudflare, accountID).First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		vendor = model.VendorDNSAccount{
			Vendor:     model.VendorCloudflare,
			XAccountID: accountID,
		}
		if created != nil {
			vendor.VendorCreatedAt = created.CreatedOn
			vendor.Payload = datatypes.JSON(created.Raw)
		}
		err = tx.Create(&vendor).Error
	}
	if err != nil {
		return nil, err
	}

	var link model.DNSAccountVendorLink
	err = tx.Where("dns_account_id = ? AND is_active = ?", account.ID, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		link = model.DNSAccountVendorLink{
			DNSAccountID:       account.ID,
			VendorDNSAccountID: vendor.ID,
			IsActive:           true,
		}
		err = tx.Create(&link).Error
	}
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// ensureZoneRows finds or creates the DNSZone, its VendorDNSZone and the
// active link between them. The zone name defaults to the domain's name.
func ensureZoneRows(tx *gorm.DB, domain *model.Domain, account *model.DNSAccount, zoneName, zoneID string, created *VendorZone) error {
	if zoneName == "" {
		zoneName = domain.Name
	}

	var zone model.DNSZone
	err := tx.Where("domain_id = ? AND name = ?", domain.ID, zoneName).First(&zone).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var soa model.DNSSOAConfig
		if soaErr := tx.Where("is_default = ?", true).First(&soa).Error; soaErr != nil && !errors.Is(soaErr, gorm.ErrRecordNotFound) {
			return soaErr
		}
		zone = model.DNSZone{
			DomainID:     domain.ID,
			DNSAccountID: account.ID,
			Name:         zoneName,
			SOAConfigID:  soa.ID,
		}
		err = tx.Create(&zone).Error
	}
	if err != nil {
		return err
	}

	var vendor model.VendorDNSZone
	err = tx.Where("vendor = ? AND x_zone_id = ?", model.VendorCloudflare, zoneID).First(&vendor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		vendor = model.VendorDNSZone{
			Vendor:  model.VendorCloudflare,
			XZoneID: zoneID,
		}
		if created != nil {
			vendor.VendorCreatedAt = created.CreatedOn
			vendor.VendorModifiedAt = created.ModifiedOn
			vendor.Payload = datatypes.JSON(created.Raw)
		}
		err = tx.Create(&vendor).Error
	}
	if err != nil {
		return err
	}

	var link model.DNSZoneVendorLink
	err = tx.Where("dns_zone_id = ? AND is_active = ?", zone.ID, true).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		link = model.DNSZoneVendorLink{
			DNSZoneID:       zone.ID,
			VendorDNSZoneID: vendor.ID,
			IsActive:        true,
		}
		err = tx.Create(&link).Error
	}
	return err
}

// GetPendingRecords retrieves local DNS records awaiting vendor sync
func (s *Service) GetPendingRecords(limit int) ([]model.DNSRecord, error) {
	var records []model.DNSRecord
	err := s.db.
		Where("status IN ?", []string{string(model.DNSRecordStatusPending), string(model.DNSRecordStatusError)}).
		Where("(next_retry_at IS NULL OR next_retry_at <= ?)", time.Now()).
		Limit(limit).
		Find(&records).Error
	return records, err
}

// MarkRecordActive persists the vendor counterpart of a synced local record:
// vendor row, active link and status flip happen in one transaction
func (s *Service) MarkRecordActive(recordID int, vr *VendorRecord) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		vendor := model.VendorDNSRecord{
			Vendor:           model.VendorCloudflare,
			XRecordID:        vr.ID,
			VendorCreatedAt:  vr.CreatedOn,
			VendorModifiedAt: vr.ModifiedOn,
			Payload:          datatypes.JSON(vr.Raw),
		}
		if err := tx.Create(&vendor).Error; err != nil {
			return err
		}

		link := model.DNSRecordVendorLink{
			DNSRecordID:       recordID,
			VendorDNSRecordID: vendor.ID,
			IsActive:          true,
		}
		if err := tx.Create(&link).Error; err != nil {
			return err
		}

		return tx.Model(&model.DNSRecord{}).
			Where("id = ?", recordID).
			Updates(map[string]interface{}{
				"status":     model.DNSRecordStatusActive,
				"last_error": "",
			}).Error
	})
}

// MarkRecordError marks a local record as failed and schedules the next
// retry with capped exponential backoff. After 10 attempts automatic
// retries stop (next_retry_at stays null).
func (s *Service) MarkRecordError(recordID int, errMsg string) error {
	var record model.DNSRecord
	if err := s.db.First(&record, recordID).Error; err != nil {
		return err
	}

	retryCount := record.RetryCount + 1

	var nextRetryAt *time.Time
	if retryCount < 10 {
		backoffSeconds := math.Min(math.Pow(2, float64(retryCount))*30, 1800)
		next := time.Now().Add(time.Duration(backoffSeconds) * time.Second)
		nextRetryAt = &next
	}

	if len(errMsg) > 255 {
		errMsg = errMsg[:252] + "..."
	}

	return s.db.Model(&model.DNSRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"status":        model.DNSRecordStatusError,
			"last_error":    errMsg,
			"retry_count":   retryCount,
			"next_retry_at": nextRetryAt,
		}).Error
}

// cachedSetup returns a previously resolved (accountID, zoneID) pair, if any
func (s *Service) cachedSetup(ctx context.Context, domainName string) (string, string, bool) {
	if s.cache == nil {
		return "", "", false
	}

	val, err := s.cache.Get(ctx, setupCacheKeyPrefix+domainName).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WithError(err).Warn("dns setup cache read failed")
		}
		return "", "", false
	}

	var accountID, zoneID string
	if _, err := fmt.Sscanf(val, "%s %s", &accountID, &zoneID); err != nil {
		return "", "", false
	}
	return accountID, zoneID, true
}

// storeCachedSetup caches a resolved pair; cache failures are only logged
func (s *Service) storeCachedSetup(ctx context.Context, domainName, accountID, zoneID string) {
	if s.cache == nil {
		return
	}

	val := fmt.Sprintf("%s %s", accountID, zoneID)
	if err := s.cache.Set(ctx, setupCacheKeyPrefix+domainName, val, setupCacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("dns setup cache write failed")
	}
}
