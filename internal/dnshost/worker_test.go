package dnshost

import (
	"context"
	"testing"
	"time"

	"govdns/internal/config"
	"govdns/internal/model"
)

func TestWorkerTick_SyncsPendingRecord(t *testing.T) {
	gdb := newServiceTestDB(t)
	fv := newFakeVendor()
	defer fv.Close()
	svc := newTestService(t, gdb, fv)

	registerDomain(t, gdb, "igorville.gov")
	if _, _, err := svc.SetupDNS(context.Background(), "igorville.gov"); err != nil {
		t.Fatalf("SetupDNS() failed: %v", err)
	}

	var zone model.DNSZone
	if err := gdb.Where("name = ?", "igorville.gov").First(&zone).Error; err != nil {
		t.Fatalf("expected local zone row: %v", err)
	}

	record := model.DNSRecord{
		DNSZoneID: zone.ID,
		Type:      model.DNSRecordTypeA,
		Name:      "www.igorville.gov",
		Content:   "10.0.0.1",
		TTL:       3600,
		Status:    model.DNSRecordStatusPending,
	}
	if err := gdb.Create(&record).Error; err != nil {
		t.Fatalf("failed to create pending record: %v", err)
	}

	w := NewWorker(gdb, svc, config.SyncWorkerConfig{Enabled: true, IntervalSec: 30, BatchSize: 10}, testLogger())
	w.tick()

	var synced model.DNSRecord
	if err := gdb.First(&synced, record.ID).Error; err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if synced.Status != model.DNSRecordStatusActive {
		t.Fatalf("Expected record status active, got %s (last_error=%q)", synced.Status, synced.LastError)
	}

	vendor, err := model.ActiveVendorRecord(gdb, record.ID)
	if err != nil {
		t.Fatalf("Expected active vendor record link: %v", err)
	}
	if vendor.XRecordID == "" {
		t.Error("Expected vendor-assigned record id")
	}
}

func TestWorkerTick_ZoneWithoutActiveLink(t *testing.T) {
	gdb := newServiceTestDB(t)
	fv := newFakeVendor()
	defer fv.Close()
	svc := newTestService(t, gdb, fv)

	domain := registerDomain(t, gdb, "igorville.gov")
	account := model.DNSAccount{Name: AccountName("igorville.gov")}
	if err := gdb.Create(&account).Error; err != nil {
		t.Fatal(err)
	}
	zone := model.DNSZone{DomainID: domain.ID, DNSAccountID: account.ID, Name: "igorville.gov"}
	if err := gdb.Create(&zone).Error; err != nil {
		t.Fatal(err)
	}

	record := model.DNSRecord{
		DNSZoneID: zone.ID,
		Type:      model.DNSRecordTypeA,
		Name:      "www.igorville.gov",
		Content:   "10.0.0.1",
		Status:    model.DNSRecordStatusPending,
	}
	if err := gdb.Create(&record).Error; err != nil {
		t.Fatal(err)
	}

	w := NewWorker(gdb, svc, config.SyncWorkerConfig{Enabled: true, IntervalSec: 30, BatchSize: 10}, testLogger())
	w.tick()

	var failed model.DNSRecord
	if err := gdb.First(&failed, record.ID).Error; err != nil {
		t.Fatal(err)
	}
	if failed.Status != model.DNSRecordStatusError {
		t.Fatalf("Expected record status error, got %s", failed.Status)
	}
	if failed.LastError != "zone has no active vendor link" {
		t.Errorf("Unexpected last error %q", failed.LastError)
	}
	if failed.RetryCount != 1 || failed.NextRetryAt == nil {
		t.Errorf("Expected retry scheduling, got count=%d next=%v", failed.RetryCount, failed.NextRetryAt)
	}
}

func TestMarkRecordError_Backoff(t *testing.T) {
	gdb := newServiceTestDB(t)
	fv := newFakeVendor()
	defer fv.Close()
	svc := newTestService(t, gdb, fv)

	record := model.DNSRecord{
		DNSZoneID: 1,
		Type:      model.DNSRecordTypeA,
		Name:      "www.igorville.gov",
		Content:   "10.0.0.1",
		Status:    model.DNSRecordStatusPending,
	}
	if err := gdb.Create(&record).Error; err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkRecordError(record.ID, "boom"); err != nil {
		t.Fatalf("MarkRecordError() failed: %v", err)
	}

	var failed model.DNSRecord
	gdb.First(&failed, record.ID)
	if failed.RetryCount != 1 {
		t.Fatalf("Expected retry count 1, got %d", failed.RetryCount)
	}
	if failed.NextRetryAt == nil {
		t.Fatal("Expected a scheduled retry")
	}
	// First retry backs off roughly a minute
	delay := time.Until(*failed.NextRetryAt)
	if delay < 50*time.Second || delay > 70*time.Second {
		t.Errorf("Expected ~60s backoff, got %s", delay)
	}

	// After ten attempts automatic retries stop
	gdb.Model(&model.DNSRecord{}).Where("id = ?", record.ID).Update("retry_count", 9)
	if err := svc.MarkRecordError(record.ID, "boom again"); err != nil {
		t.Fatalf("MarkRecordError() failed: %v", err)
	}
	failed = model.DNSRecord{}
	gdb.First(&failed, record.ID)
	if failed.RetryCount != 10 {
		t.Fatalf("Expected retry count 10, got %d", failed.RetryCount)
	}
	if failed.NextRetryAt != nil {
		t.Errorf("Expected retries to stop after 10 attempts, got next retry %v", failed.NextRetryAt)
	}
}

func TestMarkRecordError_TruncatesLongMessage(t *testing.T) {
	gdb := newServiceTestDB(t)
	fv := newFakeVendor()
	defer fv.Close()
	svc := newTestService(t, gdb, fv)

	record := model.DNSRecord{
		DNSZoneID: 1,
		Type:      model.DNSRecordTypeTXT,
		Name:      "igorville.gov",
		Content:   "v=spf1 -all",
		Status:    model.DNSRecordStatusPending,
	}
	if err := gdb.Create(&record).Error; err != nil {
		t.Fatal(err)
	}

	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	if err := svc.MarkRecordError(record.ID, string(long)); err != nil {
		t.Fatalf("MarkRecordError() failed: %v", err)
	}

	var failed model.DNSRecord
	gdb.First(&failed, record.ID)
	if len(failed.LastError) != 255 {
		t.Errorf("Expected error message capped at 255 chars, got %d", len(failed.LastError))
	}
}
